package middleware

import (
	"context"

	"github.com/baharkarakas/authmonitor/internal/session"
)

type sessionKey struct{}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session put there by SessionGate, or nil.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}
