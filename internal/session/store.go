// Package session is the console's login gate. A session is LoggedIn from a
// successful remote login until an explicit logout or expiry, then LoggedOut
// for good; a new login creates a new session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/authmonitor/internal/dashboard"
	"github.com/baharkarakas/authmonitor/internal/metrics"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

type Session struct {
	ID         string
	Username   string
	LoggedInAt time.Time
	ExpiresAt  time.Time
	Dashboard  *dashboard.Controller

	mu    sync.Mutex
	state State
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// end moves the session to LoggedOut; reports false if it already was.
func (s *Session) end() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == LoggedOut {
		return false
	}
	s.state = LoggedOut
	return true
}

type Store struct {
	ttl          time.Duration
	newDashboard func() *dashboard.Controller
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(ttl time.Duration, newDashboard func() *dashboard.Controller) *Store {
	return &Store{
		ttl:          ttl,
		newDashboard: newDashboard,
		now:          time.Now,
		sessions:     map[string]*Session{},
	}
}

func (st *Store) TTL() time.Duration { return st.ttl }

// Login opens a LoggedIn session for a user the remote API just accepted.
func (st *Store) Login(username string) *Session {
	now := st.now()
	s := &Session{
		ID:         uuid.NewString(),
		Username:   username,
		LoggedInAt: now,
		ExpiresAt:  now.Add(st.ttl),
		Dashboard:  st.newDashboard(),
		state:      LoggedIn,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	metrics.SessionTransitions.WithLabelValues(LoggedIn.String(), "login").Inc()
	slog.Info("session opened", "sid", s.ID, "user", username)
	return s
}

// Get returns a LoggedIn session. An expired one is logged out on the way.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !st.now().Before(s.ExpiresAt) {
		st.remove(s, "expired")
		return nil, ErrExpired
	}
	if s.State() != LoggedIn {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Logout(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	st.remove(s, "logout")
	return nil
}

// Sweep logs out every expired session and returns how many there were.
func (st *Store) Sweep() int {
	now := st.now()
	var expired []*Session
	st.mu.Lock()
	for _, s := range st.sessions {
		if !now.Before(s.ExpiresAt) {
			expired = append(expired, s)
		}
	}
	st.mu.Unlock()
	for _, s := range expired {
		st.remove(s, "expired")
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
func (st *Store) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(); n > 0 {
				slog.Debug("expired sessions swept", "count", n)
			}
		}
	}
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) remove(s *Session, reason string) {
	st.mu.Lock()
	if cur, ok := st.sessions[s.ID]; ok && cur == s {
		delete(st.sessions, s.ID)
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if s.end() {
		metrics.ActiveSessions.Set(float64(n))
		metrics.SessionTransitions.WithLabelValues(LoggedOut.String(), reason).Inc()
		slog.Info("session closed", "sid", s.ID, "user", s.Username, "reason", reason)
	}
}
