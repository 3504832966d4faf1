// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/baharkarakas/authmonitor/internal/api/httpx"
	"github.com/baharkarakas/authmonitor/internal/auth"
)

// EntryPath is the auth screen unauthenticated browsers are sent to.
const EntryPath = "/login"

type SessionGate struct {
	Auth         *auth.Controller
	SecureCookie bool
}

func NewSessionGate(a *auth.Controller, secureCookie bool) *SessionGate {
	return &SessionGate{Auth: a, SecureCookie: secureCookie}
}

// Require lets LoggedIn sessions through. Anything else is redirected to the
// entry screen (browser navigation) or answered 401 (API calls).
func (g *SessionGate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)
		s, err := g.Auth.Resolve(token)
		if err != nil {
			if token != "" {
				auth.ClearCookie(w, g.SecureCookie)
			}
			if wantsHTML(r) {
				http.Redirect(w, r, EntryPath, http.StatusSeeOther)
				return
			}
			httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "login required", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}
