package auth

import (
	"net/http"
	"strings"
	"time"
)

const CookieName = "authmonitor_session"

func SetCookie(w http.ResponseWriter, token string, exp time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest reads the session cookie, falling back to a bearer token
// for non-browser callers.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	ah := r.Header.Get("Authorization")
	if len(ah) > 7 && strings.EqualFold(ah[:7], "bearer ") {
		return strings.TrimSpace(ah[7:])
	}
	return ""
}
