package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/baharkarakas/authmonitor/internal/api/httpx"
)

type tokenBucket struct {
	mu     sync.Mutex
	tokens int
	last   time.Time
	rate   int
	burst  int
}

// RateLimit is one process-wide token bucket; rps <= 0 disables it.
func RateLimit(rps int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	tb := &tokenBucket{
		tokens: rps,
		last:   time.Now(),
		rate:   rps,
		burst:  rps,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tb.take(time.Now()) {
				httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (tb *tokenBucket) take(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	elapsed := now.Sub(tb.last).Seconds()
	if elapsed > 0 {
		refill := int(elapsed * float64(tb.rate))
		if refill > 0 {
			tb.tokens = min(tb.tokens+refill, tb.burst)
			tb.last = now
		}
	}
	if tb.tokens <= 0 {
		return false
	}
	tb.tokens--
	return true
}
