package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// NewAuthRateLimit throttles credential endpoints per client IP.
func NewAuthRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
		}),
	)
}
