package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"household-finance/pkg/logger"
)

// RequestLogger stores a logger tagged with the request id in the request
// context and logs one line per request once the handler returns.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestLog := log.With("request_id", chimw.GetReqID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.ToContext(r.Context(), requestLog)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			}

			switch {
			case status >= http.StatusInternalServerError:
				requestLog.Error("http: request", args...)
			case status >= http.StatusBadRequest:
				requestLog.Warn("http: request", args...)
			default:
				requestLog.Info("http: request", args...)
			}
		})
	}
}
