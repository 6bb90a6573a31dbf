package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// RequireCronSecret gates scheduled-task endpoints behind the shared secret the
// external scheduler sends as a bearer token. A mismatch short-circuits before
// any pipeline work: no catalog fetch, no queue read, no email send.
func RequireCronSecret(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				logger.WarnContext(ctx, "unauthorized trigger attempt",
					"request_id", RequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, err := w.Write([]byte(`{"message":"Unauthorized"}`))
				if err != nil {
					logger.ErrorContext(ctx, "failed to write unauthorized response",
						"error", err,
						"request_id", RequestID(ctx),
					)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
