package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hospadmin/hospital-admin/pkg/logger"
)

// RecoveryMiddleware converts handler panics into a 500 envelope so one
// bad request cannot take the process down.
func RecoveryMiddleware(fallback *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					lg := logger.From(r.Context())
					if lg == nil {
						lg = fallback
					}
					lg.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprint(w, `{"status":"error","message":"internal server error"}`)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
