package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/permission"
	"github.com/hospadmin/hospital-admin/internal/transport"
)

// RequirePermission gates a route on a permission token. The session
// middleware must have run first; a request that reaches this without a
// session is answered with 401.
func RequirePermission(required string, lg *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg, false)
	requiredToken := permission.ParseToken(required)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.SessionFromContext(r.Context())
			if !ok {
				base.WriteError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			granted := permission.Parse(user.Permissions)
			if !granted.Allows(requiredToken) {
				base.Logger.Warn("access denied",
					"user_id", user.ID,
					"required_permission", required,
					"user_permissions", user.Permissions)
				base.WriteError(w, http.StatusForbidden, internal.ErrNoPermission.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
