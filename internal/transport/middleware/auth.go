package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/transport"
)

// TokenVerifier checks a bearer token and yields the identity id it carries.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// SessionLoader resolves the identity bundle (user joined with role name,
// permission expression and department name). A nil user with nil error
// means the identity is missing or disabled.
type SessionLoader interface {
	SessionUser(userID int64) (*internal.SessionUser, error)
}

// SessionMiddleware authenticates every request except login: it decodes the
// bearer token, loads the acting identity and attaches it to the request
// context.
type SessionMiddleware struct {
	*transport.BaseHandler
	verifier TokenVerifier
	loader   SessionLoader
}

func NewSessionMiddleware(verifier TokenVerifier, loader SessionLoader, lg *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		BaseHandler: transport.NewBaseHandler(lg, false),
		verifier:    verifier,
		loader:      loader,
	}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.ExtractTokenFromHeader(r)
		if token == "" {
			m.WriteError(w, http.StatusUnauthorized, internal.ErrMissingToken.Message)
			return
		}

		userID, err := m.verifier.Verify(token)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok {
				m.WriteError(w, appErr.StatusCode, appErr.Message)
				return
			}
			m.WriteError(w, http.StatusUnauthorized, internal.ErrInvalidToken.Message)
			return
		}

		user, err := m.loader.SessionUser(userID)
		if err != nil {
			m.Logger.Error("session resolution failed", "user_id", userID, "error", err)
			m.WriteError(w, http.StatusInternalServerError, "authentication failed")
			return
		}
		if user == nil || user.Status != 1 {
			m.WriteError(w, http.StatusUnauthorized, internal.ErrUserInactive.Message)
			return
		}

		next.ServeHTTP(w, r.WithContext(internal.ContextWithSession(r.Context(), user)))
	})
}

// ClientIP picks the caller address recorded in operation logs.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
