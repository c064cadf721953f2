package internal

import (
	"context"
	"time"
)

type ctxKey string

const contextSessionKey ctxKey = "sessionUser"

// SessionUser is the identity bundle the auth middleware resolves once per
// request and hands to downstream handlers.
type SessionUser struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	RealName       *string `json:"real_name,omitempty"`
	Avatar         *string `json:"avatar,omitempty"`
	Status         int     `json:"status"`
	RoleID         *int64  `json:"role_id,omitempty"`
	DepartmentID   *int64  `json:"department_id,omitempty"`
	RoleName       *string `json:"role_name,omitempty"`
	Permissions    string  `json:"permissions"`
	DepartmentName *string `json:"department_name,omitempty"`
}

func SessionFromContext(ctx context.Context) (*SessionUser, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(contextSessionKey).(*SessionUser)
	return user, ok && user != nil
}

func ContextWithSession(ctx context.Context, user *SessionUser) context.Context {
	return context.WithValue(ctx, contextSessionKey, user)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
