package auth

import (
	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("old_password", d.OldPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(6)
	return v.Validate()
}

// LoginResult is the login response body: the bearer token and the
// session bundle, never the stored hash.
type LoginResult struct {
	Token string               `json:"token"`
	User  internal.SessionUser `json:"user"`
}
