package user

import (
	"regexp"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-]{5,20}$`)

type CreateUserDTO struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	RealName     *string `json:"real_name"`
	Avatar       *string `json:"avatar"`
	RoleID       *int64  `json:"role_id"`
	DepartmentID *int64  `json:"department_id"`
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().Alphanumeric().MinLength(3).MaxLength(50)
	v.Field("password", d.Password).Required().MinLength(6)
	v.Field("email", d.Email).Email().MaxLength(100)
	v.Field("phone", d.Phone).Pattern(phonePattern, "phone is not a valid phone number")
	v.Field("real_name", d.RealName).MaxLength(50)
	v.Field("role_id", d.RoleID).Required()
	return v.Validate()
}

type UpdateUserDTO struct {
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	RealName     *string `json:"real_name"`
	Avatar       *string `json:"avatar"`
	RoleID       *int64  `json:"role_id"`
	DepartmentID *int64  `json:"department_id"`
	Status       *int    `json:"status"`
}

func (d UpdateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Email().MaxLength(100)
	v.Field("phone", d.Phone).Pattern(phonePattern, "phone is not a valid phone number")
	v.Field("real_name", d.RealName).MaxLength(50)
	v.Field("status", d.Status).OneOfInt(StatusDisabled, StatusActive)
	return v.Validate()
}

type ResetPasswordDTO struct {
	Password string `json:"password"`
}

func (d ResetPasswordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("password", d.Password).Required().MinLength(6)
	return v.Validate()
}
