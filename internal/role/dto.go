package role

import (
	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

type CreateRoleDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Permissions *string `json:"permissions"`
	MenuIDs     []int64 `json:"menu_ids"`
}

func (d CreateRoleDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(50)
	v.Field("description", d.Description).MaxLength(255)
	return v.Validate()
}

// UpdateRoleDTO distinguishes "menu_ids absent" from "menu_ids: []": nil
// leaves assignments alone, an empty list clears them.
type UpdateRoleDTO struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Permissions *string  `json:"permissions"`
	Status      *int     `json:"status"`
	MenuIDs     *[]int64 `json:"menu_ids"`
}

func (d UpdateRoleDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).MaxLength(50)
	v.Field("description", d.Description).MaxLength(255)
	v.Field("status", d.Status).OneOfInt(0, 1)
	return v.Validate()
}
