package department

import (
	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

type CreateDepartmentDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ParentID    int64   `json:"parent_id"`
	SortOrder   int     `json:"sort_order"`
	ManagerID   *int64  `json:"manager_id"`
}

func (d CreateDepartmentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(50)
	v.Field("description", d.Description).MaxLength(255)
	return v.Validate()
}

type UpdateDepartmentDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *int64  `json:"parent_id"`
	SortOrder   *int    `json:"sort_order"`
	ManagerID   *int64  `json:"manager_id"`
	Status      *int    `json:"status"`
}

func (d UpdateDepartmentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).MaxLength(50)
	v.Field("description", d.Description).MaxLength(255)
	v.Field("status", d.Status).OneOfInt(0, 1)
	return v.Validate()
}
