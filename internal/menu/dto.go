package menu

import (
	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

type CreateMenuDTO struct {
	Name        string  `json:"name"`
	Path        *string `json:"path"`
	Component   *string `json:"component"`
	Icon        *string `json:"icon"`
	ParentID    int64   `json:"parent_id"`
	SortOrder   int     `json:"sort_order"`
	MenuType    int     `json:"menu_type"`
	Permissions *string `json:"permissions"`
}

func (d CreateMenuDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(50)
	v.Field("path", d.Path).MaxLength(100)
	v.Field("component", d.Component).MaxLength(100)
	v.Field("menu_type", d.MenuType).OneOfInt(TypeDirectory, TypePage)
	v.Field("permissions", d.Permissions).MaxLength(255)
	return v.Validate()
}

type UpdateMenuDTO struct {
	Name        *string `json:"name"`
	Path        *string `json:"path"`
	Component   *string `json:"component"`
	Icon        *string `json:"icon"`
	ParentID    *int64  `json:"parent_id"`
	SortOrder   *int    `json:"sort_order"`
	MenuType    *int    `json:"menu_type"`
	Status      *int    `json:"status"`
	Permissions *string `json:"permissions"`
}

func (d UpdateMenuDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).MaxLength(50)
	v.Field("path", d.Path).MaxLength(100)
	v.Field("component", d.Component).MaxLength(100)
	v.Field("menu_type", d.MenuType).OneOfInt(TypeDirectory, TypePage)
	v.Field("status", d.Status).OneOfInt(0, 1)
	v.Field("permissions", d.Permissions).MaxLength(255)
	return v.Validate()
}
