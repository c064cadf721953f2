package employee

import (
	"regexp"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// EmployeeDTO is the full write shape, used by create and update alike
// the way the personnel form submits every field.
type EmployeeDTO struct {
	EmployeeNumber        string   `json:"employee_number"`
	Name                  string   `json:"name"`
	Gender                *string  `json:"gender"`
	BirthDate             *string  `json:"birth_date"`
	IDCard                *string  `json:"id_card"`
	Phone                 *string  `json:"phone"`
	Email                 *string  `json:"email"`
	Address               *string  `json:"address"`
	Education             *string  `json:"education"`
	MaritalStatus         *string  `json:"marital_status"`
	DepartmentID          *int64   `json:"department_id"`
	Position              *string  `json:"position"`
	HireDate              *string  `json:"hire_date"`
	Status                *string  `json:"status"`
	Salary                *float64 `json:"salary"`
	EmergencyContactName  *string  `json:"emergency_contact_name"`
	EmergencyContactPhone *string  `json:"emergency_contact_phone"`
	Photo                 *string  `json:"photo"`
	Notes                 *string  `json:"notes"`
}

func (d EmployeeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_number", d.EmployeeNumber).Required().MaxLength(20)
	v.Field("name", d.Name).Required().MaxLength(50)
	v.Field("birth_date", d.BirthDate).Pattern(datePattern, "birth_date must be yyyy-mm-dd")
	v.Field("hire_date", d.HireDate).Pattern(datePattern, "hire_date must be yyyy-mm-dd")
	v.Field("id_card", d.IDCard).MaxLength(18)
	v.Field("phone", d.Phone).MaxLength(20)
	v.Field("email", d.Email).Email().MaxLength(100)
	v.Field("education", d.Education).MaxLength(20)
	v.Field("position", d.Position).MaxLength(50)
	v.Field("status", d.Status).OneOfString(StatusActive, StatusInactive, StatusResigned)
	v.Field("emergency_contact_name", d.EmergencyContactName).MaxLength(50)
	v.Field("emergency_contact_phone", d.EmergencyContactPhone).MaxLength(20)
	return v.Validate()
}

type BatchDeleteDTO struct {
	IDs []int64 `json:"ids"`
}
