package salary

import (
	"fmt"
	"regexp"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func nonNegative(name string, value float64) validation.ValidatorFunc {
	return func(interface{}) *internal.AppError {
		if value < 0 {
			return internal.NewValidationError(
				fmt.Sprintf("%s must not be negative", name),
				internal.ErrCodeValidationFailed)
		}
		return nil
	}
}

// RecordDTO is the write shape for pay records. The net amount is always
// derived, never taken from the caller.
type RecordDTO struct {
	EmployeeID      int64   `json:"employee_id"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	BaseSalary      float64 `json:"base_salary"`
	Allowances      float64 `json:"allowances"`
	OvertimePay     float64 `json:"overtime_pay"`
	Bonus           float64 `json:"bonus"`
	Deductions      float64 `json:"deductions"`
	SocialInsurance float64 `json:"social_insurance"`
	Tax             float64 `json:"tax"`
}

func (d RecordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("year", d.Year).Custom(func(interface{}) *internal.AppError {
		if d.Year < 2020 || d.Year > 2030 {
			return internal.NewValidationError(
				"year must be between 2020 and 2030", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("month", d.Month).Custom(func(interface{}) *internal.AppError {
		if d.Month < 1 || d.Month > 12 {
			return internal.NewValidationError(
				"month must be between 1 and 12", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("base_salary", d.BaseSalary).Custom(nonNegative("base_salary", d.BaseSalary))
	v.Field("allowances", d.Allowances).Custom(nonNegative("allowances", d.Allowances))
	v.Field("overtime_pay", d.OvertimePay).Custom(nonNegative("overtime_pay", d.OvertimePay))
	v.Field("bonus", d.Bonus).Custom(nonNegative("bonus", d.Bonus))
	v.Field("deductions", d.Deductions).Custom(nonNegative("deductions", d.Deductions))
	v.Field("social_insurance", d.SocialInsurance).Custom(nonNegative("social_insurance", d.SocialInsurance))
	v.Field("tax", d.Tax).Custom(nonNegative("tax", d.Tax))
	return v.Validate()
}

type BatchPayDTO struct {
	IDs []int64 `json:"ids"`
}

type BenefitDTO struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
	Amount      float64 `json:"amount"`
	IsActive    *int    `json:"is_active"`
}

func (d BenefitDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("type", d.Type).Required().MaxLength(50)
	v.Field("amount", d.Amount).Custom(nonNegative("amount", d.Amount))
	v.Field("is_active", d.IsActive).OneOfInt(0, 1)
	return v.Validate()
}

type AssignBenefitDTO struct {
	EmployeeID int64    `json:"employee_id"`
	BenefitID  int64    `json:"benefit_id"`
	StartDate  string   `json:"start_date"`
	EndDate    *string  `json:"end_date"`
	Amount     *float64 `json:"amount"`
}

func (d AssignBenefitDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("benefit_id", d.BenefitID).Required()
	v.Field("start_date", d.StartDate).Required().Pattern(datePattern, "start_date must be yyyy-mm-dd")
	v.Field("end_date", d.EndDate).Pattern(datePattern, "end_date must be yyyy-mm-dd")
	return v.Validate()
}
