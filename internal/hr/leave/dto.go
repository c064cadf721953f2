package leave

import (
	"regexp"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type RequestDTO struct {
	EmployeeID int64   `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	DaysCount  float64 `json:"days_count"`
	Reason     string  `json:"reason"`
}

func (d RequestDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("leave_type", d.LeaveType).Required().OneOfString(
		TypeSick, TypeAnnual, TypePersonal, TypeMaternity, TypePaternity, TypeCompassionate, TypeOther)
	v.Field("start_date", d.StartDate).Required().Pattern(datePattern, "start_date must be yyyy-mm-dd")
	v.Field("end_date", d.EndDate).Required().Pattern(datePattern, "end_date must be yyyy-mm-dd").
		Custom(func(interface{}) *internal.AppError {
			if d.StartDate != "" && d.EndDate != "" && d.EndDate < d.StartDate {
				return internal.NewValidationError(
					"end_date must not precede start_date", internal.ErrCodeValidationFailed)
			}
			return nil
		})
	v.Field("days_count", d.DaysCount).Custom(func(interface{}) *internal.AppError {
		if d.DaysCount < 0.5 {
			return internal.NewValidationError(
				"days_count must be at least 0.5", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("reason", d.Reason).Required()
	return v.Validate()
}

type ApprovalDTO struct {
	Status        string  `json:"status"`
	ApprovalNotes *string `json:"approval_notes"`
}

func (d ApprovalDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOfString(RequestApproved, RequestRejected)
	return v.Validate()
}

type CompensatoryDTO struct {
	EmployeeID    int64   `json:"employee_id"`
	OvertimeDate  string  `json:"overtime_date"`
	OvertimeHours float64 `json:"overtime_hours"`
}

func (d CompensatoryDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("overtime_date", d.OvertimeDate).Required().Pattern(datePattern, "overtime_date must be yyyy-mm-dd")
	v.Field("overtime_hours", d.OvertimeHours).Custom(func(interface{}) *internal.AppError {
		if d.OvertimeHours < 0.5 {
			return internal.NewValidationError(
				"overtime_hours must be at least 0.5", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	return v.Validate()
}

type UseCompensatoryDTO struct {
	CompLeaveDate string `json:"comp_leave_date"`
}

func (d UseCompensatoryDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("comp_leave_date", d.CompLeaveDate).Required().Pattern(datePattern, "comp_leave_date must be yyyy-mm-dd")
	return v.Validate()
}
