package attendance

import (
	"fmt"
	"regexp"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)
)

func hoursInDay(name string) validation.ValidatorFunc {
	return func(value interface{}) *internal.AppError {
		v, ok := value.(*float64)
		if !ok || v == nil {
			return nil
		}
		if *v < 0 || *v > 24 {
			return internal.NewValidationError(
				fmt.Sprintf("%s must be between 0 and 24", name),
				internal.ErrCodeValidationFailed)
		}
		return nil
	}
}

// RecordDTO is the write shape for attendance rows. Leaving work_hours
// empty lets the service derive it from the clock times.
type RecordDTO struct {
	EmployeeID    int64    `json:"employee_id"`
	Date          string   `json:"date"`
	CheckInTime   *string  `json:"check_in_time"`
	CheckOutTime  *string  `json:"check_out_time"`
	WorkHours     *float64 `json:"work_hours"`
	OvertimeHours *float64 `json:"overtime_hours"`
	Status        *string  `json:"status"`
	Notes         *string  `json:"notes"`
}

func (d RecordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("date", d.Date).Required().Pattern(datePattern, "date must be yyyy-mm-dd")
	v.Field("check_in_time", d.CheckInTime).Pattern(timePattern, "check_in_time must be HH:MM")
	v.Field("check_out_time", d.CheckOutTime).Pattern(timePattern, "check_out_time must be HH:MM")
	v.Field("work_hours", d.WorkHours).Custom(hoursInDay("work_hours"))
	v.Field("overtime_hours", d.OvertimeHours).Custom(hoursInDay("overtime_hours"))
	v.Field("status", d.Status).OneOfString(
		StatusNormal, StatusLate, StatusEarlyLeave, StatusAbsent, StatusSickLeave, StatusAnnualLeave)
	return v.Validate()
}

type PunchDTO struct {
	EmployeeID int64  `json:"employee_id"`
	Type       string `json:"type"`
}

func (d PunchDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("type", d.Type).Required().OneOfString(PunchIn, PunchOut)
	return v.Validate()
}

type ScheduleDTO struct {
	EmployeeID int64   `json:"employee_id"`
	Date       string  `json:"date"`
	ShiftType  string  `json:"shift_type"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
}

func (d ScheduleDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("date", d.Date).Required().Pattern(datePattern, "date must be yyyy-mm-dd")
	v.Field("shift_type", d.ShiftType).Required().OneOfString(
		ShiftDay, ShiftNight, ShiftMorning, ShiftAfternoon, ShiftOff)
	v.Field("start_time", d.StartTime).Pattern(timePattern, "start_time must be HH:MM")
	v.Field("end_time", d.EndTime).Pattern(timePattern, "end_time must be HH:MM")
	return v.Validate()
}

type ScheduleBatchDTO struct {
	Schedules []ScheduleDTO `json:"schedules"`
}
