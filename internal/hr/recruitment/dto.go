package recruitment

import (
	"regexp"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type PositionDTO struct {
	Title          string   `json:"title"`
	DepartmentID   *int64   `json:"department_id"`
	Description    *string  `json:"description"`
	Requirements   *string  `json:"requirements"`
	SalaryMin      *float64 `json:"salary_min"`
	SalaryMax      *float64 `json:"salary_max"`
	PositionsCount *int     `json:"positions_count"`
	Status         *string  `json:"status"`
	PublishDate    *string  `json:"publish_date"`
	Deadline       *string  `json:"deadline"`
}

func (d PositionDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(100)
	v.Field("status", d.Status).OneOfString(PositionOpen, PositionPaused, PositionClosed)
	v.Field("publish_date", d.PublishDate).Pattern(datePattern, "publish_date must be yyyy-mm-dd")
	v.Field("deadline", d.Deadline).Pattern(datePattern, "deadline must be yyyy-mm-dd")
	v.Field("salary_range", nil).Custom(func(interface{}) *internal.AppError {
		if d.SalaryMin != nil && d.SalaryMax != nil && *d.SalaryMin > *d.SalaryMax {
			return internal.NewValidationError("salary_min must not exceed salary_max", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	return v.Validate()
}

type ApplicationDTO struct {
	PositionID     int64   `json:"position_id"`
	Name           string  `json:"name"`
	Gender         *string `json:"gender"`
	BirthDate      *string `json:"birth_date"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Education      *string `json:"education"`
	WorkExperience *string `json:"work_experience"`
	ResumeFile     *string `json:"resume_file"`
}

func (d ApplicationDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("position_id", d.PositionID).Required()
	v.Field("name", d.Name).Required().MaxLength(50)
	v.Field("birth_date", d.BirthDate).Pattern(datePattern, "birth_date must be yyyy-mm-dd")
	v.Field("email", d.Email).Email().MaxLength(100)
	return v.Validate()
}

type ApplicationStatusDTO struct {
	Status         string  `json:"status"`
	InterviewDate  *string `json:"interview_date"`
	InterviewNotes *string `json:"interview_notes"`
	Result         *string `json:"result"`
}

func (d ApplicationStatusDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOfString(
		ApplicationPending, ApplicationScheduled, ApplicationInterviewed,
		ApplicationHired, ApplicationRejected)
	return v.Validate()
}
