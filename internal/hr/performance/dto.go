package performance

import (
	"fmt"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/core/validation"
)

func scoreRange(name string, score int) validation.ValidatorFunc {
	return func(interface{}) *internal.AppError {
		if score < 0 || score > 100 {
			return internal.NewValidationError(
				fmt.Sprintf("%s must be between 0 and 100", name),
				internal.ErrCodeValidationFailed)
		}
		return nil
	}
}

func intRange(name string, value *int, min, max int) validation.ValidatorFunc {
	return func(interface{}) *internal.AppError {
		if value != nil && (*value < min || *value > max) {
			return internal.NewValidationError(
				fmt.Sprintf("%s must be between %d and %d", name, min, max),
				internal.ErrCodeValidationFailed)
		}
		return nil
	}
}

// EvaluationDTO is the full write shape for scored reviews.
type EvaluationDTO struct {
	EmployeeID          int64   `json:"employee_id"`
	EvaluationPeriod    string  `json:"evaluation_period"`
	Year                int     `json:"year"`
	Quarter             *int    `json:"quarter"`
	Month               *int    `json:"month"`
	WorkQualityScore    int     `json:"work_quality_score"`
	WorkEfficiencyScore int     `json:"work_efficiency_score"`
	TeamworkScore       int     `json:"teamwork_score"`
	InnovationScore     int     `json:"innovation_score"`
	Comments            *string `json:"comments"`
}

func (d EvaluationDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("evaluation_period", d.EvaluationPeriod).Required().OneOfString(
		PeriodMonthly, PeriodQuarterly, PeriodYearly)
	v.Field("year", d.Year).Custom(func(interface{}) *internal.AppError {
		if d.Year < 2020 || d.Year > 2030 {
			return internal.NewValidationError(
				"year must be between 2020 and 2030", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("quarter", d.Quarter).Custom(intRange("quarter", d.Quarter, 1, 4))
	v.Field("month", d.Month).Custom(intRange("month", d.Month, 1, 12))
	v.Field("work_quality_score", d.WorkQualityScore).Custom(scoreRange("work_quality_score", d.WorkQualityScore))
	v.Field("work_efficiency_score", d.WorkEfficiencyScore).Custom(scoreRange("work_efficiency_score", d.WorkEfficiencyScore))
	v.Field("teamwork_score", d.TeamworkScore).Custom(scoreRange("teamwork_score", d.TeamworkScore))
	v.Field("innovation_score", d.InnovationScore).Custom(scoreRange("innovation_score", d.InnovationScore))
	return v.Validate()
}

// BatchDTO creates empty draft templates for many employees in one
// period slot.
type BatchDTO struct {
	EmployeeIDs    []int64        `json:"employee_ids"`
	EvaluationData BatchPeriodDTO `json:"evaluation_data"`
}

type BatchPeriodDTO struct {
	EvaluationPeriod string `json:"evaluation_period"`
	Year             int    `json:"year"`
	Quarter          *int   `json:"quarter"`
	Month            *int   `json:"month"`
}

func (d BatchPeriodDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("evaluation_period", d.EvaluationPeriod).Required().OneOfString(
		PeriodMonthly, PeriodQuarterly, PeriodYearly)
	v.Field("year", d.Year).Custom(func(interface{}) *internal.AppError {
		if d.Year < 2020 || d.Year > 2030 {
			return internal.NewValidationError(
				"year must be between 2020 and 2030", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("quarter", d.Quarter).Custom(intRange("quarter", d.Quarter, 1, 4))
	v.Field("month", d.Month).Custom(intRange("month", d.Month, 1, 12))
	return v.Validate()
}
