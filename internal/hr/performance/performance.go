// Package performance runs the periodic evaluation cycle: drafts are
// scored, graded and then submitted.
package performance

import (
	"time"
)

// Evaluation periods.
const (
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)

// Evaluation statuses.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
)

// Evaluation is one scored review. Each of the four scores runs 0..100,
// the total 0..400.
type Evaluation struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	EmployeeID          int64     `json:"employee_id" gorm:"column:employee_id"`
	EvaluatorID         *int64    `json:"evaluator_id" gorm:"column:evaluator_id"`
	EvaluationPeriod    string    `json:"evaluation_period" gorm:"column:evaluation_period"`
	Year                int       `json:"year" gorm:"column:year"`
	Quarter             *int      `json:"quarter" gorm:"column:quarter"`
	Month               *int      `json:"month" gorm:"column:month"`
	WorkQualityScore    int       `json:"work_quality_score" gorm:"column:work_quality_score"`
	WorkEfficiencyScore int       `json:"work_efficiency_score" gorm:"column:work_efficiency_score"`
	TeamworkScore       int       `json:"teamwork_score" gorm:"column:teamwork_score"`
	InnovationScore     int       `json:"innovation_score" gorm:"column:innovation_score"`
	TotalScore          int       `json:"total_score" gorm:"column:total_score"`
	Rating              string    `json:"rating" gorm:"column:rating"`
	Comments            *string   `json:"comments" gorm:"column:comments"`
	Status              string    `json:"status" gorm:"column:status"`
	CreatedAt           time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Evaluation) TableName() string {
	return "performance_evaluations"
}

// View is an evaluation joined with the roster and the evaluator.
type View struct {
	Evaluation
	EmployeeName   *string `json:"employee_name"`
	EmployeeNumber *string `json:"employee_number"`
	Position       *string `json:"position"`
	DepartmentName *string `json:"department_name"`
	EvaluatorName  *string `json:"evaluator_name"`
}

type ListFilter struct {
	Page             int
	Limit            int
	Search           string
	EmployeeID       *int64
	DepartmentID     *int64
	EvaluationPeriod string
	Year             *int
	Quarter          *int
	Status           string
}

type StatsFilter struct {
	Year         *int
	Quarter      *int
	DepartmentID *int64
}

type Overall struct {
	TotalEvaluations int64   `json:"total_evaluations" db:"total_evaluations"`
	DraftCount       int64   `json:"draft_count" db:"draft_count"`
	SubmittedCount   int64   `json:"submitted_count" db:"submitted_count"`
	AvgScore         float64 `json:"avg_score" db:"avg_score"`
	RatingACount     int64   `json:"rating_a_count" db:"rating_a_count"`
	RatingBCount     int64   `json:"rating_b_count" db:"rating_b_count"`
	RatingCCount     int64   `json:"rating_c_count" db:"rating_c_count"`
	RatingDCount     int64   `json:"rating_d_count" db:"rating_d_count"`
	RatingECount     int64   `json:"rating_e_count" db:"rating_e_count"`
}

type DepartmentPerformance struct {
	DepartmentName  string  `json:"department_name" db:"department_name"`
	EvaluationCount int64   `json:"evaluation_count" db:"evaluation_count"`
	AvgScore        float64 `json:"avg_score" db:"avg_score"`
	RatingACount    int64   `json:"rating_a_count" db:"rating_a_count"`
	RatingBCount    int64   `json:"rating_b_count" db:"rating_b_count"`
	RatingCCount    int64   `json:"rating_c_count" db:"rating_c_count"`
}

type ScoreBreakdown struct {
	AvgWorkQuality    float64 `json:"avg_work_quality" db:"avg_work_quality"`
	AvgWorkEfficiency float64 `json:"avg_work_efficiency" db:"avg_work_efficiency"`
	AvgTeamwork       float64 `json:"avg_teamwork" db:"avg_teamwork"`
	AvgInnovation     float64 `json:"avg_innovation" db:"avg_innovation"`
}

type Stats struct {
	Overall                Overall                 `json:"overall"`
	DepartmentDistribution []DepartmentPerformance `json:"department_distribution"`
	ScoreBreakdown         ScoreBreakdown          `json:"score_breakdown"`
}

// Trend labels for History.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// History is one employee's recent evaluations, newest first, with a
// coarse score trend.
type History struct {
	History    []View  `json:"history"`
	Trend      string  `json:"trend"`
	TrendValue float64 `json:"trend_value"`
}

type Repository interface {
	List(filter ListFilter) ([]View, int64, error)
	GetByID(id int64) (*View, error)
	// PeriodExists reports whether the employee already has an
	// evaluation for the exact period slot.
	PeriodExists(employeeID int64, period string, year int, quarter, month *int) (bool, error)
	Create(ev *Evaluation) (int64, error)
	Update(ev *Evaluation) error
	// Submit flips a draft to submitted and reports affected rows.
	Submit(id int64) (int64, error)
	// DeleteDraft removes a draft and reports affected rows.
	DeleteDraft(id int64) (int64, error)
	// CreateBatch inserts draft templates, skipping slots that already
	// exist, all in one transaction.
	CreateBatch(evs []Evaluation) error
	HistoryByEmployee(employeeID int64, limit int) ([]View, error)
	EmployeeExists(id int64) (bool, error)
	Stats(filter StatsFilter) (*Stats, error)
}
