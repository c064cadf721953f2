// Package recruitment tracks open job positions and the applications
// moving through the hiring pipeline.
package recruitment

import (
	"time"
)

// Position statuses.
const (
	PositionOpen   = "open"
	PositionPaused = "paused"
	PositionClosed = "closed"
)

// Application pipeline statuses.
const (
	ApplicationPending     = "pending"
	ApplicationScheduled   = "scheduled"
	ApplicationInterviewed = "interviewed"
	ApplicationHired       = "hired"
	ApplicationRejected    = "rejected"
)

// transitions is the forward path of the hiring pipeline. Rejection is
// allowed from any non-terminal stage; hired and rejected are terminal.
var transitions = map[string][]string{
	ApplicationPending:     {ApplicationScheduled, ApplicationRejected},
	ApplicationScheduled:   {ApplicationInterviewed, ApplicationRejected},
	ApplicationInterviewed: {ApplicationHired, ApplicationRejected},
}

// CanTransition reports whether an application may move between the two
// pipeline stages.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Position struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Title          string    `json:"title" gorm:"column:title"`
	DepartmentID   *int64    `json:"department_id" gorm:"column:department_id"`
	Description    *string   `json:"description" gorm:"column:description"`
	Requirements   *string   `json:"requirements" gorm:"column:requirements"`
	SalaryMin      *float64  `json:"salary_min" gorm:"column:salary_min"`
	SalaryMax      *float64  `json:"salary_max" gorm:"column:salary_max"`
	PositionsCount int       `json:"positions_count" gorm:"column:positions_count"`
	Status         string    `json:"status" gorm:"column:status"`
	PublishDate    *string   `json:"publish_date" gorm:"column:publish_date"`
	Deadline       *string   `json:"deadline" gorm:"column:deadline"`
	CreatedBy      *int64    `json:"created_by" gorm:"column:created_by"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Position) TableName() string {
	return "job_positions"
}

type PositionView struct {
	Position
	DepartmentName   *string `json:"department_name"`
	ApplicationCount int64   `json:"application_count"`
}

type Application struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	PositionID     *int64    `json:"position_id" gorm:"column:position_id"`
	Name           string    `json:"name" gorm:"column:name"`
	Gender         *string   `json:"gender" gorm:"column:gender"`
	BirthDate      *string   `json:"birth_date" gorm:"column:birth_date"`
	Phone          *string   `json:"phone" gorm:"column:phone"`
	Email          *string   `json:"email" gorm:"column:email"`
	Education      *string   `json:"education" gorm:"column:education"`
	WorkExperience *string   `json:"work_experience" gorm:"column:work_experience"`
	ResumeFile     *string   `json:"resume_file" gorm:"column:resume_file"`
	Status         string    `json:"status" gorm:"column:status"`
	InterviewDate  *string   `json:"interview_date" gorm:"column:interview_date"`
	InterviewNotes *string   `json:"interview_notes" gorm:"column:interview_notes"`
	Result         *string   `json:"result" gorm:"column:result"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Application) TableName() string {
	return "job_applications"
}

type ApplicationView struct {
	Application
	PositionTitle *string `json:"position_title"`
}

type PositionFilter struct {
	Page         int
	Limit        int
	Search       string
	DepartmentID *int64
	Status       string
}

type ApplicationFilter struct {
	Page       int
	Limit      int
	Search     string
	PositionID *int64
	Status     string
}

type PositionStats struct {
	TotalPositions  int64 `json:"total_positions" db:"total_positions"`
	OpenPositions   int64 `json:"open_positions" db:"open_positions"`
	ClosedPositions int64 `json:"closed_positions" db:"closed_positions"`
	PausedPositions int64 `json:"paused_positions" db:"paused_positions"`
}

type ApplicationStats struct {
	TotalApplications       int64 `json:"total_applications" db:"total_applications"`
	PendingApplications     int64 `json:"pending_applications" db:"pending_applications"`
	ScheduledApplications   int64 `json:"scheduled_applications" db:"scheduled_applications"`
	InterviewedApplications int64 `json:"interviewed_applications" db:"interviewed_applications"`
	HiredApplications       int64 `json:"hired_applications" db:"hired_applications"`
	RejectedApplications    int64 `json:"rejected_applications" db:"rejected_applications"`
}

type DepartmentRecruitment struct {
	DepartmentName   string `json:"department_name" db:"department_name"`
	PositionCount    int64  `json:"position_count" db:"position_count"`
	ApplicationCount int64  `json:"application_count" db:"application_count"`
}

type Stats struct {
	Positions              PositionStats           `json:"positions"`
	Applications           ApplicationStats        `json:"applications"`
	DepartmentDistribution []DepartmentRecruitment `json:"department_distribution"`
}

type Repository interface {
	ListPositions(filter PositionFilter) ([]PositionView, int64, error)
	GetPosition(id int64) (*PositionView, error)
	CreatePosition(p *Position) (int64, error)
	UpdatePosition(p *Position) error
	DeletePosition(id int64) error
	CountApplicationsForPosition(positionID int64) (int64, error)

	ListApplications(filter ApplicationFilter) ([]ApplicationView, int64, error)
	GetApplication(id int64) (*ApplicationView, error)
	CreateApplication(a *Application) (int64, error)
	UpdateApplicationStatus(a *Application) error

	Stats() (*Stats, error)
}
