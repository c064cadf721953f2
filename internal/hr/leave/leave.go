// Package leave handles leave requests, approvals and compensatory time
// earned from overtime.
package leave

import (
	"time"
)

// Leave types.
const (
	TypeSick          = "sick"
	TypeAnnual        = "annual"
	TypePersonal      = "personal"
	TypeMaternity     = "maternity"
	TypePaternity     = "paternity"
	TypeCompassionate = "compassionate"
	TypeOther         = "other"
)

// Request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Compensatory statuses.
const (
	CompEarned = "earned"
	CompUsed   = "used"
)

// A full working day of compensatory time. Overtime beyond this earns no
// extra hours per record.
const maxCompHoursPerDay = 8.0

// Request is one leave application. Dates are ISO yyyy-mm-dd strings.
type Request struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	EmployeeID    int64      `json:"employee_id" gorm:"column:employee_id"`
	LeaveType     string     `json:"leave_type" gorm:"column:leave_type"`
	StartDate     string     `json:"start_date" gorm:"column:start_date"`
	EndDate       string     `json:"end_date" gorm:"column:end_date"`
	DaysCount     float64    `json:"days_count" gorm:"column:days_count"`
	Reason        string     `json:"reason" gorm:"column:reason"`
	Status        string     `json:"status" gorm:"column:status"`
	ApprovedBy    *int64     `json:"approved_by" gorm:"column:approved_by"`
	ApprovedAt    *time.Time `json:"approved_at" gorm:"column:approved_at"`
	ApprovalNotes *string    `json:"approval_notes" gorm:"column:approval_notes"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Request) TableName() string {
	return "leave_requests"
}

// RequestView is a request joined with the roster and the approver.
type RequestView struct {
	Request
	EmployeeName   *string `json:"employee_name"`
	EmployeeNumber *string `json:"employee_number"`
	EmployeePhone  *string `json:"employee_phone"`
	DepartmentName *string `json:"department_name"`
	ApproverName   *string `json:"approver_name"`
}

// Compensatory is time off earned from overtime, unique per employee and
// overtime date.
type Compensatory struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	EmployeeID     int64      `json:"employee_id" gorm:"column:employee_id"`
	OvertimeDate   string     `json:"overtime_date" gorm:"column:overtime_date"`
	OvertimeHours  float64    `json:"overtime_hours" gorm:"column:overtime_hours"`
	CompLeaveHours float64    `json:"comp_leave_hours" gorm:"column:comp_leave_hours"`
	CompLeaveDate  *string    `json:"comp_leave_date" gorm:"column:comp_leave_date"`
	Status         string     `json:"status" gorm:"column:status"`
	UsedAt         *time.Time `json:"used_at" gorm:"column:used_at"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Compensatory) TableName() string {
	return "compensatory_leaves"
}

type CompensatoryView struct {
	Compensatory
	EmployeeName   *string `json:"employee_name"`
	EmployeeNumber *string `json:"employee_number"`
	DepartmentName *string `json:"department_name"`
}

type RequestFilter struct {
	Page       int
	Limit      int
	Search     string
	EmployeeID *int64
	Status     string
}

type CompensatoryFilter struct {
	Page         int
	Limit        int
	Search       string
	EmployeeID   *int64
	DepartmentID *int64
	Status       string
}

type StatsFilter struct {
	DateStart    string
	DateEnd      string
	DepartmentID *int64
}

type Overview struct {
	TotalRequests    int64   `json:"total_requests" db:"total_requests"`
	PendingRequests  int64   `json:"pending_requests" db:"pending_requests"`
	ApprovedRequests int64   `json:"approved_requests" db:"approved_requests"`
	RejectedRequests int64   `json:"rejected_requests" db:"rejected_requests"`
	TotalLeaveDays   float64 `json:"total_leave_days" db:"total_leave_days"`
}

type TypeUsage struct {
	LeaveType    string  `json:"leave_type" db:"leave_type"`
	RequestCount int64   `json:"request_count" db:"request_count"`
	ApprovedDays float64 `json:"approved_days" db:"approved_days"`
}

type CompensatoryOverview struct {
	TotalRecords   int64   `json:"total_comp_records" db:"total_comp_records"`
	AvailableCount int64   `json:"available_comp" db:"available_comp"`
	UsedCount      int64   `json:"used_comp" db:"used_comp"`
	AvailableHours float64 `json:"available_hours" db:"available_hours"`
	UsedHours      float64 `json:"used_hours" db:"used_hours"`
}

type Stats struct {
	LeaveOverview        Overview             `json:"leave_overview"`
	TypeDistribution     []TypeUsage          `json:"leave_type_distribution"`
	CompensatoryOverview CompensatoryOverview `json:"compensatory_overview"`
}

// TypeUsed is approved leave taken for one type within a year.
type TypeUsed struct {
	LeaveType string  `json:"leave_type" db:"leave_type"`
	UsedDays  float64 `json:"used_days" db:"used_days"`
}

// Balance is one employee's annual usage plus remaining compensatory
// hours.
type Balance struct {
	Year                int        `json:"year"`
	LeaveUsage          []TypeUsed `json:"leave_usage"`
	CompensatoryBalance float64    `json:"compensatory_balance"`
}

type Repository interface {
	ListRequests(filter RequestFilter) ([]RequestView, int64, error)
	GetRequest(id int64) (*RequestView, error)
	CreateRequest(req *Request) (int64, error)
	UpdateRequest(req *Request) error
	DeleteRequest(id int64) error
	SetApproval(id int64, status string, approvedBy int64, notes *string) error

	ListCompensatory(filter CompensatoryFilter) ([]CompensatoryView, int64, error)
	GetCompensatory(id int64) (*Compensatory, error)
	// CompensatoryForDate returns the record for one overtime date, nil
	// when none exists.
	CompensatoryForDate(employeeID int64, overtimeDate string) (*Compensatory, error)
	CreateCompensatory(comp *Compensatory) (int64, error)
	// UseCompensatory marks an earned record used and reports affected
	// rows, zero when the record is missing or already spent.
	UseCompensatory(id int64, compLeaveDate string) (int64, error)

	EmployeeExists(id int64) (bool, error)
	Stats(filter StatsFilter) (*Stats, error)
	LeaveUsage(employeeID int64, year string) ([]TypeUsed, error)
	CompensatoryBalance(employeeID int64) (float64, error)
}
