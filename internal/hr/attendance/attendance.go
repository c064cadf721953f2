// Package attendance tracks daily clock-in records and work schedules.
package attendance

import (
	"time"
)

// Record statuses.
const (
	StatusNormal      = "normal"
	StatusLate        = "late"
	StatusEarlyLeave  = "early_leave"
	StatusAbsent      = "absent"
	StatusSickLeave   = "sick_leave"
	StatusAnnualLeave = "annual_leave"
)

// Shift types.
const (
	ShiftDay       = "day"
	ShiftNight     = "night"
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftOff       = "off"
)

// Punch directions.
const (
	PunchIn  = "in"
	PunchOut = "out"
)

// Record is one attendance row, unique per employee and date. Times are
// HH:MM strings, dates ISO yyyy-mm-dd.
type Record struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	EmployeeID    int64     `json:"employee_id" gorm:"column:employee_id"`
	Date          string    `json:"date" gorm:"column:date"`
	CheckInTime   *string   `json:"check_in_time" gorm:"column:check_in_time"`
	CheckOutTime  *string   `json:"check_out_time" gorm:"column:check_out_time"`
	WorkHours     *float64  `json:"work_hours" gorm:"column:work_hours"`
	OvertimeHours *float64  `json:"overtime_hours" gorm:"column:overtime_hours"`
	Status        string    `json:"status" gorm:"column:status"`
	Notes         *string   `json:"notes" gorm:"column:notes"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// RecordView is a record joined with the employee roster.
type RecordView struct {
	Record
	EmployeeName   *string `json:"employee_name"`
	EmployeeNumber *string `json:"employee_number"`
	DepartmentName *string `json:"department_name"`
}

// Schedule is one planned shift, unique per employee and date.
type Schedule struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id"`
	Date       string    `json:"date" gorm:"column:date"`
	ShiftType  string    `json:"shift_type" gorm:"column:shift_type"`
	StartTime  *string   `json:"start_time" gorm:"column:start_time"`
	EndTime    *string   `json:"end_time" gorm:"column:end_time"`
	CreatedBy  *int64    `json:"created_by" gorm:"column:created_by"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Schedule) TableName() string {
	return "work_schedules"
}

type ScheduleView struct {
	Schedule
	EmployeeName   *string `json:"employee_name"`
	EmployeeNumber *string `json:"employee_number"`
	DepartmentName *string `json:"department_name"`
	CreatorName    *string `json:"creator_name"`
}

// RecordFilter narrows the record list. Search matches employee name and
// number.
type RecordFilter struct {
	Page         int
	Limit        int
	Search       string
	EmployeeID   *int64
	DepartmentID *int64
	DateStart    string
	DateEnd      string
	Status       string
}

type ScheduleFilter struct {
	Page         int
	Limit        int
	Search       string
	EmployeeID   *int64
	DepartmentID *int64
	DateStart    string
	DateEnd      string
	ShiftType    string
}

type StatsFilter struct {
	DateStart    string
	DateEnd      string
	DepartmentID *int64
}

// Overall is the status breakdown over the filtered records.
type Overall struct {
	TotalRecords       int64   `json:"total_records" db:"total_records"`
	NormalCount        int64   `json:"normal_count" db:"normal_count"`
	LateCount          int64   `json:"late_count" db:"late_count"`
	EarlyLeaveCount    int64   `json:"early_leave_count" db:"early_leave_count"`
	AbsentCount        int64   `json:"absent_count" db:"absent_count"`
	AvgWorkHours       float64 `json:"avg_work_hours" db:"avg_work_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours" db:"total_overtime_hours"`
}

type DepartmentAttendance struct {
	DepartmentName     string  `json:"department_name" db:"department_name"`
	RecordCount        int64   `json:"record_count" db:"record_count"`
	AvgWorkHours       float64 `json:"avg_work_hours" db:"avg_work_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours" db:"total_overtime_hours"`
	LateCount          int64   `json:"late_count" db:"late_count"`
	AbsentCount        int64   `json:"absent_count" db:"absent_count"`
}

type Stats struct {
	Overall                Overall                `json:"overall"`
	DepartmentDistribution []DepartmentAttendance `json:"department_distribution"`
}

// MonthlySummary aggregates one employee's month.
type MonthlySummary struct {
	TotalDays          int     `json:"total_days"`
	NormalDays         int     `json:"normal_days"`
	LateDays           int     `json:"late_days"`
	Absences           int     `json:"absences"`
	TotalWorkHours     float64 `json:"total_work_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
}

type MonthlyReport struct {
	Summary   MonthlySummary `json:"summary"`
	Records   []Record       `json:"records"`
	Schedules []Schedule     `json:"schedules"`
}

// PunchResult is the outcome of a clock action. WorkHours is set on
// clock-out only.
type PunchResult struct {
	Time      string   `json:"time"`
	WorkHours *float64 `json:"work_hours,omitempty"`
}

type Repository interface {
	ListRecords(filter RecordFilter) ([]RecordView, int64, error)
	GetRecord(id int64) (*RecordView, error)
	// RecordForDate returns the employee's record for one day, nil when
	// none exists yet.
	RecordForDate(employeeID int64, date string) (*Record, error)
	RecordsBetween(employeeID int64, dateStart, dateEnd string) ([]Record, error)
	CreateRecord(rec *Record) (int64, error)
	UpdateRecord(rec *Record) error

	ListSchedules(filter ScheduleFilter) ([]ScheduleView, int64, error)
	ScheduleForDate(employeeID int64, date string) (*Schedule, error)
	SchedulesBetween(employeeID int64, dateStart, dateEnd string) ([]Schedule, error)
	CreateSchedule(sch *Schedule) (int64, error)
	// UpsertSchedules inserts or replaces per (employee, date) in one
	// transaction.
	UpsertSchedules(schedules []Schedule) error
	UpdateSchedule(sch *Schedule) (int64, error)
	DeleteSchedule(id int64) (int64, error)

	EmployeeExists(id int64) (bool, error)
	Stats(filter StatsFilter) (*Stats, error)
}
