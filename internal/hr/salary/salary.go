// Package salary manages monthly pay records, benefit catalogs and
// per-employee benefit assignments.
package salary

import (
	"time"
)

// Record statuses.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Employee benefit statuses.
const (
	BenefitActive  = "active"
	BenefitExpired = "expired"
)

// Record is one employee's pay for one month, unique per employee, year
// and month.
type Record struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	EmployeeID      int64      `json:"employee_id" gorm:"column:employee_id"`
	Year            int        `json:"year" gorm:"column:year"`
	Month           int        `json:"month" gorm:"column:month"`
	BaseSalary      float64    `json:"base_salary" gorm:"column:base_salary"`
	Allowances      float64    `json:"allowances" gorm:"column:allowances"`
	OvertimePay     float64    `json:"overtime_pay" gorm:"column:overtime_pay"`
	Bonus           float64    `json:"bonus" gorm:"column:bonus"`
	Deductions      float64    `json:"deductions" gorm:"column:deductions"`
	SocialInsurance float64    `json:"social_insurance" gorm:"column:social_insurance"`
	Tax             float64    `json:"tax" gorm:"column:tax"`
	NetSalary       float64    `json:"net_salary" gorm:"column:net_salary"`
	Status          string     `json:"status" gorm:"column:status"`
	PaidAt          *time.Time `json:"paid_at" gorm:"column:paid_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "salary_records"
}

// RecordView is a record joined with the roster.
type RecordView struct {
	Record
	EmployeeName   *string `json:"employee_name"`
	EmployeeNumber *string `json:"employee_number"`
	Position       *string `json:"position"`
	DepartmentName *string `json:"department_name"`
}

// Benefit is one catalog entry, such as a meal allowance or insurance
// plan.
type Benefit struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name"`
	Type        string    `json:"type" gorm:"column:type"`
	Description *string   `json:"description" gorm:"column:description"`
	Amount      float64   `json:"amount" gorm:"column:amount"`
	IsActive    int       `json:"is_active" gorm:"column:is_active"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Benefit) TableName() string {
	return "benefits"
}

// EmployeeBenefit grants a catalog benefit to one employee for a date
// span.
type EmployeeBenefit struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id"`
	BenefitID  int64     `json:"benefit_id" gorm:"column:benefit_id"`
	StartDate  string    `json:"start_date" gorm:"column:start_date"`
	EndDate    *string   `json:"end_date" gorm:"column:end_date"`
	Amount     *float64  `json:"amount" gorm:"column:amount"`
	Status     string    `json:"status" gorm:"column:status"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (EmployeeBenefit) TableName() string {
	return "employee_benefits"
}

type EmployeeBenefitView struct {
	EmployeeBenefit
	EmployeeName   *string `json:"employee_name"`
	EmployeeNumber *string `json:"employee_number"`
	BenefitName    *string `json:"benefit_name"`
	BenefitType    *string `json:"benefit_type"`
}

type RecordFilter struct {
	Page       int
	Limit      int
	Search     string
	EmployeeID *int64
	Year       *int
	Month      *int
}

type BenefitFilter struct {
	Page     int
	Limit    int
	Search   string
	Type     string
	IsActive *int
}

type EmployeeBenefitFilter struct {
	Page       int
	Limit      int
	EmployeeID *int64
	BenefitID  *int64
	Status     string
}

type StatsFilter struct {
	Year  *int
	Month *int
}

type Overall struct {
	TotalRecords    int64   `json:"total_records" db:"total_records"`
	TotalBaseSalary float64 `json:"total_base_salary" db:"total_base_salary"`
	TotalNetSalary  float64 `json:"total_net_salary" db:"total_net_salary"`
	AvgNetSalary    float64 `json:"avg_net_salary" db:"avg_net_salary"`
}

type Stats struct {
	Overall Overall `json:"overall"`
}

// PayslipBenefit is a benefit line on a payslip.
type PayslipBenefit struct {
	Name   string   `json:"name" db:"name"`
	Type   string   `json:"type" db:"type"`
	Amount *float64 `json:"amount" db:"amount"`
}

// Payslip is one month's record plus the benefits in force that month.
type Payslip struct {
	Payslip  RecordView       `json:"payslip"`
	Benefits []PayslipBenefit `json:"benefits"`
}

type Repository interface {
	List(filter RecordFilter) ([]RecordView, int64, error)
	// Export returns every row matching the filter without paging.
	Export(filter RecordFilter) ([]RecordView, error)
	GetByID(id int64) (*RecordView, error)
	// PeriodExists reports whether the employee already has a record
	// for the year and month.
	PeriodExists(employeeID int64, year, month int, excludeID int64) (bool, error)
	Create(rec *Record) (int64, error)
	Update(rec *Record) error
	// Pay marks a pending record paid and reports affected rows.
	Pay(id int64) (int64, error)
	// PayBatch pays every pending record in ids and reports how many
	// rows changed.
	PayBatch(ids []int64) (int64, error)
	// DeletePending removes a pending record and reports affected rows.
	DeletePending(id int64) (int64, error)

	ListBenefits(filter BenefitFilter) ([]Benefit, int64, error)
	CreateBenefit(b *Benefit) (int64, error)
	// UpdateBenefit reports affected rows, zero when the benefit is
	// missing.
	UpdateBenefit(b *Benefit) (int64, error)
	ActiveBenefitExists(id int64) (bool, error)

	ListEmployeeBenefits(filter EmployeeBenefitFilter) ([]EmployeeBenefitView, int64, error)
	AssignBenefit(eb *EmployeeBenefit) (int64, error)

	EmployeeExists(id int64) (bool, error)
	Stats(filter StatsFilter) (*Stats, error)
	// PayslipRecord returns the record for one employee and month, nil
	// when none exists.
	PayslipRecord(employeeID int64, year, month int) (*RecordView, error)
	// PayslipBenefits returns the benefits active on the first day of
	// the payslip month.
	PayslipBenefits(employeeID int64, monthStart string) ([]PayslipBenefit, error)
}
