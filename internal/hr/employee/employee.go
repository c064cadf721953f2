// Package employee manages the personnel files the rest of the HR suite
// references.
package employee

import (
	"time"
)

// Employment statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusResigned = "resigned"
)

// Employee is one personnel file. Dates are stored as ISO yyyy-mm-dd
// strings, matching the DATE columns.
type Employee struct {
	ID                    int64     `json:"id" gorm:"primaryKey"`
	EmployeeNumber        string    `json:"employee_number" gorm:"column:employee_number"`
	Name                  string    `json:"name" gorm:"column:name"`
	Gender                *string   `json:"gender" gorm:"column:gender"`
	BirthDate             *string   `json:"birth_date" gorm:"column:birth_date"`
	IDCard                *string   `json:"id_card" gorm:"column:id_card"`
	Phone                 *string   `json:"phone" gorm:"column:phone"`
	Email                 *string   `json:"email" gorm:"column:email"`
	Address               *string   `json:"address" gorm:"column:address"`
	Education             *string   `json:"education" gorm:"column:education"`
	MaritalStatus         *string   `json:"marital_status" gorm:"column:marital_status"`
	DepartmentID          *int64    `json:"department_id" gorm:"column:department_id"`
	Position              *string   `json:"position" gorm:"column:position"`
	HireDate              *string   `json:"hire_date" gorm:"column:hire_date"`
	Status                string    `json:"status" gorm:"column:status"`
	Salary                *float64  `json:"salary" gorm:"column:salary"`
	EmergencyContactName  *string   `json:"emergency_contact_name" gorm:"column:emergency_contact_name"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone" gorm:"column:emergency_contact_phone"`
	Photo                 *string   `json:"photo" gorm:"column:photo"`
	Notes                 *string   `json:"notes" gorm:"column:notes"`
	CreatedAt             time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt             time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// View is an employee joined with the department name.
type View struct {
	Employee
	DepartmentName *string `json:"department_name"`
}

// ListFilter narrows the roster. Search matches name, employee number and
// phone.
type ListFilter struct {
	Page         int
	Limit        int
	Search       string
	DepartmentID *int64
	Status       string
}

// Overview is the headcount breakdown by status and gender.
type Overview struct {
	TotalEmployees    int64 `json:"total_employees" db:"total_employees"`
	ActiveEmployees   int64 `json:"active_employees" db:"active_employees"`
	InactiveEmployees int64 `json:"inactive_employees" db:"inactive_employees"`
	ResignedEmployees int64 `json:"resigned_employees" db:"resigned_employees"`
	MaleCount         int64 `json:"male_count" db:"male_count"`
	FemaleCount       int64 `json:"female_count" db:"female_count"`
}

// DepartmentCount is active headcount per org unit.
type DepartmentCount struct {
	DepartmentName string `json:"department_name" db:"department_name"`
	EmployeeCount  int64  `json:"employee_count" db:"employee_count"`
}

type Stats struct {
	Overview               Overview          `json:"overview"`
	DepartmentDistribution []DepartmentCount `json:"department_distribution"`
}

type Repository interface {
	List(filter ListFilter) ([]View, int64, error)
	// Export returns every row matching the filter without paging.
	Export(filter ListFilter) ([]View, error)
	GetByID(id int64) (*View, error)
	NumberExists(employeeNumber string, excludeID int64) (bool, error)
	Create(e *Employee) (int64, error)
	Update(e *Employee) error
	Delete(id int64) (int64, error)
	DeleteBatch(ids []int64) (int64, error)
	Stats() (*Stats, error)
}
