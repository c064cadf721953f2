// Package user manages staff accounts: listing, provisioning, updates,
// soft deactivation and administrative password resets.
package user

import (
	"time"
)

// Account statuses.
const (
	StatusDisabled = 0
	StatusActive   = 1
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"column:username"`
	Password     string    `json:"-" gorm:"column:password"`
	Email        *string   `json:"email" gorm:"column:email"`
	Phone        *string   `json:"phone" gorm:"column:phone"`
	RealName     *string   `json:"real_name" gorm:"column:real_name"`
	Avatar       *string   `json:"avatar" gorm:"column:avatar"`
	Status       int       `json:"status" gorm:"column:status"`
	RoleID       *int64    `json:"role_id" gorm:"column:role_id"`
	DepartmentID *int64    `json:"department_id" gorm:"column:department_id"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// View is the list and detail shape: the account joined with its role and
// department names, without the credential.
type View struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	RealName       *string   `json:"real_name"`
	Avatar         *string   `json:"avatar"`
	Status         int       `json:"status"`
	RoleID         *int64    `json:"role_id"`
	DepartmentID   *int64    `json:"department_id"`
	RoleName       *string   `json:"role_name"`
	DepartmentName *string   `json:"department_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListFilter narrows the account list. Search matches username, real name
// and email.
type ListFilter struct {
	Page   int
	Limit  int
	Search string
	Status *int
}

type Repository interface {
	List(filter ListFilter) ([]View, int64, error)
	GetByID(id int64) (*View, error)
	GetModelByID(id int64) (*User, error)
	UsernameExists(username string, excludeID int64) (bool, error)
	EmailExists(email string, excludeID int64) (bool, error)
	Create(u *User) (int64, error)
	Update(u *User) error
	SetStatus(id int64, status int) error
	UpdatePassword(id int64, passwordHash string) error
}
