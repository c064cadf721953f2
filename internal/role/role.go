// Package role manages roles and their two grant surfaces: the
// permission expression evaluated on every request and the menu
// assignments driving the console sidebar.
package role

import (
	"time"
)

type Role struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name"`
	Description *string   `json:"description" gorm:"column:description"`
	Permissions *string   `json:"permissions" gorm:"column:permissions"`
	Status      int       `json:"status" gorm:"column:status"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// Detail is the single-role shape: the row plus its assigned menu ids.
type Detail struct {
	Role
	MenuIDs []int64 `json:"menu_ids"`
}

type ListFilter struct {
	Page   int
	Limit  int
	Search string
}

type Repository interface {
	List(filter ListFilter) ([]Role, int64, error)
	All() ([]Role, error)
	GetByID(id int64) (*Role, error)
	NameExists(name string, excludeID int64) (bool, error)
	MenuIDs(roleID int64) ([]int64, error)
	// CreateWithMenus inserts the role and its menu assignments in one
	// transaction.
	CreateWithMenus(role *Role, menuIDs []int64) (int64, error)
	// UpdateWithMenus updates the row and, when menuIDs is non-nil,
	// replaces the full assignment set in the same transaction.
	UpdateWithMenus(role *Role, menuIDs *[]int64) error
	CountUsers(roleID int64) (int64, error)
	// Delete removes the role and its menu assignments.
	Delete(id int64) error
}
