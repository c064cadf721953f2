// Package department manages the organizational tree staff accounts and
// employee records hang off.
package department

import (
	"time"
)

// Department is one org unit. ParentID 0 marks a root node.
type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name"`
	Description *string   `json:"description" gorm:"column:description"`
	ParentID    int64     `json:"parent_id" gorm:"column:parent_id"`
	SortOrder   int       `json:"sort_order" gorm:"column:sort_order"`
	ManagerID   *int64    `json:"manager_id" gorm:"column:manager_id"`
	Status      int       `json:"status" gorm:"column:status"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

type Node struct {
	Department
	Children []Node `json:"children"`
}

type Repository interface {
	All() ([]Department, error)
	AllActive() ([]Department, error)
	GetByID(id int64) (*Department, error)
	Create(d *Department) (int64, error)
	Update(d *Department) error
	Delete(id int64) error
	CountChildren(id int64) (int64, error)
	CountUsers(id int64) (int64, error)
	ParentIndex() (map[int64]int64, error)
}
