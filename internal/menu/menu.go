// Package menu manages the navigation catalog: directories and pages the
// admin console renders, assigned to roles through the role_menus join
// table.
package menu

import (
	"time"
)

// Menu types. Directories group pages and carry no component.
const (
	TypeDirectory = 1
	TypePage      = 2
)

// Menu is one navigation catalog row. ParentID 0 marks a root node.
type Menu struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name"`
	Path        *string   `json:"path" gorm:"column:path"`
	Component   *string   `json:"component" gorm:"column:component"`
	Icon        *string   `json:"icon" gorm:"column:icon"`
	ParentID    int64     `json:"parent_id" gorm:"column:parent_id"`
	SortOrder   int       `json:"sort_order" gorm:"column:sort_order"`
	MenuType    int       `json:"menu_type" gorm:"column:menu_type"`
	Status      int       `json:"status" gorm:"column:status"`
	Permissions *string   `json:"permissions" gorm:"column:permissions"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Menu) TableName() string {
	return "menus"
}

// Node is a menu with its children attached, the shape both the catalog
// tree endpoint and the per-user sidebar return.
type Node struct {
	Menu
	Children []Node `json:"children"`
}

// Repository is the persistence surface of the menu catalog.
type Repository interface {
	All() ([]Menu, error)
	AllActive() ([]Menu, error)
	ForRole(roleID int64) ([]Menu, error)
	GetByID(id int64) (*Menu, error)
	Create(m *Menu) (int64, error)
	Update(m *Menu) error
	// Delete removes the menu and its role_menus join rows in one
	// transaction.
	Delete(id int64) error
	CountChildren(id int64) (int64, error)
	// ParentIndex returns id -> parent_id for every menu, for cycle
	// detection on re-parenting.
	ParentIndex() (map[int64]int64, error)
}
