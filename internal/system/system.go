// Package system holds the maintenance surface: configuration entries,
// the operation log viewer with its retention purge, and instance
// statistics.
package system

import (
	"time"

	"github.com/hospadmin/hospital-admin/internal/audit"
)

// ConfigEntry is one key/value setting. ConfigType is advisory, telling
// the console how to render the value.
type ConfigEntry struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	ConfigKey   string    `json:"config_key" gorm:"column:config_key"`
	ConfigValue *string   `json:"config_value" gorm:"column:config_value"`
	ConfigType  string    `json:"config_type" gorm:"column:config_type"`
	Description *string   `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (ConfigEntry) TableName() string {
	return "system_config"
}

// LogView is an operation-log row joined with the actor's username.
type LogView struct {
	audit.Entry
	Username *string `json:"username"`
}

type LogFilter struct {
	Page     int
	Limit    int
	Action   string
	Resource string
	UserID   *int64
}

// UserStats breaks accounts down by status.
type UserStats struct {
	Total    int64 `json:"total" db:"total"`
	Active   int64 `json:"active" db:"active"`
	Disabled int64 `json:"disabled" db:"disabled"`
}

// Stats is the instance overview the dashboard renders.
type Stats struct {
	Users       UserStats `json:"users"`
	Roles       int64     `json:"roles"`
	Departments int64     `json:"departments"`
	Menus       int64     `json:"menus"`
	LoginsToday int64     `json:"logins_today"`
}

type ConfigRepository interface {
	All() ([]ConfigEntry, error)
	GetByKey(key string) (*ConfigEntry, error)
	UpdateValue(key string, value *string) error
}

type LogRepository interface {
	List(filter LogFilter) ([]LogView, int64, error)
	// DeleteOlderThan removes rows created before the cutoff and returns
	// how many went.
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type StatsRepository interface {
	Collect() (*Stats, error)
}
