package sqlite

import (
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/system"
)

type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) system.ConfigRepository {
	return &ConfigRepository{db: db}
}

func (r *ConfigRepository) All() ([]system.ConfigEntry, error) {
	entries := []system.ConfigEntry{}
	err := r.db.Order("config_key").Find(&entries).Error
	return entries, err
}

func (r *ConfigRepository) GetByKey(key string) (*system.ConfigEntry, error) {
	var entry system.ConfigEntry
	if err := r.db.Where("config_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *ConfigRepository) UpdateValue(key string, value *string) error {
	return r.db.Exec(
		"UPDATE system_config SET config_value = ?, updated_at = CURRENT_TIMESTAMP WHERE config_key = ?",
		value, key,
	).Error
}

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) system.LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) List(filter system.LogFilter) ([]system.LogView, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Action != "" {
		where += " AND l.action = ?"
		args = append(args, filter.Action)
	}
	if filter.Resource != "" {
		where += " AND l.resource = ?"
		args = append(args, filter.Resource)
	}
	if filter.UserID != nil {
		where += " AND l.user_id = ?"
		args = append(args, *filter.UserID)
	}

	var total int64
	if err := r.db.Raw("SELECT COUNT(*) FROM operation_logs l"+where, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []system.LogView{}
	err := r.db.Raw(
		`SELECT l.*, u.username FROM operation_logs l
		 LEFT JOIN users u ON u.id = l.user_id`+where+
			" ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *LogRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Exec("DELETE FROM operation_logs WHERE created_at < ?", cutoff)
	return result.RowsAffected, result.Error
}

// StatsRepository aggregates dashboard counts with plain scans rather
// than the ORM.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) system.StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Collect() (*system.Stats, error) {
	var stats system.Stats

	err := r.db.Get(&stats.Users, `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN status = 1 THEN 1 ELSE 0 END), 0) AS active,
		       COALESCE(SUM(CASE WHEN status = 0 THEN 1 ELSE 0 END), 0) AS disabled
		FROM users`)
	if err != nil {
		return nil, err
	}

	counts := []struct {
		Name  string `db:"name"`
		Count int64  `db:"count"`
	}{}
	err = r.db.Select(&counts, `
		SELECT 'roles' AS name, COUNT(*) AS count FROM roles
		UNION ALL SELECT 'departments', COUNT(*) FROM departments
		UNION ALL SELECT 'menus', COUNT(*) FROM menus`)
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		switch c.Name {
		case "roles":
			stats.Roles = c.Count
		case "departments":
			stats.Departments = c.Count
		case "menus":
			stats.Menus = c.Count
		}
	}

	err = r.db.Get(&stats.LoginsToday, `
		SELECT COUNT(*) FROM operation_logs
		WHERE action = 'login' AND DATE(created_at) = DATE('now')`)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
