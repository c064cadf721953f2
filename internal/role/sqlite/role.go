package sqlite

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/role"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(filter role.ListFilter) ([]role.Role, int64, error) {
	query := r.db.Model(&role.Role{})
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	roles := []role.Role{}
	err := query.
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *RoleRepository) All() ([]role.Role, error) {
	roles := []role.Role{}
	err := r.db.Where("status = 1").Order("id").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(id int64) (*role.Role, error) {
	var row role.Role
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) NameExists(name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&role.Role{}).
		Where("name = ? AND id != ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *RoleRepository) MenuIDs(roleID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.Raw(
		"SELECT menu_id FROM role_menus WHERE role_id = ? ORDER BY menu_id",
		roleID,
	).Scan(&ids).Error
	return ids, err
}

func (r *RoleRepository) CreateWithMenus(row *role.Role, menuIDs []int64) (int64, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return insertMenus(tx, row.ID, menuIDs)
	})
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r *RoleRepository) UpdateWithMenus(row *role.Role, menuIDs *[]int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			`UPDATE roles SET name = ?, description = ?, permissions = ?, status = ?,
			 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			row.Name, row.Description, row.Permissions, row.Status, row.ID,
		).Error
		if err != nil {
			return err
		}

		if menuIDs == nil {
			return nil
		}
		if err := tx.Exec("DELETE FROM role_menus WHERE role_id = ?", row.ID).Error; err != nil {
			return err
		}
		return insertMenus(tx, row.ID, *menuIDs)
	})
}

func (r *RoleRepository) CountUsers(roleID int64) (int64, error) {
	var count int64
	err := r.db.Raw("SELECT COUNT(*) FROM users WHERE role_id = ?", roleID).Scan(&count).Error
	return count, err
}

func (r *RoleRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_menus WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM roles WHERE id = ?", id).Error
	})
}

func insertMenus(tx *gorm.DB, roleID int64, menuIDs []int64) error {
	for _, menuID := range menuIDs {
		err := tx.Exec(
			"INSERT OR IGNORE INTO role_menus (role_id, menu_id) VALUES (?, ?)",
			roleID, menuID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}
