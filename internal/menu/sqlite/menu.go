package sqlite

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/menu"
)

// treeOrder keeps siblings grouped under their parent in a stable order
// so tree assembly preserves it.
const treeOrder = "parent_id, sort_order, id"

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) menu.Repository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) All() ([]menu.Menu, error) {
	items := []menu.Menu{}
	err := r.db.Order(treeOrder).Find(&items).Error
	return items, err
}

func (r *MenuRepository) AllActive() ([]menu.Menu, error) {
	items := []menu.Menu{}
	err := r.db.Where("status = 1").Order(treeOrder).Find(&items).Error
	return items, err
}

func (r *MenuRepository) ForRole(roleID int64) ([]menu.Menu, error) {
	items := []menu.Menu{}
	err := r.db.Raw(
		`SELECT m.* FROM menus m
		 JOIN role_menus rm ON rm.menu_id = m.id
		 WHERE rm.role_id = ? AND m.status = 1
		 ORDER BY m.parent_id, m.sort_order, m.id`,
		roleID,
	).Scan(&items).Error
	return items, err
}

func (r *MenuRepository) GetByID(id int64) (*menu.Menu, error) {
	var m menu.Menu
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) Create(m *menu.Menu) (int64, error) {
	if err := r.db.Create(m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *MenuRepository) Update(m *menu.Menu) error {
	return r.db.Exec(
		`UPDATE menus SET name = ?, path = ?, component = ?, icon = ?,
		 parent_id = ?, sort_order = ?, menu_type = ?, status = ?,
		 permissions = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		m.Name, m.Path, m.Component, m.Icon,
		m.ParentID, m.SortOrder, m.MenuType, m.Status,
		m.Permissions, m.ID,
	).Error
}

func (r *MenuRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_menus WHERE menu_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM menus WHERE id = ?", id).Error
	})
}

func (r *MenuRepository) CountChildren(id int64) (int64, error) {
	var count int64
	err := r.db.Model(&menu.Menu{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *MenuRepository) ParentIndex() (map[int64]int64, error) {
	type pair struct {
		ID       int64
		ParentID int64
	}
	rows := []pair{}
	if err := r.db.Raw("SELECT id, parent_id FROM menus").Scan(&rows).Error; err != nil {
		return nil, err
	}

	index := make(map[int64]int64, len(rows))
	for _, row := range rows {
		index[row.ID] = row.ParentID
	}
	return index, nil
}
