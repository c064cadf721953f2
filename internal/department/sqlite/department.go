package sqlite

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/department"
)

const treeOrder = "parent_id, sort_order, id"

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.Repository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) All() ([]department.Department, error) {
	items := []department.Department{}
	err := r.db.Order(treeOrder).Find(&items).Error
	return items, err
}

func (r *DepartmentRepository) AllActive() ([]department.Department, error) {
	items := []department.Department{}
	err := r.db.Where("status = 1").Order(treeOrder).Find(&items).Error
	return items, err
}

func (r *DepartmentRepository) GetByID(id int64) (*department.Department, error) {
	var d department.Department
	if err := r.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(d *department.Department) (int64, error) {
	if err := r.db.Create(d).Error; err != nil {
		return 0, err
	}
	return d.ID, nil
}

func (r *DepartmentRepository) Update(d *department.Department) error {
	return r.db.Exec(
		`UPDATE departments SET name = ?, description = ?, parent_id = ?,
		 sort_order = ?, manager_id = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		d.Name, d.Description, d.ParentID,
		d.SortOrder, d.ManagerID, d.Status, d.ID,
	).Error
}

func (r *DepartmentRepository) Delete(id int64) error {
	return r.db.Exec("DELETE FROM departments WHERE id = ?", id).Error
}

func (r *DepartmentRepository) CountChildren(id int64) (int64, error) {
	var count int64
	err := r.db.Model(&department.Department{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *DepartmentRepository) CountUsers(id int64) (int64, error) {
	var count int64
	err := r.db.Raw("SELECT COUNT(*) FROM users WHERE department_id = ?", id).Scan(&count).Error
	return count, err
}

func (r *DepartmentRepository) ParentIndex() (map[int64]int64, error) {
	type pair struct {
		ID       int64
		ParentID int64
	}
	rows := []pair{}
	if err := r.db.Raw("SELECT id, parent_id FROM departments").Scan(&rows).Error; err != nil {
		return nil, err
	}

	index := make(map[int64]int64, len(rows))
	for _, row := range rows {
		index[row.ID] = row.ParentID
	}
	return index, nil
}
