package sqlite

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/hr/employee"
)

const viewSelect = `
	SELECT e.*, d.name AS department_name
	FROM employees e
	LEFT JOIN departments d ON d.id = e.department_id`

type EmployeeRepository struct {
	db *gorm.DB
	sq *sqlx.DB
}

func NewEmployeeRepository(db *gorm.DB, sq *sqlx.DB) employee.Repository {
	return &EmployeeRepository{db: db, sq: sq}
}

func filterClause(filter employee.ListFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (e.name LIKE ? OR e.employee_number LIKE ? OR e.phone LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like)
	}
	if filter.DepartmentID != nil {
		where += " AND e.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}
	if filter.Status != "" {
		where += " AND e.status = ?"
		args = append(args, filter.Status)
	}
	return where, args
}

func (r *EmployeeRepository) List(filter employee.ListFilter) ([]employee.View, int64, error) {
	where, args := filterClause(filter)

	var total int64
	if err := r.db.Raw("SELECT COUNT(*) FROM employees e"+where, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []employee.View{}
	err := r.db.Raw(
		viewSelect+where+" ORDER BY e.created_at DESC, e.id DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *EmployeeRepository) Export(filter employee.ListFilter) ([]employee.View, error) {
	where, args := filterClause(filter)
	views := []employee.View{}
	err := r.db.Raw(
		viewSelect+where+" ORDER BY e.employee_number",
		args...,
	).Scan(&views).Error
	return views, err
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.View, error) {
	var view employee.View
	result := r.db.Raw(viewSelect+" WHERE e.id = ?", id).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *EmployeeRepository) NumberExists(employeeNumber string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&employee.Employee{}).
		Where("employee_number = ? AND id != ?", employeeNumber, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) Create(e *employee.Employee) (int64, error) {
	if err := r.db.Create(e).Error; err != nil {
		return 0, err
	}
	return e.ID, nil
}

func (r *EmployeeRepository) Update(e *employee.Employee) error {
	return r.db.Exec(
		`UPDATE employees SET employee_number = ?, name = ?, gender = ?,
		 birth_date = ?, id_card = ?, phone = ?, email = ?, address = ?,
		 education = ?, marital_status = ?, department_id = ?, position = ?,
		 hire_date = ?, status = ?, salary = ?, emergency_contact_name = ?,
		 emergency_contact_phone = ?, photo = ?, notes = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		e.EmployeeNumber, e.Name, e.Gender,
		e.BirthDate, e.IDCard, e.Phone, e.Email, e.Address,
		e.Education, e.MaritalStatus, e.DepartmentID, e.Position,
		e.HireDate, e.Status, e.Salary, e.EmergencyContactName,
		e.EmergencyContactPhone, e.Photo, e.Notes, e.ID,
	).Error
}

func (r *EmployeeRepository) Delete(id int64) (int64, error) {
	result := r.db.Exec("DELETE FROM employees WHERE id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *EmployeeRepository) DeleteBatch(ids []int64) (int64, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	result := r.db.Exec("DELETE FROM employees WHERE id IN ("+placeholders+")", args...)
	return result.RowsAffected, result.Error
}

func (r *EmployeeRepository) Stats() (*employee.Stats, error) {
	var stats employee.Stats

	err := r.sq.Get(&stats.Overview, `
		SELECT COUNT(*) AS total_employees,
		       COUNT(CASE WHEN status = 'active' THEN 1 END) AS active_employees,
		       COUNT(CASE WHEN status = 'inactive' THEN 1 END) AS inactive_employees,
		       COUNT(CASE WHEN status = 'resigned' THEN 1 END) AS resigned_employees,
		       COUNT(CASE WHEN gender = '男' THEN 1 END) AS male_count,
		       COUNT(CASE WHEN gender = '女' THEN 1 END) AS female_count
		FROM employees`)
	if err != nil {
		return nil, err
	}

	stats.DepartmentDistribution = []employee.DepartmentCount{}
	err = r.sq.Select(&stats.DepartmentDistribution, `
		SELECT d.name AS department_name, COUNT(e.id) AS employee_count
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.id AND e.status = 'active'
		GROUP BY d.id, d.name
		ORDER BY employee_count DESC`)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
