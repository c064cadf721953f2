package sqlite

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/hr/salary"
)

type SalaryRepository struct {
	db *gorm.DB
	sq *sqlx.DB
}

func NewSalaryRepository(db *gorm.DB, sq *sqlx.DB) salary.Repository {
	return &SalaryRepository{db: db, sq: sq}
}

const recordSelect = `
	SELECT sr.*, e.name AS employee_name, e.employee_number, e.position,
	       d.name AS department_name
	FROM salary_records sr
	LEFT JOIN employees e ON e.id = sr.employee_id
	LEFT JOIN departments d ON d.id = e.department_id`

func recordWhere(filter salary.RecordFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (e.name LIKE ? OR e.employee_number LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.EmployeeID != nil {
		where += " AND sr.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.Year != nil {
		where += " AND sr.year = ?"
		args = append(args, *filter.Year)
	}
	if filter.Month != nil {
		where += " AND sr.month = ?"
		args = append(args, *filter.Month)
	}
	return where, args
}

func (r *SalaryRepository) List(filter salary.RecordFilter) ([]salary.RecordView, int64, error) {
	where, args := recordWhere(filter)

	var total int64
	err := r.db.Raw(
		"SELECT COUNT(*) FROM salary_records sr LEFT JOIN employees e ON e.id = sr.employee_id"+where,
		args...,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []salary.RecordView{}
	err = r.db.Raw(
		recordSelect+where+" ORDER BY sr.year DESC, sr.month DESC, sr.id DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *SalaryRepository) Export(filter salary.RecordFilter) ([]salary.RecordView, error) {
	where, args := recordWhere(filter)
	views := []salary.RecordView{}
	err := r.db.Raw(
		recordSelect+where+" ORDER BY sr.year DESC, sr.month DESC, e.employee_number",
		args...,
	).Scan(&views).Error
	return views, err
}

func (r *SalaryRepository) GetByID(id int64) (*salary.RecordView, error) {
	var view salary.RecordView
	result := r.db.Raw(recordSelect+" WHERE sr.id = ?", id).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *SalaryRepository) PeriodExists(employeeID int64, year, month int, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Raw(
		"SELECT COUNT(*) FROM salary_records WHERE employee_id = ? AND year = ? AND month = ? AND id != ?",
		employeeID, year, month, excludeID,
	).Scan(&count).Error
	return count > 0, err
}

func (r *SalaryRepository) Create(rec *salary.Record) (int64, error) {
	if err := r.db.Create(rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (r *SalaryRepository) Update(rec *salary.Record) error {
	return r.db.Exec(
		`UPDATE salary_records SET employee_id = ?, year = ?, month = ?,
		 base_salary = ?, allowances = ?, overtime_pay = ?, bonus = ?,
		 deductions = ?, social_insurance = ?, tax = ?, net_salary = ?,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		rec.EmployeeID, rec.Year, rec.Month,
		rec.BaseSalary, rec.Allowances, rec.OvertimePay, rec.Bonus,
		rec.Deductions, rec.SocialInsurance, rec.Tax, rec.NetSalary,
		rec.ID,
	).Error
}

func (r *SalaryRepository) Pay(id int64) (int64, error) {
	result := r.db.Exec(
		`UPDATE salary_records SET status = 'paid', paid_at = CURRENT_TIMESTAMP,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'pending'`, id)
	return result.RowsAffected, result.Error
}

func (r *SalaryRepository) PayBatch(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	result := r.db.Exec(
		`UPDATE salary_records SET status = 'paid', paid_at = CURRENT_TIMESTAMP,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id IN (`+placeholders+`) AND status = 'pending'`, args...)
	return result.RowsAffected, result.Error
}

func (r *SalaryRepository) DeletePending(id int64) (int64, error) {
	result := r.db.Exec(
		"DELETE FROM salary_records WHERE id = ? AND status = 'pending'", id)
	return result.RowsAffected, result.Error
}

func (r *SalaryRepository) ListBenefits(filter salary.BenefitFilter) ([]salary.Benefit, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (name LIKE ? OR description LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.Type != "" {
		where += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.IsActive != nil {
		where += " AND is_active = ?"
		args = append(args, *filter.IsActive)
	}

	var total int64
	err := r.db.Raw("SELECT COUNT(*) FROM benefits"+where, args...).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	benefits := []salary.Benefit{}
	err = r.db.Raw(
		"SELECT * FROM benefits"+where+" ORDER BY created_at DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&benefits).Error
	if err != nil {
		return nil, 0, err
	}
	return benefits, total, nil
}

func (r *SalaryRepository) CreateBenefit(b *salary.Benefit) (int64, error) {
	if err := r.db.Create(b).Error; err != nil {
		return 0, err
	}
	return b.ID, nil
}

func (r *SalaryRepository) UpdateBenefit(b *salary.Benefit) (int64, error) {
	result := r.db.Exec(
		`UPDATE benefits SET name = ?, type = ?, description = ?, amount = ?,
		 is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		b.Name, b.Type, b.Description, b.Amount, b.IsActive, b.ID,
	)
	return result.RowsAffected, result.Error
}

func (r *SalaryRepository) ActiveBenefitExists(id int64) (bool, error) {
	var count int64
	err := r.db.Raw("SELECT COUNT(*) FROM benefits WHERE id = ? AND is_active = 1", id).Scan(&count).Error
	return count > 0, err
}

const employeeBenefitSelect = `
	SELECT eb.*, e.name AS employee_name, e.employee_number,
	       b.name AS benefit_name, b.type AS benefit_type
	FROM employee_benefits eb
	LEFT JOIN employees e ON e.id = eb.employee_id
	LEFT JOIN benefits b ON b.id = eb.benefit_id`

func (r *SalaryRepository) ListEmployeeBenefits(filter salary.EmployeeBenefitFilter) ([]salary.EmployeeBenefitView, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.EmployeeID != nil {
		where += " AND eb.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.BenefitID != nil {
		where += " AND eb.benefit_id = ?"
		args = append(args, *filter.BenefitID)
	}
	if filter.Status != "" {
		where += " AND eb.status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	err := r.db.Raw("SELECT COUNT(*) FROM employee_benefits eb"+where, args...).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []salary.EmployeeBenefitView{}
	err = r.db.Raw(
		employeeBenefitSelect+where+" ORDER BY eb.created_at DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *SalaryRepository) AssignBenefit(eb *salary.EmployeeBenefit) (int64, error) {
	if err := r.db.Create(eb).Error; err != nil {
		return 0, err
	}
	return eb.ID, nil
}

func (r *SalaryRepository) EmployeeExists(id int64) (bool, error) {
	var count int64
	err := r.db.Raw("SELECT COUNT(*) FROM employees WHERE id = ?", id).Scan(&count).Error
	return count > 0, err
}

func (r *SalaryRepository) Stats(filter salary.StatsFilter) (*salary.Stats, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Year != nil {
		where += " AND sr.year = ?"
		args = append(args, *filter.Year)
	}
	if filter.Month != nil {
		where += " AND sr.month = ?"
		args = append(args, *filter.Month)
	}

	var stats salary.Stats
	err := r.sq.Get(&stats.Overall, `
		SELECT COUNT(*) AS total_records,
		       COALESCE(SUM(sr.base_salary), 0) AS total_base_salary,
		       COALESCE(SUM(sr.net_salary), 0) AS total_net_salary,
		       COALESCE(AVG(sr.net_salary), 0) AS avg_net_salary
		FROM salary_records sr`+where, args...)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *SalaryRepository) PayslipRecord(employeeID int64, year, month int) (*salary.RecordView, error) {
	var view salary.RecordView
	result := r.db.Raw(
		recordSelect+" WHERE sr.employee_id = ? AND sr.year = ? AND sr.month = ?",
		employeeID, year, month,
	).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *SalaryRepository) PayslipBenefits(employeeID int64, monthStart string) ([]salary.PayslipBenefit, error) {
	benefits := []salary.PayslipBenefit{}
	err := r.sq.Select(&benefits, `
		SELECT b.name, b.type, COALESCE(eb.amount, b.amount) AS amount
		FROM employee_benefits eb
		JOIN benefits b ON b.id = eb.benefit_id
		WHERE eb.employee_id = ? AND eb.status = 'active'
		  AND eb.start_date <= ?
		  AND (eb.end_date IS NULL OR eb.end_date >= ?)
		ORDER BY b.name`,
		employeeID, monthStart, monthStart)
	return benefits, err
}
