package sqlite

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/hr/leave"
)

type LeaveRepository struct {
	db *gorm.DB
	sq *sqlx.DB
}

func NewLeaveRepository(db *gorm.DB, sq *sqlx.DB) leave.Repository {
	return &LeaveRepository{db: db, sq: sq}
}

const requestSelect = `
	SELECT lr.*, e.name AS employee_name, e.employee_number, e.phone AS employee_phone,
	       d.name AS department_name, approver.real_name AS approver_name
	FROM leave_requests lr
	LEFT JOIN employees e ON e.id = lr.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN users approver ON approver.id = lr.approved_by`

func (r *LeaveRepository) ListRequests(filter leave.RequestFilter) ([]leave.RequestView, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (e.name LIKE ? OR e.employee_number LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.EmployeeID != nil {
		where += " AND lr.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.Status != "" {
		where += " AND lr.status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	err := r.db.Raw(
		"SELECT COUNT(*) FROM leave_requests lr LEFT JOIN employees e ON e.id = lr.employee_id"+where,
		args...,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []leave.RequestView{}
	err = r.db.Raw(
		requestSelect+where+" ORDER BY lr.created_at DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *LeaveRepository) GetRequest(id int64) (*leave.RequestView, error) {
	var view leave.RequestView
	result := r.db.Raw(requestSelect+" WHERE lr.id = ?", id).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *LeaveRepository) CreateRequest(req *leave.Request) (int64, error) {
	if err := r.db.Create(req).Error; err != nil {
		return 0, err
	}
	return req.ID, nil
}

func (r *LeaveRepository) UpdateRequest(req *leave.Request) error {
	return r.db.Exec(
		`UPDATE leave_requests SET employee_id = ?, leave_type = ?, start_date = ?,
		 end_date = ?, days_count = ?, reason = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		req.EmployeeID, req.LeaveType, req.StartDate,
		req.EndDate, req.DaysCount, req.Reason, req.ID,
	).Error
}

func (r *LeaveRepository) DeleteRequest(id int64) error {
	return r.db.Exec("DELETE FROM leave_requests WHERE id = ?", id).Error
}

func (r *LeaveRepository) SetApproval(id int64, status string, approvedBy int64, notes *string) error {
	return r.db.Exec(
		`UPDATE leave_requests SET status = ?, approved_by = ?, approved_at = CURRENT_TIMESTAMP,
		 approval_notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		status, approvedBy, notes, id,
	).Error
}

const compensatorySelect = `
	SELECT cl.*, e.name AS employee_name, e.employee_number, d.name AS department_name
	FROM compensatory_leaves cl
	LEFT JOIN employees e ON e.id = cl.employee_id
	LEFT JOIN departments d ON d.id = e.department_id`

func (r *LeaveRepository) ListCompensatory(filter leave.CompensatoryFilter) ([]leave.CompensatoryView, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (e.name LIKE ? OR e.employee_number LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.EmployeeID != nil {
		where += " AND cl.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.DepartmentID != nil {
		where += " AND e.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}
	if filter.Status != "" {
		where += " AND cl.status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	err := r.db.Raw(
		"SELECT COUNT(*) FROM compensatory_leaves cl LEFT JOIN employees e ON e.id = cl.employee_id"+where,
		args...,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []leave.CompensatoryView{}
	err = r.db.Raw(
		compensatorySelect+where+" ORDER BY cl.created_at DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *LeaveRepository) GetCompensatory(id int64) (*leave.Compensatory, error) {
	var comp leave.Compensatory
	result := r.db.Raw("SELECT * FROM compensatory_leaves WHERE id = ?", id).Scan(&comp)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &comp, nil
}

func (r *LeaveRepository) CompensatoryForDate(employeeID int64, overtimeDate string) (*leave.Compensatory, error) {
	var comp leave.Compensatory
	result := r.db.Raw(
		"SELECT * FROM compensatory_leaves WHERE employee_id = ? AND overtime_date = ?",
		employeeID, overtimeDate,
	).Scan(&comp)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &comp, nil
}

func (r *LeaveRepository) CreateCompensatory(comp *leave.Compensatory) (int64, error) {
	if err := r.db.Create(comp).Error; err != nil {
		return 0, err
	}
	return comp.ID, nil
}

func (r *LeaveRepository) UseCompensatory(id int64, compLeaveDate string) (int64, error) {
	result := r.db.Exec(
		`UPDATE compensatory_leaves
		 SET status = 'used', comp_leave_date = ?, used_at = CURRENT_TIMESTAMP,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'earned'`,
		compLeaveDate, id,
	)
	return result.RowsAffected, result.Error
}

func (r *LeaveRepository) EmployeeExists(id int64) (bool, error) {
	var count int64
	err := r.db.Raw("SELECT COUNT(*) FROM employees WHERE id = ?", id).Scan(&count).Error
	return count > 0, err
}

func statsWhere(filter leave.StatsFilter, table string) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.DateStart != "" {
		if table == "lr" {
			where += " AND lr.start_date >= ?"
		} else {
			where += " AND cl.overtime_date >= ?"
		}
		args = append(args, filter.DateStart)
	}
	if filter.DateEnd != "" {
		if table == "lr" {
			where += " AND lr.end_date <= ?"
		} else {
			where += " AND cl.overtime_date <= ?"
		}
		args = append(args, filter.DateEnd)
	}
	if filter.DepartmentID != nil {
		where += " AND e.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}
	return where, args
}

func (r *LeaveRepository) Stats(filter leave.StatsFilter) (*leave.Stats, error) {
	var stats leave.Stats

	requestWhere, requestArgs := statsWhere(filter, "lr")
	err := r.sq.Get(&stats.LeaveOverview, `
		SELECT COUNT(*) AS total_requests,
		       COUNT(CASE WHEN lr.status = 'pending' THEN 1 END) AS pending_requests,
		       COUNT(CASE WHEN lr.status = 'approved' THEN 1 END) AS approved_requests,
		       COUNT(CASE WHEN lr.status = 'rejected' THEN 1 END) AS rejected_requests,
		       COALESCE(SUM(CASE WHEN lr.status = 'approved' THEN lr.days_count ELSE 0 END), 0) AS total_leave_days
		FROM leave_requests lr
		LEFT JOIN employees e ON e.id = lr.employee_id`+requestWhere, requestArgs...)
	if err != nil {
		return nil, err
	}

	stats.TypeDistribution = []leave.TypeUsage{}
	err = r.sq.Select(&stats.TypeDistribution, `
		SELECT lr.leave_type,
		       COUNT(*) AS request_count,
		       COALESCE(SUM(CASE WHEN lr.status = 'approved' THEN lr.days_count ELSE 0 END), 0) AS approved_days
		FROM leave_requests lr
		LEFT JOIN employees e ON e.id = lr.employee_id
		`+requestWhere+`
		GROUP BY lr.leave_type
		ORDER BY request_count DESC`, requestArgs...)
	if err != nil {
		return nil, err
	}

	compWhere, compArgs := statsWhere(filter, "cl")
	err = r.sq.Get(&stats.CompensatoryOverview, `
		SELECT COUNT(*) AS total_comp_records,
		       COUNT(CASE WHEN cl.status = 'earned' THEN 1 END) AS available_comp,
		       COUNT(CASE WHEN cl.status = 'used' THEN 1 END) AS used_comp,
		       COALESCE(SUM(CASE WHEN cl.status = 'earned' THEN cl.comp_leave_hours ELSE 0 END), 0) AS available_hours,
		       COALESCE(SUM(CASE WHEN cl.status = 'used' THEN cl.comp_leave_hours ELSE 0 END), 0) AS used_hours
		FROM compensatory_leaves cl
		LEFT JOIN employees e ON e.id = cl.employee_id`+compWhere, compArgs...)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *LeaveRepository) LeaveUsage(employeeID int64, year string) ([]leave.TypeUsed, error) {
	usage := []leave.TypeUsed{}
	err := r.sq.Select(&usage, `
		SELECT leave_type, COALESCE(SUM(days_count), 0) AS used_days
		FROM leave_requests
		WHERE employee_id = ? AND status = 'approved'
		  AND strftime('%Y', start_date) = ?
		GROUP BY leave_type
		ORDER BY leave_type`, employeeID, year)
	return usage, err
}

func (r *LeaveRepository) CompensatoryBalance(employeeID int64) (float64, error) {
	var balance float64
	err := r.sq.Get(&balance, `
		SELECT COALESCE(
		         SUM(CASE WHEN status = 'earned' THEN comp_leave_hours ELSE 0 END) -
		         SUM(CASE WHEN status = 'used' THEN comp_leave_hours ELSE 0 END), 0)
		FROM compensatory_leaves
		WHERE employee_id = ?`, employeeID)
	return balance, err
}
