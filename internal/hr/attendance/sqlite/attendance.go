package sqlite

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/hr/attendance"
)

type AttendanceRepository struct {
	db *gorm.DB
	sq *sqlx.DB
}

func NewAttendanceRepository(db *gorm.DB, sq *sqlx.DB) attendance.Repository {
	return &AttendanceRepository{db: db, sq: sq}
}

const recordSelect = `
	SELECT ar.*, e.name AS employee_name, e.employee_number, d.name AS department_name
	FROM attendance_records ar
	LEFT JOIN employees e ON e.id = ar.employee_id
	LEFT JOIN departments d ON d.id = e.department_id`

func recordWhere(filter attendance.RecordFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (e.name LIKE ? OR e.employee_number LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.EmployeeID != nil {
		where += " AND ar.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.DepartmentID != nil {
		where += " AND e.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}
	if filter.DateStart != "" {
		where += " AND ar.date >= ?"
		args = append(args, filter.DateStart)
	}
	if filter.DateEnd != "" {
		where += " AND ar.date <= ?"
		args = append(args, filter.DateEnd)
	}
	if filter.Status != "" {
		where += " AND ar.status = ?"
		args = append(args, filter.Status)
	}
	return where, args
}

func (r *AttendanceRepository) ListRecords(filter attendance.RecordFilter) ([]attendance.RecordView, int64, error) {
	where, args := recordWhere(filter)

	var total int64
	err := r.db.Raw(
		"SELECT COUNT(*) FROM attendance_records ar LEFT JOIN employees e ON e.id = ar.employee_id"+where,
		args...,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []attendance.RecordView{}
	err = r.db.Raw(
		recordSelect+where+" ORDER BY ar.date DESC, ar.check_in_time DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *AttendanceRepository) GetRecord(id int64) (*attendance.RecordView, error) {
	var view attendance.RecordView
	result := r.db.Raw(recordSelect+" WHERE ar.id = ?", id).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *AttendanceRepository) RecordForDate(employeeID int64, date string) (*attendance.Record, error) {
	var rec attendance.Record
	result := r.db.Raw(
		"SELECT * FROM attendance_records WHERE employee_id = ? AND date = ?",
		employeeID, date,
	).Scan(&rec)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (r *AttendanceRepository) RecordsBetween(employeeID int64, dateStart, dateEnd string) ([]attendance.Record, error) {
	records := []attendance.Record{}
	err := r.db.Raw(
		"SELECT * FROM attendance_records WHERE employee_id = ? AND date >= ? AND date <= ? ORDER BY date",
		employeeID, dateStart, dateEnd,
	).Scan(&records).Error
	return records, err
}

func (r *AttendanceRepository) CreateRecord(rec *attendance.Record) (int64, error) {
	if err := r.db.Create(rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (r *AttendanceRepository) UpdateRecord(rec *attendance.Record) error {
	return r.db.Exec(
		`UPDATE attendance_records SET check_in_time = ?, check_out_time = ?,
		 work_hours = ?, overtime_hours = ?, status = ?, notes = ?,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		rec.CheckInTime, rec.CheckOutTime,
		rec.WorkHours, rec.OvertimeHours, rec.Status, rec.Notes, rec.ID,
	).Error
}

const scheduleSelect = `
	SELECT ws.*, e.name AS employee_name, e.employee_number,
	       d.name AS department_name, u.real_name AS creator_name
	FROM work_schedules ws
	LEFT JOIN employees e ON e.id = ws.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN users u ON u.id = ws.created_by`

func (r *AttendanceRepository) ListSchedules(filter attendance.ScheduleFilter) ([]attendance.ScheduleView, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (e.name LIKE ? OR e.employee_number LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.EmployeeID != nil {
		where += " AND ws.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.DepartmentID != nil {
		where += " AND e.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}
	if filter.DateStart != "" {
		where += " AND ws.date >= ?"
		args = append(args, filter.DateStart)
	}
	if filter.DateEnd != "" {
		where += " AND ws.date <= ?"
		args = append(args, filter.DateEnd)
	}
	if filter.ShiftType != "" {
		where += " AND ws.shift_type = ?"
		args = append(args, filter.ShiftType)
	}

	var total int64
	err := r.db.Raw(
		"SELECT COUNT(*) FROM work_schedules ws LEFT JOIN employees e ON e.id = ws.employee_id"+where,
		args...,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []attendance.ScheduleView{}
	err = r.db.Raw(
		scheduleSelect+where+" ORDER BY ws.date DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *AttendanceRepository) ScheduleForDate(employeeID int64, date string) (*attendance.Schedule, error) {
	var sch attendance.Schedule
	result := r.db.Raw(
		"SELECT * FROM work_schedules WHERE employee_id = ? AND date = ?",
		employeeID, date,
	).Scan(&sch)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &sch, nil
}

func (r *AttendanceRepository) SchedulesBetween(employeeID int64, dateStart, dateEnd string) ([]attendance.Schedule, error) {
	schedules := []attendance.Schedule{}
	err := r.db.Raw(
		"SELECT * FROM work_schedules WHERE employee_id = ? AND date >= ? AND date <= ? ORDER BY date",
		employeeID, dateStart, dateEnd,
	).Scan(&schedules).Error
	return schedules, err
}

func (r *AttendanceRepository) CreateSchedule(sch *attendance.Schedule) (int64, error) {
	if err := r.db.Create(sch).Error; err != nil {
		return 0, err
	}
	return sch.ID, nil
}

func (r *AttendanceRepository) UpsertSchedules(schedules []attendance.Schedule) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, sch := range schedules {
			err := tx.Exec(
				`INSERT INTO work_schedules
				 (employee_id, date, shift_type, start_time, end_time, created_by, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
				 ON CONFLICT(employee_id, date) DO UPDATE SET
				 shift_type = excluded.shift_type, start_time = excluded.start_time,
				 end_time = excluded.end_time, created_by = excluded.created_by,
				 updated_at = CURRENT_TIMESTAMP`,
				sch.EmployeeID, sch.Date, sch.ShiftType, sch.StartTime, sch.EndTime, sch.CreatedBy,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AttendanceRepository) UpdateSchedule(sch *attendance.Schedule) (int64, error) {
	result := r.db.Exec(
		`UPDATE work_schedules SET employee_id = ?, date = ?, shift_type = ?,
		 start_time = ?, end_time = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		sch.EmployeeID, sch.Date, sch.ShiftType, sch.StartTime, sch.EndTime, sch.ID,
	)
	return result.RowsAffected, result.Error
}

func (r *AttendanceRepository) DeleteSchedule(id int64) (int64, error) {
	result := r.db.Exec("DELETE FROM work_schedules WHERE id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *AttendanceRepository) EmployeeExists(id int64) (bool, error) {
	var count int64
	err := r.db.Raw("SELECT COUNT(*) FROM employees WHERE id = ?", id).Scan(&count).Error
	return count > 0, err
}

func (r *AttendanceRepository) Stats(filter attendance.StatsFilter) (*attendance.Stats, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.DateStart != "" {
		where += " AND ar.date >= ?"
		args = append(args, filter.DateStart)
	}
	if filter.DateEnd != "" {
		where += " AND ar.date <= ?"
		args = append(args, filter.DateEnd)
	}
	if filter.DepartmentID != nil {
		where += " AND e.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}

	var stats attendance.Stats
	err := r.sq.Get(&stats.Overall, `
		SELECT COUNT(*) AS total_records,
		       COUNT(CASE WHEN ar.status = 'normal' THEN 1 END) AS normal_count,
		       COUNT(CASE WHEN ar.status = 'late' THEN 1 END) AS late_count,
		       COUNT(CASE WHEN ar.status = 'early_leave' THEN 1 END) AS early_leave_count,
		       COUNT(CASE WHEN ar.status = 'absent' THEN 1 END) AS absent_count,
		       COALESCE(AVG(ar.work_hours), 0) AS avg_work_hours,
		       COALESCE(SUM(ar.overtime_hours), 0) AS total_overtime_hours
		FROM attendance_records ar
		LEFT JOIN employees e ON e.id = ar.employee_id`+where, args...)
	if err != nil {
		return nil, err
	}

	stats.DepartmentDistribution = []attendance.DepartmentAttendance{}
	err = r.sq.Select(&stats.DepartmentDistribution, `
		SELECT d.name AS department_name,
		       COUNT(ar.id) AS record_count,
		       COALESCE(AVG(ar.work_hours), 0) AS avg_work_hours,
		       COALESCE(SUM(ar.overtime_hours), 0) AS total_overtime_hours,
		       COUNT(CASE WHEN ar.status = 'late' THEN 1 END) AS late_count,
		       COUNT(CASE WHEN ar.status = 'absent' THEN 1 END) AS absent_count
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.id
		LEFT JOIN attendance_records ar ON ar.employee_id = e.id
		`+where+` AND ar.id IS NOT NULL
		GROUP BY d.id, d.name
		ORDER BY record_count DESC`, args...)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
