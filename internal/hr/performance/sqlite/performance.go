package sqlite

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/hr/performance"
)

type PerformanceRepository struct {
	db *gorm.DB
	sq *sqlx.DB
}

func NewPerformanceRepository(db *gorm.DB, sq *sqlx.DB) performance.Repository {
	return &PerformanceRepository{db: db, sq: sq}
}

const evaluationSelect = `
	SELECT pe.*, e.name AS employee_name, e.employee_number, e.position,
	       d.name AS department_name, evaluator.real_name AS evaluator_name
	FROM performance_evaluations pe
	LEFT JOIN employees e ON e.id = pe.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN users evaluator ON evaluator.id = pe.evaluator_id`

func (r *PerformanceRepository) List(filter performance.ListFilter) ([]performance.View, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (e.name LIKE ? OR e.employee_number LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.EmployeeID != nil {
		where += " AND pe.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.DepartmentID != nil {
		where += " AND e.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}
	if filter.EvaluationPeriod != "" {
		where += " AND pe.evaluation_period = ?"
		args = append(args, filter.EvaluationPeriod)
	}
	if filter.Year != nil {
		where += " AND pe.year = ?"
		args = append(args, *filter.Year)
	}
	if filter.Quarter != nil {
		where += " AND pe.quarter = ?"
		args = append(args, *filter.Quarter)
	}
	if filter.Status != "" {
		where += " AND pe.status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	err := r.db.Raw(
		"SELECT COUNT(*) FROM performance_evaluations pe LEFT JOIN employees e ON e.id = pe.employee_id"+where,
		args...,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []performance.View{}
	err = r.db.Raw(
		evaluationSelect+where+" ORDER BY pe.created_at DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *PerformanceRepository) GetByID(id int64) (*performance.View, error) {
	var view performance.View
	result := r.db.Raw(evaluationSelect+" WHERE pe.id = ?", id).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *PerformanceRepository) PeriodExists(employeeID int64, period string, year int, quarter, month *int) (bool, error) {
	query := "SELECT COUNT(*) FROM performance_evaluations WHERE employee_id = ? AND evaluation_period = ? AND year = ?"
	args := []interface{}{employeeID, period, year}

	if period == performance.PeriodQuarterly && quarter != nil {
		query += " AND quarter = ?"
		args = append(args, *quarter)
	} else if period == performance.PeriodMonthly && month != nil {
		query += " AND month = ?"
		args = append(args, *month)
	}

	var count int64
	err := r.db.Raw(query, args...).Scan(&count).Error
	return count > 0, err
}

func (r *PerformanceRepository) Create(ev *performance.Evaluation) (int64, error) {
	if err := r.db.Create(ev).Error; err != nil {
		return 0, err
	}
	return ev.ID, nil
}

func (r *PerformanceRepository) Update(ev *performance.Evaluation) error {
	return r.db.Exec(
		`UPDATE performance_evaluations SET employee_id = ?, evaluation_period = ?,
		 year = ?, quarter = ?, month = ?, work_quality_score = ?,
		 work_efficiency_score = ?, teamwork_score = ?, innovation_score = ?,
		 total_score = ?, rating = ?, comments = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		ev.EmployeeID, ev.EvaluationPeriod,
		ev.Year, ev.Quarter, ev.Month, ev.WorkQualityScore,
		ev.WorkEfficiencyScore, ev.TeamworkScore, ev.InnovationScore,
		ev.TotalScore, ev.Rating, ev.Comments, ev.ID,
	).Error
}

func (r *PerformanceRepository) Submit(id int64) (int64, error) {
	result := r.db.Exec(
		`UPDATE performance_evaluations SET status = 'submitted', updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'draft'`, id)
	return result.RowsAffected, result.Error
}

func (r *PerformanceRepository) DeleteDraft(id int64) (int64, error) {
	result := r.db.Exec(
		"DELETE FROM performance_evaluations WHERE id = ? AND status = 'draft'", id)
	return result.RowsAffected, result.Error
}

func (r *PerformanceRepository) CreateBatch(evs []performance.Evaluation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, ev := range evs {
			err := tx.Exec(
				`INSERT OR IGNORE INTO performance_evaluations
				 (employee_id, evaluator_id, evaluation_period, year, quarter, month,
				  work_quality_score, work_efficiency_score, teamwork_score, innovation_score,
				  total_score, rating, status, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, 0, 0, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
				ev.EmployeeID, ev.EvaluatorID, ev.EvaluationPeriod, ev.Year, ev.Quarter, ev.Month,
				ev.Rating, ev.Status,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PerformanceRepository) HistoryByEmployee(employeeID int64, limit int) ([]performance.View, error) {
	views := []performance.View{}
	err := r.db.Raw(
		evaluationSelect+` WHERE pe.employee_id = ?
		 ORDER BY pe.year DESC, pe.quarter DESC, pe.month DESC LIMIT ?`,
		employeeID, limit,
	).Scan(&views).Error
	return views, err
}

func (r *PerformanceRepository) EmployeeExists(id int64) (bool, error) {
	var count int64
	err := r.db.Raw("SELECT COUNT(*) FROM employees WHERE id = ?", id).Scan(&count).Error
	return count > 0, err
}

func (r *PerformanceRepository) Stats(filter performance.StatsFilter) (*performance.Stats, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Year != nil {
		where += " AND pe.year = ?"
		args = append(args, *filter.Year)
	}
	if filter.Quarter != nil {
		where += " AND pe.quarter = ?"
		args = append(args, *filter.Quarter)
	}
	if filter.DepartmentID != nil {
		where += " AND e.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}

	var stats performance.Stats
	err := r.sq.Get(&stats.Overall, `
		SELECT COUNT(*) AS total_evaluations,
		       COUNT(CASE WHEN pe.status = 'draft' THEN 1 END) AS draft_count,
		       COUNT(CASE WHEN pe.status = 'submitted' THEN 1 END) AS submitted_count,
		       COALESCE(AVG(pe.total_score), 0) AS avg_score,
		       COUNT(CASE WHEN pe.rating = 'A' THEN 1 END) AS rating_a_count,
		       COUNT(CASE WHEN pe.rating = 'B' THEN 1 END) AS rating_b_count,
		       COUNT(CASE WHEN pe.rating = 'C' THEN 1 END) AS rating_c_count,
		       COUNT(CASE WHEN pe.rating = 'D' THEN 1 END) AS rating_d_count,
		       COUNT(CASE WHEN pe.rating = 'E' THEN 1 END) AS rating_e_count
		FROM performance_evaluations pe
		LEFT JOIN employees e ON e.id = pe.employee_id`+where, args...)
	if err != nil {
		return nil, err
	}

	stats.DepartmentDistribution = []performance.DepartmentPerformance{}
	err = r.sq.Select(&stats.DepartmentDistribution, `
		SELECT d.name AS department_name,
		       COUNT(pe.id) AS evaluation_count,
		       COALESCE(AVG(pe.total_score), 0) AS avg_score,
		       COUNT(CASE WHEN pe.rating = 'A' THEN 1 END) AS rating_a_count,
		       COUNT(CASE WHEN pe.rating = 'B' THEN 1 END) AS rating_b_count,
		       COUNT(CASE WHEN pe.rating = 'C' THEN 1 END) AS rating_c_count
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.id
		LEFT JOIN performance_evaluations pe ON pe.employee_id = e.id
		`+where+` AND pe.id IS NOT NULL
		GROUP BY d.id, d.name
		ORDER BY avg_score DESC`, args...)
	if err != nil {
		return nil, err
	}

	err = r.sq.Get(&stats.ScoreBreakdown, `
		SELECT COALESCE(AVG(pe.work_quality_score), 0) AS avg_work_quality,
		       COALESCE(AVG(pe.work_efficiency_score), 0) AS avg_work_efficiency,
		       COALESCE(AVG(pe.teamwork_score), 0) AS avg_teamwork,
		       COALESCE(AVG(pe.innovation_score), 0) AS avg_innovation
		FROM performance_evaluations pe
		LEFT JOIN employees e ON e.id = pe.employee_id`+where, args...)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
