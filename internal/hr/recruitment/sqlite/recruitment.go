package sqlite

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/hr/recruitment"
)

type RecruitmentRepository struct {
	db *gorm.DB
	sq *sqlx.DB
}

func NewRecruitmentRepository(db *gorm.DB, sq *sqlx.DB) recruitment.Repository {
	return &RecruitmentRepository{db: db, sq: sq}
}

const positionSelect = `
	SELECT p.*, d.name AS department_name,
	       (SELECT COUNT(*) FROM job_applications a WHERE a.position_id = p.id) AS application_count
	FROM job_positions p
	LEFT JOIN departments d ON d.id = p.department_id`

func (r *RecruitmentRepository) ListPositions(filter recruitment.PositionFilter) ([]recruitment.PositionView, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND p.title LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.DepartmentID != nil {
		where += " AND p.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}
	if filter.Status != "" {
		where += " AND p.status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	if err := r.db.Raw("SELECT COUNT(*) FROM job_positions p"+where, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []recruitment.PositionView{}
	err := r.db.Raw(
		positionSelect+where+" ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *RecruitmentRepository) GetPosition(id int64) (*recruitment.PositionView, error) {
	var view recruitment.PositionView
	result := r.db.Raw(positionSelect+" WHERE p.id = ?", id).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *RecruitmentRepository) CreatePosition(p *recruitment.Position) (int64, error) {
	if err := r.db.Create(p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *RecruitmentRepository) UpdatePosition(p *recruitment.Position) error {
	return r.db.Exec(
		`UPDATE job_positions SET title = ?, department_id = ?, description = ?,
		 requirements = ?, salary_min = ?, salary_max = ?, positions_count = ?,
		 status = ?, publish_date = ?, deadline = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Title, p.DepartmentID, p.Description,
		p.Requirements, p.SalaryMin, p.SalaryMax, p.PositionsCount,
		p.Status, p.PublishDate, p.Deadline, p.ID,
	).Error
}

func (r *RecruitmentRepository) DeletePosition(id int64) error {
	return r.db.Exec("DELETE FROM job_positions WHERE id = ?", id).Error
}

func (r *RecruitmentRepository) CountApplicationsForPosition(positionID int64) (int64, error) {
	var count int64
	err := r.db.Raw(
		"SELECT COUNT(*) FROM job_applications WHERE position_id = ?", positionID,
	).Scan(&count).Error
	return count, err
}

const applicationSelect = `
	SELECT a.*, p.title AS position_title
	FROM job_applications a
	LEFT JOIN job_positions p ON p.id = a.position_id`

func (r *RecruitmentRepository) ListApplications(filter recruitment.ApplicationFilter) ([]recruitment.ApplicationView, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (a.name LIKE ? OR a.phone LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.PositionID != nil {
		where += " AND a.position_id = ?"
		args = append(args, *filter.PositionID)
	}
	if filter.Status != "" {
		where += " AND a.status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	if err := r.db.Raw("SELECT COUNT(*) FROM job_applications a"+where, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []recruitment.ApplicationView{}
	err := r.db.Raw(
		applicationSelect+where+" ORDER BY a.created_at DESC, a.id DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *RecruitmentRepository) GetApplication(id int64) (*recruitment.ApplicationView, error) {
	var view recruitment.ApplicationView
	result := r.db.Raw(applicationSelect+" WHERE a.id = ?", id).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *RecruitmentRepository) CreateApplication(a *recruitment.Application) (int64, error) {
	if err := r.db.Create(a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (r *RecruitmentRepository) UpdateApplicationStatus(a *recruitment.Application) error {
	return r.db.Exec(
		`UPDATE job_applications SET status = ?, interview_date = ?,
		 interview_notes = ?, result = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		a.Status, a.InterviewDate, a.InterviewNotes, a.Result, a.ID,
	).Error
}

func (r *RecruitmentRepository) Stats() (*recruitment.Stats, error) {
	var stats recruitment.Stats

	err := r.sq.Get(&stats.Positions, `
		SELECT COUNT(*) AS total_positions,
		       COUNT(CASE WHEN status = 'open' THEN 1 END) AS open_positions,
		       COUNT(CASE WHEN status = 'closed' THEN 1 END) AS closed_positions,
		       COUNT(CASE WHEN status = 'paused' THEN 1 END) AS paused_positions
		FROM job_positions`)
	if err != nil {
		return nil, err
	}

	err = r.sq.Get(&stats.Applications, `
		SELECT COUNT(*) AS total_applications,
		       COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_applications,
		       COUNT(CASE WHEN status = 'scheduled' THEN 1 END) AS scheduled_applications,
		       COUNT(CASE WHEN status = 'interviewed' THEN 1 END) AS interviewed_applications,
		       COUNT(CASE WHEN status = 'hired' THEN 1 END) AS hired_applications,
		       COUNT(CASE WHEN status = 'rejected' THEN 1 END) AS rejected_applications
		FROM job_applications`)
	if err != nil {
		return nil, err
	}

	stats.DepartmentDistribution = []recruitment.DepartmentRecruitment{}
	err = r.sq.Select(&stats.DepartmentDistribution, `
		SELECT d.name AS department_name,
		       COUNT(DISTINCT p.id) AS position_count,
		       COUNT(a.id) AS application_count
		FROM departments d
		LEFT JOIN job_positions p ON p.department_id = d.id
		LEFT JOIN job_applications a ON a.position_id = p.id
		GROUP BY d.id, d.name
		HAVING COUNT(DISTINCT p.id) > 0
		ORDER BY position_count DESC`)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
