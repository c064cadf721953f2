package recruitment

import (
	"fmt"
	"log/slog"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
)

type Service struct {
	repo     Repository
	recorder *audit.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func (s *Service) ListPositions(filter PositionFilter) ([]PositionView, int64, error) {
	views, total, err := s.repo.ListPositions(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list positions", err)
	}
	return views, total, nil
}

func (s *Service) GetPosition(id int64) (*PositionView, error) {
	view, err := s.repo.GetPosition(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load position", err)
	}
	if view == nil {
		return nil, internal.NewNotFoundError("position not found", internal.ErrCodeRecordNotFound)
	}
	return view, nil
}

// CreatePosition opens a vacancy attributed to the acting session.
func (s *Service) CreatePosition(dto PositionDTO, meta audit.Meta) (*PositionView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := dto.apply(&Position{Status: PositionOpen, PositionsCount: 1})
	if meta.UserID != 0 {
		uid := meta.UserID
		p.CreatedBy = &uid
	}

	id, err := s.repo.CreatePosition(p)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create position", err)
	}

	s.recorder.Record(meta, "create", "position", &id, fmt.Sprintf("created position %s", dto.Title))
	return s.GetPosition(id)
}

func (s *Service) UpdatePosition(id int64, dto PositionDTO, meta audit.Meta) (*PositionView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetPosition(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load position", err)
	}
	if existing == nil {
		return nil, internal.NewNotFoundError("position not found", internal.ErrCodeRecordNotFound)
	}

	p := dto.apply(&Position{
		ID:             id,
		Status:         existing.Status,
		PositionsCount: existing.PositionsCount,
		CreatedBy:      existing.CreatedBy,
	})
	if err := s.repo.UpdatePosition(p); err != nil {
		return nil, internal.NewPersistenceError("failed to update position", err)
	}

	s.recorder.Record(meta, "update", "position", &id, fmt.Sprintf("updated position %s", dto.Title))
	return s.GetPosition(id)
}

// DeletePosition removes a vacancy no one has applied to yet.
func (s *Service) DeletePosition(id int64, meta audit.Meta) error {
	existing, err := s.repo.GetPosition(id)
	if err != nil {
		return internal.NewPersistenceError("failed to load position", err)
	}
	if existing == nil {
		return internal.NewNotFoundError("position not found", internal.ErrCodeRecordNotFound)
	}

	applications, err := s.repo.CountApplicationsForPosition(id)
	if err != nil {
		return internal.NewPersistenceError("failed to check position applications", err)
	}
	if applications > 0 {
		return internal.NewConflictError("position already has applications", internal.ErrCodeDuplicateRecord)
	}

	if err := s.repo.DeletePosition(id); err != nil {
		return internal.NewPersistenceError("failed to delete position", err)
	}

	s.recorder.Record(meta, "delete", "position", &id, fmt.Sprintf("deleted position %s", existing.Title))
	return nil
}

func (s *Service) ListApplications(filter ApplicationFilter) ([]ApplicationView, int64, error) {
	views, total, err := s.repo.ListApplications(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list applications", err)
	}
	return views, total, nil
}

func (s *Service) GetApplication(id int64) (*ApplicationView, error) {
	view, err := s.repo.GetApplication(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load application", err)
	}
	if view == nil {
		return nil, internal.NewNotFoundError("application not found", internal.ErrCodeRecordNotFound)
	}
	return view, nil
}

// CreateApplication files a candidate against an open position.
func (s *Service) CreateApplication(dto ApplicationDTO, meta audit.Meta) (*ApplicationView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	position, err := s.repo.GetPosition(dto.PositionID)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load position", err)
	}
	if position == nil {
		return nil, internal.NewValidationError("position not found", internal.ErrCodeRecordNotFound)
	}
	if position.Status != PositionOpen {
		return nil, internal.NewConflictError("position is not open for applications", internal.ErrCodeInvalidTransition)
	}

	positionID := dto.PositionID
	a := &Application{
		PositionID:     &positionID,
		Name:           dto.Name,
		Gender:         dto.Gender,
		BirthDate:      dto.BirthDate,
		Phone:          dto.Phone,
		Email:          dto.Email,
		Education:      dto.Education,
		WorkExperience: dto.WorkExperience,
		ResumeFile:     dto.ResumeFile,
		Status:         ApplicationPending,
	}

	id, err := s.repo.CreateApplication(a)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create application", err)
	}

	s.recorder.Record(meta, "create", "application", &id, fmt.Sprintf("created application for %s", dto.Name))
	return s.GetApplication(id)
}

// UpdateApplicationStatus advances a candidate along the pipeline,
// refusing moves the pipeline does not define.
func (s *Service) UpdateApplicationStatus(id int64, dto ApplicationStatusDTO, meta audit.Meta) (*ApplicationView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetApplication(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load application", err)
	}
	if existing == nil {
		return nil, internal.NewNotFoundError("application not found", internal.ErrCodeRecordNotFound)
	}

	if !CanTransition(existing.Status, dto.Status) {
		return nil, internal.NewConflictError(
			fmt.Sprintf("cannot move application from %s to %s", existing.Status, dto.Status),
			internal.ErrCodeInvalidTransition)
	}

	a := existing.Application
	a.Status = dto.Status
	if dto.InterviewDate != nil {
		a.InterviewDate = dto.InterviewDate
	}
	if dto.InterviewNotes != nil {
		a.InterviewNotes = dto.InterviewNotes
	}
	if dto.Result != nil {
		a.Result = dto.Result
	}

	if err := s.repo.UpdateApplicationStatus(&a); err != nil {
		return nil, internal.NewPersistenceError("failed to update application", err)
	}

	s.recorder.Record(meta, "update", "application", &id,
		fmt.Sprintf("moved application to %s", dto.Status))
	return s.GetApplication(id)
}

func (s *Service) Stats() (*Stats, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, internal.NewPersistenceError("failed to collect recruitment statistics", err)
	}
	return stats, nil
}

func (d PositionDTO) apply(p *Position) *Position {
	p.Title = d.Title
	p.DepartmentID = d.DepartmentID
	p.Description = d.Description
	p.Requirements = d.Requirements
	p.SalaryMin = d.SalaryMin
	p.SalaryMax = d.SalaryMax
	if d.PositionsCount != nil {
		p.PositionsCount = *d.PositionsCount
	}
	if d.Status != nil {
		p.Status = *d.Status
	}
	p.PublishDate = d.PublishDate
	p.Deadline = d.Deadline
	return p
}
