package performance

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

// Rating converts a 0..400 total into the letter grade.
func Rating(totalScore int) string {
	switch {
	case totalScore >= 360:
		return "A"
	case totalScore >= 320:
		return "B"
	case totalScore >= 280:
		return "C"
	case totalScore >= 240:
		return "D"
	default:
		return "E"
	}
}

func (s *Service) List(filter ListFilter) ([]View, int64, error) {
	views, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list evaluations", err)
	}
	return views, total, nil
}

func (s *Service) GetByID(id int64) (*View, error) {
	view, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load evaluation", err)
	}
	if view == nil {
		return nil, internal.NewNotFoundError("evaluation not found", internal.ErrCodeRecordNotFound)
	}
	return view, nil
}

// Create scores a new evaluation, refusing a second one for the same
// period slot.
func (s *Service) Create(dto EvaluationDTO, meta audit.Meta) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmployeeExists(dto.EmployeeID)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check employee", err)
	}
	if !exists {
		return nil, internal.NewValidationError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	taken, err := s.repo.PeriodExists(dto.EmployeeID, dto.EvaluationPeriod, dto.Year, dto.Quarter, dto.Month)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check evaluation period", err)
	}
	if taken {
		return nil, internal.NewConflictError(
			"employee already has an evaluation for this period", internal.ErrCodeDuplicateRecord)
	}

	ev := dto.evaluation()
	ev.Status = StatusDraft
	if meta.UserID != 0 {
		uid := meta.UserID
		ev.EvaluatorID = &uid
	}

	id, err := s.repo.Create(ev)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create evaluation", err)
	}

	s.recorder.Record(meta, "create", "evaluation", &id,
		fmt.Sprintf("scored employee %d at %d (%s)", dto.EmployeeID, ev.TotalScore, ev.Rating))
	return s.GetByID(id)
}

// Update rescores a draft. Submitted evaluations are immutable.
func (s *Service) Update(id int64, dto EvaluationDTO, meta audit.Meta) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load evaluation", err)
	}
	if existing == nil {
		return nil, internal.NewNotFoundError("evaluation not found", internal.ErrCodeRecordNotFound)
	}
	if existing.Status != StatusDraft {
		return nil, internal.NewValidationError("only draft evaluations can be modified", internal.ErrCodeInvalidTransition)
	}

	ev := dto.evaluation()
	ev.ID = id
	ev.EvaluatorID = existing.EvaluatorID
	if err := s.repo.Update(ev); err != nil {
		return nil, internal.NewPersistenceError("failed to update evaluation", err)
	}

	s.recorder.Record(meta, "update", "evaluation", &id,
		fmt.Sprintf("rescored evaluation at %d (%s)", ev.TotalScore, ev.Rating))
	return s.GetByID(id)
}

// Submit finalizes a draft.
func (s *Service) Submit(id int64, meta audit.Meta) error {
	affected, err := s.repo.Submit(id)
	if err != nil {
		return internal.NewPersistenceError("failed to submit evaluation", err)
	}
	if affected == 0 {
		return internal.NewNotFoundError("evaluation not found or already submitted", internal.ErrCodeRecordNotFound)
	}

	s.recorder.Record(meta, "submit", "evaluation", &id, "submitted evaluation")
	return nil
}

// Delete removes a draft. Submitted evaluations stay on record.
func (s *Service) Delete(id int64, meta audit.Meta) error {
	affected, err := s.repo.DeleteDraft(id)
	if err != nil {
		return internal.NewPersistenceError("failed to delete evaluation", err)
	}
	if affected == 0 {
		return internal.NewNotFoundError("evaluation not found or not a draft", internal.ErrCodeRecordNotFound)
	}

	s.recorder.Record(meta, "delete", "evaluation", &id, "deleted draft evaluation")
	return nil
}

// CreateBatch seeds zero-scored draft templates for many employees in
// one period slot. Employees already holding that slot are skipped.
func (s *Service) CreateBatch(dto BatchDTO, meta audit.Meta) (int, error) {
	if len(dto.EmployeeIDs) == 0 {
		return 0, internal.NewValidationError("no employee ids provided", internal.ErrCodeValidationFailed)
	}
	if err := dto.EvaluationData.Validate(); err != nil {
		return 0, err
	}

	evs := make([]Evaluation, 0, len(dto.EmployeeIDs))
	for _, employeeID := range dto.EmployeeIDs {
		ev := Evaluation{
			EmployeeID:       employeeID,
			EvaluationPeriod: dto.EvaluationData.EvaluationPeriod,
			Year:             dto.EvaluationData.Year,
			Quarter:          dto.EvaluationData.Quarter,
			Month:            dto.EvaluationData.Month,
			Rating:           Rating(0),
			Status:           StatusDraft,
		}
		if meta.UserID != 0 {
			uid := meta.UserID
			ev.EvaluatorID = &uid
		}
		evs = append(evs, ev)
	}

	if err := s.repo.CreateBatch(evs); err != nil {
		return 0, internal.NewPersistenceError("failed to create evaluations", err)
	}

	s.recorder.Record(meta, "create", "evaluation", nil,
		fmt.Sprintf("seeded evaluation templates for %d employees", len(evs)))
	return len(evs), nil
}

func (s *Service) Stats(filter StatsFilter) (*Stats, error) {
	stats, err := s.repo.Stats(filter)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to collect performance statistics", err)
	}
	return stats, nil
}

// History returns an employee's recent evaluations with a coarse trend:
// the score delta between newest and oldest, averaged over the window.
func (s *Service) History(employeeID int64, limit int) (*History, error) {
	exists, err := s.repo.EmployeeExists(employeeID)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check employee", err)
	}
	if !exists {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	if limit <= 0 {
		limit = 10
	}
	views, err := s.repo.HistoryByEmployee(employeeID, limit)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load evaluation history", err)
	}

	history := &History{History: views, Trend: TrendStable}
	if len(views) > 1 {
		newest := float64(views[0].TotalScore)
		oldest := float64(views[len(views)-1].TotalScore)
		history.TrendValue = (newest - oldest) / float64(len(views))
		if history.TrendValue > 0 {
			history.Trend = TrendImproving
		} else if history.TrendValue < 0 {
			history.Trend = TrendDeclining
		}
	}
	return history, nil
}

func (d EvaluationDTO) evaluation() *Evaluation {
	total := d.WorkQualityScore + d.WorkEfficiencyScore + d.TeamworkScore + d.InnovationScore
	return &Evaluation{
		EmployeeID:          d.EmployeeID,
		EvaluationPeriod:    d.EvaluationPeriod,
		Year:                d.Year,
		Quarter:             d.Quarter,
		Month:               d.Month,
		WorkQualityScore:    d.WorkQualityScore,
		WorkEfficiencyScore: d.WorkEfficiencyScore,
		TeamworkScore:       d.TeamworkScore,
		InnovationScore:     d.InnovationScore,
		TotalScore:          total,
		Rating:              Rating(total),
		Comments:            d.Comments,
	}
}
