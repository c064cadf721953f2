package leave

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

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

func (s *Service) ListRequests(filter RequestFilter) ([]RequestView, int64, error) {
	views, total, err := s.repo.ListRequests(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list leave requests", err)
	}
	return views, total, nil
}

func (s *Service) GetRequest(id int64) (*RequestView, error) {
	view, err := s.repo.GetRequest(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load leave request", err)
	}
	if view == nil {
		return nil, internal.NewNotFoundError("leave request not found", internal.ErrCodeRecordNotFound)
	}
	return view, nil
}

func (s *Service) CreateRequest(dto RequestDTO, meta audit.Meta) (*RequestView, error) {
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

	req := dto.request()
	req.Status = RequestPending
	id, err := s.repo.CreateRequest(req)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create leave request", err)
	}

	s.recorder.Record(meta, "create", "leave", &id,
		fmt.Sprintf("filed %s leave for employee %d", dto.LeaveType, dto.EmployeeID))
	return s.GetRequest(id)
}

// UpdateRequest rewrites a request while it still awaits approval.
func (s *Service) UpdateRequest(id int64, dto RequestDTO, meta audit.Meta) (*RequestView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetRequest(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load leave request", err)
	}
	if existing == nil {
		return nil, internal.NewNotFoundError("leave request not found", internal.ErrCodeRecordNotFound)
	}
	if existing.Status != RequestPending {
		return nil, internal.NewValidationError("only pending requests can be modified", internal.ErrCodeInvalidTransition)
	}

	req := dto.request()
	req.ID = id
	if err := s.repo.UpdateRequest(req); err != nil {
		return nil, internal.NewPersistenceError("failed to update leave request", err)
	}

	s.recorder.Record(meta, "update", "leave", &id, "updated leave request")
	return s.GetRequest(id)
}

// DeleteRequest withdraws a request that has not been decided yet.
func (s *Service) DeleteRequest(id int64, meta audit.Meta) error {
	existing, err := s.repo.GetRequest(id)
	if err != nil {
		return internal.NewPersistenceError("failed to load leave request", err)
	}
	if existing == nil {
		return internal.NewNotFoundError("leave request not found", internal.ErrCodeRecordNotFound)
	}
	if existing.Status != RequestPending {
		return internal.NewValidationError("only pending requests can be withdrawn", internal.ErrCodeInvalidTransition)
	}

	if err := s.repo.DeleteRequest(id); err != nil {
		return internal.NewPersistenceError("failed to delete leave request", err)
	}

	s.recorder.Record(meta, "delete", "leave", &id, "withdrew leave request")
	return nil
}

// Approve decides a pending request on behalf of the acting session.
func (s *Service) Approve(id int64, dto ApprovalDTO, meta audit.Meta) (*RequestView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetRequest(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load leave request", err)
	}
	if existing == nil {
		return nil, internal.NewNotFoundError("leave request not found", internal.ErrCodeRecordNotFound)
	}
	if existing.Status != RequestPending {
		return nil, internal.NewConflictError("leave request has already been decided", internal.ErrCodeInvalidTransition)
	}

	if err := s.repo.SetApproval(id, dto.Status, meta.UserID, dto.ApprovalNotes); err != nil {
		return nil, internal.NewPersistenceError("failed to record approval", err)
	}

	s.recorder.Record(meta, "approve", "leave", &id,
		fmt.Sprintf("marked leave request %s", dto.Status))
	return s.GetRequest(id)
}

func (s *Service) ListCompensatory(filter CompensatoryFilter) ([]CompensatoryView, int64, error) {
	views, total, err := s.repo.ListCompensatory(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list compensatory records", err)
	}
	return views, total, nil
}

// CreateCompensatory banks overtime as time off, capped at one working
// day per record.
func (s *Service) CreateCompensatory(dto CompensatoryDTO, meta audit.Meta) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	exists, err := s.repo.EmployeeExists(dto.EmployeeID)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to check employee", err)
	}
	if !exists {
		return 0, internal.NewValidationError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	existing, err := s.repo.CompensatoryForDate(dto.EmployeeID, dto.OvertimeDate)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to load compensatory record", err)
	}
	if existing != nil {
		return 0, internal.NewConflictError("overtime date already recorded", internal.ErrCodeDuplicateRecord)
	}

	compHours := dto.OvertimeHours
	if compHours > maxCompHoursPerDay {
		compHours = maxCompHoursPerDay
	}

	comp := &Compensatory{
		EmployeeID:     dto.EmployeeID,
		OvertimeDate:   dto.OvertimeDate,
		OvertimeHours:  dto.OvertimeHours,
		CompLeaveHours: compHours,
		Status:         CompEarned,
	}
	id, err := s.repo.CreateCompensatory(comp)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to create compensatory record", err)
	}

	s.recorder.Record(meta, "create", "compensatory", &id,
		fmt.Sprintf("banked %.1f compensatory hours for employee %d", compHours, dto.EmployeeID))
	return id, nil
}

// UseCompensatory spends an earned record on a chosen day.
func (s *Service) UseCompensatory(id int64, dto UseCompensatoryDTO, meta audit.Meta) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	affected, err := s.repo.UseCompensatory(id, dto.CompLeaveDate)
	if err != nil {
		return internal.NewPersistenceError("failed to use compensatory record", err)
	}
	if affected == 0 {
		return internal.NewNotFoundError("compensatory record not found or already used", internal.ErrCodeRecordNotFound)
	}

	s.recorder.Record(meta, "update", "compensatory", &id,
		fmt.Sprintf("used compensatory leave on %s", dto.CompLeaveDate))
	return nil
}

func (s *Service) Stats(filter StatsFilter) (*Stats, error) {
	stats, err := s.repo.Stats(filter)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to collect leave statistics", err)
	}
	return stats, nil
}

// Balance reports approved leave taken per type in a year plus the
// remaining compensatory hours.
func (s *Service) Balance(employeeID int64, year int) (*Balance, error) {
	exists, err := s.repo.EmployeeExists(employeeID)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check employee", err)
	}
	if !exists {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	if year == 0 {
		year = time.Now().Year()
	}

	usage, err := s.repo.LeaveUsage(employeeID, strconv.Itoa(year))
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load leave usage", err)
	}
	compBalance, err := s.repo.CompensatoryBalance(employeeID)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load compensatory balance", err)
	}

	return &Balance{
		Year:                year,
		LeaveUsage:          usage,
		CompensatoryBalance: compBalance,
	}, nil
}

func (d RequestDTO) request() *Request {
	return &Request{
		EmployeeID: d.EmployeeID,
		LeaveType:  d.LeaveType,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		DaysCount:  d.DaysCount,
		Reason:     d.Reason,
	}
}
