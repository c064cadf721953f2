package attendance

import (
	"fmt"
	"log/slog"
	"math"
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

func (s *Service) ListRecords(filter RecordFilter) ([]RecordView, int64, error) {
	views, total, err := s.repo.ListRecords(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list attendance records", err)
	}
	return views, total, nil
}

func (s *Service) GetRecord(id int64) (*RecordView, error) {
	view, err := s.repo.GetRecord(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load attendance record", err)
	}
	if view == nil {
		return nil, internal.NewNotFoundError("attendance record not found", internal.ErrCodeRecordNotFound)
	}
	return view, nil
}

// SaveRecord creates or updates the employee's row for the given date.
// The second return value reports whether a new row was created.
func (s *Service) SaveRecord(dto RecordDTO, meta audit.Meta) (*RecordView, bool, error) {
	if err := dto.Validate(); err != nil {
		return nil, false, err
	}

	exists, err := s.repo.EmployeeExists(dto.EmployeeID)
	if err != nil {
		return nil, false, internal.NewPersistenceError("failed to check employee", err)
	}
	if !exists {
		return nil, false, internal.NewValidationError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	rec := &Record{
		EmployeeID:    dto.EmployeeID,
		Date:          dto.Date,
		CheckInTime:   dto.CheckInTime,
		CheckOutTime:  dto.CheckOutTime,
		WorkHours:     dto.WorkHours,
		OvertimeHours: dto.OvertimeHours,
		Status:        StatusNormal,
		Notes:         dto.Notes,
	}
	if dto.Status != nil {
		rec.Status = *dto.Status
	}
	if rec.WorkHours == nil && rec.CheckInTime != nil && rec.CheckOutTime != nil {
		hours := workHoursBetween(*rec.CheckInTime, *rec.CheckOutTime)
		rec.WorkHours = &hours
	}

	existing, err := s.repo.RecordForDate(dto.EmployeeID, dto.Date)
	if err != nil {
		return nil, false, internal.NewPersistenceError("failed to load attendance record", err)
	}

	created := existing == nil
	if created {
		id, err := s.repo.CreateRecord(rec)
		if err != nil {
			return nil, false, internal.NewPersistenceError("failed to create attendance record", err)
		}
		rec.ID = id
		s.recorder.Record(meta, "create", "attendance", &rec.ID,
			fmt.Sprintf("recorded attendance for employee %d on %s", dto.EmployeeID, dto.Date))
	} else {
		rec.ID = existing.ID
		if err := s.repo.UpdateRecord(rec); err != nil {
			return nil, false, internal.NewPersistenceError("failed to update attendance record", err)
		}
		s.recorder.Record(meta, "update", "attendance", &rec.ID,
			fmt.Sprintf("updated attendance for employee %d on %s", dto.EmployeeID, dto.Date))
	}

	view, err := s.GetRecord(rec.ID)
	if err != nil {
		return nil, false, err
	}
	return view, created, nil
}

// Punch clocks an employee in or out for today.
func (s *Service) Punch(dto PunchDTO, meta audit.Meta) (*PunchResult, error) {
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

	now := time.Now()
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")

	rec, err := s.repo.RecordForDate(dto.EmployeeID, today)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load attendance record", err)
	}

	if dto.Type == PunchIn {
		if rec != nil && rec.CheckInTime != nil {
			return nil, internal.NewValidationError("already clocked in today", internal.ErrCodeDuplicateRecord)
		}
		if rec == nil {
			rec = &Record{EmployeeID: dto.EmployeeID, Date: today, Status: StatusNormal}
			rec.CheckInTime = &clock
			id, err := s.repo.CreateRecord(rec)
			if err != nil {
				return nil, internal.NewPersistenceError("failed to record clock-in", err)
			}
			rec.ID = id
		} else {
			rec.CheckInTime = &clock
			if err := s.repo.UpdateRecord(rec); err != nil {
				return nil, internal.NewPersistenceError("failed to record clock-in", err)
			}
		}
		s.recorder.Record(meta, "punch", "attendance", &rec.ID,
			fmt.Sprintf("employee %d clocked in at %s", dto.EmployeeID, clock))
		return &PunchResult{Time: clock}, nil
	}

	if rec == nil || rec.CheckInTime == nil {
		return nil, internal.NewValidationError("clock in first", internal.ErrCodeInvalidTransition)
	}
	if rec.CheckOutTime != nil {
		return nil, internal.NewValidationError("already clocked out today", internal.ErrCodeDuplicateRecord)
	}

	hours := workHoursBetween(*rec.CheckInTime, clock)
	rec.CheckOutTime = &clock
	rec.WorkHours = &hours
	if err := s.repo.UpdateRecord(rec); err != nil {
		return nil, internal.NewPersistenceError("failed to record clock-out", err)
	}

	s.recorder.Record(meta, "punch", "attendance", &rec.ID,
		fmt.Sprintf("employee %d clocked out at %s", dto.EmployeeID, clock))
	return &PunchResult{Time: clock, WorkHours: &hours}, nil
}

func (s *Service) ListSchedules(filter ScheduleFilter) ([]ScheduleView, int64, error) {
	views, total, err := s.repo.ListSchedules(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list schedules", err)
	}
	return views, total, nil
}

// CreateSchedule plans one shift. A day already planned for the employee
// is refused.
func (s *Service) CreateSchedule(dto ScheduleDTO, meta audit.Meta) (int64, error) {
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

	existing, err := s.repo.ScheduleForDate(dto.EmployeeID, dto.Date)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to load schedule", err)
	}
	if existing != nil {
		return 0, internal.NewConflictError("employee is already scheduled for this date", internal.ErrCodeDuplicateRecord)
	}

	sch := dto.schedule(meta.UserID)
	id, err := s.repo.CreateSchedule(sch)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to create schedule", err)
	}

	s.recorder.Record(meta, "create", "schedule", &id,
		fmt.Sprintf("scheduled employee %d on %s", dto.EmployeeID, dto.Date))
	return id, nil
}

// CreateScheduleBatch plans many shifts at once, replacing any existing
// row per employee and date. All rows land in one transaction.
func (s *Service) CreateScheduleBatch(dtos []ScheduleDTO, meta audit.Meta) (int, error) {
	if len(dtos) == 0 {
		return 0, internal.NewValidationError("no schedules provided", internal.ErrCodeValidationFailed)
	}

	schedules := make([]Schedule, 0, len(dtos))
	for i, dto := range dtos {
		if err := dto.Validate(); err != nil {
			return 0, internal.NewValidationError(
				fmt.Sprintf("schedule %d: %s", i+1, err.Message), internal.ErrCodeValidationFailed)
		}
		schedules = append(schedules, *dto.schedule(meta.UserID))
	}

	if err := s.repo.UpsertSchedules(schedules); err != nil {
		return 0, internal.NewPersistenceError("failed to create schedules", err)
	}

	s.recorder.Record(meta, "create", "schedule", nil,
		fmt.Sprintf("batch scheduled %d shifts", len(schedules)))
	return len(schedules), nil
}

func (s *Service) UpdateSchedule(id int64, dto ScheduleDTO, meta audit.Meta) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	sch := dto.schedule(meta.UserID)
	sch.ID = id
	affected, err := s.repo.UpdateSchedule(sch)
	if err != nil {
		return internal.NewPersistenceError("failed to update schedule", err)
	}
	if affected == 0 {
		return internal.NewNotFoundError("schedule not found", internal.ErrCodeRecordNotFound)
	}

	s.recorder.Record(meta, "update", "schedule", &id,
		fmt.Sprintf("updated schedule for employee %d on %s", dto.EmployeeID, dto.Date))
	return nil
}

func (s *Service) DeleteSchedule(id int64, meta audit.Meta) error {
	affected, err := s.repo.DeleteSchedule(id)
	if err != nil {
		return internal.NewPersistenceError("failed to delete schedule", err)
	}
	if affected == 0 {
		return internal.NewNotFoundError("schedule not found", internal.ErrCodeRecordNotFound)
	}

	s.recorder.Record(meta, "delete", "schedule", &id, "deleted schedule")
	return nil
}

func (s *Service) Stats(filter StatsFilter) (*Stats, error) {
	stats, err := s.repo.Stats(filter)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to collect attendance statistics", err)
	}
	return stats, nil
}

// MonthlyReport summarizes one employee's records and schedules for a
// calendar month.
func (s *Service) MonthlyReport(employeeID int64, year, month int) (*MonthlyReport, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, internal.NewValidationError("year and month are required", internal.ErrCodeValidationFailed)
	}

	exists, err := s.repo.EmployeeExists(employeeID)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check employee", err)
	}
	if !exists {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	start := fmt.Sprintf("%04d-%02d-01", year, month)
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	records, err := s.repo.RecordsBetween(employeeID, start, end)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load attendance records", err)
	}
	schedules, err := s.repo.SchedulesBetween(employeeID, start, end)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load schedules", err)
	}

	report := &MonthlyReport{Records: records, Schedules: schedules}
	report.Summary.TotalDays = len(records)
	for _, rec := range records {
		switch rec.Status {
		case StatusNormal:
			report.Summary.NormalDays++
		case StatusLate:
			report.Summary.LateDays++
		case StatusAbsent:
			report.Summary.Absences++
		}
		if rec.WorkHours != nil {
			report.Summary.TotalWorkHours += *rec.WorkHours
		}
		if rec.OvertimeHours != nil {
			report.Summary.TotalOvertimeHours += *rec.OvertimeHours
		}
	}
	return report, nil
}

// workHoursBetween computes the span between two HH:MM clock readings in
// hours, never negative.
func workHoursBetween(checkIn, checkOut string) float64 {
	in, err := time.Parse("15:04", checkIn)
	if err != nil {
		return 0
	}
	out, err := time.Parse("15:04", checkOut)
	if err != nil {
		return 0
	}
	hours := out.Sub(in).Hours()
	if hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}

func (d ScheduleDTO) schedule(userID int64) *Schedule {
	sch := &Schedule{
		EmployeeID: d.EmployeeID,
		Date:       d.Date,
		ShiftType:  d.ShiftType,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
	}
	if userID != 0 {
		uid := userID
		sch.CreatedBy = &uid
	}
	return sch
}
