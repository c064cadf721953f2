package employee

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

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

func (s *Service) List(filter ListFilter) ([]View, int64, error) {
	views, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list employees", err)
	}
	return views, total, nil
}

func (s *Service) Get(id int64) (*View, error) {
	view, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load employee", err)
	}
	if view == nil {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}
	return view, nil
}

func (s *Service) Create(dto EmployeeDTO, meta audit.Meta) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.NumberExists(dto.EmployeeNumber, 0)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check employee number", err)
	}
	if taken {
		return nil, internal.NewConflictError("employee number already exists", internal.ErrCodeEmployeeNumberDup)
	}

	e := dto.apply(&Employee{Status: StatusActive})
	id, err := s.repo.Create(e)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create employee", err)
	}

	s.recorder.Record(meta, "create", "employee", &id, fmt.Sprintf("created employee %s", dto.EmployeeNumber))
	return s.Get(id)
}

func (s *Service) Update(id int64, dto EmployeeDTO, meta audit.Meta) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load employee", err)
	}
	if existing == nil {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	taken, err := s.repo.NumberExists(dto.EmployeeNumber, id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check employee number", err)
	}
	if taken {
		return nil, internal.NewConflictError("employee number already exists", internal.ErrCodeEmployeeNumberDup)
	}

	e := dto.apply(&Employee{ID: id, Status: existing.Status})
	if err := s.repo.Update(e); err != nil {
		return nil, internal.NewPersistenceError("failed to update employee", err)
	}

	s.recorder.Record(meta, "update", "employee", &id, fmt.Sprintf("updated employee %s", dto.EmployeeNumber))
	return s.Get(id)
}

func (s *Service) Delete(id int64, meta audit.Meta) error {
	removed, err := s.repo.Delete(id)
	if err != nil {
		return internal.NewPersistenceError("failed to delete employee", err)
	}
	if removed == 0 {
		return internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	s.recorder.Record(meta, "delete", "employee", &id, "deleted employee")
	return nil
}

func (s *Service) DeleteBatch(dto BatchDeleteDTO, meta audit.Meta) (int64, error) {
	if len(dto.IDs) == 0 {
		return 0, internal.NewValidationError("ids must be a non-empty list", internal.ErrCodeValidationFailed)
	}

	removed, err := s.repo.DeleteBatch(dto.IDs)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to delete employees", err)
	}

	s.recorder.Record(meta, "delete", "employee", nil, fmt.Sprintf("batch deleted %d employees", removed))
	return removed, nil
}

func (s *Service) Stats() (*Stats, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, internal.NewPersistenceError("failed to collect employee statistics", err)
	}
	return stats, nil
}

var exportHeader = []string{
	"employee_number", "name", "gender", "birth_date", "phone", "email",
	"department", "position", "hire_date", "status", "salary",
}

// ExportCSV renders the filtered roster as UTF-8 CSV with a BOM so
// spreadsheet tools pick up the encoding.
func (s *Service) ExportCSV(filter ListFilter, meta audit.Meta) ([]byte, error) {
	views, err := s.repo.Export(filter)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to export employees", err)
	}

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, internal.NewPersistenceError("failed to write export", err)
	}
	for _, v := range views {
		record := []string{
			v.EmployeeNumber,
			v.Name,
			deref(v.Gender),
			deref(v.BirthDate),
			deref(v.Phone),
			deref(v.Email),
			deref(v.DepartmentName),
			deref(v.Position),
			deref(v.HireDate),
			v.Status,
			formatSalary(v.Salary),
		}
		if err := w.Write(record); err != nil {
			return nil, internal.NewPersistenceError("failed to write export", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, internal.NewPersistenceError("failed to write export", err)
	}

	s.recorder.Record(meta, "export", "employee", nil, fmt.Sprintf("exported %d employees", len(views)))
	return buf.Bytes(), nil
}

func (d EmployeeDTO) apply(e *Employee) *Employee {
	e.EmployeeNumber = d.EmployeeNumber
	e.Name = d.Name
	e.Gender = d.Gender
	e.BirthDate = d.BirthDate
	e.IDCard = d.IDCard
	e.Phone = d.Phone
	e.Email = d.Email
	e.Address = d.Address
	e.Education = d.Education
	e.MaritalStatus = d.MaritalStatus
	e.DepartmentID = d.DepartmentID
	e.Position = d.Position
	e.HireDate = d.HireDate
	if d.Status != nil {
		e.Status = *d.Status
	}
	e.Salary = d.Salary
	e.EmergencyContactName = d.EmergencyContactName
	e.EmergencyContactPhone = d.EmergencyContactPhone
	e.Photo = d.Photo
	e.Notes = d.Notes
	return e
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatSalary(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
