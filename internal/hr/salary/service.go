package salary

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

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

func (s *Service) List(filter RecordFilter) ([]RecordView, int64, error) {
	views, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list salary records", err)
	}
	return views, total, nil
}

func (s *Service) GetByID(id int64) (*RecordView, error) {
	view, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load salary record", err)
	}
	if view == nil {
		return nil, internal.NewNotFoundError("salary record not found", internal.ErrCodeRecordNotFound)
	}
	return view, nil
}

// Create opens one month's pay record. The month must not be recorded
// twice for the same employee.
func (s *Service) Create(dto RecordDTO, meta audit.Meta) (*RecordView, error) {
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

	taken, err := s.repo.PeriodExists(dto.EmployeeID, dto.Year, dto.Month, 0)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check salary period", err)
	}
	if taken {
		return nil, internal.NewConflictError(
			"employee already has a salary record for this month", internal.ErrCodeDuplicateRecord)
	}

	rec := dto.record()
	rec.Status = StatusPending
	id, err := s.repo.Create(rec)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create salary record", err)
	}

	s.recorder.Record(meta, "create", "salary", &id,
		fmt.Sprintf("created %d-%02d salary for employee %d", dto.Year, dto.Month, dto.EmployeeID))
	return s.GetByID(id)
}

// Update rewrites a pending record. Paid records are immutable.
func (s *Service) Update(id int64, dto RecordDTO, meta audit.Meta) (*RecordView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load salary record", err)
	}
	if existing == nil {
		return nil, internal.NewNotFoundError("salary record not found", internal.ErrCodeRecordNotFound)
	}
	if existing.Status == StatusPaid {
		return nil, internal.NewValidationError("paid salary records cannot be modified", internal.ErrCodeInvalidTransition)
	}

	taken, err := s.repo.PeriodExists(dto.EmployeeID, dto.Year, dto.Month, id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check salary period", err)
	}
	if taken {
		return nil, internal.NewConflictError(
			"employee already has a salary record for this month", internal.ErrCodeDuplicateRecord)
	}

	rec := dto.record()
	rec.ID = id
	if err := s.repo.Update(rec); err != nil {
		return nil, internal.NewPersistenceError("failed to update salary record", err)
	}

	s.recorder.Record(meta, "update", "salary", &id, "updated salary record")
	return s.GetByID(id)
}

// Pay marks one pending record as paid.
func (s *Service) Pay(id int64, meta audit.Meta) error {
	affected, err := s.repo.Pay(id)
	if err != nil {
		return internal.NewPersistenceError("failed to pay salary record", err)
	}
	if affected == 0 {
		return internal.NewNotFoundError("salary record not found or already paid", internal.ErrCodeRecordNotFound)
	}

	s.recorder.Record(meta, "pay", "salary", &id, "paid salary record")
	return nil
}

// PayBatch pays every pending record in the list and reports how many
// were actually paid.
func (s *Service) PayBatch(ids []int64, meta audit.Meta) (int64, error) {
	if len(ids) == 0 {
		return 0, internal.NewValidationError("no salary record ids provided", internal.ErrCodeValidationFailed)
	}

	paid, err := s.repo.PayBatch(ids)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to pay salary records", err)
	}

	s.recorder.Record(meta, "pay", "salary", nil, fmt.Sprintf("paid %d salary records", paid))
	return paid, nil
}

// Delete removes a pending record. Paid records stay on the books.
func (s *Service) Delete(id int64, meta audit.Meta) error {
	affected, err := s.repo.DeletePending(id)
	if err != nil {
		return internal.NewPersistenceError("failed to delete salary record", err)
	}
	if affected == 0 {
		return internal.NewNotFoundError("salary record not found or already paid", internal.ErrCodeRecordNotFound)
	}

	s.recorder.Record(meta, "delete", "salary", &id, "deleted salary record")
	return nil
}

func (s *Service) ListBenefits(filter BenefitFilter) ([]Benefit, int64, error) {
	benefits, total, err := s.repo.ListBenefits(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list benefits", err)
	}
	return benefits, total, nil
}

func (s *Service) CreateBenefit(dto BenefitDTO, meta audit.Meta) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	b := dto.benefit()
	id, err := s.repo.CreateBenefit(b)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to create benefit", err)
	}

	s.recorder.Record(meta, "create", "benefit", &id, fmt.Sprintf("created benefit %s", dto.Name))
	return id, nil
}

func (s *Service) UpdateBenefit(id int64, dto BenefitDTO, meta audit.Meta) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	b := dto.benefit()
	b.ID = id
	affected, err := s.repo.UpdateBenefit(b)
	if err != nil {
		return internal.NewPersistenceError("failed to update benefit", err)
	}
	if affected == 0 {
		return internal.NewNotFoundError("benefit not found", internal.ErrCodeRecordNotFound)
	}

	s.recorder.Record(meta, "update", "benefit", &id, fmt.Sprintf("updated benefit %s", dto.Name))
	return nil
}

func (s *Service) ListEmployeeBenefits(filter EmployeeBenefitFilter) ([]EmployeeBenefitView, int64, error) {
	views, total, err := s.repo.ListEmployeeBenefits(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list employee benefits", err)
	}
	return views, total, nil
}

// AssignBenefit grants an active catalog benefit to an employee.
func (s *Service) AssignBenefit(dto AssignBenefitDTO, meta audit.Meta) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	employeeOK, err := s.repo.EmployeeExists(dto.EmployeeID)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to check employee", err)
	}
	if !employeeOK {
		return 0, internal.NewValidationError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	benefitOK, err := s.repo.ActiveBenefitExists(dto.BenefitID)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to check benefit", err)
	}
	if !benefitOK {
		return 0, internal.NewValidationError("benefit not found or inactive", internal.ErrCodeRecordNotFound)
	}

	eb := &EmployeeBenefit{
		EmployeeID: dto.EmployeeID,
		BenefitID:  dto.BenefitID,
		StartDate:  dto.StartDate,
		EndDate:    dto.EndDate,
		Amount:     dto.Amount,
		Status:     BenefitActive,
	}
	id, err := s.repo.AssignBenefit(eb)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to assign benefit", err)
	}

	s.recorder.Record(meta, "create", "benefit", &id,
		fmt.Sprintf("assigned benefit %d to employee %d", dto.BenefitID, dto.EmployeeID))
	return id, nil
}

func (s *Service) Stats(filter StatsFilter) (*Stats, error) {
	stats, err := s.repo.Stats(filter)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to collect salary statistics", err)
	}
	return stats, nil
}

// Payslip assembles one month's record plus the benefits in force that
// month.
func (s *Service) Payslip(employeeID int64, year, month int) (*Payslip, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, internal.NewValidationError("year and month are required", internal.ErrCodeValidationFailed)
	}

	record, err := s.repo.PayslipRecord(employeeID, year, month)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load payslip", err)
	}
	if record == nil {
		return nil, internal.NewNotFoundError("no salary record for this month", internal.ErrCodeRecordNotFound)
	}

	monthStart := fmt.Sprintf("%04d-%02d-01", year, month)
	benefits, err := s.repo.PayslipBenefits(employeeID, monthStart)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load payslip benefits", err)
	}

	return &Payslip{Payslip: *record, Benefits: benefits}, nil
}

var exportHeader = []interface{}{
	"employee_number", "name", "department", "year", "month",
	"base_salary", "allowances", "overtime_pay", "bonus",
	"deductions", "social_insurance", "tax", "net_salary", "status",
}

// ExportXLSX renders every record matching the filter as a spreadsheet.
func (s *Service) ExportXLSX(filter RecordFilter, meta audit.Meta) (*excelize.File, error) {
	views, err := s.repo.Export(filter)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to export salary records", err)
	}

	f := excelize.NewFile()
	const sheet = "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, internal.NewPersistenceError("failed to build export", err)
	}

	for i, view := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, internal.NewPersistenceError("failed to build export", err)
		}
		row := []interface{}{
			deref(view.EmployeeNumber), deref(view.EmployeeName), deref(view.DepartmentName),
			view.Year, view.Month,
			view.BaseSalary, view.Allowances, view.OvertimePay, view.Bonus,
			view.Deductions, view.SocialInsurance, view.Tax, view.NetSalary, view.Status,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, internal.NewPersistenceError("failed to build export", err)
		}
	}

	s.recorder.Record(meta, "export", "salary", nil,
		fmt.Sprintf("exported %d salary records", len(views)))
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (d RecordDTO) record() *Record {
	gross := d.BaseSalary + d.Allowances + d.OvertimePay + d.Bonus
	deductions := d.Deductions + d.SocialInsurance + d.Tax
	return &Record{
		EmployeeID:      d.EmployeeID,
		Year:            d.Year,
		Month:           d.Month,
		BaseSalary:      d.BaseSalary,
		Allowances:      d.Allowances,
		OvertimePay:     d.OvertimePay,
		Bonus:           d.Bonus,
		Deductions:      d.Deductions,
		SocialInsurance: d.SocialInsurance,
		Tax:             d.Tax,
		NetSalary:       gross - deductions,
	}
}

func (d BenefitDTO) benefit() *Benefit {
	b := &Benefit{
		Name:        d.Name,
		Type:        d.Type,
		Description: d.Description,
		Amount:      d.Amount,
		IsActive:    1,
	}
	if d.IsActive != nil {
		b.IsActive = *d.IsActive
	}
	return b
}
