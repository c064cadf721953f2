package salary_test

import (
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/hr/salary"
)

type fakeRepo struct {
	nextID           int64
	employees        map[int64]bool
	records          map[int64]*salary.Record
	benefits         map[int64]*salary.Benefit
	employeeBenefits map[int64]*salary.EmployeeBenefit
}

func newFakeRepo(employeeIDs ...int64) *fakeRepo {
	f := &fakeRepo{
		nextID:           1,
		employees:        make(map[int64]bool),
		records:          make(map[int64]*salary.Record),
		benefits:         make(map[int64]*salary.Benefit),
		employeeBenefits: make(map[int64]*salary.EmployeeBenefit),
	}
	for _, id := range employeeIDs {
		f.employees[id] = true
	}
	return f
}

func (f *fakeRepo) List(salary.RecordFilter) ([]salary.RecordView, int64, error) {
	views := []salary.RecordView{}
	for _, rec := range f.records {
		views = append(views, salary.RecordView{Record: *rec})
	}
	return views, int64(len(views)), nil
}

func (f *fakeRepo) Export(salary.RecordFilter) ([]salary.RecordView, error) {
	views, _, _ := f.List(salary.RecordFilter{})
	return views, nil
}

func (f *fakeRepo) GetByID(id int64) (*salary.RecordView, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &salary.RecordView{Record: *rec}, nil
}

func (f *fakeRepo) PeriodExists(employeeID int64, year, month int, excludeID int64) (bool, error) {
	for _, rec := range f.records {
		if rec.ID != excludeID && rec.EmployeeID == employeeID && rec.Year == year && rec.Month == month {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(rec *salary.Record) (int64, error) {
	rec.ID = f.nextID
	f.nextID++
	copied := *rec
	f.records[rec.ID] = &copied
	return rec.ID, nil
}

func (f *fakeRepo) Update(rec *salary.Record) error {
	existing := f.records[rec.ID]
	copied := *rec
	copied.Status = existing.Status
	f.records[rec.ID] = &copied
	return nil
}

func (f *fakeRepo) Pay(id int64) (int64, error) {
	rec, ok := f.records[id]
	if !ok || rec.Status != salary.StatusPending {
		return 0, nil
	}
	now := time.Now()
	rec.Status = salary.StatusPaid
	rec.PaidAt = &now
	return 1, nil
}

func (f *fakeRepo) PayBatch(ids []int64) (int64, error) {
	var paid int64
	for _, id := range ids {
		n, _ := f.Pay(id)
		paid += n
	}
	return paid, nil
}

func (f *fakeRepo) DeletePending(id int64) (int64, error) {
	rec, ok := f.records[id]
	if !ok || rec.Status != salary.StatusPending {
		return 0, nil
	}
	delete(f.records, id)
	return 1, nil
}

func (f *fakeRepo) ListBenefits(salary.BenefitFilter) ([]salary.Benefit, int64, error) {
	benefits := []salary.Benefit{}
	for _, b := range f.benefits {
		benefits = append(benefits, *b)
	}
	return benefits, int64(len(benefits)), nil
}

func (f *fakeRepo) CreateBenefit(b *salary.Benefit) (int64, error) {
	b.ID = f.nextID
	f.nextID++
	copied := *b
	f.benefits[b.ID] = &copied
	return b.ID, nil
}

func (f *fakeRepo) UpdateBenefit(b *salary.Benefit) (int64, error) {
	if _, ok := f.benefits[b.ID]; !ok {
		return 0, nil
	}
	copied := *b
	f.benefits[b.ID] = &copied
	return 1, nil
}

func (f *fakeRepo) ActiveBenefitExists(id int64) (bool, error) {
	b, ok := f.benefits[id]
	return ok && b.IsActive == 1, nil
}

func (f *fakeRepo) ListEmployeeBenefits(salary.EmployeeBenefitFilter) ([]salary.EmployeeBenefitView, int64, error) {
	views := []salary.EmployeeBenefitView{}
	for _, eb := range f.employeeBenefits {
		views = append(views, salary.EmployeeBenefitView{EmployeeBenefit: *eb})
	}
	return views, int64(len(views)), nil
}

func (f *fakeRepo) AssignBenefit(eb *salary.EmployeeBenefit) (int64, error) {
	eb.ID = f.nextID
	f.nextID++
	copied := *eb
	f.employeeBenefits[eb.ID] = &copied
	return eb.ID, nil
}

func (f *fakeRepo) EmployeeExists(id int64) (bool, error) {
	return f.employees[id], nil
}

func (f *fakeRepo) Stats(salary.StatsFilter) (*salary.Stats, error) {
	return &salary.Stats{}, nil
}

func (f *fakeRepo) PayslipRecord(employeeID int64, year, month int) (*salary.RecordView, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Year == year && rec.Month == month {
			return &salary.RecordView{Record: *rec}, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) PayslipBenefits(employeeID int64, monthStart string) ([]salary.PayslipBenefit, error) {
	lines := []salary.PayslipBenefit{}
	for _, eb := range f.employeeBenefits {
		if eb.EmployeeID != employeeID || eb.Status != salary.BenefitActive {
			continue
		}
		if eb.StartDate > monthStart {
			continue
		}
		if eb.EndDate != nil && *eb.EndDate < monthStart {
			continue
		}
		b := f.benefits[eb.BenefitID]
		amount := b.Amount
		if eb.Amount != nil {
			amount = *eb.Amount
		}
		lines = append(lines, salary.PayslipBenefit{Name: b.Name, Type: b.Type, Amount: &amount})
	}
	return lines, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(*audit.Entry) error { return nil }

func floatPtr(v float64) *float64 { return &v }

var _ = Describe("SalaryService", func() {
	var (
		repo    *fakeRepo
		service *salary.Service
		meta    audit.Meta
	)

	payFor := func(employeeID int64, year, month int) salary.RecordDTO {
		return salary.RecordDTO{
			EmployeeID:      employeeID,
			Year:            year,
			Month:           month,
			BaseSalary:      8000,
			Allowances:      500,
			OvertimePay:     300,
			Bonus:           1000,
			Deductions:      200,
			SocialInsurance: 800,
			Tax:             450,
		}
	}

	BeforeEach(func() {
		repo = newFakeRepo(1, 2)
		service = salary.NewService(repo, audit.NewRecorder(fakeAuditRepo{}, slog.Default()), slog.Default())
		meta = audit.Meta{UserID: 9}
	})

	Describe("Create", func() {
		It("derives the net amount from the pay components", func() {
			view, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.NetSalary).To(Equal(8350.0))
			Expect(view.Status).To(Equal(salary.StatusPending))
		})

		It("refuses a second record for the same month", func() {
			_, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(payFor(1, 2026, 3), meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateRecord))
		})

		It("rejects a negative component", func() {
			dto := payFor(1, 2026, 3)
			dto.Deductions = -50
			_, err := service.Create(dto, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(ContainSubstring("deductions"))
		})

		It("rejects an unknown employee", func() {
			_, err := service.Create(payFor(99, 2026, 3), meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmployeeNotFound))
		})
	})

	Describe("Update", func() {
		It("recomputes the net amount", func() {
			view, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())

			dto := payFor(1, 2026, 3)
			dto.Bonus = 2000
			updated, err := service.Update(view.ID, dto, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.NetSalary).To(Equal(9350.0))
		})

		It("refuses to touch a paid record", func() {
			view, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(service.Pay(view.ID, meta)).To(Succeed())

			_, err = service.Update(view.ID, payFor(1, 2026, 3), meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})

		It("refuses to move a record onto an occupied month", func() {
			_, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())
			view, err := service.Create(payFor(1, 2026, 4), meta)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(view.ID, payFor(1, 2026, 3), meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateRecord))
		})
	})

	Describe("Pay", func() {
		It("pays a pending record once", func() {
			view, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Pay(view.ID, meta)).To(Succeed())
			err = service.Pay(view.ID, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("PayBatch", func() {
		It("counts only the records that were still pending", func() {
			first, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())
			second, err := service.Create(payFor(2, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(service.Pay(first.ID, meta)).To(Succeed())

			paid, err := service.PayBatch([]int64{first.ID, second.ID}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(paid).To(Equal(int64(1)))
		})

		It("rejects an empty id list", func() {
			_, err := service.PayBatch(nil, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Delete", func() {
		It("removes pending records but keeps paid ones", func() {
			view, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(service.Pay(view.ID, meta)).To(Succeed())

			err = service.Delete(view.ID, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))

			pending, err := service.Create(payFor(2, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(service.Delete(pending.ID, meta)).To(Succeed())
		})
	})

	Describe("AssignBenefit", func() {
		var benefitID int64

		BeforeEach(func() {
			var err error
			benefitID, err = service.CreateBenefit(salary.BenefitDTO{
				Name: "meal allowance", Type: "allowance", Amount: 300,
			}, meta)
			Expect(err).NotTo(HaveOccurred())
		})

		It("grants an active benefit", func() {
			id, err := service.AssignBenefit(salary.AssignBenefitDTO{
				EmployeeID: 1, BenefitID: benefitID, StartDate: "2026-01-01",
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.employeeBenefits[id].Status).To(Equal(salary.BenefitActive))
		})

		It("refuses an inactive benefit", func() {
			zero := 0
			Expect(service.UpdateBenefit(benefitID, salary.BenefitDTO{
				Name: "meal allowance", Type: "allowance", Amount: 300, IsActive: &zero,
			}, meta)).To(Succeed())

			_, err := service.AssignBenefit(salary.AssignBenefitDTO{
				EmployeeID: 1, BenefitID: benefitID, StartDate: "2026-01-01",
			}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("refuses an unknown employee", func() {
			_, err := service.AssignBenefit(salary.AssignBenefitDTO{
				EmployeeID: 99, BenefitID: benefitID, StartDate: "2026-01-01",
			}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmployeeNotFound))
		})
	})

	Describe("Payslip", func() {
		It("bundles the month's record with the benefits in force", func() {
			_, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())

			benefitID, err := service.CreateBenefit(salary.BenefitDTO{
				Name: "transport", Type: "allowance", Amount: 150,
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AssignBenefit(salary.AssignBenefitDTO{
				EmployeeID: 1, BenefitID: benefitID, StartDate: "2026-01-01",
				Amount: floatPtr(200),
			}, meta)
			Expect(err).NotTo(HaveOccurred())

			payslip, err := service.Payslip(1, 2026, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(payslip.Payslip.NetSalary).To(Equal(8350.0))
			Expect(payslip.Benefits).To(HaveLen(1))
			Expect(*payslip.Benefits[0].Amount).To(Equal(200.0))
		})

		It("reports a missing month", func() {
			_, err := service.Payslip(1, 2026, 3)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})

		It("requires a usable year and month", func() {
			_, err := service.Payslip(1, 0, 0)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("ExportXLSX", func() {
		It("writes a header row and one row per record", func() {
			_, err := service.Create(payFor(1, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(payFor(2, 2026, 3), meta)
			Expect(err).NotTo(HaveOccurred())

			f, err := service.ExportXLSX(salary.RecordFilter{}, meta)
			Expect(err).NotTo(HaveOccurred())

			rows, err := f.GetRows("Sheet1")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			Expect(rows[0][0]).To(Equal("employee_number"))
			Expect(rows[0][12]).To(Equal("net_salary"))
			Expect(rows[1]).To(ContainElement("8350"))
		})
	})
})
