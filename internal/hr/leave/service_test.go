package leave_test

import (
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/hr/leave"
)

type fakeRepo struct {
	nextID       int64
	employees    map[int64]bool
	requests     map[int64]*leave.Request
	compensatory map[int64]*leave.Compensatory
}

func newFakeRepo(employeeIDs ...int64) *fakeRepo {
	f := &fakeRepo{
		nextID:       1,
		employees:    make(map[int64]bool),
		requests:     make(map[int64]*leave.Request),
		compensatory: make(map[int64]*leave.Compensatory),
	}
	for _, id := range employeeIDs {
		f.employees[id] = true
	}
	return f
}

func (f *fakeRepo) ListRequests(leave.RequestFilter) ([]leave.RequestView, int64, error) {
	views := []leave.RequestView{}
	for _, req := range f.requests {
		views = append(views, leave.RequestView{Request: *req})
	}
	return views, int64(len(views)), nil
}

func (f *fakeRepo) GetRequest(id int64) (*leave.RequestView, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	return &leave.RequestView{Request: *req}, nil
}

func (f *fakeRepo) CreateRequest(req *leave.Request) (int64, error) {
	req.ID = f.nextID
	f.nextID++
	copied := *req
	f.requests[req.ID] = &copied
	return req.ID, nil
}

func (f *fakeRepo) UpdateRequest(req *leave.Request) error {
	existing := f.requests[req.ID]
	copied := *req
	copied.Status = existing.Status
	f.requests[req.ID] = &copied
	return nil
}

func (f *fakeRepo) DeleteRequest(id int64) error {
	delete(f.requests, id)
	return nil
}

func (f *fakeRepo) SetApproval(id int64, status string, approvedBy int64, notes *string) error {
	req := f.requests[id]
	req.Status = status
	req.ApprovedBy = &approvedBy
	now := time.Now()
	req.ApprovedAt = &now
	req.ApprovalNotes = notes
	return nil
}

func (f *fakeRepo) ListCompensatory(leave.CompensatoryFilter) ([]leave.CompensatoryView, int64, error) {
	views := []leave.CompensatoryView{}
	for _, comp := range f.compensatory {
		views = append(views, leave.CompensatoryView{Compensatory: *comp})
	}
	return views, int64(len(views)), nil
}

func (f *fakeRepo) GetCompensatory(id int64) (*leave.Compensatory, error) {
	comp, ok := f.compensatory[id]
	if !ok {
		return nil, nil
	}
	copied := *comp
	return &copied, nil
}

func (f *fakeRepo) CompensatoryForDate(employeeID int64, overtimeDate string) (*leave.Compensatory, error) {
	for _, comp := range f.compensatory {
		if comp.EmployeeID == employeeID && comp.OvertimeDate == overtimeDate {
			copied := *comp
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateCompensatory(comp *leave.Compensatory) (int64, error) {
	comp.ID = f.nextID
	f.nextID++
	copied := *comp
	f.compensatory[comp.ID] = &copied
	return comp.ID, nil
}

func (f *fakeRepo) UseCompensatory(id int64, compLeaveDate string) (int64, error) {
	comp, ok := f.compensatory[id]
	if !ok || comp.Status != leave.CompEarned {
		return 0, nil
	}
	comp.Status = leave.CompUsed
	comp.CompLeaveDate = &compLeaveDate
	now := time.Now()
	comp.UsedAt = &now
	return 1, nil
}

func (f *fakeRepo) EmployeeExists(id int64) (bool, error) {
	return f.employees[id], nil
}

func (f *fakeRepo) Stats(leave.StatsFilter) (*leave.Stats, error) {
	return &leave.Stats{}, nil
}

func (f *fakeRepo) LeaveUsage(employeeID int64, year string) ([]leave.TypeUsed, error) {
	usage := []leave.TypeUsed{}
	totals := map[string]float64{}
	for _, req := range f.requests {
		if req.EmployeeID == employeeID && req.Status == leave.RequestApproved && req.StartDate[:4] == year {
			totals[req.LeaveType] += req.DaysCount
		}
	}
	for leaveType, days := range totals {
		usage = append(usage, leave.TypeUsed{LeaveType: leaveType, UsedDays: days})
	}
	return usage, nil
}

func (f *fakeRepo) CompensatoryBalance(employeeID int64) (float64, error) {
	var balance float64
	for _, comp := range f.compensatory {
		if comp.EmployeeID != employeeID {
			continue
		}
		if comp.Status == leave.CompEarned {
			balance += comp.CompLeaveHours
		} else {
			balance -= comp.CompLeaveHours
		}
	}
	return balance, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(*audit.Entry) error { return nil }

var _ = Describe("LeaveService", func() {
	var (
		repo    *fakeRepo
		service *leave.Service
		meta    audit.Meta
	)

	validRequest := func() leave.RequestDTO {
		return leave.RequestDTO{
			EmployeeID: 1,
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-05-04",
			EndDate:    "2026-05-06",
			DaysCount:  3,
			Reason:     "family visit",
		}
	}

	file := func() int64 {
		view, err := service.CreateRequest(validRequest(), meta)
		Expect(err).NotTo(HaveOccurred())
		return view.ID
	}

	BeforeEach(func() {
		repo = newFakeRepo(1, 2)
		service = leave.NewService(repo, audit.NewRecorder(fakeAuditRepo{}, slog.Default()), slog.Default())
		meta = audit.Meta{UserID: 9}
	})

	Describe("CreateRequest", func() {
		It("starts requests in the pending state", func() {
			view, err := service.CreateRequest(validRequest(), meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Status).To(Equal(leave.RequestPending))
		})

		It("rejects an end date before the start date", func() {
			dto := validRequest()
			dto.EndDate = "2026-05-01"
			_, err := service.CreateRequest(dto, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(ContainSubstring("end_date"))
		})

		It("rejects less than half a day", func() {
			dto := validRequest()
			dto.DaysCount = 0.25
			_, err := service.CreateRequest(dto, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects an unknown employee", func() {
			dto := validRequest()
			dto.EmployeeID = 99
			_, err := service.CreateRequest(dto, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmployeeNotFound))
		})
	})

	Describe("Approve", func() {
		It("stamps the approver and decision", func() {
			id := file()
			view, err := service.Approve(id, leave.ApprovalDTO{Status: leave.RequestApproved}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Status).To(Equal(leave.RequestApproved))
			Expect(*view.ApprovedBy).To(Equal(int64(9)))
			Expect(view.ApprovedAt).NotTo(BeNil())
		})

		It("refuses to decide twice", func() {
			id := file()
			_, err := service.Approve(id, leave.ApprovalDTO{Status: leave.RequestRejected}, meta)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Approve(id, leave.ApprovalDTO{Status: leave.RequestApproved}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})
	})

	Describe("UpdateRequest", func() {
		It("modifies a pending request", func() {
			id := file()
			dto := validRequest()
			dto.Reason = "medical appointment"
			view, err := service.UpdateRequest(id, dto, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Reason).To(Equal("medical appointment"))
		})

		It("refuses once the request is decided", func() {
			id := file()
			_, err := service.Approve(id, leave.ApprovalDTO{Status: leave.RequestApproved}, meta)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateRequest(id, validRequest(), meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("DeleteRequest", func() {
		It("withdraws a pending request", func() {
			id := file()
			Expect(service.DeleteRequest(id, meta)).To(Succeed())
			Expect(repo.requests).To(BeEmpty())
		})

		It("refuses to withdraw a decided request", func() {
			id := file()
			_, err := service.Approve(id, leave.ApprovalDTO{Status: leave.RequestApproved}, meta)
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteRequest(id, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("CreateCompensatory", func() {
		It("caps banked hours at a working day", func() {
			id, err := service.CreateCompensatory(leave.CompensatoryDTO{
				EmployeeID:    1,
				OvertimeDate:  "2026-05-01",
				OvertimeHours: 11,
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.compensatory[id].CompLeaveHours).To(Equal(8.0))
			Expect(repo.compensatory[id].Status).To(Equal(leave.CompEarned))
		})

		It("refuses a duplicate overtime date", func() {
			dto := leave.CompensatoryDTO{EmployeeID: 1, OvertimeDate: "2026-05-01", OvertimeHours: 2}
			_, err := service.CreateCompensatory(dto, meta)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateCompensatory(dto, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateRecord))
		})
	})

	Describe("UseCompensatory", func() {
		It("spends an earned record once", func() {
			id, err := service.CreateCompensatory(leave.CompensatoryDTO{
				EmployeeID:    1,
				OvertimeDate:  "2026-05-01",
				OvertimeHours: 4,
			}, meta)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.UseCompensatory(id, leave.UseCompensatoryDTO{CompLeaveDate: "2026-05-10"}, meta)).To(Succeed())
			Expect(repo.compensatory[id].Status).To(Equal(leave.CompUsed))

			err = service.UseCompensatory(id, leave.UseCompensatoryDTO{CompLeaveDate: "2026-05-11"}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("Balance", func() {
		It("sums approved leave for the year and net compensatory hours", func() {
			id := file()
			_, err := service.Approve(id, leave.ApprovalDTO{Status: leave.RequestApproved}, meta)
			Expect(err).NotTo(HaveOccurred())

			compID, err := service.CreateCompensatory(leave.CompensatoryDTO{
				EmployeeID:    1,
				OvertimeDate:  "2026-05-01",
				OvertimeHours: 4,
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateCompensatory(leave.CompensatoryDTO{
				EmployeeID:    1,
				OvertimeDate:  "2026-05-02",
				OvertimeHours: 3,
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(service.UseCompensatory(compID, leave.UseCompensatoryDTO{CompLeaveDate: "2026-05-20"}, meta)).To(Succeed())

			balance, err := service.Balance(1, 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(balance.Year).To(Equal(2026))
			Expect(balance.LeaveUsage).To(ConsistOf(leave.TypeUsed{LeaveType: leave.TypeAnnual, UsedDays: 3}))
			Expect(balance.CompensatoryBalance).To(Equal(-1.0))
		})

		It("returns not found for an unknown employee", func() {
			_, err := service.Balance(99, 2026)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})
})
