package attendance_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/hr/attendance"
)

type fakeRepo struct {
	nextID    int64
	employees map[int64]bool
	records   map[int64]*attendance.Record
	schedules map[int64]*attendance.Schedule
}

func newFakeRepo(employeeIDs ...int64) *fakeRepo {
	f := &fakeRepo{
		nextID:    1,
		employees: make(map[int64]bool),
		records:   make(map[int64]*attendance.Record),
		schedules: make(map[int64]*attendance.Schedule),
	}
	for _, id := range employeeIDs {
		f.employees[id] = true
	}
	return f
}

func (f *fakeRepo) ListRecords(attendance.RecordFilter) ([]attendance.RecordView, int64, error) {
	views := []attendance.RecordView{}
	for _, rec := range f.records {
		views = append(views, attendance.RecordView{Record: *rec})
	}
	return views, int64(len(views)), nil
}

func (f *fakeRepo) GetRecord(id int64) (*attendance.RecordView, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &attendance.RecordView{Record: *rec}, nil
}

func (f *fakeRepo) RecordForDate(employeeID int64, date string) (*attendance.Record, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date == date {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) RecordsBetween(employeeID int64, dateStart, dateEnd string) ([]attendance.Record, error) {
	records := []attendance.Record{}
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date >= dateStart && rec.Date <= dateEnd {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (f *fakeRepo) CreateRecord(rec *attendance.Record) (int64, error) {
	rec.ID = f.nextID
	f.nextID++
	copied := *rec
	f.records[rec.ID] = &copied
	return rec.ID, nil
}

func (f *fakeRepo) UpdateRecord(rec *attendance.Record) error {
	copied := *rec
	f.records[rec.ID] = &copied
	return nil
}

func (f *fakeRepo) ListSchedules(attendance.ScheduleFilter) ([]attendance.ScheduleView, int64, error) {
	views := []attendance.ScheduleView{}
	for _, sch := range f.schedules {
		views = append(views, attendance.ScheduleView{Schedule: *sch})
	}
	return views, int64(len(views)), nil
}

func (f *fakeRepo) ScheduleForDate(employeeID int64, date string) (*attendance.Schedule, error) {
	for _, sch := range f.schedules {
		if sch.EmployeeID == employeeID && sch.Date == date {
			copied := *sch
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) SchedulesBetween(employeeID int64, dateStart, dateEnd string) ([]attendance.Schedule, error) {
	schedules := []attendance.Schedule{}
	for _, sch := range f.schedules {
		if sch.EmployeeID == employeeID && sch.Date >= dateStart && sch.Date <= dateEnd {
			schedules = append(schedules, *sch)
		}
	}
	return schedules, nil
}

func (f *fakeRepo) CreateSchedule(sch *attendance.Schedule) (int64, error) {
	sch.ID = f.nextID
	f.nextID++
	copied := *sch
	f.schedules[sch.ID] = &copied
	return sch.ID, nil
}

func (f *fakeRepo) UpsertSchedules(schedules []attendance.Schedule) error {
	for i := range schedules {
		sch := schedules[i]
		existing, _ := f.ScheduleForDate(sch.EmployeeID, sch.Date)
		if existing != nil {
			sch.ID = existing.ID
			f.schedules[sch.ID] = &sch
			continue
		}
		sch.ID = f.nextID
		f.nextID++
		f.schedules[sch.ID] = &sch
	}
	return nil
}

func (f *fakeRepo) UpdateSchedule(sch *attendance.Schedule) (int64, error) {
	if _, ok := f.schedules[sch.ID]; !ok {
		return 0, nil
	}
	copied := *sch
	f.schedules[sch.ID] = &copied
	return 1, nil
}

func (f *fakeRepo) DeleteSchedule(id int64) (int64, error) {
	if _, ok := f.schedules[id]; !ok {
		return 0, nil
	}
	delete(f.schedules, id)
	return 1, nil
}

func (f *fakeRepo) EmployeeExists(id int64) (bool, error) {
	return f.employees[id], nil
}

func (f *fakeRepo) Stats(attendance.StatsFilter) (*attendance.Stats, error) {
	return &attendance.Stats{}, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(*audit.Entry) error { return nil }

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

var _ = Describe("AttendanceService", func() {
	var (
		repo    *fakeRepo
		service *attendance.Service
		meta    audit.Meta
	)

	BeforeEach(func() {
		repo = newFakeRepo(1, 2)
		service = attendance.NewService(repo, audit.NewRecorder(fakeAuditRepo{}, slog.Default()), slog.Default())
		meta = audit.Meta{UserID: 9}
	})

	Describe("SaveRecord", func() {
		It("derives work hours from the clock times", func() {
			view, created, err := service.SaveRecord(attendance.RecordDTO{
				EmployeeID:   1,
				Date:         "2026-03-02",
				CheckInTime:  strPtr("09:00"),
				CheckOutTime: strPtr("17:30"),
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(*view.WorkHours).To(BeNumerically("~", 8.5, 0.001))
			Expect(view.Status).To(Equal(attendance.StatusNormal))
		})

		It("keeps explicitly supplied work hours", func() {
			view, _, err := service.SaveRecord(attendance.RecordDTO{
				EmployeeID:   1,
				Date:         "2026-03-02",
				CheckInTime:  strPtr("09:00"),
				CheckOutTime: strPtr("17:30"),
				WorkHours:    f64Ptr(7.5),
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(*view.WorkHours).To(Equal(7.5))
		})

		It("never reports negative hours for an overnight clock pair", func() {
			view, _, err := service.SaveRecord(attendance.RecordDTO{
				EmployeeID:   1,
				Date:         "2026-03-02",
				CheckInTime:  strPtr("22:00"),
				CheckOutTime: strPtr("06:00"),
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(*view.WorkHours).To(BeZero())
		})

		It("updates in place when the day already has a row", func() {
			_, created, err := service.SaveRecord(attendance.RecordDTO{
				EmployeeID: 1,
				Date:       "2026-03-02",
				Status:     strPtr(attendance.StatusLate),
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())

			view, created, err := service.SaveRecord(attendance.RecordDTO{
				EmployeeID: 1,
				Date:       "2026-03-02",
				Status:     strPtr(attendance.StatusNormal),
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(view.Status).To(Equal(attendance.StatusNormal))
			Expect(repo.records).To(HaveLen(1))
		})

		It("rejects an unknown employee", func() {
			_, _, err := service.SaveRecord(attendance.RecordDTO{
				EmployeeID: 99,
				Date:       "2026-03-02",
			}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmployeeNotFound))
		})

		It("rejects a malformed clock time", func() {
			_, _, err := service.SaveRecord(attendance.RecordDTO{
				EmployeeID:  1,
				Date:        "2026-03-02",
				CheckInTime: strPtr("25:00"),
			}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Punch", func() {
		It("refuses a second clock-in on the same day", func() {
			_, err := service.Punch(attendance.PunchDTO{EmployeeID: 1, Type: attendance.PunchIn}, meta)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Punch(attendance.PunchDTO{EmployeeID: 1, Type: attendance.PunchIn}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateRecord))
		})

		It("refuses to clock out before clocking in", func() {
			_, err := service.Punch(attendance.PunchDTO{EmployeeID: 1, Type: attendance.PunchOut}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})

		It("closes the day with computed hours and refuses a repeat", func() {
			_, err := service.Punch(attendance.PunchDTO{EmployeeID: 1, Type: attendance.PunchIn}, meta)
			Expect(err).NotTo(HaveOccurred())

			result, err := service.Punch(attendance.PunchDTO{EmployeeID: 1, Type: attendance.PunchOut}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WorkHours).NotTo(BeNil())
			Expect(*result.WorkHours).To(BeNumerically(">=", 0))

			_, err = service.Punch(attendance.PunchDTO{EmployeeID: 1, Type: attendance.PunchOut}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateRecord))
		})

		It("rejects an unknown punch direction", func() {
			_, err := service.Punch(attendance.PunchDTO{EmployeeID: 1, Type: "sideways"}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("CreateSchedule", func() {
		It("attributes the shift to the acting session", func() {
			id, err := service.CreateSchedule(attendance.ScheduleDTO{
				EmployeeID: 1,
				Date:       "2026-03-02",
				ShiftType:  attendance.ShiftDay,
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(*repo.schedules[id].CreatedBy).To(Equal(int64(9)))
		})

		It("refuses a second shift on an already planned day", func() {
			dto := attendance.ScheduleDTO{
				EmployeeID: 1,
				Date:       "2026-03-02",
				ShiftType:  attendance.ShiftDay,
			}
			_, err := service.CreateSchedule(dto, meta)
			Expect(err).NotTo(HaveOccurred())

			dto.ShiftType = attendance.ShiftNight
			_, err = service.CreateSchedule(dto, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateRecord))
		})
	})

	Describe("CreateScheduleBatch", func() {
		It("replaces existing rows per employee and day", func() {
			_, err := service.CreateSchedule(attendance.ScheduleDTO{
				EmployeeID: 1,
				Date:       "2026-03-02",
				ShiftType:  attendance.ShiftDay,
			}, meta)
			Expect(err).NotTo(HaveOccurred())

			count, err := service.CreateScheduleBatch([]attendance.ScheduleDTO{
				{EmployeeID: 1, Date: "2026-03-02", ShiftType: attendance.ShiftNight},
				{EmployeeID: 2, Date: "2026-03-02", ShiftType: attendance.ShiftDay},
			}, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
			Expect(repo.schedules).To(HaveLen(2))

			sch, err := repo.ScheduleForDate(1, "2026-03-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(sch.ShiftType).To(Equal(attendance.ShiftNight))
		})

		It("names the offending row on validation failure", func() {
			_, err := service.CreateScheduleBatch([]attendance.ScheduleDTO{
				{EmployeeID: 1, Date: "2026-03-02", ShiftType: attendance.ShiftDay},
				{EmployeeID: 2, Date: "2026-03-03", ShiftType: "graveyard"},
			}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(ContainSubstring("schedule 2"))
		})

		It("rejects an empty batch", func() {
			_, err := service.CreateScheduleBatch(nil, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("UpdateSchedule", func() {
		It("returns not found for a vanished row", func() {
			err := service.UpdateSchedule(42, attendance.ScheduleDTO{
				EmployeeID: 1,
				Date:       "2026-03-02",
				ShiftType:  attendance.ShiftDay,
			}, meta)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("MonthlyReport", func() {
		BeforeEach(func() {
			add := func(date, status string, work, overtime float64) {
				_, err := repo.CreateRecord(&attendance.Record{
					EmployeeID:    1,
					Date:          date,
					Status:        status,
					WorkHours:     &work,
					OvertimeHours: &overtime,
				})
				Expect(err).NotTo(HaveOccurred())
			}
			add("2026-03-02", attendance.StatusNormal, 8, 0)
			add("2026-03-03", attendance.StatusLate, 7.5, 1)
			add("2026-03-04", attendance.StatusAbsent, 0, 0)
			add("2026-04-01", attendance.StatusNormal, 8, 0)

			_, err := repo.CreateSchedule(&attendance.Schedule{
				EmployeeID: 1,
				Date:       "2026-03-02",
				ShiftType:  attendance.ShiftDay,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("sums the requested month only", func() {
			report, err := service.MonthlyReport(1, 2026, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Summary.TotalDays).To(Equal(3))
			Expect(report.Summary.NormalDays).To(Equal(1))
			Expect(report.Summary.LateDays).To(Equal(1))
			Expect(report.Summary.Absences).To(Equal(1))
			Expect(report.Summary.TotalWorkHours).To(BeNumerically("~", 15.5, 0.001))
			Expect(report.Summary.TotalOvertimeHours).To(BeNumerically("~", 1, 0.001))
			Expect(report.Records).To(HaveLen(3))
			Expect(report.Schedules).To(HaveLen(1))
		})

		It("requires a plausible year and month", func() {
			_, err := service.MonthlyReport(1, 0, 0)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("returns not found for an unknown employee", func() {
			_, err := service.MonthlyReport(99, 2026, 3)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})
})
