package employee_test

import (
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/hr/employee"
)

type fakeRepo struct {
	nextID int64
	rows   map[int64]*employee.Employee
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, rows: make(map[int64]*employee.Employee)}
}

func (f *fakeRepo) view(e *employee.Employee) employee.View {
	return employee.View{Employee: *e}
}

func (f *fakeRepo) List(filter employee.ListFilter) ([]employee.View, int64, error) {
	views := []employee.View{}
	for _, e := range f.rows {
		views = append(views, f.view(e))
	}
	return views, int64(len(views)), nil
}

func (f *fakeRepo) Export(filter employee.ListFilter) ([]employee.View, error) {
	views, _, err := f.List(filter)
	return views, err
}

func (f *fakeRepo) GetByID(id int64) (*employee.View, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	view := f.view(e)
	return &view, nil
}

func (f *fakeRepo) NumberExists(number string, excludeID int64) (bool, error) {
	for _, e := range f.rows {
		if e.EmployeeNumber == number && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(e *employee.Employee) (int64, error) {
	e.ID = f.nextID
	f.nextID++
	f.rows[e.ID] = e
	return e.ID, nil
}

func (f *fakeRepo) Update(e *employee.Employee) error {
	f.rows[e.ID] = e
	return nil
}

func (f *fakeRepo) Delete(id int64) (int64, error) {
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakeRepo) DeleteBatch(ids []int64) (int64, error) {
	var removed int64
	for _, id := range ids {
		if _, ok := f.rows[id]; ok {
			delete(f.rows, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeRepo) Stats() (*employee.Stats, error) {
	return &employee.Stats{}, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(*audit.Entry) error { return nil }

func strPtr(s string) *string { return &s }

var _ = Describe("EmployeeService", func() {
	var (
		repo    *fakeRepo
		service *employee.Service
	)

	dto := func(number, name string) employee.EmployeeDTO {
		return employee.EmployeeDTO{EmployeeNumber: number, Name: name}
	}

	BeforeEach(func() {
		repo = newFakeRepo()
		service = employee.NewService(repo, audit.NewRecorder(fakeAuditRepo{}, slog.Default()), slog.Default())
	})

	Describe("Create", func() {
		It("defaults new files to active", func() {
			view, err := service.Create(dto("EMP001", "Zhang San"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Status).To(Equal(employee.StatusActive))
		})

		It("rejects a duplicate employee number", func() {
			_, err := service.Create(dto("EMP001", "Zhang San"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(dto("EMP001", "Li Hong"), audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmployeeNumberDup))
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects a malformed hire date", func() {
			d := dto("EMP001", "Zhang San")
			d.HireDate = strPtr("03/01/2020")
			_, err := service.Create(d, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Update", func() {
		It("allows keeping the same employee number", func() {
			view, err := service.Create(dto("EMP001", "Zhang San"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			updated := dto("EMP001", "Zhang Shan")
			result, err := service.Update(view.ID, updated, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Name).To(Equal("Zhang Shan"))
		})

		It("rejects taking another file's number", func() {
			_, err := service.Create(dto("EMP001", "Zhang San"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			second, err := service.Create(dto("EMP002", "Li Hong"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(second.ID, dto("EMP001", "Li Hong"), audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmployeeNumberDup))
		})
	})

	Describe("DeleteBatch", func() {
		It("requires a non-empty id list", func() {
			_, err := service.DeleteBatch(employee.BatchDeleteDTO{}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("reports how many rows went", func() {
			a, _ := service.Create(dto("EMP001", "Zhang San"), audit.Meta{UserID: 1})
			b, _ := service.Create(dto("EMP002", "Li Hong"), audit.Meta{UserID: 1})

			removed, err := service.DeleteBatch(employee.BatchDeleteDTO{
				IDs: []int64{a.ID, b.ID, 999},
			}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(int64(2)))
		})
	})

	Describe("ExportCSV", func() {
		It("emits a BOM, the header and one row per employee", func() {
			d := dto("EMP001", "Zhang San")
			d.Phone = strPtr("13800138001")
			_, err := service.Create(d, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			data, err := service.ExportCSV(employee.ListFilter{}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			text := string(data)
			Expect(strings.HasPrefix(text, "\xEF\xBB\xBF")).To(BeTrue())

			lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(text, "\xEF\xBB\xBF")), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(ContainSubstring("employee_number"))
			Expect(lines[1]).To(ContainSubstring("EMP001"))
			Expect(lines[1]).To(ContainSubstring("13800138001"))
		})
	})
})
