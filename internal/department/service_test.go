package department_test

import (
	"log/slog"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/department"
)

type fakeRepo struct {
	nextID    int64
	items     map[int64]*department.Department
	userCount map[int64]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:    1,
		items:     make(map[int64]*department.Department),
		userCount: make(map[int64]int64),
	}
}

func (f *fakeRepo) sorted() []department.Department {
	items := []department.Department{}
	for _, d := range f.items {
		items = append(items, *d)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ParentID != items[j].ParentID {
			return items[i].ParentID < items[j].ParentID
		}
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (f *fakeRepo) All() ([]department.Department, error) { return f.sorted(), nil }

func (f *fakeRepo) AllActive() ([]department.Department, error) {
	items := []department.Department{}
	for _, d := range f.sorted() {
		if d.Status == 1 {
			items = append(items, d)
		}
	}
	return items, nil
}

func (f *fakeRepo) GetByID(id int64) (*department.Department, error) {
	d, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

func (f *fakeRepo) Create(d *department.Department) (int64, error) {
	d.ID = f.nextID
	f.nextID++
	f.items[d.ID] = d
	return d.ID, nil
}

func (f *fakeRepo) Update(d *department.Department) error {
	f.items[d.ID] = d
	return nil
}

func (f *fakeRepo) Delete(id int64) error {
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) CountChildren(id int64) (int64, error) {
	var count int64
	for _, d := range f.items {
		if d.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CountUsers(id int64) (int64, error) {
	return f.userCount[id], nil
}

func (f *fakeRepo) ParentIndex() (map[int64]int64, error) {
	index := make(map[int64]int64, len(f.items))
	for id, d := range f.items {
		index[id] = d.ParentID
	}
	return index, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(*audit.Entry) error { return nil }

var _ = Describe("DepartmentService", func() {
	var (
		repo    *fakeRepo
		service *department.Service
	)

	create := func(name string, parentID int64) int64 {
		d, err := service.Create(department.CreateDepartmentDTO{
			Name:     name,
			ParentID: parentID,
		}, audit.Meta{UserID: 1})
		Expect(err).NotTo(HaveOccurred())
		return d.ID
	}

	BeforeEach(func() {
		repo = newFakeRepo()
		service = department.NewService(repo, audit.NewRecorder(fakeAuditRepo{}, slog.Default()), slog.Default())
	})

	Describe("Tree", func() {
		It("nests units under their parents", func() {
			hq := create("Headquarters", 0)
			create("IT", hq)
			create("Medical Affairs", hq)

			nodes, err := service.Tree()
			Expect(err).NotTo(HaveOccurred())
			Expect(nodes).To(HaveLen(1))
			Expect(nodes[0].Name).To(Equal("Headquarters"))
			Expect(nodes[0].Children).To(HaveLen(2))
		})
	})

	Describe("Update", func() {
		It("refuses a self-parent", func() {
			hq := create("Headquarters", 0)

			_, err := service.Update(hq, department.UpdateDepartmentDTO{ParentID: &hq}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCyclicParent))
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("refuses a descendant as the new parent", func() {
			hq := create("Headquarters", 0)
			it := create("IT", hq)
			ops := create("Operations", it)

			_, err := service.Update(hq, department.UpdateDepartmentDTO{ParentID: &ops}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCyclicParent))
		})

		It("rejects an unknown parent", func() {
			hq := create("Headquarters", 0)
			missing := int64(404)

			_, err := service.Update(hq, department.UpdateDepartmentDTO{ParentID: &missing}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeParentNotFound))
		})
	})

	Describe("Delete", func() {
		It("refuses while child departments remain", func() {
			hq := create("Headquarters", 0)
			create("IT", hq)

			err := service.Delete(hq, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeHasChildren))
		})

		It("refuses while accounts are assigned", func() {
			hq := create("Headquarters", 0)
			repo.userCount[hq] = 3

			err := service.Delete(hq, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDeptInUse))
		})

		It("removes an empty unit", func() {
			hq := create("Headquarters", 0)
			Expect(service.Delete(hq, audit.Meta{UserID: 1})).To(Succeed())
		})
	})
})
