package menu_test

import (
	"log/slog"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/menu"
)

type fakeRepo struct {
	nextID int64
	items  map[int64]*menu.Menu
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, items: make(map[int64]*menu.Menu)}
}

func (f *fakeRepo) sorted() []menu.Menu {
	items := []menu.Menu{}
	for _, m := range f.items {
		items = append(items, *m)
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

func (f *fakeRepo) All() ([]menu.Menu, error) { return f.sorted(), nil }

func (f *fakeRepo) AllActive() ([]menu.Menu, error) {
	items := []menu.Menu{}
	for _, m := range f.sorted() {
		if m.Status == 1 {
			items = append(items, m)
		}
	}
	return items, nil
}

func (f *fakeRepo) ForRole(roleID int64) ([]menu.Menu, error) { return nil, nil }

func (f *fakeRepo) GetByID(id int64) (*menu.Menu, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *m
	return &clone, nil
}

func (f *fakeRepo) Create(m *menu.Menu) (int64, error) {
	m.ID = f.nextID
	f.nextID++
	f.items[m.ID] = m
	return m.ID, nil
}

func (f *fakeRepo) Update(m *menu.Menu) error {
	f.items[m.ID] = m
	return nil
}

func (f *fakeRepo) Delete(id int64) error {
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) CountChildren(id int64) (int64, error) {
	var count int64
	for _, m := range f.items {
		if m.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ParentIndex() (map[int64]int64, error) {
	index := make(map[int64]int64, len(f.items))
	for id, m := range f.items {
		index[id] = m.ParentID
	}
	return index, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(*audit.Entry) error { return nil }

var _ = Describe("MenuService", func() {
	var (
		repo    *fakeRepo
		service *menu.Service
	)

	create := func(name string, parentID int64, sortOrder int) int64 {
		m, err := service.Create(menu.CreateMenuDTO{
			Name:      name,
			ParentID:  parentID,
			SortOrder: sortOrder,
			MenuType:  menu.TypeDirectory,
		}, audit.Meta{UserID: 1})
		Expect(err).NotTo(HaveOccurred())
		return m.ID
	}

	BeforeEach(func() {
		repo = newFakeRepo()
		service = menu.NewService(repo, audit.NewRecorder(fakeAuditRepo{}, slog.Default()), slog.Default())
	})

	Describe("Tree", func() {
		It("nests children under their parents in sort order", func() {
			system := create("System", 0, 1)
			create("Users", system, 2)
			create("Roles", system, 1)
			create("Dashboard", 0, 0)

			nodes, err := service.Tree()
			Expect(err).NotTo(HaveOccurred())
			Expect(nodes).To(HaveLen(2))
			Expect(nodes[0].Name).To(Equal("Dashboard"))
			Expect(nodes[1].Name).To(Equal("System"))
			Expect(nodes[1].Children[0].Name).To(Equal("Roles"))
			Expect(nodes[1].Children[1].Name).To(Equal("Users"))
		})
	})

	Describe("Create", func() {
		It("rejects a missing parent", func() {
			_, err := service.Create(menu.CreateMenuDTO{
				Name:     "Users",
				ParentID: 42,
				MenuType: menu.TypePage,
			}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeParentNotFound))
		})

		It("rejects an unknown menu type", func() {
			_, err := service.Create(menu.CreateMenuDTO{
				Name:     "Users",
				MenuType: 7,
			}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Update", func() {
		It("refuses to make a menu its own parent", func() {
			id := create("System", 0, 1)

			_, err := service.Update(id, menu.UpdateMenuDTO{ParentID: &id}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCyclicParent))
		})

		It("refuses to move a menu under its own descendant", func() {
			root := create("System", 0, 1)
			mid := create("Settings", root, 1)
			leaf := create("Advanced", mid, 1)

			_, err := service.Update(root, menu.UpdateMenuDTO{ParentID: &leaf}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCyclicParent))
		})

		It("allows moving a subtree to a sibling branch", func() {
			root := create("System", 0, 1)
			mid := create("Settings", root, 1)
			other := create("Tools", 0, 2)

			m, err := service.Update(mid, menu.UpdateMenuDTO{ParentID: &other}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.ParentID).To(Equal(other))
		})
	})

	Describe("Delete", func() {
		It("refuses while children remain", func() {
			root := create("System", 0, 1)
			create("Settings", root, 1)

			err := service.Delete(root, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeHasChildren))
		})

		It("removes a leaf", func() {
			root := create("System", 0, 1)
			leaf := create("Settings", root, 1)

			Expect(service.Delete(leaf, audit.Meta{UserID: 1})).To(Succeed())
			Expect(service.Delete(root, audit.Meta{UserID: 1})).To(Succeed())
		})
	})
})
