package role_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/role"
)

type fakeRepo struct {
	nextID    int64
	roles     map[int64]*role.Role
	menus     map[int64][]int64
	userCount map[int64]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:    1,
		roles:     make(map[int64]*role.Role),
		menus:     make(map[int64][]int64),
		userCount: make(map[int64]int64),
	}
}

func (f *fakeRepo) List(filter role.ListFilter) ([]role.Role, int64, error) {
	roles := []role.Role{}
	for _, r := range f.roles {
		roles = append(roles, *r)
	}
	return roles, int64(len(roles)), nil
}

func (f *fakeRepo) All() ([]role.Role, error) {
	roles := []role.Role{}
	for _, r := range f.roles {
		if r.Status == 1 {
			roles = append(roles, *r)
		}
	}
	return roles, nil
}

func (f *fakeRepo) GetByID(id int64) (*role.Role, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRepo) NameExists(name string, excludeID int64) (bool, error) {
	for _, r := range f.roles {
		if r.Name == name && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) MenuIDs(roleID int64) ([]int64, error) {
	ids := f.menus[roleID]
	if ids == nil {
		return []int64{}, nil
	}
	return ids, nil
}

func (f *fakeRepo) CreateWithMenus(r *role.Role, menuIDs []int64) (int64, error) {
	r.ID = f.nextID
	f.nextID++
	f.roles[r.ID] = r
	f.menus[r.ID] = append([]int64{}, menuIDs...)
	return r.ID, nil
}

func (f *fakeRepo) UpdateWithMenus(r *role.Role, menuIDs *[]int64) error {
	f.roles[r.ID] = r
	if menuIDs != nil {
		f.menus[r.ID] = append([]int64{}, *menuIDs...)
	}
	return nil
}

func (f *fakeRepo) CountUsers(roleID int64) (int64, error) {
	return f.userCount[roleID], nil
}

func (f *fakeRepo) Delete(id int64) error {
	delete(f.roles, id)
	delete(f.menus, id)
	return nil
}

type fakeAuditRepo struct {
	entries []*audit.Entry
}

func (f *fakeAuditRepo) Create(entry *audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func strPtr(s string) *string { return &s }

var _ = Describe("RoleService", func() {
	var (
		repo    *fakeRepo
		service *role.Service
	)

	BeforeEach(func() {
		repo = newFakeRepo()
		service = role.NewService(repo, audit.NewRecorder(&fakeAuditRepo{}, slog.Default()), slog.Default())
	})

	Describe("Create", func() {
		It("stores the role with its menu assignments", func() {
			detail, err := service.Create(role.CreateRoleDTO{
				Name:        "ward clerk",
				Permissions: strPtr("user:view"),
				MenuIDs:     []int64{1, 3, 5},
			}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.MenuIDs).To(Equal([]int64{1, 3, 5}))
		})

		It("rejects a duplicate name", func() {
			_, err := service.Create(role.CreateRoleDTO{Name: "ward clerk"}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(role.CreateRoleDTO{Name: "ward clerk"}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleNameUsed))
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("requires a name", func() {
			_, err := service.Create(role.CreateRoleDTO{}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Update", func() {
		var id int64

		BeforeEach(func() {
			detail, err := service.Create(role.CreateRoleDTO{
				Name:    "ward clerk",
				MenuIDs: []int64{1, 2},
			}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			id = detail.ID
		})

		It("leaves menu assignments alone when menu_ids is absent", func() {
			detail, err := service.Update(id, role.UpdateRoleDTO{
				Description: strPtr("front desk"),
			}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.MenuIDs).To(Equal([]int64{1, 2}))
		})

		It("replaces the full assignment set when menu_ids is present", func() {
			newSet := []int64{3, 5}
			detail, err := service.Update(id, role.UpdateRoleDTO{MenuIDs: &newSet}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.MenuIDs).To(Equal([]int64{3, 5}))
		})

		It("clears assignments on an empty list", func() {
			empty := []int64{}
			detail, err := service.Update(id, role.UpdateRoleDTO{MenuIDs: &empty}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.MenuIDs).To(BeEmpty())
		})

		It("rejects renaming onto an existing role", func() {
			_, err := service.Create(role.CreateRoleDTO{Name: "auditor"}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(id, role.UpdateRoleDTO{Name: strPtr("auditor")}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleNameUsed))
		})
	})

	Describe("Delete", func() {
		var id int64

		BeforeEach(func() {
			detail, err := service.Create(role.CreateRoleDTO{Name: "ward clerk"}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			id = detail.ID
		})

		It("refuses while accounts still hold the role", func() {
			repo.userCount[id] = 2

			err := service.Delete(id, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleInUse))
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("succeeds once every account is reassigned", func() {
			repo.userCount[id] = 0
			Expect(service.Delete(id, audit.Meta{UserID: 1})).To(Succeed())
			Expect(repo.roles).NotTo(HaveKey(id))
		})

		It("returns not found for a missing role", func() {
			err := service.Delete(999, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})
})
