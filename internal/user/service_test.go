package user_test

import (
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/user"
)

type fakeRepo struct {
	nextID   int64
	accounts map[int64]*user.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, accounts: make(map[int64]*user.User)}
}

func (f *fakeRepo) view(u *user.User) user.View {
	return user.View{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		RealName:     u.RealName,
		Avatar:       u.Avatar,
		Status:       u.Status,
		RoleID:       u.RoleID,
		DepartmentID: u.DepartmentID,
	}
}

func (f *fakeRepo) List(filter user.ListFilter) ([]user.View, int64, error) {
	views := []user.View{}
	for _, u := range f.accounts {
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(u.Username, filter.Search) {
			continue
		}
		views = append(views, f.view(u))
	}
	return views, int64(len(views)), nil
}

func (f *fakeRepo) GetByID(id int64) (*user.View, error) {
	u, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	view := f.view(u)
	return &view, nil
}

func (f *fakeRepo) GetModelByID(id int64) (*user.User, error) {
	u, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) UsernameExists(username string, excludeID int64) (bool, error) {
	for _, u := range f.accounts {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) EmailExists(email string, excludeID int64) (bool, error) {
	for _, u := range f.accounts {
		if u.Email != nil && *u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(u *user.User) (int64, error) {
	u.ID = f.nextID
	f.nextID++
	f.accounts[u.ID] = u
	return u.ID, nil
}

func (f *fakeRepo) Update(u *user.User) error {
	f.accounts[u.ID] = u
	return nil
}

func (f *fakeRepo) SetStatus(id int64, status int) error {
	f.accounts[id].Status = status
	return nil
}

func (f *fakeRepo) UpdatePassword(id int64, passwordHash string) error {
	f.accounts[id].Password = passwordHash
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
func i64Ptr(n int64) *int64   { return &n }
func intPtr(n int) *int       { return &n }

var _ = Describe("UserService", func() {
	var (
		repo     *fakeRepo
		auditLog *fakeAuditRepo
		service  *user.Service
	)

	validCreate := func(username string) user.CreateUserDTO {
		return user.CreateUserDTO{
			Username: username,
			Password: "secret123",
			RoleID:   i64Ptr(3),
		}
	}

	BeforeEach(func() {
		repo = newFakeRepo()
		auditLog = &fakeAuditRepo{}
		service = user.NewService(repo, audit.NewRecorder(auditLog, slog.Default()), bcrypt.MinCost, slog.Default())
	})

	Describe("Create", func() {
		It("provisions an active account with a hashed credential", func() {
			view, err := service.Create(validCreate("nurse01"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Username).To(Equal("nurse01"))
			Expect(view.Status).To(Equal(user.StatusActive))

			stored := repo.accounts[view.ID]
			Expect(stored.Password).NotTo(Equal("secret123"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123"))).To(Succeed())
		})

		It("rejects a duplicate username", func() {
			_, err := service.Create(validCreate("nurse01"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(validCreate("nurse01"), audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUsernameTaken))
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects a duplicate email", func() {
			dto := validCreate("nurse01")
			dto.Email = strPtr("shared@hospital.test")
			_, err := service.Create(dto, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			dup := validCreate("nurse02")
			dup.Email = strPtr("shared@hospital.test")
			_, err = service.Create(dup, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmailTaken))
		})

		It("rejects a username with symbols", func() {
			dto := validCreate("nurse 01")
			_, err := service.Create(dto, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("requires a role", func() {
			dto := validCreate("nurse01")
			dto.RoleID = nil
			_, err := service.Create(dto, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(ContainSubstring("role_id"))
		})

		It("records the creation", func() {
			_, err := service.Create(validCreate("nurse01"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(auditLog.entries).To(HaveLen(1))
			Expect(auditLog.entries[0].Action).To(Equal("create"))
			Expect(auditLog.entries[0].Resource).To(Equal("user"))
		})
	})

	Describe("Update", func() {
		var id int64

		BeforeEach(func() {
			view, err := service.Create(validCreate("nurse01"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			id = view.ID
		})

		It("applies only the provided fields", func() {
			view, err := service.Update(id, user.UpdateUserDTO{RealName: strPtr("Li Wei")}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(*view.RealName).To(Equal("Li Wei"))
			Expect(view.Username).To(Equal("nurse01"))
		})

		It("rejects an email already held by someone else", func() {
			other := validCreate("nurse02")
			other.Email = strPtr("taken@hospital.test")
			_, err := service.Create(other, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(id, user.UpdateUserDTO{Email: strPtr("taken@hospital.test")}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmailTaken))
		})

		It("allows keeping your own email", func() {
			_, err := service.Update(id, user.UpdateUserDTO{Email: strPtr("mine@hospital.test")}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(id, user.UpdateUserDTO{Email: strPtr("mine@hospital.test")}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
		})

		It("can disable an account through status", func() {
			view, err := service.Update(id, user.UpdateUserDTO{Status: intPtr(user.StatusDisabled)}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Status).To(Equal(user.StatusDisabled))
		})

		It("returns not found for a missing account", func() {
			_, err := service.Update(999, user.UpdateUserDTO{}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("Deactivate", func() {
		var id int64

		BeforeEach(func() {
			view, err := service.Create(validCreate("nurse01"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			id = view.ID
		})

		It("soft-deletes by flipping status", func() {
			Expect(service.Deactivate(id, audit.Meta{UserID: 99})).To(Succeed())
			Expect(repo.accounts[id].Status).To(Equal(user.StatusDisabled))
		})

		It("refuses to delete the acting session", func() {
			err := service.Deactivate(id, audit.Meta{UserID: id})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCannotDeleteSelf))
		})
	})

	Describe("ResetPassword", func() {
		var id int64

		BeforeEach(func() {
			view, err := service.Create(validCreate("nurse01"), audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			id = view.ID
		})

		It("replaces the stored hash", func() {
			err := service.ResetPassword(id, user.ResetPasswordDTO{Password: "newSecret1"}, audit.Meta{UserID: 1})
			Expect(err).NotTo(HaveOccurred())

			stored := repo.accounts[id].Password
			Expect(bcrypt.CompareHashAndPassword([]byte(stored), []byte("newSecret1"))).To(Succeed())
		})

		It("rejects short passwords", func() {
			err := service.ResetPassword(id, user.ResetPasswordDTO{Password: "tiny"}, audit.Meta{UserID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})
})
