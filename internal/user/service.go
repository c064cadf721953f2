package user

import (
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
)

type Service struct {
	repo       Repository
	recorder   *audit.Recorder
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, recorder *audit.Recorder, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		recorder:   recorder,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(filter ListFilter) ([]View, int64, error) {
	views, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list users", err)
	}
	return views, total, nil
}

func (s *Service) Get(id int64) (*View, error) {
	view, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load user", err)
	}
	if view == nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return view, nil
}

func (s *Service) Create(dto CreateUserDTO, meta audit.Meta) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.UsernameExists(dto.Username, 0)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check username", err)
	}
	if taken {
		return nil, internal.NewConflictError("username already exists", internal.ErrCodeUsernameTaken)
	}

	if dto.Email != nil && *dto.Email != "" {
		used, err := s.repo.EmailExists(*dto.Email, 0)
		if err != nil {
			return nil, internal.NewPersistenceError("failed to check email", err)
		}
		if used {
			return nil, internal.NewConflictError("email already exists", internal.ErrCodeEmailTaken)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to hash password", err)
	}

	account := &User{
		Username:     dto.Username,
		Password:     string(hash),
		Email:        dto.Email,
		Phone:        dto.Phone,
		RealName:     dto.RealName,
		Avatar:       dto.Avatar,
		Status:       StatusActive,
		RoleID:       dto.RoleID,
		DepartmentID: dto.DepartmentID,
	}

	id, err := s.repo.Create(account)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create user", err)
	}

	s.recorder.Record(meta, "create", "user", &id, fmt.Sprintf("created user %s", dto.Username))
	return s.Get(id)
}

func (s *Service) Update(id int64, dto UpdateUserDTO, meta audit.Meta) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.GetModelByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load user", err)
	}
	if account == nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if dto.Email != nil && *dto.Email != "" {
		used, err := s.repo.EmailExists(*dto.Email, id)
		if err != nil {
			return nil, internal.NewPersistenceError("failed to check email", err)
		}
		if used {
			return nil, internal.NewConflictError("email already exists", internal.ErrCodeEmailTaken)
		}
	}

	if dto.Email != nil {
		account.Email = dto.Email
	}
	if dto.Phone != nil {
		account.Phone = dto.Phone
	}
	if dto.RealName != nil {
		account.RealName = dto.RealName
	}
	if dto.Avatar != nil {
		account.Avatar = dto.Avatar
	}
	if dto.RoleID != nil {
		account.RoleID = dto.RoleID
	}
	if dto.DepartmentID != nil {
		account.DepartmentID = dto.DepartmentID
	}
	if dto.Status != nil {
		account.Status = *dto.Status
	}

	if err := s.repo.Update(account); err != nil {
		return nil, internal.NewPersistenceError("failed to update user", err)
	}

	s.recorder.Record(meta, "update", "user", &id, fmt.Sprintf("updated user %s", account.Username))
	return s.Get(id)
}

// Deactivate soft-deletes an account by flipping its status. The row
// stays so the operation log keeps a valid actor reference, and callers
// cannot disable their own session.
func (s *Service) Deactivate(id int64, meta audit.Meta) error {
	if id == meta.UserID {
		return internal.NewConflictError("cannot delete your own account", internal.ErrCodeCannotDeleteSelf)
	}

	account, err := s.repo.GetModelByID(id)
	if err != nil {
		return internal.NewPersistenceError("failed to load user", err)
	}
	if account == nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if err := s.repo.SetStatus(id, StatusDisabled); err != nil {
		return internal.NewPersistenceError("failed to delete user", err)
	}

	s.recorder.Record(meta, "delete", "user", &id, fmt.Sprintf("deleted user %s", account.Username))
	return nil
}

// ResetPassword sets a new credential without checking the old one. This
// is the administrative reset; self-service changes go through the auth
// module.
func (s *Service) ResetPassword(id int64, dto ResetPasswordDTO, meta audit.Meta) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	account, err := s.repo.GetModelByID(id)
	if err != nil {
		return internal.NewPersistenceError("failed to load user", err)
	}
	if account == nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return internal.NewPersistenceError("failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(id, string(hash)); err != nil {
		return internal.NewPersistenceError("failed to reset password", err)
	}

	s.recorder.Record(meta, "reset-password", "user", &id, fmt.Sprintf("reset password for %s", account.Username))
	return nil
}
