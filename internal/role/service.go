package role

import (
	"fmt"
	"log/slog"

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

func (s *Service) List(filter ListFilter) ([]Role, int64, error) {
	roles, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to list roles", err)
	}
	return roles, total, nil
}

// All returns every role without paging, for assignment dropdowns.
func (s *Service) All() ([]Role, error) {
	roles, err := s.repo.All()
	if err != nil {
		return nil, internal.NewPersistenceError("failed to list roles", err)
	}
	return roles, nil
}

func (s *Service) Get(id int64) (*Detail, error) {
	r, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load role", err)
	}
	if r == nil {
		return nil, internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	}

	menuIDs, err := s.repo.MenuIDs(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load role menus", err)
	}

	return &Detail{Role: *r, MenuIDs: menuIDs}, nil
}

func (s *Service) Create(dto CreateRoleDTO, meta audit.Meta) (*Detail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.NameExists(dto.Name, 0)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to check role name", err)
	}
	if taken {
		return nil, internal.NewConflictError("role name already exists", internal.ErrCodeRoleNameUsed)
	}

	r := &Role{
		Name:        dto.Name,
		Description: dto.Description,
		Permissions: dto.Permissions,
		Status:      1,
	}

	id, err := s.repo.CreateWithMenus(r, dto.MenuIDs)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create role", err)
	}

	s.recorder.Record(meta, "create", "role", &id, fmt.Sprintf("created role %s", dto.Name))
	return s.Get(id)
}

func (s *Service) Update(id int64, dto UpdateRoleDTO, meta audit.Meta) (*Detail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load role", err)
	}
	if r == nil {
		return nil, internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	}

	if dto.Name != nil && *dto.Name != r.Name {
		taken, err := s.repo.NameExists(*dto.Name, id)
		if err != nil {
			return nil, internal.NewPersistenceError("failed to check role name", err)
		}
		if taken {
			return nil, internal.NewConflictError("role name already exists", internal.ErrCodeRoleNameUsed)
		}
		r.Name = *dto.Name
	}
	if dto.Description != nil {
		r.Description = dto.Description
	}
	if dto.Permissions != nil {
		r.Permissions = dto.Permissions
	}
	if dto.Status != nil {
		r.Status = *dto.Status
	}

	if err := s.repo.UpdateWithMenus(r, dto.MenuIDs); err != nil {
		return nil, internal.NewPersistenceError("failed to update role", err)
	}

	s.recorder.Record(meta, "update", "role", &id, fmt.Sprintf("updated role %s", r.Name))
	return s.Get(id)
}

// Delete removes a role that no account references. Menu assignments go
// with it; users keep their role_id until reassigned, so the reference
// check runs first.
func (s *Service) Delete(id int64, meta audit.Meta) error {
	r, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewPersistenceError("failed to load role", err)
	}
	if r == nil {
		return internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	}

	inUse, err := s.repo.CountUsers(id)
	if err != nil {
		return internal.NewPersistenceError("failed to check role usage", err)
	}
	if inUse > 0 {
		return internal.NewConflictError("role is still assigned to users", internal.ErrCodeRoleInUse)
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewPersistenceError("failed to delete role", err)
	}

	s.recorder.Record(meta, "delete", "role", &id, fmt.Sprintf("deleted role %s", r.Name))
	return nil
}
