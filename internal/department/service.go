package department

import (
	"fmt"
	"log/slog"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/core/tree"
)

type Service struct {
	repo     Repository
	recorder *audit.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func (s *Service) Tree() ([]Node, error) {
	items, err := s.repo.All()
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load departments", err)
	}
	return tree.Build(items, 0,
		func(d Department) int64 { return d.ID },
		func(d Department) int64 { return d.ParentID },
		func(d Department, children []Node) Node {
			return Node{Department: d, Children: children}
		}), nil
}

// All returns active departments as a flat list, for assignment dropdowns.
func (s *Service) All() ([]Department, error) {
	items, err := s.repo.AllActive()
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load departments", err)
	}
	return items, nil
}

func (s *Service) Get(id int64) (*Department, error) {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load department", err)
	}
	if d == nil {
		return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDeptNotFound)
	}
	return d, nil
}

func (s *Service) Create(dto CreateDepartmentDTO, meta audit.Meta) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.ParentID != 0 {
		parent, err := s.repo.GetByID(dto.ParentID)
		if err != nil {
			return nil, internal.NewPersistenceError("failed to load parent department", err)
		}
		if parent == nil {
			return nil, internal.NewValidationError("parent department not found", internal.ErrCodeParentNotFound)
		}
	}

	d := &Department{
		Name:        dto.Name,
		Description: dto.Description,
		ParentID:    dto.ParentID,
		SortOrder:   dto.SortOrder,
		ManagerID:   dto.ManagerID,
		Status:      1,
	}

	id, err := s.repo.Create(d)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create department", err)
	}

	s.recorder.Record(meta, "create", "department", &id, fmt.Sprintf("created department %s", dto.Name))
	return s.Get(id)
}

func (s *Service) Update(id int64, dto UpdateDepartmentDTO, meta audit.Meta) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load department", err)
	}
	if d == nil {
		return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDeptNotFound)
	}

	if dto.ParentID != nil && *dto.ParentID != d.ParentID {
		if err := s.checkReparent(id, *dto.ParentID); err != nil {
			return nil, err
		}
		d.ParentID = *dto.ParentID
	}

	if dto.Name != nil {
		d.Name = *dto.Name
	}
	if dto.Description != nil {
		d.Description = dto.Description
	}
	if dto.SortOrder != nil {
		d.SortOrder = *dto.SortOrder
	}
	if dto.ManagerID != nil {
		d.ManagerID = dto.ManagerID
	}
	if dto.Status != nil {
		d.Status = *dto.Status
	}

	if err := s.repo.Update(d); err != nil {
		return nil, internal.NewPersistenceError("failed to update department", err)
	}

	s.recorder.Record(meta, "update", "department", &id, fmt.Sprintf("updated department %s", d.Name))
	return s.Get(id)
}

func (s *Service) checkReparent(id, newParentID int64) error {
	if newParentID == 0 {
		return nil
	}

	parent, err := s.repo.GetByID(newParentID)
	if err != nil {
		return internal.NewPersistenceError("failed to load parent department", err)
	}
	if parent == nil {
		return internal.NewValidationError("parent department not found", internal.ErrCodeParentNotFound)
	}

	parents, err := s.repo.ParentIndex()
	if err != nil {
		return internal.NewPersistenceError("failed to load department hierarchy", err)
	}
	if tree.WouldCycle(parents, id, newParentID) {
		return internal.NewConflictError("department cannot be moved under its own subtree", internal.ErrCodeCyclicParent)
	}
	return nil
}

// Delete removes an org unit nothing depends on: no child departments and
// no assigned accounts.
func (s *Service) Delete(id int64, meta audit.Meta) error {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewPersistenceError("failed to load department", err)
	}
	if d == nil {
		return internal.NewNotFoundError("department not found", internal.ErrCodeDeptNotFound)
	}

	children, err := s.repo.CountChildren(id)
	if err != nil {
		return internal.NewPersistenceError("failed to check child departments", err)
	}
	if children > 0 {
		return internal.NewConflictError("department still has child departments", internal.ErrCodeHasChildren)
	}

	users, err := s.repo.CountUsers(id)
	if err != nil {
		return internal.NewPersistenceError("failed to check department users", err)
	}
	if users > 0 {
		return internal.NewConflictError("department still has assigned users", internal.ErrCodeDeptInUse)
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewPersistenceError("failed to delete department", err)
	}

	s.recorder.Record(meta, "delete", "department", &id, fmt.Sprintf("deleted department %s", d.Name))
	return nil
}
