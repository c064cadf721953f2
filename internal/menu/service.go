package menu

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

// Tree returns the whole catalog, disabled entries included, as the
// management console's editing tree.
func (s *Service) Tree() ([]Node, error) {
	items, err := s.repo.All()
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load menus", err)
	}
	return buildTree(items), nil
}

func (s *Service) Get(id int64) (*Menu, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load menu", err)
	}
	if m == nil {
		return nil, internal.NewNotFoundError("menu not found", internal.ErrCodeMenuNotFound)
	}
	return m, nil
}

func (s *Service) Create(dto CreateMenuDTO, meta audit.Meta) (*Menu, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.ParentID != 0 {
		parent, err := s.repo.GetByID(dto.ParentID)
		if err != nil {
			return nil, internal.NewPersistenceError("failed to load parent menu", err)
		}
		if parent == nil {
			return nil, internal.NewValidationError("parent menu not found", internal.ErrCodeParentNotFound)
		}
	}

	menuType := dto.MenuType
	if menuType == 0 {
		menuType = TypeDirectory
	}

	m := &Menu{
		Name:        dto.Name,
		Path:        dto.Path,
		Component:   dto.Component,
		Icon:        dto.Icon,
		ParentID:    dto.ParentID,
		SortOrder:   dto.SortOrder,
		MenuType:    menuType,
		Status:      1,
		Permissions: dto.Permissions,
	}

	id, err := s.repo.Create(m)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to create menu", err)
	}

	s.recorder.Record(meta, "create", "menu", &id, fmt.Sprintf("created menu %s", dto.Name))
	return s.Get(id)
}

func (s *Service) Update(id int64, dto UpdateMenuDTO, meta audit.Meta) (*Menu, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load menu", err)
	}
	if m == nil {
		return nil, internal.NewNotFoundError("menu not found", internal.ErrCodeMenuNotFound)
	}

	if dto.ParentID != nil && *dto.ParentID != m.ParentID {
		if err := s.checkReparent(id, *dto.ParentID); err != nil {
			return nil, err
		}
		m.ParentID = *dto.ParentID
	}

	if dto.Name != nil {
		m.Name = *dto.Name
	}
	if dto.Path != nil {
		m.Path = dto.Path
	}
	if dto.Component != nil {
		m.Component = dto.Component
	}
	if dto.Icon != nil {
		m.Icon = dto.Icon
	}
	if dto.SortOrder != nil {
		m.SortOrder = *dto.SortOrder
	}
	if dto.MenuType != nil {
		m.MenuType = *dto.MenuType
	}
	if dto.Status != nil {
		m.Status = *dto.Status
	}
	if dto.Permissions != nil {
		m.Permissions = dto.Permissions
	}

	if err := s.repo.Update(m); err != nil {
		return nil, internal.NewPersistenceError("failed to update menu", err)
	}

	s.recorder.Record(meta, "update", "menu", &id, fmt.Sprintf("updated menu %s", m.Name))
	return s.Get(id)
}

// checkReparent rejects a new parent that is missing, the menu itself, or
// any of the menu's own descendants. The walk climbs the full ancestor
// chain, so deep cycles are caught, not just direct self-references.
func (s *Service) checkReparent(id, newParentID int64) error {
	if newParentID == 0 {
		return nil
	}

	parent, err := s.repo.GetByID(newParentID)
	if err != nil {
		return internal.NewPersistenceError("failed to load parent menu", err)
	}
	if parent == nil {
		return internal.NewValidationError("parent menu not found", internal.ErrCodeParentNotFound)
	}

	parents, err := s.repo.ParentIndex()
	if err != nil {
		return internal.NewPersistenceError("failed to load menu hierarchy", err)
	}
	if tree.WouldCycle(parents, id, newParentID) {
		return internal.NewConflictError("menu cannot be moved under its own subtree", internal.ErrCodeCyclicParent)
	}
	return nil
}

// Delete removes a leaf menu and its role assignments. Subtrees must be
// dismantled bottom up.
func (s *Service) Delete(id int64, meta audit.Meta) error {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewPersistenceError("failed to load menu", err)
	}
	if m == nil {
		return internal.NewNotFoundError("menu not found", internal.ErrCodeMenuNotFound)
	}

	children, err := s.repo.CountChildren(id)
	if err != nil {
		return internal.NewPersistenceError("failed to check menu children", err)
	}
	if children > 0 {
		return internal.NewConflictError("menu still has children", internal.ErrCodeHasChildren)
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewPersistenceError("failed to delete menu", err)
	}

	s.recorder.Record(meta, "delete", "menu", &id, fmt.Sprintf("deleted menu %s", m.Name))
	return nil
}

func buildTree(items []Menu) []Node {
	return tree.Build(items, 0,
		func(m Menu) int64 { return m.ID },
		func(m Menu) int64 { return m.ParentID },
		func(m Menu, children []Node) Node {
			return Node{Menu: m, Children: children}
		})
}
