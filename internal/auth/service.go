package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/core/permission"
	"github.com/hospadmin/hospital-admin/internal/core/tree"
	"github.com/hospadmin/hospital-admin/internal/menu"
)

type Service struct {
	users      UserRepository
	menus      menu.Repository
	tokens     TokenService
	recorder   *audit.Recorder
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, menus menu.Repository, tokens TokenService, recorder *audit.Recorder, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		users:      users,
		menus:      menus,
		tokens:     tokens,
		recorder:   recorder,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Login verifies the credential pair against the active identity and
// issues a bearer token. A missing user and a wrong password produce the
// same error so the response does not leak which usernames exist.
func (s *Service) Login(dto LoginDTO, meta audit.Meta) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cred, err := s.users.CredentialByUsername(dto.Username)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load user", err)
	}
	if cred == nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(cred.ID)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to issue token", err)
	}

	meta.UserID = cred.ID
	s.recorder.Record(meta, "login", "auth", &cred.ID, "user logged in")

	return &LoginResult{Token: token, User: cred.SessionUser}, nil
}

// Logout only records the event; tokens stay valid until they expire.
func (s *Service) Logout(meta audit.Meta) {
	if meta.UserID != 0 {
		uid := meta.UserID
		s.recorder.Record(meta, "logout", "auth", &uid, "user logged out")
		return
	}
	s.recorder.Record(meta, "logout", "auth", nil, "user logged out")
}

// Profile reloads the session bundle from storage so the response
// reflects role or department changes made after the token was issued.
func (s *Service) Profile(userID int64) (*internal.SessionUser, error) {
	user, err := s.users.SessionUser(userID)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load user", err)
	}
	if user == nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return user, nil
}

// SessionUser implements the session loader used by the auth middleware.
func (s *Service) SessionUser(userID int64) (*internal.SessionUser, error) {
	return s.users.SessionUser(userID)
}

// Menus returns the caller's navigation tree. Wildcard roles see the full
// active catalog; everyone else sees the active menus granted to their
// role.
func (s *Service) Menus(user *internal.SessionUser) ([]menu.Node, error) {
	var (
		items []menu.Menu
		err   error
	)

	switch {
	case permission.Parse(user.Permissions).IsWildcard():
		items, err = s.menus.AllActive()
	case user.RoleID != nil:
		items, err = s.menus.ForRole(*user.RoleID)
	default:
		return []menu.Node{}, nil
	}
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load menus", err)
	}

	nodes := tree.Build(items, 0,
		func(m menu.Menu) int64 { return m.ID },
		func(m menu.Menu) int64 { return m.ParentID },
		func(m menu.Menu, children []menu.Node) menu.Node {
			return menu.Node{Menu: m, Children: children}
		})
	return nodes, nil
}

// ChangePassword swaps the caller's credential after checking the old one.
func (s *Service) ChangePassword(userID int64, dto ChangePasswordDTO, meta audit.Meta) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	cred, err := s.users.CredentialByID(userID)
	if err != nil {
		return internal.NewPersistenceError("failed to load user", err)
	}
	if cred == nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(dto.OldPassword)); err != nil {
		return internal.NewValidationError("old password is incorrect", internal.ErrCodeWrongOldPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewPersistenceError("failed to hash password", err)
	}

	if err := s.users.UpdatePassword(userID, string(hash)); err != nil {
		return internal.NewPersistenceError("failed to update password", err)
	}

	s.recorder.Record(meta, "change-password", "user", &userID, "password changed")
	return nil
}
