package sqlite

import (
	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/auth"
	"gorm.io/gorm"
)

// sessionColumns is the identity bundle every authenticated request needs:
// the user row joined with its role name, role permissions and department
// name.
const sessionColumns = `
	u.id, u.username, u.email, u.phone, u.real_name, u.avatar, u.status,
	u.role_id, u.department_id,
	r.name AS role_name, COALESCE(r.permissions, '') AS permissions,
	d.name AS department_name`

const sessionFrom = `
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id
	LEFT JOIN departments d ON d.id = u.department_id`

type sessionRow struct {
	ID             int64
	Username       string
	Email          *string
	Phone          *string
	RealName       *string
	Avatar         *string
	Status         int
	RoleID         *int64
	DepartmentID   *int64
	RoleName       *string
	Permissions    string
	DepartmentName *string
	Password       string
}

func (row sessionRow) sessionUser() internal.SessionUser {
	return internal.SessionUser{
		ID:             row.ID,
		Username:       row.Username,
		Email:          row.Email,
		Phone:          row.Phone,
		RealName:       row.RealName,
		Avatar:         row.Avatar,
		Status:         row.Status,
		RoleID:         row.RoleID,
		DepartmentID:   row.DepartmentID,
		RoleName:       row.RoleName,
		Permissions:    row.Permissions,
		DepartmentName: row.DepartmentName,
	}
}

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.UserRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CredentialByUsername(username string) (*auth.Credential, error) {
	var row sessionRow
	result := r.db.Raw(
		"SELECT"+sessionColumns+", u.password"+sessionFrom+" WHERE u.username = ? AND u.status = 1",
		username,
	).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &auth.Credential{SessionUser: row.sessionUser(), Password: row.Password}, nil
}

func (r *AuthRepository) CredentialByID(userID int64) (*auth.Credential, error) {
	var row sessionRow
	result := r.db.Raw(
		"SELECT"+sessionColumns+", u.password"+sessionFrom+" WHERE u.id = ?",
		userID,
	).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &auth.Credential{SessionUser: row.sessionUser(), Password: row.Password}, nil
}

func (r *AuthRepository) SessionUser(userID int64) (*internal.SessionUser, error) {
	var row sessionRow
	result := r.db.Raw(
		"SELECT"+sessionColumns+sessionFrom+" WHERE u.id = ? AND u.status = 1",
		userID,
	).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	user := row.sessionUser()
	return &user, nil
}

func (r *AuthRepository) UpdatePassword(userID int64, passwordHash string) error {
	return r.db.Exec(
		"UPDATE users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		passwordHash, userID,
	).Error
}
