package sqlite

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hospadmin/hospital-admin/internal/user"
)

const viewSelect = `
	SELECT u.id, u.username, u.email, u.phone, u.real_name, u.avatar,
	       u.status, u.role_id, u.department_id,
	       r.name AS role_name, d.name AS department_name,
	       u.created_at, u.updated_at
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id
	LEFT JOIN departments d ON d.id = u.department_id`

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(filter user.ListFilter) ([]user.View, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		where += " AND (u.username LIKE ? OR u.real_name LIKE ? OR u.email LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like)
	}
	if filter.Status != nil {
		where += " AND u.status = ?"
		args = append(args, *filter.Status)
	}

	var total int64
	if err := r.db.Raw("SELECT COUNT(*) FROM users u"+where, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	views := []user.View{}
	err := r.db.Raw(
		viewSelect+where+" ORDER BY u.created_at DESC, u.id DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, offset)...,
	).Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *UserRepository) GetByID(id int64) (*user.View, error) {
	var view user.View
	result := r.db.Raw(viewSelect+" WHERE u.id = ?", id).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *UserRepository) GetModelByID(id int64) (*user.User, error) {
	var account user.User
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *UserRepository) UsernameExists(username string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).
		Where("username = ? AND id != ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) EmailExists(email string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).
		Where("email = ? AND id != ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(u *user.User) (int64, error) {
	if err := r.db.Create(u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Exec(
		`UPDATE users SET email = ?, phone = ?, real_name = ?, avatar = ?,
		 role_id = ?, department_id = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		u.Email, u.Phone, u.RealName, u.Avatar,
		u.RoleID, u.DepartmentID, u.Status, u.ID,
	).Error
}

func (r *UserRepository) SetStatus(id int64, status int) error {
	return r.db.Exec(
		"UPDATE users SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	).Error
}

func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	return r.db.Exec(
		"UPDATE users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		passwordHash, id,
	).Error
}
