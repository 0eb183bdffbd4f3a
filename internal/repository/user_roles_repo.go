package repository

import (
	"Inkstone/internal/model"
	"context"

	"gorm.io/gorm"
)

type UserRolesRepo interface {
	Grant(ctx context.Context, userID, roleID uint64) error
	GetRoleNames(ctx context.Context, userID uint64) ([]string, error)
	Has(ctx context.Context, userID, roleID uint64) (bool, error)
}

type userRolesRepoImpl struct {
	db *gorm.DB
}

func NewUserRolesRepo(db *gorm.DB) UserRolesRepo {
	return &userRolesRepoImpl{db: db}
}

func (r *userRolesRepoImpl) Grant(ctx context.Context, userID, roleID uint64) error {
	return r.db.WithContext(ctx).Create(&model.UserRole{UserID: userID, RoleID: roleID}).Error
}

func (r *userRolesRepoImpl) GetRoleNames(ctx context.Context, userID uint64) ([]string, error) {
	names := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&model.Role{}).
		Select("roles.name").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *userRolesRepoImpl) Has(ctx context.Context, userID, roleID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
