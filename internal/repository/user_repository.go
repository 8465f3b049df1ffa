package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"academy/internal/model"
)

// UserRepository is the identity store.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByEmailForUpdate locks the row until the surrounding transaction ends.
	FindByEmailForUpdate(ctx context.Context, email string) (*model.User, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	AddRole(ctx context.Context, userID uint, role *model.Role) error
	HasRole(ctx context.Context, userID uint, roleName string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = model.NormalizeEmail(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

// Update saves the user's own columns; role grants go through AddRole.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	user.Email = model.NormalizeEmail(user.Email)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error
	return found(&user, err)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("email = ?", model.NormalizeEmail(email)).First(&user).Error
	return found(&user, err)
}

func (r *userRepository) FindByEmailForUpdate(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", model.NormalizeEmail(email)).First(&user).Error
	return found(&user, err)
}

func (r *userRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(&model.User{ID: id}).Error
}

func (r *userRepository) AddRole(ctx context.Context, userID uint, role *model.Role) error {
	return r.db.WithContext(ctx).Model(&model.User{ID: userID}).Association("Roles").Append(role)
}

func (r *userRepository) HasRole(ctx context.Context, userID uint, roleName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, roleName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// found maps gorm.ErrRecordNotFound to a nil result without error.
func found[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
