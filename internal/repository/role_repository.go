package repository

import (
	"context"

	"gorm.io/gorm"

	"academy/internal/model"
)

// RoleRepository is the role store.
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	FindByName(ctx context.Context, name string) (*model.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// StripFromUsers removes the role from every user holding it.
	StripFromUsers(ctx context.Context, role *model.Role) error
	// Delete removes the role and strips it from every user holding it.
	Delete(ctx context.Context, role *model.Role) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	return found(&role, err)
}

func (r *roleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *roleRepository) StripFromUsers(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Exec("DELETE FROM user_roles WHERE role_id = ?", role.ID).Error
}

func (r *roleRepository) Delete(ctx context.Context, role *model.Role) error {
	if err := r.StripFromUsers(ctx, role); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Role{}, role.ID).Error
}
