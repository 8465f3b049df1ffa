package repository

import (
	"context"

	"gorm.io/gorm"

	"academy/internal/model"
)

// ActivationCodeRepository persists course activation codes.
type ActivationCodeRepository interface {
	Create(ctx context.Context, code *model.ActivationCode) error
	FindByCode(ctx context.Context, code string) (*model.ActivationCode, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// DeleteByCode reports whether a code was removed.
	DeleteByCode(ctx context.Context, code string) (bool, error)
	DeleteByCourseTitle(ctx context.Context, courseTitleID uint) error
}

type activationCodeRepository struct {
	db *gorm.DB
}

// NewActivationCodeRepository creates a new activation code repository.
func NewActivationCodeRepository(db *gorm.DB) ActivationCodeRepository {
	return &activationCodeRepository{db: db}
}

func (r *activationCodeRepository) Create(ctx context.Context, code *model.ActivationCode) error {
	return r.db.WithContext(ctx).Omit("CourseTitle").Create(code).Error
}

func (r *activationCodeRepository) FindByCode(ctx context.Context, code string) (*model.ActivationCode, error) {
	var ac model.ActivationCode
	err := r.db.WithContext(ctx).Preload("CourseTitle").Where("code = ?", code).First(&ac).Error
	return found(&ac, err)
}

func (r *activationCodeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ActivationCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *activationCodeRepository) DeleteByCode(ctx context.Context, code string) (bool, error) {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.ActivationCode{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *activationCodeRepository) DeleteByCourseTitle(ctx context.Context, courseTitleID uint) error {
	return r.db.WithContext(ctx).Where("course_title_id = ?", courseTitleID).Delete(&model.ActivationCode{}).Error
}
