package repository

import (
	"context"

	"gorm.io/gorm"

	"academy/internal/model"
)

// CourseProgressRepository persists per-user course watermarks.
type CourseProgressRepository interface {
	Create(ctx context.Context, progress *model.CourseProgress) error
	// Find returns the user's progress for a title with its Course preloaded.
	Find(ctx context.Context, userID, courseTitleID uint) (*model.CourseProgress, error)
	MoveTo(ctx context.Context, progressID, courseID uint) error
	DeleteByCourseTitle(ctx context.Context, courseTitleID uint) error
}

type courseProgressRepository struct {
	db *gorm.DB
}

// NewCourseProgressRepository creates a new course progress repository.
func NewCourseProgressRepository(db *gorm.DB) CourseProgressRepository {
	return &courseProgressRepository{db: db}
}

func (r *courseProgressRepository) Create(ctx context.Context, progress *model.CourseProgress) error {
	return r.db.WithContext(ctx).Omit("Course").Create(progress).Error
}

func (r *courseProgressRepository) Find(ctx context.Context, userID, courseTitleID uint) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.db.WithContext(ctx).Preload("Course").
		Where("user_id = ? AND course_title_id = ?", userID, courseTitleID).
		First(&progress).Error
	return found(&progress, err)
}

func (r *courseProgressRepository) MoveTo(ctx context.Context, progressID, courseID uint) error {
	return r.db.WithContext(ctx).Model(&model.CourseProgress{}).
		Where("id = ?", progressID).
		Update("course_id", courseID).Error
}

func (r *courseProgressRepository) DeleteByCourseTitle(ctx context.Context, courseTitleID uint) error {
	return r.db.WithContext(ctx).Where("course_title_id = ?", courseTitleID).Delete(&model.CourseProgress{}).Error
}
