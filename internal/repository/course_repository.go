package repository

import (
	"context"

	"gorm.io/gorm"

	"academy/internal/model"
)

// CourseRepository persists course titles and their pages.
type CourseRepository interface {
	CreateTitle(ctx context.Context, title *model.CourseTitle) error
	UpdateTitle(ctx context.Context, title *model.CourseTitle) error
	DeleteTitle(ctx context.Context, id uint) error
	FindTitleByID(ctx context.Context, id uint) (*model.CourseTitle, error)
	FindTitleByName(ctx context.Context, name string) (*model.CourseTitle, error)
	ExistsTitleByName(ctx context.Context, name string) (bool, error)
	// ExistsTitleByNameExcept ignores the title with id exceptID.
	ExistsTitleByNameExcept(ctx context.Context, name string, exceptID uint) (bool, error)

	CreatePage(ctx context.Context, page *model.Course) error
	FindPage(ctx context.Context, courseTitleID uint, page int) (*model.Course, error)
	// LastPage returns the highest page number of a title, 0 when it has none.
	LastPage(ctx context.Context, courseTitleID uint) (int, error)
	DeletePages(ctx context.Context, courseTitleID uint) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) CreateTitle(ctx context.Context, title *model.CourseTitle) error {
	return r.db.WithContext(ctx).Create(title).Error
}

func (r *courseRepository) UpdateTitle(ctx context.Context, title *model.CourseTitle) error {
	return r.db.WithContext(ctx).Save(title).Error
}

func (r *courseRepository) DeleteTitle(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.CourseTitle{}, id).Error
}

func (r *courseRepository) FindTitleByID(ctx context.Context, id uint) (*model.CourseTitle, error) {
	var title model.CourseTitle
	err := r.db.WithContext(ctx).First(&title, id).Error
	return found(&title, err)
}

func (r *courseRepository) FindTitleByName(ctx context.Context, name string) (*model.CourseTitle, error) {
	var title model.CourseTitle
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&title).Error
	return found(&title, err)
}

func (r *courseRepository) ExistsTitleByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.CourseTitle{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepository) ExistsTitleByNameExcept(ctx context.Context, name string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CourseTitle{}).
		Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepository) CreatePage(ctx context.Context, page *model.Course) error {
	return r.db.WithContext(ctx).Omit("CourseTitle").Create(page).Error
}

func (r *courseRepository) FindPage(ctx context.Context, courseTitleID uint, page int) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_title_id = ? AND page = ?", courseTitleID, page).
		First(&course).Error
	return found(&course, err)
}

func (r *courseRepository) LastPage(ctx context.Context, courseTitleID uint) (int, error) {
	var last int
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("course_title_id = ?", courseTitleID).
		Select("COALESCE(MAX(page), 0)").
		Scan(&last).Error
	return last, err
}

func (r *courseRepository) DeletePages(ctx context.Context, courseTitleID uint) error {
	return r.db.WithContext(ctx).Where("course_title_id = ?", courseTitleID).Delete(&model.Course{}).Error
}
