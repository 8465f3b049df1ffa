package model

import "time"

// CourseTitle is a course as a whole; its owner role gates every page.
type CourseTitle struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:191;not null"`
	Description string    `json:"description" gorm:"size:1024"`
	RoleName    string    `json:"role_name" gorm:"size:191;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Course is a single page of a course title. Pages are numbered from 1.
type Course struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	CourseTitleID uint         `json:"course_title_id" gorm:"not null;uniqueIndex:idx_course_page"`
	CourseTitle   *CourseTitle `json:"-" gorm:"foreignKey:CourseTitleID"`
	Page          int          `json:"page" gorm:"not null;uniqueIndex:idx_course_page"`
	Heading       string       `json:"heading" gorm:"size:255"`
	Content       string       `json:"content" gorm:"type:text"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CourseProgress records the furthest page a user has unlocked in a course.
type CourseProgress struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_title"`
	CourseTitleID uint      `json:"course_title_id" gorm:"not null;uniqueIndex:idx_progress_user_title"`
	CourseID      uint      `json:"course_id" gorm:"not null"`
	Course        *Course   `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ActivationCode is a single-use code granting a user the owner role of one course.
type ActivationCode struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Code          string       `json:"code" gorm:"uniqueIndex;size:15;not null"`
	UserID        uint         `json:"user_id" gorm:"not null;index"`
	CourseTitleID uint         `json:"course_title_id" gorm:"not null;index"`
	CourseTitle   *CourseTitle `json:"course_title,omitempty" gorm:"foreignKey:CourseTitleID"`
	CreatedAt     time.Time    `json:"created_at"`
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&SecureToken{},
		&CourseTitle{},
		&Course{},
		&CourseProgress{},
		&ActivationCode{},
	}
}
