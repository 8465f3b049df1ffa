package model

import (
	"strings"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"

	courseOwnerRolePrefix = "ROLE_COURSE_OWNER_"
)

// Role is a named authority granted to users.
type Role struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:191;not null"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StyleRoleName upper-cases s and replaces spaces with underscores.
// Applying it twice yields the same result as applying it once.
func StyleRoleName(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_")
}

// CourseOwnerRoleName returns the role that gates access to the course titled title.
func CourseOwnerRoleName(title string) string {
	return courseOwnerRolePrefix + StyleRoleName(title)
}

// IsCourseOwnerRole reports whether name was minted for a course.
func IsCourseOwnerRole(name string) bool {
	return strings.HasPrefix(name, courseOwnerRolePrefix)
}
