// Package repository holds the GORM-backed stores. Finders return (nil, nil)
// when no row matches; only infrastructure failures are reported as errors.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Manager hands out repositories bound to one database handle and runs
// multi-step operations atomically.
type Manager interface {
	Users() UserRepository
	Roles() RoleRepository
	Tokens() SecureTokenRepository
	ActivationCodes() ActivationCodeRepository
	Courses() CourseRepository
	Progress() CourseProgressRepository
	// WithTransaction runs fn in a database transaction. Repositories obtained
	// from tx share it; returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Manager) error) error
}

type manager struct {
	db *gorm.DB
}

// NewManager creates a Manager over db.
func NewManager(db *gorm.DB) Manager {
	return &manager{db: db}
}

func (m *manager) Users() UserRepository         { return NewUserRepository(m.db) }
func (m *manager) Roles() RoleRepository         { return NewRoleRepository(m.db) }
func (m *manager) Tokens() SecureTokenRepository { return NewSecureTokenRepository(m.db) }
func (m *manager) ActivationCodes() ActivationCodeRepository {
	return NewActivationCodeRepository(m.db)
}
func (m *manager) Courses() CourseRepository          { return NewCourseRepository(m.db) }
func (m *manager) Progress() CourseProgressRepository { return NewCourseProgressRepository(m.db) }

func (m *manager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Manager) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &manager{db: tx})
	})
}
