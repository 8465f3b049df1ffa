// Package seed installs the static roles and the first administrator.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"academy/internal/model"
	"academy/internal/repository"

	apperrors "academy/internal/errors"
)

var staticRoles = []model.Role{
	{Name: model.RoleUser, Description: "Registered user"},
	{Name: model.RoleAdmin, Description: "Site administrator"},
}

// Seeder writes bootstrap data. Every step is idempotent.
type Seeder struct {
	repos  repository.Manager
	logger *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(repos repository.Manager, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{repos: repos, logger: logger}
}

// Roles creates ROLE_USER and ROLE_ADMIN when missing.
func (s *Seeder) Roles(ctx context.Context) error {
	return s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		for _, role := range staticRoles {
			if _, err := ensureRole(ctx, tx, role); err != nil {
				return err
			}
		}
		return nil
	})
}

// Admin creates a confirmed local administrator, or grants the admin role to
// an existing account with that email. The password is ignored for existing accounts.
func (s *Seeder) Admin(ctx context.Context, name, email, password string) (*model.User, error) {
	var user *model.User
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		var err error
		user, err = tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			if n := len(password); n < 6 || n > 72 {
				return apperrors.ErrInvalidPassword
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user = &model.User{
				Name:           name,
				Email:          email,
				PasswordHash:   string(hash),
				Provider:       model.ProviderLocal,
				EmailConfirmed: true,
			}
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
		}

		for _, template := range staticRoles {
			role, err := ensureRole(ctx, tx, template)
			if err != nil {
				return err
			}
			if user.HasRole(role.Name) {
				continue
			}
			if err := tx.Users().AddRole(ctx, user.ID, role); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	s.logger.InfoContext(ctx, "administrator seeded", "user_id", user.ID)
	return user, nil
}

func ensureRole(ctx context.Context, tx repository.Manager, template model.Role) (*model.Role, error) {
	role, err := tx.Roles().FindByName(ctx, template.Name)
	if err != nil || role != nil {
		return role, err
	}
	role = &model.Role{Name: template.Name, Description: template.Description}
	if err := tx.Roles().Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}
