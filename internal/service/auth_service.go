package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"academy/internal/auth"
	"academy/internal/model"
	"academy/internal/repository"

	apperrors "academy/internal/errors"
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, user *model.User, err error)
}

// UserStore is the part of the identity store the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	AddRole(ctx context.Context, userID uint, role *model.Role) error
}

// RoleStore looks up and creates roles.
type RoleStore interface {
	Create(ctx context.Context, role *model.Role) error
	FindByName(ctx context.Context, name string) (*model.Role, error)
}

// IdentityStore exposes the user and role stores and scopes both to one transaction.
type IdentityStore interface {
	Users() UserStore
	Roles() RoleStore
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx IdentityStore) error) error
}

type managerIdentity struct {
	repos repository.Manager
}

// NewIdentityStore adapts a repository.Manager to IdentityStore.
func NewIdentityStore(repos repository.Manager) IdentityStore {
	return managerIdentity{repos: repos}
}

func (m managerIdentity) Users() UserStore { return m.repos.Users() }
func (m managerIdentity) Roles() RoleStore { return m.repos.Roles() }

func (m managerIdentity) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx IdentityStore) error) error {
	return m.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		return fn(ctx, managerIdentity{repos: tx})
	})
}

// LockNotifier tells a user their account was locked.
type LockNotifier interface {
	LoginDisabled(ctx context.Context, email string) (bool, error)
}

// ConfirmationSender starts the email confirmation flow for a new user.
type ConfirmationSender interface {
	SendConfirmationEmail(ctx context.Context, user *model.User) error
}

type authService struct {
	identity     IdentityStore
	guard        BruteForceGuard
	locks        LockNotifier
	confirmation ConfirmationSender
	jwtService   *auth.JWTService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	identity IdentityStore,
	guard BruteForceGuard,
	locks LockNotifier,
	confirmation ConfirmationSender,
	jwtService *auth.JWTService,
	logger *slog.Logger,
) AuthService {
	return &authService{
		identity:     identity,
		guard:        guard,
		locks:        locks,
		confirmation: confirmation,
		jwtService:   jwtService,
		logger:       loggerOrDefault(logger),
	}
}

// Register creates a local account holding ROLE_USER and mails a confirmation link.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.identity.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Provider:     model.ProviderLocal,
	}
	err = s.identity.WithTransaction(ctx, func(ctx context.Context, tx IdentityStore) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		role, err := userRole(ctx, tx.Roles())
		if err != nil {
			return err
		}
		if err := tx.Users().AddRole(ctx, user.ID, role); err != nil {
			return fmt.Errorf("grant %s: %w", model.RoleUser, err)
		}
		user.Roles = append(user.Roles, *role)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.confirmation.SendConfirmationEmail(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "send confirmation email", "user_id", user.ID, "error", err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func userRole(ctx context.Context, roles RoleStore) (*model.Role, error) {
	role, err := roles.FindByName(ctx, model.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", model.RoleUser, err)
	}
	if role != nil {
		return role, nil
	}
	role = &model.Role{Name: model.RoleUser, Description: "Registered user"}
	if err := roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create %s: %w", model.RoleUser, err)
	}
	return role, nil
}

// Login checks credentials, feeding every outcome to the brute-force guard.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.identity.Users().FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.IsFederated() {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsAccountNonLocked() {
		return "", nil, apperrors.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		locked, err := s.guard.LoginFailed(ctx, user.Email)
		if err != nil {
			return "", nil, err
		}
		if !locked {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		if _, err := s.locks.LoginDisabled(ctx, user.Email); err != nil {
			s.logger.ErrorContext(ctx, "notify locked account", "user_id", user.ID, "error", err)
		}
		return "", nil, apperrors.ErrAccountLocked
	}

	if err := s.guard.LoginSucceeded(ctx, user.Email); err != nil {
		return "", nil, err
	}
	user.FailedLoginAttempts = 0

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, user, nil
}
