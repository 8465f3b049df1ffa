package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"academy/internal/mail"
	"academy/internal/metrics"
	"academy/internal/model"
	"academy/internal/repository"

	apperrors "academy/internal/errors"
)

const (
	bcryptCost = 10

	minPasswordBytes = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72

	resetPasswordPath = "/user/reset-password"
)

// errLostRace rolls back a transaction whose token or code was consumed concurrently.
var errLostRace = errors.New("consumed concurrently")

// RecoveryService drives the forgotten-password and locked-account flows.
type RecoveryService interface {
	// ForgottenPassword mails a reset link and reports whether the email belongs to a user.
	ForgottenPassword(ctx context.Context, email string) (bool, error)
	// UpdatePassword redeems a recovery token and sets a new password.
	UpdatePassword(ctx context.Context, tokenValue, newPassword string) (bool, error)
	// LoginDisabled mails a reset link to a locked account.
	LoginDisabled(ctx context.Context, email string) (bool, error)
}

type recoveryService struct {
	repos   repository.Manager
	tokens  TokenService
	notify  *notifier
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewRecoveryService creates a RecoveryService. Reset links point at baseURL.
func NewRecoveryService(
	repos repository.Manager,
	tokens TokenService,
	sender mail.Sender,
	renderer *mail.Renderer,
	baseURL string,
	recorder metrics.Recorder,
	logger *slog.Logger,
) RecoveryService {
	logger = loggerOrDefault(logger)
	return &recoveryService{
		repos:   repos,
		tokens:  tokens,
		notify:  &notifier{sender: sender, renderer: renderer, baseURL: baseURL, logger: logger},
		metrics: recorderOrNop(recorder),
		logger:  logger,
	}
}

func (s *recoveryService) ForgottenPassword(ctx context.Context, email string) (bool, error) {
	user, err := s.repos.Users().FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("forgotten password: %w", err)
	}
	if user == nil {
		s.logger.InfoContext(ctx, "password recovery requested for unknown email")
		return false, nil
	}
	if err := s.sendRecovery(ctx, user); err != nil {
		return false, fmt.Errorf("forgotten password: %w", err)
	}
	return true, nil
}

func (s *recoveryService) LoginDisabled(ctx context.Context, email string) (bool, error) {
	user, err := s.repos.Users().FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("login disabled: %w", err)
	}
	if user == nil || !user.Locked {
		return false, nil
	}
	if err := s.sendRecovery(ctx, user); err != nil {
		return false, fmt.Errorf("login disabled: %w", err)
	}
	return true, nil
}

func (s *recoveryService) sendRecovery(ctx context.Context, user *model.User) error {
	token, err := s.tokens.Create(ctx, model.TokenPurposePasswordRecovery, user.ID)
	if err != nil {
		return err
	}

	if user.IsFederated() {
		s.notify.send(ctx, user, mail.TemplatePasswordResetOAuth, user.Name, user.Provider)
	} else {
		s.notify.send(ctx, user, mail.TemplatePasswordReset,
			user.Name,
			s.notify.link(resetPasswordPath, token.Value),
			formatValidity(s.tokens.Validity()),
		)
	}
	s.logger.InfoContext(ctx, "password recovery email dispatched", "user_id", user.ID, "federated", user.IsFederated())
	return nil
}

func (s *recoveryService) UpdatePassword(ctx context.Context, tokenValue, newPassword string) (bool, error) {
	if err := validatePassword(newPassword); err != nil {
		return false, err
	}

	var updated bool
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		token, err := tx.Tokens().FindByValue(ctx, tokenValue)
		if err != nil {
			return err
		}
		ok, err := checkToken(ctx, tx, s.tokens, s.metrics, token, tokenValue, model.TokenPurposePasswordRecovery)
		if err != nil || !ok {
			return err
		}

		user, err := tx.Users().FindByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			s.metrics.RecordTokenRejected("owner_missing")
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		user.Locked = false
		user.FailedLoginAttempts = 0
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}

		deleted, err := tx.Tokens().DeleteByValue(ctx, token.Value)
		if err != nil {
			return err
		}
		if !deleted {
			return errLostRace
		}
		updated = true
		return nil
	})
	if errors.Is(err, errLostRace) {
		s.metrics.RecordTokenRejected("consumed")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}

	if updated {
		s.metrics.RecordTokenConsumed(string(model.TokenPurposePasswordRecovery))
		s.logger.InfoContext(ctx, "password updated through recovery token")
	}
	return updated, nil
}

// checkToken reports whether token may be redeemed for purpose. Expired tokens
// are deleted on the way out; every other rejection leaves the token alone.
func checkToken(
	ctx context.Context,
	tx repository.Manager,
	tokens TokenService,
	recorder metrics.Recorder,
	token *model.SecureToken,
	value string,
	purpose model.TokenPurpose,
) (bool, error) {
	switch {
	case token == nil:
		recorder.RecordTokenRejected("missing")
		return false, nil
	case token.Value != value:
		recorder.RecordTokenRejected("mismatch")
		return false, nil
	case token.Purpose != purpose:
		recorder.RecordTokenRejected("purpose")
		return false, nil
	case tokens.IsExpired(token):
		recorder.RecordTokenRejected("expired")
		_, err := tx.Tokens().DeleteByValue(ctx, token.Value)
		return false, err
	}
	return true, nil
}

func validatePassword(password string) error {
	if n := len(password); n < minPasswordBytes || n > maxPasswordBytes {
		return apperrors.ErrInvalidPassword
	}
	return nil
}
