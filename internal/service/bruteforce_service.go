package service

import (
	"context"
	"fmt"
	"log/slog"

	"academy/internal/metrics"
	"academy/internal/repository"
)

// BruteForceGuard counts consecutive failed logins and locks accounts.
type BruteForceGuard interface {
	// LoginFailed records a failure and reports whether the account is now locked.
	LoginFailed(ctx context.Context, email string) (bool, error)
	LoginSucceeded(ctx context.Context, email string) error
	// IsBruteForceAttack reports count >= threshold. LoginFailed locks on the
	// failure that would reach the threshold and leaves the count at
	// threshold-1, so accounts locked through LoginFailed report false here.
	// Use the Locked flag or the result of LoginFailed to detect a lockout.
	IsBruteForceAttack(ctx context.Context, email string) (bool, error)
}

type bruteForceGuard struct {
	repos       repository.Manager
	maxAttempts int
	metrics     metrics.Recorder
	logger      *slog.Logger
}

// NewBruteForceGuard creates a guard that locks after maxAttempts consecutive failures.
func NewBruteForceGuard(repos repository.Manager, maxAttempts int, recorder metrics.Recorder, logger *slog.Logger) BruteForceGuard {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &bruteForceGuard{
		repos:       repos,
		maxAttempts: maxAttempts,
		metrics:     recorderOrNop(recorder),
		logger:      loggerOrDefault(logger),
	}
}

func (g *bruteForceGuard) LoginFailed(ctx context.Context, email string) (bool, error) {
	var locked bool
	err := g.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		user, err := tx.Users().FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}
		if user.Locked {
			locked = true
			return nil
		}

		attempts := user.FailedLoginAttempts + 1
		if attempts >= g.maxAttempts {
			// the counter stays where it was; only the lock flips
			user.Locked = true
			locked = true
		} else {
			user.FailedLoginAttempts = attempts
		}
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return false, fmt.Errorf("record login failure: %w", err)
	}

	g.metrics.RecordLoginFailure()
	if locked {
		g.metrics.RecordLockout()
		g.logger.WarnContext(ctx, "account locked after repeated login failures", "max_attempts", g.maxAttempts)
	}
	return locked, nil
}

func (g *bruteForceGuard) LoginSucceeded(ctx context.Context, email string) error {
	err := g.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		user, err := tx.Users().FindByEmailForUpdate(ctx, email)
		if err != nil || user == nil {
			return err
		}
		if user.FailedLoginAttempts == 0 && !user.Locked {
			return nil
		}
		user.FailedLoginAttempts = 0
		user.Locked = false
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}

func (g *bruteForceGuard) IsBruteForceAttack(ctx context.Context, email string) (bool, error) {
	user, err := g.repos.Users().FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check login failures: %w", err)
	}
	if user == nil {
		return false, nil
	}
	return user.FailedLoginAttempts >= g.maxAttempts, nil
}
