package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"academy/internal/metrics"
	"academy/internal/model"
	"academy/internal/repository"
)

// tokenBytes is the amount of entropy behind every secure token value.
const tokenBytes = 24

// TokenService issues and manages single-use, time-limited tokens.
type TokenService interface {
	Create(ctx context.Context, purpose model.TokenPurpose, userID uint) (*model.SecureToken, error)
	FindByValue(ctx context.Context, value string) (*model.SecureToken, error)
	Delete(ctx context.Context, token *model.SecureToken) (bool, error)
	DeleteByValue(ctx context.Context, value string) (bool, error)
	// DeleteAllExpired removes every expired token and returns how many were removed.
	DeleteAllExpired(ctx context.Context) (int64, error)
	Update(ctx context.Context, token *model.SecureToken) (bool, error)
	IsExpired(token *model.SecureToken) bool
	Validity() time.Duration
}

type tokenService struct {
	repo     repository.SecureTokenRepository
	validity time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewTokenService creates a TokenService whose tokens live for validity.
func NewTokenService(repo repository.SecureTokenRepository, validity time.Duration, recorder metrics.Recorder, logger *slog.Logger) TokenService {
	return &tokenService{
		repo:     repo,
		validity: validity,
		metrics:  recorderOrNop(recorder),
		logger:   loggerOrDefault(logger),
		now:      time.Now,
	}
}

func (s *tokenService) Create(ctx context.Context, purpose model.TokenPurpose, userID uint) (*model.SecureToken, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("create token: unknown purpose %q", purpose)
	}
	value, err := newTokenValue()
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	token := &model.SecureToken{
		Value:     value,
		Purpose:   purpose,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.validity),
	}
	if err := s.repo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	s.metrics.RecordTokenIssued(string(purpose))
	s.logger.DebugContext(ctx, "secure token issued", "purpose", purpose, "user_id", userID)
	return token, nil
}

func (s *tokenService) FindByValue(ctx context.Context, value string) (*model.SecureToken, error) {
	token, err := s.repo.FindByValue(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	return token, nil
}

func (s *tokenService) Delete(ctx context.Context, token *model.SecureToken) (bool, error) {
	if token == nil {
		return false, nil
	}
	return s.DeleteByValue(ctx, token.Value)
}

func (s *tokenService) DeleteByValue(ctx context.Context, value string) (bool, error) {
	deleted, err := s.repo.DeleteByValue(ctx, value)
	if err != nil {
		return false, fmt.Errorf("delete token: %w", err)
	}
	return deleted, nil
}

func (s *tokenService) DeleteAllExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	s.metrics.RecordTokensSwept(removed)
	return removed, nil
}

func (s *tokenService) Update(ctx context.Context, token *model.SecureToken) (bool, error) {
	ok, err := s.repo.Update(ctx, token)
	if err != nil {
		return false, fmt.Errorf("update token: %w", err)
	}
	return ok, nil
}

func (s *tokenService) IsExpired(token *model.SecureToken) bool {
	return token.IsExpiredAt(s.now())
}

func (s *tokenService) Validity() time.Duration {
	return s.validity
}

func newTokenValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func recorderOrNop(r metrics.Recorder) metrics.Recorder {
	if r == nil {
		return metrics.Nop{}
	}
	return r
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
