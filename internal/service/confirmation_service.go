package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"academy/internal/mail"
	"academy/internal/metrics"
	"academy/internal/model"
	"academy/internal/repository"
)

const confirmEmailPath = "/user/confirm-email"

// ConfirmationService proves that a user controls their email address.
type ConfirmationService interface {
	SendConfirmationEmail(ctx context.Context, user *model.User) error
	ConfirmEmail(ctx context.Context, tokenValue string) (bool, error)
}

type confirmationService struct {
	repos   repository.Manager
	tokens  TokenService
	notify  *notifier
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewConfirmationService creates a ConfirmationService. Confirmation links point at baseURL.
func NewConfirmationService(
	repos repository.Manager,
	tokens TokenService,
	sender mail.Sender,
	renderer *mail.Renderer,
	baseURL string,
	recorder metrics.Recorder,
	logger *slog.Logger,
) ConfirmationService {
	logger = loggerOrDefault(logger)
	return &confirmationService{
		repos:   repos,
		tokens:  tokens,
		notify:  &notifier{sender: sender, renderer: renderer, baseURL: baseURL, logger: logger},
		metrics: recorderOrNop(recorder),
		logger:  logger,
	}
}

func (s *confirmationService) SendConfirmationEmail(ctx context.Context, user *model.User) error {
	token, err := s.tokens.Create(ctx, model.TokenPurposeEmailConfirm, user.ID)
	if err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	s.notify.send(ctx, user, mail.TemplateEmailConfirm,
		user.Name,
		s.notify.link(confirmEmailPath, token.Value),
		formatValidity(s.tokens.Validity()),
	)
	s.logger.InfoContext(ctx, "confirmation email dispatched", "user_id", user.ID)
	return nil
}

func (s *confirmationService) ConfirmEmail(ctx context.Context, tokenValue string) (bool, error) {
	var confirmed bool
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		token, err := tx.Tokens().FindByValue(ctx, tokenValue)
		if err != nil {
			return err
		}
		ok, err := checkToken(ctx, tx, s.tokens, s.metrics, token, tokenValue, model.TokenPurposeEmailConfirm)
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

		user.EmailConfirmed = true
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
		confirmed = true
		return nil
	})
	if errors.Is(err, errLostRace) {
		s.metrics.RecordTokenRejected("consumed")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirm email: %w", err)
	}

	if confirmed {
		s.metrics.RecordTokenConsumed(string(model.TokenPurposeEmailConfirm))
		s.logger.InfoContext(ctx, "email address confirmed")
	}
	return confirmed, nil
}
