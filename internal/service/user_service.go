package service

import (
	"context"
	"fmt"

	"academy/internal/model"
	"academy/internal/repository"

	apperrors "academy/internal/errors"
)

// UserService exposes read access to accounts. Security state changes too
// often to be cached, so every call goes to the identity store.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}
