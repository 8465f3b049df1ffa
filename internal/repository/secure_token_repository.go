package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"academy/internal/model"
)

// SecureTokenRepository persists secure tokens.
type SecureTokenRepository interface {
	Create(ctx context.Context, token *model.SecureToken) error
	// Update re-saves purpose, owner and expiry of the token stored under
	// token.Value. It reports false when no such token exists.
	Update(ctx context.Context, token *model.SecureToken) (bool, error)
	FindByValue(ctx context.Context, value string) (*model.SecureToken, error)
	// DeleteByValue reports whether a token was removed.
	DeleteByValue(ctx context.Context, value string) (bool, error)
	// DeleteExpired removes every token that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type secureTokenRepository struct {
	db *gorm.DB
}

// NewSecureTokenRepository creates a new secure token repository.
func NewSecureTokenRepository(db *gorm.DB) SecureTokenRepository {
	return &secureTokenRepository{db: db}
}

func (r *secureTokenRepository) Create(ctx context.Context, token *model.SecureToken) error {
	return r.db.WithContext(ctx).Omit("User").Create(token).Error
}

func (r *secureTokenRepository) Update(ctx context.Context, token *model.SecureToken) (bool, error) {
	existing, err := r.FindByValue(ctx, token.Value)
	if err != nil || existing == nil {
		return false, err
	}
	err = r.db.WithContext(ctx).Model(&model.SecureToken{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"purpose":    token.Purpose,
			"user_id":    token.UserID,
			"expires_at": token.ExpiresAt,
		}).Error
	if err != nil {
		return false, err
	}
	token.ID = existing.ID
	return true, nil
}

func (r *secureTokenRepository) FindByValue(ctx context.Context, value string) (*model.SecureToken, error) {
	var token model.SecureToken
	err := r.db.WithContext(ctx).Preload("User").Where("value = ?", value).First(&token).Error
	return found(&token, err)
}

func (r *secureTokenRepository) DeleteByValue(ctx context.Context, value string) (bool, error) {
	res := r.db.WithContext(ctx).Where("value = ?", value).Delete(&model.SecureToken{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *secureTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.SecureToken{})
	return res.RowsAffected, res.Error
}
