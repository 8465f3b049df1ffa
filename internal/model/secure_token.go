package model

import "time"

// TokenPurpose tags what a SecureToken may be redeemed for.
type TokenPurpose string

const (
	TokenPurposeNone             TokenPurpose = "NONE"
	TokenPurposePasswordRecovery TokenPurpose = "PASSWORD_RECOVERY"
	TokenPurposeEmailConfirm     TokenPurpose = "EMAIL_CONFIRM"
)

// Valid reports whether p is one of the known purposes.
func (p TokenPurpose) Valid() bool {
	switch p {
	case TokenPurposeNone, TokenPurposePasswordRecovery, TokenPurposeEmailConfirm:
		return true
	}
	return false
}

// SecureToken is a random, time-limited, single-use credential sent by email.
type SecureToken struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Value     string       `json:"-" gorm:"uniqueIndex;size:64;not null"`
	Purpose   TokenPurpose `json:"purpose" gorm:"type:varchar(32);not null;default:'NONE';index"`
	UserID    uint         `json:"user_id" gorm:"not null;index"`
	User      *User        `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time    `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time    `json:"created_at"`
}

// IsExpiredAt reports whether the token is past its expiry at now.
func (t *SecureToken) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsExpired reports whether the token is past its expiry.
func (t *SecureToken) IsExpired() bool {
	return t.IsExpiredAt(time.Now())
}
