package model

import (
	"strings"
	"time"
)

// ProviderLocal marks users who registered through the native sign-up form.
const ProviderLocal = "local"

// User represents a site account.
type User struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	Name                string    `json:"name" gorm:"size:255;not null"`
	Email               string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash        string    `json:"-" gorm:"size:255"` // Never expose in JSON
	Provider            string    `json:"provider" gorm:"size:32;not null;default:'local'"`
	EmailConfirmed      bool      `json:"email_confirmed" gorm:"not null;default:false"`
	FailedLoginAttempts int       `json:"-" gorm:"not null;default:0"`
	Locked              bool      `json:"locked" gorm:"not null;default:false"`
	Roles               []Role    `json:"roles,omitempty" gorm:"many2many:user_roles"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// IsAccountNonLocked reports whether the user may still attempt to log in.
func (u *User) IsAccountNonLocked() bool {
	return !u.Locked
}

// IsFederated reports whether the user signed up through an external identity provider.
func (u *User) IsFederated() bool {
	return u.Provider != "" && u.Provider != ProviderLocal
}

// HasRole reports whether the loaded role set contains name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// NormalizeEmail lower-cases and trims a login identifier.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
