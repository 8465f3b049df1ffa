package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRoleName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"go basics", "GO_BASICS"},
		{"  Intro to SQL ", "INTRO_TO_SQL"},
		{"ALREADY_STYLED", "ALREADY_STYLED"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := StyleRoleName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, StyleRoleName(got))
		})
	}
}

func TestCourseOwnerRoleName(t *testing.T) {
	name := CourseOwnerRoleName("go basics")
	assert.Equal(t, "ROLE_COURSE_OWNER_GO_BASICS", name)
	assert.True(t, IsCourseOwnerRole(name))
	assert.False(t, IsCourseOwnerRole(RoleAdmin))
}

func TestTokenPurposeValid(t *testing.T) {
	assert.True(t, TokenPurposeNone.Valid())
	assert.True(t, TokenPurposePasswordRecovery.Valid())
	assert.True(t, TokenPurposeEmailConfirm.Valid())
	assert.False(t, TokenPurpose("").Valid())
	assert.False(t, TokenPurpose("LOGIN").Valid())
}

func TestSecureTokenIsExpiredAt(t *testing.T) {
	expiry := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	token := &SecureToken{ExpiresAt: expiry}

	assert.False(t, token.IsExpiredAt(expiry.Add(-time.Second)))
	assert.False(t, token.IsExpiredAt(expiry))
	assert.True(t, token.IsExpiredAt(expiry.Add(time.Second)))
}

func TestUserHelpers(t *testing.T) {
	u := &User{Provider: ProviderLocal, Roles: []Role{{Name: RoleUser}}}
	assert.True(t, u.IsAccountNonLocked())
	assert.False(t, u.IsFederated())
	assert.True(t, u.HasRole(RoleUser))
	assert.False(t, u.HasRole(RoleAdmin))

	u.Locked = true
	u.Provider = "google"
	assert.False(t, u.IsAccountNonLocked())
	assert.True(t, u.IsFederated())

	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

func TestUserJSONHidesSecrets(t *testing.T) {
	raw, err := json.Marshal(&User{Email: "a@b.c", PasswordHash: "hash", FailedLoginAttempts: 2})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "failed")
}
