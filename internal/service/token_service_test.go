package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/model"
)

func TestTokenService_Create(t *testing.T) {
	repos := newServiceDBForTest(t)
	clock := newFakeClock()
	svc := newTokenServiceForTest(repos, time.Hour, clock)
	ctx := context.Background()
	user := createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	token, err := svc.Create(ctx, model.TokenPurposePasswordRecovery, user.ID)
	require.NoError(t, err)
	assert.Len(t, token.Value, 32)
	assert.Equal(t, model.TokenPurposePasswordRecovery, token.Purpose)
	assert.Equal(t, user.ID, token.UserID)
	assert.True(t, token.ExpiresAt.Equal(clock.Now().Add(time.Hour)))

	other, err := svc.Create(ctx, model.TokenPurposePasswordRecovery, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, token.Value, other.Value)

	stored, err := svc.FindByValue(ctx, token.Value)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestTokenService_CreateRejectsUnknownPurpose(t *testing.T) {
	repos := newServiceDBForTest(t)
	svc := newTokenServiceForTest(repos, time.Hour, newFakeClock())
	user := createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	_, err := svc.Create(context.Background(), model.TokenPurpose("LOGIN"), user.ID)
	assert.Error(t, err)
}

func TestTokenService_DeleteIsIdempotent(t *testing.T) {
	repos := newServiceDBForTest(t)
	svc := newTokenServiceForTest(repos, time.Hour, newFakeClock())
	ctx := context.Background()
	user := createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	token, err := svc.Create(ctx, model.TokenPurposeEmailConfirm, user.ID)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, token)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, token)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.Delete(ctx, nil)
	require.NoError(t, err)
	assert.False(t, deleted)

	missing, err := svc.FindByValue(ctx, token.Value)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTokenService_ExpiryIsMonotonic(t *testing.T) {
	repos := newServiceDBForTest(t)
	clock := newFakeClock()
	svc := newTokenServiceForTest(repos, time.Minute, clock)
	user := createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	token, err := svc.Create(context.Background(), model.TokenPurposeNone, user.ID)
	require.NoError(t, err)

	assert.False(t, svc.IsExpired(token))
	clock.Advance(time.Minute)
	assert.False(t, svc.IsExpired(token), "expiry instant itself is still valid")
	clock.Advance(time.Second)
	assert.True(t, svc.IsExpired(token))
	clock.Advance(time.Hour)
	assert.True(t, svc.IsExpired(token))
}

func TestTokenService_DeleteAllExpired(t *testing.T) {
	repos := newServiceDBForTest(t)
	clock := newFakeClock()
	svc := newTokenServiceForTest(repos, time.Minute, clock)
	ctx := context.Background()
	user := createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	_, err := svc.Create(ctx, model.TokenPurposeNone, user.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.TokenPurposeNone, user.ID)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	fresh, err := svc.Create(ctx, model.TokenPurposeNone, user.ID)
	require.NoError(t, err)

	removed, err := svc.DeleteAllExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	removed, err = svc.DeleteAllExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	kept, err := svc.FindByValue(ctx, fresh.Value)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestTokenService_Update(t *testing.T) {
	repos := newServiceDBForTest(t)
	svc := newTokenServiceForTest(repos, time.Hour, newFakeClock())
	ctx := context.Background()
	user := createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	token, err := svc.Create(ctx, model.TokenPurposeNone, user.ID)
	require.NoError(t, err)

	token.Purpose = model.TokenPurposeEmailConfirm
	ok, err := svc.Update(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := svc.FindByValue(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, model.TokenPurposeEmailConfirm, stored.Purpose)

	ok, err = svc.Update(ctx, &model.SecureToken{Value: "unknown", Purpose: model.TokenPurposeNone})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFormatValidity(t *testing.T) {
	assert.Equal(t, "24 hours", formatValidity(24*time.Hour))
	assert.Equal(t, "1 hour", formatValidity(time.Hour))
	assert.Equal(t, "90 minutes", formatValidity(90*time.Minute))
	assert.Equal(t, "1s", formatValidity(time.Second))
}
