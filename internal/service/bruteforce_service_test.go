package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBruteForceGuard_LocksAtThreshold(t *testing.T) {
	repos := newServiceDBForTest(t)
	guard := NewBruteForceGuard(repos, 3, nil, nil)
	ctx := context.Background()
	createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	for i := 1; i < 3; i++ {
		locked, err := guard.LoginFailed(ctx, "alice@x.com")
		require.NoError(t, err)
		assert.False(t, locked, "failure %d must not lock", i)
	}
	user, err := repos.Users().FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, user.FailedLoginAttempts)
	assert.True(t, user.IsAccountNonLocked())

	locked, err := guard.LoginFailed(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.True(t, locked)

	user, err = repos.Users().FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.True(t, user.Locked)
	assert.Equal(t, 2, user.FailedLoginAttempts, "counter is left where it was when the lock flips")

	locked, err = guard.LoginFailed(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.True(t, locked)
	user, err = repos.Users().FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, user.FailedLoginAttempts)
}

func TestBruteForceGuard_UnknownUserIsNoop(t *testing.T) {
	repos := newServiceDBForTest(t)
	guard := NewBruteForceGuard(repos, 1, nil, nil)

	locked, err := guard.LoginFailed(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, guard.LoginSucceeded(context.Background(), "ghost@x.com"))
}

func TestBruteForceGuard_SuccessResets(t *testing.T) {
	repos := newServiceDBForTest(t)
	guard := NewBruteForceGuard(repos, 2, nil, nil)
	ctx := context.Background()
	createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	_, err := guard.LoginFailed(ctx, "alice@x.com")
	require.NoError(t, err)
	locked, err := guard.LoginFailed(ctx, "alice@x.com")
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, guard.LoginSucceeded(ctx, "alice@x.com"))
	require.NoError(t, guard.LoginSucceeded(ctx, "alice@x.com"))

	user, err := repos.Users().FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.False(t, user.Locked)
}

func TestBruteForceGuard_IsBruteForceAttack(t *testing.T) {
	repos := newServiceDBForTest(t)
	ctx := context.Background()
	user := createServiceUserForTest(t, repos, "alice@x.com", "secret1")
	guard := NewBruteForceGuard(repos, 3, nil, nil)

	attack, err := guard.IsBruteForceAttack(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.False(t, attack)

	user.FailedLoginAttempts = 3
	require.NoError(t, repos.Users().Update(ctx, user))
	attack, err = guard.IsBruteForceAttack(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.True(t, attack)

	attack, err = guard.IsBruteForceAttack(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.False(t, attack)
}

func TestBruteForceGuard_LockoutFreezesCountBelowThreshold(t *testing.T) {
	repos := newServiceDBForTest(t)
	ctx := context.Background()
	createServiceUserForTest(t, repos, "bob@x.com", "secret1")
	guard := NewBruteForceGuard(repos, 3, nil, nil)

	var locked bool
	for i := 0; i < 3; i++ {
		var err error
		locked, err = guard.LoginFailed(ctx, "bob@x.com")
		require.NoError(t, err)
	}
	assert.True(t, locked)

	user, err := repos.Users().FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.True(t, user.Locked)
	assert.Equal(t, 2, user.FailedLoginAttempts)

	attack, err := guard.IsBruteForceAttack(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.False(t, attack)
}

func TestBruteForceGuard_EmailIsCaseInsensitive(t *testing.T) {
	repos := newServiceDBForTest(t)
	guard := NewBruteForceGuard(repos, 1, nil, nil)
	createServiceUserForTest(t, repos, "alice@x.com", "secret1")

	locked, err := guard.LoginFailed(context.Background(), "ALICE@x.com")
	require.NoError(t, err)
	assert.True(t, locked)
}
