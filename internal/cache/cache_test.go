package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedTitle struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_TTLExpires(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	got, _ := c.Get(ctx, "k")
	assert.Nil(t, got)
}

func TestClient_JSONRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "title:go", cachedTitle{ID: 3, Name: "Go Basics"}, time.Minute))

	var got cachedTitle
	assert.True(t, c.GetJSON(ctx, "title:go", &got))
	assert.Equal(t, cachedTitle{ID: 3, Name: "Go Basics"}, got)

	var miss cachedTitle
	assert.False(t, c.GetJSON(ctx, "title:missing", &miss))
}

func TestClient_FailsSafeWhenRedisDown(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	mr.Close()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Ping(ctx))
}

func TestClient_NilIsAlwaysMiss(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, c.GetJSON(ctx, "k", &cachedTitle{}))
	assert.NoError(t, c.Close())
}
