package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()

	_, hit, err := c.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "a", []byte("<svg/>"), time.Minute))
	data, hit, err := c.Get(ctx, "a")
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "<svg/>", string(data))
	assert.True(t, mr.Exists("treecharts:a"))

	mr.FastForward(2 * time.Minute)
	_, hit, err = c.Get(ctx, "a")
	assert.NoError(t, err)
	assert.False(t, hit, "entry should expire with its ttl")

	require.NoError(t, c.Set(ctx, "b", []byte("x"), 0))
	require.NoError(t, c.Delete(ctx, "b"))
	_, hit, _ = c.Get(ctx, "b")
	assert.False(t, hit)
}

func TestRedisCacheURLAndClear(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	c, err := Open(ctx, "redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	defer c.Close()

	for _, k := range []string{"x", "y"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, mr.Set("other:z", "keep"))

	n, err := Clear(ctx, c)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other:z"), "keys outside the prefix must survive")
}

func TestRedisCacheUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisCache(context.Background(), RedisOptions{Addr: addr})
	assert.ErrorIs(t, err, ErrNetwork)
}
