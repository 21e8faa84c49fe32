//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: TREECHARTS_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/cache
func TestMongoCacheIntegration(t *testing.T) {
	uri := os.Getenv("TREECHARTS_MONGO_URI")
	if uri == "" {
		t.Skip("TREECHARTS_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := NewMongoCache(ctx, MongoOptions{URI: uri, Database: "treecharts_test", Collection: t.Name()})
	require.NoError(t, err)
	defer c.Close()
	_, _ = c.Clear(ctx)

	_, hit, err := c.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "a", []byte("<svg/>"), time.Hour))
	data, hit, err := c.Get(ctx, "a")
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "<svg/>", string(data))

	require.NoError(t, c.Set(ctx, "old", []byte("x"), time.Millisecond))
	time.Sleep(10 * time.Millisecond)
	_, hit, _ = c.Get(ctx, "old")
	assert.False(t, hit, "expired entries are misses before the TTL monitor runs")

	require.NoError(t, c.Delete(ctx, "a"))
	n, err := c.Clear(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
