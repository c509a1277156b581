package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	err := c.Set(ctx, "q1", "payload", time.Minute)
	require.NoError(t, err)

	val, ok := c.Get(ctx, "q1")
	assert.True(t, ok)
	assert.Equal(t, "payload", val)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	err := c.Set(ctx, "q1", "payload", -time.Second)
	require.NoError(t, err)

	_, ok := c.Get(ctx, "q1")
	assert.False(t, ok)
}

func TestMemoryCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	require.NoError(t, c.Set(ctx, "q1", "old", time.Minute))
	require.NoError(t, c.Set(ctx, "q1", "new", time.Minute))

	val, ok := c.Get(ctx, "q1")
	assert.True(t, ok)
	assert.Equal(t, "new", val)
}
