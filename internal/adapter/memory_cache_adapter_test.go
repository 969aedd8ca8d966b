package adapter

import (
	"context"
	"testing"
	"time"

	"lecture-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheAdapter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCacheAdapter()
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", "v1", 0))
	require.NoError(t, c.Set(ctx, "k", "v2", 0))
	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)

	require.NoError(t, c.Set(ctx, "ttl", "soon gone", time.Minute))
	now = now.Add(59 * time.Second)
	_, err = c.Get(ctx, "ttl")
	assert.NoError(t, err)
	now = now.Add(time.Second)
	_, err = c.Get(ctx, "ttl")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, c.Ping(ctx))
}
