package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowIPInMemory(t *testing.T) {
	limiter := New(nil, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.AllowIP(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d within budget", i+1)
		assert.Equal(t, 5, result.Limit)
	}

	result, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter.Seconds(), 0.0)
}

func TestAllowIPIsolatesClients(t *testing.T) {
	limiter := New(nil, 1)
	ctx := context.Background()

	first, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	blocked, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	other, err := limiter.AllowIP(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "a busy neighbor must not exhaust another client's budget")
}
