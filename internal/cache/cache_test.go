package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "key", []byte("value"), time.Minute))

	data, ok, err := m.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), data)
}

func TestMemoryMissingKey(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "key", []byte("value"), -time.Second))

	_, ok, err := m.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries count as absent")
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "key", []byte("old"), time.Minute))
	require.NoError(t, m.Set(ctx, "key", []byte("new"), time.Minute))

	data, ok, err := m.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), data)
	assert.Equal(t, 1, m.Size())
}
