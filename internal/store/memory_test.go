package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "user:alice")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "user:alice", `{"username":"alice"}`))

	val, err := m.Get(ctx, "user:alice")
	require.NoError(t, err)
	assert.Equal(t, `{"username":"alice"}`, val)

	ok, err := m.Exists(ctx, "user:alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Exists(ctx, "user:bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySetIfAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created, err := m.SetIfAbsent(ctx, "user:alice", "first")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.SetIfAbsent(ctx, "user:alice", "second")
	require.NoError(t, err)
	assert.False(t, created, "second conditional create must lose")

	val, err := m.Get(ctx, "user:alice")
	require.NoError(t, err)
	assert.Equal(t, "first", val, "losing write must not overwrite the record")
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "user:alice", "v"))
	m.Delete("user:alice")
	_, err := m.Get(ctx, "user:alice")
	require.ErrorIs(t, err, ErrNotFound)
}
