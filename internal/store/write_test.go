package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonx/internal/ir"
	"github.com/roach88/jsonx/internal/seria"
)

func TestPut_GeneratesKeys(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	k1, err := s.Put(ctx, "", 1.0)
	require.NoError(t, err)
	k2, err := s.Put(ctx, "", 2.0)
	require.NoError(t, err)

	assert.Equal(t, "key-0001", k1)
	assert.Equal(t, "key-0002", k2)
}

func TestPut_DefaultKeysAreUUIDs(t *testing.T) {
	s, err := Open(t.TempDir()+"/uuid.db", nil)
	require.NoError(t, err)
	defer s.Close()

	key, err := s.Put(context.Background(), "", ir.Null{})
	require.NoError(t, err)
	assert.Len(t, key, 36)
}

func TestPut_ReplacesAndReorders(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "a", "first")
	require.NoError(t, err)
	_, err = s.Put(ctx, "b", "second")
	require.NoError(t, err)
	_, err = s.Put(ctx, "a", "third")
	require.NoError(t, err)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, keys)

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "third", v)
}

func TestPut_UnsupportedValue(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Put(context.Background(), "bad", make(chan int))
	require.Error(t, err)

	var ee *seria.EncodeError
	assert.True(t, errors.As(err, &ee))

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "gone", true)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "gone"))

	_, err = s.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPut_Canceled(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, "k", 1.0)
	assert.Error(t, err)
}
