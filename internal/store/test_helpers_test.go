package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonx/internal/registry"
	"github.com/roach88/jsonx/internal/seria"
	"github.com/roach88/jsonx/internal/testutil"
)

// createTestStore opens a store in a temp dir with sequential keys.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{WithKeyGenerator(testutil.NewSequenceKeys(""))}, opts...)
	s, err := Open(path, seria.New(registry.New()), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
