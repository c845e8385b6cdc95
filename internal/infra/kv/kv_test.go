package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Absent key
	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	// Round-trip
	require.NoError(t, s.Set(ctx, "a-name", `"Work"`))
	v, ok, err := s.Get(ctx, "a-name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"Work"`, v)

	// Overwrite
	require.NoError(t, s.Set(ctx, "a-name", `"Focus"`))
	v, _, err = s.Get(ctx, "a-name")
	require.NoError(t, err)
	assert.Equal(t, `"Focus"`, v)

	// Delete, twice
	require.NoError(t, s.Delete(ctx, "a-name"))
	require.NoError(t, s.Delete(ctx, "a-name"))
	_, ok, err = s.Get(ctx, "a-name")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	testStore(t, m)
	assert.Equal(t, 0, m.Len())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "timers.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	testStore(t, s)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "timers.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "root-timers", `["a"]`))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	v, ok, err := s.Get(ctx, "root-timers")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["a"]`, v)
}
