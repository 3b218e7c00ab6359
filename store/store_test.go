package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progress struct {
	Missed   []string  `cbor:"missed"`
	Complete bool      `cbor:"complete"`
	At       time.Time `cbor:"at"`
}

// backends returns every Store implementation under test.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "state", "progress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var blob string
			ok, err := s.Load(ctx, KeyWhiteboard, &blob)
			require.NoError(t, err)
			assert.False(t, ok, "absent key must report false")

			require.NoError(t, s.Save(ctx, KeyWhiteboard, "data:image/png;base64,AAAA"))
			ok, err = s.Load(ctx, KeyWhiteboard, &blob)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "data:image/png;base64,AAAA", blob)

			in := progress{Missed: []string{"ppe", "calls"}, Complete: true, At: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
			require.NoError(t, s.Save(ctx, KeyAssessment, in))
			var out progress
			ok, err = s.Load(ctx, KeyAssessment, &out)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, in.Missed, out.Missed)
			assert.True(t, out.Complete)
			assert.True(t, in.At.Equal(out.At))
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, KeyChecklistComplete, false))
			require.NoError(t, s.Save(ctx, KeyChecklistComplete, true))
			var done bool
			ok, err := s.Load(ctx, KeyChecklistComplete, &done)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, done)
		})
	}
}

func TestStoreEmptyKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Save(ctx, "", 1), ErrEmptyKey)
			_, err := s.Load(ctx, "", new(int))
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestMarshalDeterministic(t *testing.T) {
	a, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	b, err := Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMemoryKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Save(ctx, "b", 1))
	require.NoError(t, m.Save(ctx, "a", 2))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, KeyMissedChecklistItems, []string{"ppe"}))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var missed []string
	ok, err := db.Load(ctx, KeyMissedChecklistItems, &missed)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"ppe"}, missed)

	require.NoError(t, db.Delete(ctx, KeyMissedChecklistItems))
	ok, err = db.Load(ctx, KeyMissedChecklistItems, &missed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteClosed(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close(), "double close is harmless")

	assert.ErrorIs(t, db.Save(ctx, "k", 1), ErrClosed)
	_, err = db.Load(ctx, "k", new(int))
	assert.ErrorIs(t, err, ErrClosed)
}
