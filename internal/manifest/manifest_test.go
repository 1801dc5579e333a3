// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndLatest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{EquationID: "eq1", LatexSHA: ChecksumLatex("x^2"), Status: "failed", Duration: 120 * time.Millisecond, StderrTail: "! Missing $ inserted.", RenderedAt: base},
		{EquationID: "eq1", LatexSHA: ChecksumLatex("x^2"), Status: "done", Duration: 340 * time.Millisecond, RenderedAt: base.Add(time.Minute)},
		{EquationID: "eq2", LatexSHA: ChecksumLatex("E=mc^2"), Status: "done", Duration: 95 * time.Millisecond, RenderedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(ctx, e))
	}

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2, "one row per equation")

	// Newest insertion first.
	assert.Equal(t, "eq2", latest[0].EquationID)
	assert.Equal(t, "eq1", latest[1].EquationID)
	assert.Equal(t, "done", latest[1].Status, "latest eq1 attempt is the successful retry")
	assert.Equal(t, 340*time.Millisecond, latest[1].Duration)
	assert.True(t, latest[1].RenderedAt.Equal(base.Add(time.Minute)))
}

func TestHistory(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Record(ctx, Entry{EquationID: "eq1", LatexSHA: "aa", Status: "failed", StderrTail: "boom", RenderedAt: now}))
	require.NoError(t, store.Record(ctx, Entry{EquationID: "eq1", LatexSHA: "aa", Status: "done", RenderedAt: now.Add(time.Second)}))
	require.NoError(t, store.Record(ctx, Entry{EquationID: "other", LatexSHA: "bb", Status: "done", RenderedAt: now}))

	history, err := store.History(ctx, "eq1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "done", history[0].Status, "newest attempt first")
	assert.Equal(t, "failed", history[1].Status)
	assert.Equal(t, "boom", history[1].StderrTail)

	none, err := store.History(ctx, "absent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "manifest.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(context.Background(), Entry{
		EquationID: "eq1", LatexSHA: "cc", Status: "done", RenderedAt: time.Now(),
	}))
}

func TestChecksumLatex(t *testing.T) {
	assert.Equal(t, ChecksumLatex("x^2"), ChecksumLatex("x^2"))
	assert.NotEqual(t, ChecksumLatex("x^2"), ChecksumLatex("x^3"))
	assert.Len(t, ChecksumLatex(""), 64)
}
