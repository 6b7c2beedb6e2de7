package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vrml-tools/vrml-bot/internal/domain"
)

func sampleIndex() domain.PlayerIndex {
	return domain.PlayerIndex{
		"123": {
			{GameName: "Onward", PlayerID: "p1", PlayerName: "One", TeamID: "t1", TeamName: "Alpha"},
			{GameName: "Echo Arena", PlayerID: "p2", PlayerName: "One", TeamID: "t2", TeamName: "Beta"},
		},
		"456": {
			{GameName: "Onward", PlayerID: "p3", PlayerName: "Two", TeamID: "t1", TeamName: "Alpha"},
		},
	}
}

func TestPlayerIndexFile_MissingIsEmpty(t *testing.T) {
	t.Parallel()

	f := PlayerIndexFile{Path: filepath.Join(t.TempDir(), PlayerIndexFileName)}
	idx, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Lookup("123", ""))
}

func TestPlayerIndexFile_RoundTripFieldNames(t *testing.T) {
	t.Parallel()

	f := PlayerIndexFile{Path: filepath.Join(t.TempDir(), "nested", PlayerIndexFileName)}
	require.NoError(t, f.Save(sampleIndex()))

	raw, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	for _, key := range []string{`"gameName"`, `"playerID"`, `"playerName"`, `"teamID"`, `"teamName"`} {
		assert.Contains(t, string(raw), key)
	}

	idx, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleIndex(), idx)
}

func TestPlayerIndexFile_CorruptFile(t *testing.T) {
	t.Parallel()

	f := PlayerIndexFile{Path: filepath.Join(t.TempDir(), PlayerIndexFileName)}
	require.NoError(t, os.WriteFile(f.Path, []byte(`{"123": [`), 0o644))
	_, err := f.Load()
	assert.Error(t, err)
}

// Not parallel: swaps the package level rename hook.
func TestPlayerIndexFile_CrashBeforeReplaceKeepsOldSnapshot(t *testing.T) {
	dir := t.TempDir()
	f := PlayerIndexFile{Path: filepath.Join(dir, PlayerIndexFileName)}
	old := domain.PlayerIndex{"1": {{GameName: "Onward", PlayerID: "old"}}}
	require.NoError(t, f.Save(old))

	renameFile = func(string, string) error { return crerr.New("power cut") }
	t.Cleanup(func() { renameFile = os.Rename })

	err := f.Save(sampleIndex())
	require.Error(t, err)

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, old, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must be cleaned up")
	assert.Equal(t, PlayerIndexFileName, entries[0].Name())
}

func TestPlayerIndexFile_LeftoverTempIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := PlayerIndexFile{Path: filepath.Join(dir, PlayerIndexFileName)}
	require.NoError(t, f.Save(sampleIndex()))
	// a half written temp file from an interrupted run
	require.NoError(t, os.WriteFile(filepath.Join(dir, "."+PlayerIndexFileName+".tmp-1"), []byte(`{"9":[{"game`), 0o644))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleIndex(), got)
}

func TestPlayerCache_ReloadAndLookup(t *testing.T) {
	t.Parallel()

	f := PlayerIndexFile{Path: filepath.Join(t.TempDir(), PlayerIndexFileName)}
	c := NewPlayerCache(f, zaptest.NewLogger(t))

	assert.Empty(t, c.Lookup("123", ""))
	require.NoError(t, c.Reload(), "missing file reloads as empty")

	require.NoError(t, f.Save(sampleIndex()))
	held := c.Snapshot()
	require.NoError(t, c.Reload())

	assert.Equal(t, 0, held.Len(), "old snapshot is unchanged")
	onward := c.Lookup("123", "Onward")
	require.Len(t, onward, 1)
	assert.Equal(t, "p1", onward[0].PlayerID)
	assert.Len(t, c.Lookup("123", ""), 2)
}

func TestPlayerCache_ReloadErrorKeepsSnapshot(t *testing.T) {
	t.Parallel()

	f := PlayerIndexFile{Path: filepath.Join(t.TempDir(), PlayerIndexFileName)}
	c := NewPlayerCache(f, zaptest.NewLogger(t))
	require.NoError(t, c.Publish(sampleIndex()))

	require.NoError(t, os.WriteFile(f.Path, []byte("not json"), 0o644))
	require.Error(t, c.Reload())
	assert.Len(t, c.Lookup("456", ""), 1)
}

func TestPlayerCache_ConcurrentLookups(t *testing.T) {
	t.Parallel()

	f := PlayerIndexFile{Path: filepath.Join(t.TempDir(), PlayerIndexFileName)}
	c := NewPlayerCache(f, zaptest.NewLogger(t))
	require.NoError(t, c.Publish(sampleIndex()))

	const readers = 16
	results := make([][]domain.PlayerAssociation, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Lookup("123", "Onward")
		}()
	}
	wg.Wait()

	for i := 1; i < readers; i++ {
		assert.Equal(t, results[0], results[i])
	}
	require.Len(t, results[0], 1)
	assert.Equal(t, "p1", results[0][0].PlayerID)
}
