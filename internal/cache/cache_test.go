package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirelint/internal/scanner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLookupRoundtrip(t *testing.T) {
	store := openTestStore(t)

	content := []byte("x = Job(name=\"x\")\n")
	hash := HashContent(content)
	result := &scanner.FileResult{
		Path: "jobs.py",
		Resources: []scanner.Resource{{
			Name: "x", Kind: scanner.KindJob,
			Location: scanner.Location{File: "jobs.py", Line: 1, Column: 1},
		}},
		ScannedAt: time.Now().UTC(),
	}

	require.NoError(t, store.Save(hash, result))

	got, ok := store.Lookup("jobs.py", hash)
	require.True(t, ok)
	require.Len(t, got.Resources, 1)
	assert.Equal(t, "x", got.Resources[0].Name)
	assert.Equal(t, scanner.KindJob, got.Resources[0].Kind)
}

func TestLookupMissesOnChangedContent(t *testing.T) {
	store := openTestStore(t)

	result := &scanner.FileResult{Path: "jobs.py"}
	require.NoError(t, store.Save(HashContent([]byte("v1")), result))

	_, ok := store.Lookup("jobs.py", HashContent([]byte("v2")))
	assert.False(t, ok)

	_, ok = store.Lookup("other.py", HashContent([]byte("v1")))
	assert.False(t, ok)
}

func TestSaveUpserts(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(HashContent([]byte("v1")), &scanner.FileResult{Path: "a.py"}))
	require.NoError(t, store.Save(HashContent([]byte("v2")), &scanner.FileResult{
		Path: "a.py",
		Resources: []scanner.Resource{{
			Name: "later", Kind: scanner.KindWorkflow,
		}},
	}))

	got, ok := store.Lookup("a.py", HashContent([]byte("v2")))
	require.True(t, ok)
	require.Len(t, got.Resources, 1)
	assert.Equal(t, "later", got.Resources[0].Name)
}

func TestRunHistory(t *testing.T) {
	store := openTestStore(t)

	first := NewRun()
	first.Files, first.Resources, first.Issues = 4, 9, 2
	require.NoError(t, store.RecordRun(first))

	second := NewRun()
	second.StartedAt = first.StartedAt.Add(time.Second)
	second.Errors = 1
	require.NoError(t, store.RecordRun(second))

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, 9, runs[1].Resources)
	assert.NotEqual(t, runs[0].ID, runs[1].ID)
}

func TestHashContentStable(t *testing.T) {
	assert.Equal(t, HashContent([]byte("abc")), HashContent([]byte("abc")))
	assert.NotEqual(t, HashContent([]byte("abc")), HashContent([]byte("abd")))
	assert.Len(t, HashContent(nil), 64)
}

func TestOpenRejectsEmptyAndDirectoryPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)

	_, err = Open(t.TempDir())
	assert.Error(t, err)
}
