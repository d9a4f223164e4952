package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempCorpusPath(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), "replays_output.json")
}

func readDocument(t *testing.T, path string) *Corpus {
	t.Helper()

	doc, err := LoadSnapshot(path)
	require.NoError(t, err)

	return doc
}

func TestStoreLoadAbsentFile(t *testing.T) {
	t.Parallel()

	store := NewStore(tempCorpusPath(t))

	recovered, err := store.Load()

	require.NoError(t, err)
	assert.False(t, recovered)

	doc, err := store.Document()
	require.NoError(t, err)
	assert.Equal(t, 0, doc.TotalFiles)
	assert.Empty(t, doc.Results)
}

func TestStoreLoadCorruptFileRecovers(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{ not json"), 0o600))

	store := NewStore(path)

	recovered, err := store.Load()

	require.NoError(t, err)
	assert.True(t, recovered)

	doc, err := store.Document()
	require.NoError(t, err)
	assert.Empty(t, doc.Results)
}

func TestStoreLoadSchemaViolationRecovers(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)

	// Valid JSON, wrong shape: total_files must be an integer.
	require.NoError(t, os.WriteFile(path, []byte(`{"total_files":"ten","processed_files":0,"results":{}}`), 0o600))

	store := NewStore(path)

	recovered, err := store.Load()

	require.NoError(t, err)
	assert.True(t, recovered)
}

func TestStoreInitializeAndUpdate(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)
	store := NewStore(path)

	_, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Initialize(5))

	require.NoError(t, store.Update("/replays/first.replay", MatchRecord{Players: []string{"Alpha#123"}}))
	require.NoError(t, store.Update("second.replay", MatchRecord{Error: ErrorFileNotFound}))

	doc := readDocument(t, path)

	assert.Equal(t, 5, doc.TotalFiles)
	assert.Equal(t, 2, doc.ProcessedFiles)
	require.Contains(t, doc.Results, "first.replay")
	require.Contains(t, doc.Results, "second.replay")
	assert.Equal(t, ErrorFileNotFound, doc.Results["second.replay"].Error)
}

func TestStoreUpdateIsIdempotent(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)
	store := NewStore(path)

	require.NoError(t, store.Initialize(1))

	require.NoError(t, store.Update("a.replay", MatchRecord{Players: []string{"Old#111"}}))
	require.NoError(t, store.Update("a.replay", MatchRecord{Players: []string{"New#222"}}))

	doc := readDocument(t, path)

	assert.Equal(t, 1, doc.ProcessedFiles)
	assert.Equal(t, []string{"New#222"}, doc.Results["a.replay"].Players)
}

func TestStoreProcessedAlwaysMatchesResults(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)
	store := NewStore(path)

	require.NoError(t, store.Initialize(3))

	for _, name := range []string{"a.replay", "b.replay", "a.replay", "c.replay"} {
		require.NoError(t, store.Update(name, MatchRecord{}))

		doc := readDocument(t, path)
		assert.Equal(t, len(doc.Results), doc.ProcessedFiles)
	}
}

func TestStoreBatchingDefersWrites(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)

	store := NewStore(path)
	store.BatchSize = 3

	require.NoError(t, store.Initialize(4))

	require.NoError(t, store.Update("a.replay", MatchRecord{}))
	require.NoError(t, store.Update("b.replay", MatchRecord{}))

	// Two updates sit below the batch size; disk still holds the empty
	// initialized document.
	doc := readDocument(t, path)
	assert.Equal(t, 0, doc.ProcessedFiles)

	require.NoError(t, store.Update("c.replay", MatchRecord{}))

	doc = readDocument(t, path)
	assert.Equal(t, 3, doc.ProcessedFiles)

	require.NoError(t, store.Update("d.replay", MatchRecord{}))
	require.NoError(t, store.Flush())

	doc = readDocument(t, path)
	assert.Equal(t, 4, doc.ProcessedFiles)
}

func TestStoreFlushWithoutPendingIsNoop(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)
	store := NewStore(path)

	require.NoError(t, store.Initialize(0))

	info, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.Flush())

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestStorePersistLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")

	store := NewStore(path)

	require.NoError(t, store.Initialize(1))
	require.NoError(t, store.Update("a.replay", MatchRecord{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "corpus.json", entries[0].Name())
}

func TestStorePersistedDocumentIsIndented(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)
	store := NewStore(path)

	require.NoError(t, store.Initialize(0))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"total_files\"")
}

func TestStoreErrorRecordSerialization(t *testing.T) {
	t.Parallel()

	path := tempCorpusPath(t)
	store := NewStore(path)

	require.NoError(t, store.Initialize(1))
	require.NoError(t, store.Update("gone.replay", MatchRecord{Error: ErrorFileNotFound}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var generic map[string]any

	require.NoError(t, json.Unmarshal(raw, &generic))

	results, ok := generic["results"].(map[string]any)
	require.True(t, ok)

	record, ok := results["gone.replay"].(map[string]any)
	require.True(t, ok)

	// Error records carry only the error field.
	assert.Equal(t, map[string]any{"error": "File not found"}, record)
}

func TestLoadSnapshotDoesNotRecover(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "absent.json")

	_, err := LoadSnapshot(missing)
	require.Error(t, err)

	corrupt := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("[]"), 0o600))

	_, err = LoadSnapshot(corrupt)
	require.ErrorIs(t, err, ErrSchemaViolation)
}

func TestCorpusFilenamesSorted(t *testing.T) {
	t.Parallel()

	doc := NewCorpus()
	doc.Results["zulu.replay"] = MatchRecord{}
	doc.Results["alpha.replay"] = MatchRecord{}
	doc.Results["mike.replay"] = MatchRecord{}

	assert.Equal(t, []string{"alpha.replay", "mike.replay", "zulu.replay"}, doc.Filenames())
}
