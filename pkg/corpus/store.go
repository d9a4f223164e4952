package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Default store tuning.
const (
	// DefaultBatchSize flushes after every update, the most crash-safe
	// setting: a crash loses at most the file currently being written.
	DefaultBatchSize = 1

	filePerm = 0o600
)

// jsonIndent matches the pretty-printed corpus layout expected by downstream
// tooling.
const jsonIndent = "  "

// Store owns the corpus document on disk. Every flush rewrites the whole
// document through a temp-file-and-rename, so the on-disk corpus is valid
// JSON at every instant, including across crashes and interrupts. Updates
// must come from a single goroutine; the scan pipeline funnels worker results
// through one writer for exactly that reason.
type Store struct {
	// Path is the corpus document location.
	Path string

	// BatchSize is the number of updates accumulated before a flush. Values
	// above one trade crash-granularity for throughput; the document on disk
	// stays valid between flushes either way.
	BatchSize int

	// Backup, when set, snapshots an existing corpus to an lz4-compressed
	// sidecar before Initialize discards it.
	Backup bool

	// Logger receives recovery warnings. Defaults to slog.Default.
	Logger *slog.Logger

	doc     *Corpus
	pending int
}

// NewStore creates a store over the document at path with default tuning.
func NewStore(path string) *Store {
	return &Store{
		Path:      path,
		BatchSize: DefaultBatchSize,
	}
}

// Load reads the corpus document into memory. An absent, unreadable, or
// invalid document recovers silently to an empty corpus; recovered reports
// whether prior content was discarded that way, so callers can surface the
// history loss to the operator.
func (s *Store) Load() (recovered bool, err error) {
	raw, readErr := os.ReadFile(s.Path)
	if readErr != nil {
		s.doc = NewCorpus()

		if errors.Is(readErr, fs.ErrNotExist) {
			return false, nil
		}

		s.warn("corpus unreadable, starting fresh", "path", s.Path, "error", readErr)

		return true, nil
	}

	doc, parseErr := parseDocument(raw)
	if parseErr != nil {
		s.doc = NewCorpus()
		s.warn("corpus invalid, starting fresh", "path", s.Path, "error", parseErr)

		return true, nil
	}

	s.doc = doc

	return false, nil
}

// Initialize starts a batch run: the total is recorded once from the size of
// the discovered input set and the document is reset. When Backup is set, an
// existing corpus is snapshotted first.
func (s *Store) Initialize(total int) error {
	if s.Backup {
		err := s.writeBackup()
		if err != nil {
			return err
		}
	}

	s.doc = NewCorpus()
	s.doc.TotalFiles = total
	s.pending = 0

	return s.persist()
}

// Update sets or replaces the record for filename (reduced to its base name),
// recomputes processed_files, and flushes unless batching defers it.
// Reprocessing the same file is idempotent.
func (s *Store) Update(filename string, record MatchRecord) error {
	if s.doc == nil {
		_, err := s.Load()
		if err != nil {
			return err
		}
	}

	s.doc.Results[filepath.Base(filename)] = record
	s.doc.ProcessedFiles = len(s.doc.Results)
	s.pending++

	if s.pending >= s.batchSize() {
		return s.Flush()
	}

	return nil
}

// Flush persists any pending updates. It is a no-op when nothing changed
// since the last flush.
func (s *Store) Flush() error {
	if s.pending == 0 {
		return nil
	}

	err := s.persist()
	if err != nil {
		return err
	}

	s.pending = 0

	return nil
}

// Document exposes the in-memory corpus (loading it first if needed). The
// returned pointer is owned by the store; treat it as read-only.
func (s *Store) Document() (*Corpus, error) {
	if s.doc == nil {
		_, err := s.Load()
		if err != nil {
			return nil, err
		}
	}

	return s.doc, nil
}

// persist atomically replaces the document on disk.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.doc, "", jsonIndent)
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}

	dir := filepath.Dir(s.Path)

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create corpus temp file: %w", err)
	}

	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(raw)
	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("write corpus temp file: %w", errors.Join(writeErr, closeErr))
	}

	chmodErr := os.Chmod(tmpPath, filePerm)
	if chmodErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("chmod corpus temp file: %w", chmodErr)
	}

	renameErr := os.Rename(tmpPath, s.Path)
	if renameErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("replace corpus: %w", renameErr)
	}

	return nil
}

func (s *Store) batchSize() int {
	if s.BatchSize < 1 {
		return DefaultBatchSize
	}

	return s.BatchSize
}

func (s *Store) warn(msg string, args ...any) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Warn(msg, args...)
}

// parseDocument decodes and schema-checks a stored corpus document.
func parseDocument(raw []byte) (*Corpus, error) {
	err := validateDocument(raw)
	if err != nil {
		return nil, err
	}

	var doc Corpus

	unmarshalErr := json.Unmarshal(raw, &doc)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("decode corpus: %w", unmarshalErr)
	}

	if doc.Results == nil {
		doc.Results = make(map[string]MatchRecord)
	}

	return &doc, nil
}

// LoadSnapshot reads a corpus document for analysis. Unlike the store's
// update path it does not recover: a missing or invalid document is an error
// the operator should see.
func LoadSnapshot(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	doc, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}

	return doc, nil
}
