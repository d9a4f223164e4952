package corpus

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pierrec/lz4/v4"
)

// BackupSuffix is appended to the corpus path for compressed snapshots.
const BackupSuffix = ".bak.lz4"

// writeBackup snapshots the current on-disk corpus to an lz4-compressed
// sidecar before a rebuild discards it. A missing corpus is not an error;
// there is simply nothing to keep.
func (s *Store) writeBackup() error {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("read corpus for backup: %w", err)
	}

	target := s.Path + BackupSuffix

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("create corpus backup: %w", err)
	}

	writer := lz4.NewWriter(out)

	_, writeErr := writer.Write(raw)
	closeErr := writer.Close()
	fileErr := out.Close()

	combined := errors.Join(writeErr, closeErr, fileErr)
	if combined != nil {
		return fmt.Errorf("write corpus backup: %w", combined)
	}

	return nil
}

// ReadBackup inflates an lz4 corpus snapshot written by a previous rebuild.
func ReadBackup(path string) (*Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus backup: %w", err)
	}
	defer file.Close()

	raw, err := decompressAll(file)
	if err != nil {
		return nil, fmt.Errorf("decompress corpus backup: %w", err)
	}

	return parseDocument(raw)
}

func decompressAll(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(lz4.NewReader(r))
	if err != nil {
		return nil, err
	}

	return raw, nil
}
