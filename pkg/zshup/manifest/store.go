package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zshup/zshup/pkg/zshup/ledger"
)

// Store binds the manifest codec to a file path.
type Store struct {
	path string
}

// NewStore returns a store for the given manifest path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a manifest file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save encodes the record and metadata and writes them atomically using a
// temp file and rename, creating parent directories as needed. A crash
// mid-save never leaves a half-written manifest behind the final path.
func (s *Store) Save(rec *ledger.Record, meta Metadata) error {
	data, err := Encode(rec, meta)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp manifest: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp manifest: %w", err)
	}

	return nil
}

// Load reads and decodes the manifest. It returns ErrNotFound when no
// manifest file exists and a wrapped ErrCorrupt when the file cannot be
// decoded.
func (s *Store) Load() (*ledger.Record, Metadata, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Metadata{}, ErrNotFound
		}
		return nil, Metadata{}, fmt.Errorf("reading manifest: %w", err)
	}
	return Decode(data)
}

// Delete removes the manifest file. A missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting manifest: %w", err)
	}
	return nil
}
