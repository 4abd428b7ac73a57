// Package evidence stores proof-of-payment files. The ledger only ever
// persists the reference string a Put returns.
package evidence

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store keeps uploaded files under one directory, renamed to a unique
// reference so original filenames can never collide or escape the dir.
type Store struct {
	dir string
}

// NewStore creates the evidence directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating evidence dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put copies the file at srcPath into the store and returns its
// reference. The reference keeps the original extension so stored files
// stay openable by type.
func (s *Store) Put(srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("opening evidence file: %w", err)
	}
	defer src.Close()

	ref := uuid.NewString() + filepath.Ext(srcPath)
	dst, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("creating stored evidence file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copying evidence file: %w", err)
	}
	return ref, nil
}

// Open returns a reader for a stored reference.
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, ref))
	if err != nil {
		return nil, fmt.Errorf("opening evidence %s: %w", ref, err)
	}
	return f, nil
}

// Path returns the on-disk path for a stored reference.
func (s *Store) Path(ref string) string {
	return filepath.Join(s.dir, ref)
}
