package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rbinhq/rbin/models"
)

// pasteSuffix is appended to the id to form the storage filename.
const pasteSuffix = ".txt"

// FilesystemStore implements PasteStore with one <id>.txt file per paste in
// a flat directory. Existence is determined solely by filesystem presence;
// there is no in-memory index.
type FilesystemStore struct {
	dataDir string
}

// NewFilesystemStore creates a filesystem storage backend rooted at dataDir,
// creating the directory if it does not exist.
func NewFilesystemStore(dataDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create paste directory: %w", err)
	}
	return &FilesystemStore{dataDir: dataDir}, nil
}

func (s *FilesystemStore) path(id string) string {
	return filepath.Join(s.dataDir, id+pasteSuffix)
}

// Put writes content to a temp file in the paste directory, flushes it, then
// publishes it under the final name with a hard link. The link fails when
// the id is already taken, and a crash mid-write leaves only the temp file,
// never a truncated paste under a live id.
func (s *FilesystemStore) Put(ctx context.Context, id string, content []byte) error {
	tmp, err := os.CreateTemp(s.dataDir, ".rbin-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Link(tmpPath, s.path(id)); err != nil {
		if os.IsExist(err) {
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("publish paste %s: %w", id, err)
	}
	return nil
}

// Get reads the content stored under id.
func (s *FilesystemStore) Get(ctx context.Context, id string) ([]byte, error) {
	content, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("read paste %s: %w", id, err)
	}
	return content, nil
}

// Exists reports whether a paste file is present.
func (s *FilesystemStore) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := os.Stat(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat paste %s: %w", id, err)
	}
	return true, nil
}

// Delete removes a paste file. Missing files are not an error.
func (s *FilesystemStore) Delete(ctx context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete paste %s: %w", id, err)
	}
	return nil
}

// Close is a no-op for the filesystem backend.
func (s *FilesystemStore) Close() error {
	return nil
}
