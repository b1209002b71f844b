package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// KVStoreAdapter implements Storage as one JSON file per key under a root directory
type KVStoreAdapter struct {
	root string
}

// NewKVStoreAdapter creates a new KVStoreAdapter rooted at the configured storage path
func NewKVStoreAdapter(cfg *config.RuntimeConfig) *KVStoreAdapter {
	root := filepath.Join(cfg.DataDir, "store")
	if cfg.Project != nil && cfg.Project.Storage.Path != "" {
		root = cfg.Project.Storage.Path
	}
	return &KVStoreAdapter{root: root}
}

// Get reads the value stored under key
func (s *KVStoreAdapter) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is confined to the store root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("key %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key. The file is replaced atomically.
func (s *KVStoreAdapter) Set(_ context.Context, key string, value []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := writeFileAtomic(path, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// writeFileAtomic replaces path through a temp file in the same directory,
// so readers never see a partial write.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStoreAdapter) Delete(_ context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Root returns the store directory
func (s *KVStoreAdapter) Root() string {
	return s.root
}

func (s *KVStoreAdapter) pathFor(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, clean+".json"), nil
}

// Ensure KVStoreAdapter implements Storage
var _ usecase.Storage = (*KVStoreAdapter)(nil)
