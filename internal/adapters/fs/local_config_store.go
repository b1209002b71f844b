package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// LocalConfigFile is the per-checkout settings file inside the data dir.
// Viper reads the same file, so keys match the global flag names.
const LocalConfigFile = "config.local.json"

// LocalConfigStoreAdapter implements LocalConfigRepository using .launchpad/config.local.json
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.DataDir, LocalConfigFile),
	}
}

// Exists checks if the config file exists
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return !errors.Is(err, os.ErrNotExist)
}

// Load reads the saved settings. A missing or empty file gives the defaults:
// no default network, and analysis decided by launchpad.toml.
func (s *LocalConfigStoreAdapter) Load(ctx context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultLocalConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return config.DefaultLocalConfig(), nil
	}

	localConfig := config.DefaultLocalConfig()
	if err := json.Unmarshal(data, localConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.configPath, err)
	}
	localConfig.Network = strings.TrimSpace(localConfig.Network)

	return localConfig, nil
}

// Save replaces the settings file. Only keys that are set are written.
func (s *LocalConfigStoreAdapter) Save(ctx context.Context, cfg *config.LocalConfig) error {
	dir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *cfg
	out.Network = strings.TrimSpace(out.Network)
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := writeFileAtomic(s.configPath, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

// Ensure LocalConfigStoreAdapter implements LocalConfigRepository
var _ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)
