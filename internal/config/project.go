package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

// ProjectFile is the project configuration file name
const ProjectFile = "launchpad.toml"

// DataDirName is the per-project state directory
const DataDirName = ".launchpad"

// Defaults applied to launchpad.toml
const (
	DefaultSolc          = "solc"
	DefaultOptimizerRuns = 200
	DefaultRedisPrefix   = "launchpad:"
	DefaultAnalyzerModel = "gpt-4o-mini"
	DefaultAnalyzerURL   = "https://api.openai.com/v1"
)

// loadEnvFiles loads .env and .env.local from the project root so that
// ${VAR} references in launchpad.toml can be expanded
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadProjectConfig loads and resolves launchpad.toml. A missing file yields
// the defaults so that commands which need no project still work.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := &config.ProjectConfig{}
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	expandProjectConfig(cfg)
	applyDefaults(cfg, projectRoot)

	if err := validateProjectConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}
	return cfg, nil
}

func expandProjectConfig(cfg *config.ProjectConfig) {
	networks := make(map[string]config.NetworkConfig, len(cfg.Networks))
	for name, n := range cfg.Networks {
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		n.Explorer = os.ExpandEnv(n.Explorer)
		networks[name] = n
	}
	cfg.Networks = networks

	cfg.Wallet.PrivateKey = os.ExpandEnv(cfg.Wallet.PrivateKey)
	cfg.Wallet.RPCURL = os.ExpandEnv(cfg.Wallet.RPCURL)
	cfg.Compiler.Solc = os.ExpandEnv(cfg.Compiler.Solc)
	cfg.Analyzer.Endpoint = os.ExpandEnv(cfg.Analyzer.Endpoint)
	cfg.Analyzer.APIKey = os.ExpandEnv(cfg.Analyzer.APIKey)
	cfg.Storage.Path = os.ExpandEnv(cfg.Storage.Path)
	cfg.Storage.RedisAddr = os.ExpandEnv(cfg.Storage.RedisAddr)
}

func applyDefaults(cfg *config.ProjectConfig, projectRoot string) {
	if cfg.Compiler.Solc == "" {
		cfg.Compiler.Solc = DefaultSolc
	}
	if cfg.Compiler.Optimize && cfg.Compiler.Runs == 0 {
		cfg.Compiler.Runs = DefaultOptimizerRuns
	}
	if cfg.Analyzer.Endpoint == "" {
		cfg.Analyzer.Endpoint = DefaultAnalyzerURL
	}
	if cfg.Analyzer.Model == "" {
		cfg.Analyzer.Model = DefaultAnalyzerModel
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = config.StorageBackendFile
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(projectRoot, DataDirName, "store")
	} else if !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(projectRoot, cfg.Storage.Path)
	}
	if cfg.Storage.RedisPrefix == "" {
		cfg.Storage.RedisPrefix = DefaultRedisPrefix
	}
}

func validateProjectConfig(cfg *config.ProjectConfig) error {
	switch cfg.Storage.Backend {
	case config.StorageBackendFile, config.StorageBackendMemory:
	case config.StorageBackendRedis:
		if cfg.Storage.RedisAddr == "" {
			return fmt.Errorf("storage backend redis requires redis_addr")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (expected file, redis or memory)", cfg.Storage.Backend)
	}

	for name, n := range cfg.Networks {
		if n.RPCURL == "" {
			return fmt.Errorf("network %s has no rpc_url", name)
		}
	}
	return nil
}
