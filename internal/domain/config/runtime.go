package config

import (
	"time"

	"github.com/trebuchet-org/launchpad/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *domain.Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Command-specific settings (only populated for relevant commands)
	Analyze bool
	Yes     bool

	// Resolved configurations
	Project *ProjectConfig
}

// ProjectConfig is the resolved launchpad.toml
type ProjectConfig struct {
	Networks map[string]NetworkConfig `toml:"networks"`
	Wallet   WalletConfig             `toml:"wallet"`
	Compiler CompilerConfig           `toml:"compiler"`
	Analyzer AnalyzerConfig           `toml:"analyzer"`
	Storage  StorageConfig            `toml:"storage"`
}

// NetworkConfig is one [networks.<name>] table
type NetworkConfig struct {
	RPCURL   string `toml:"rpc_url"`
	ChainID  uint64 `toml:"chain_id,omitempty"`
	Explorer string `toml:"explorer,omitempty"`
}

// WalletConfig configures the signing wallet
type WalletConfig struct {
	PrivateKey string `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
	// RPCURL overrides the target network's endpoint for signing
	RPCURL              string        `toml:"rpc_url,omitempty"`
	ConfirmationTimeout time.Duration `toml:"-"`
}

// CompilerConfig configures the solc adapter
type CompilerConfig struct {
	Solc       string `toml:"solc,omitempty"`
	EVMVersion string `toml:"evm_version,omitempty"`
	Optimize   bool   `toml:"optimize,omitempty"`
	Runs       int    `toml:"runs,omitempty"`
}

// AnalyzerConfig configures the risk analyzer
type AnalyzerConfig struct {
	Enabled  bool   `toml:"enabled,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
}

// StorageBackend selects the history store
type StorageBackend string

const (
	StorageBackendFile   StorageBackend = "file"
	StorageBackendRedis  StorageBackend = "redis"
	StorageBackendMemory StorageBackend = "memory"
)

// StorageConfig configures the key-value store for deployment history
type StorageConfig struct {
	Backend     StorageBackend `toml:"backend,omitempty"`
	Path        string         `toml:"path,omitempty"`
	RedisAddr   string         `toml:"redis_addr,omitempty"`
	RedisPrefix string         `toml:"redis_prefix,omitempty"`
}
