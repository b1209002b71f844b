package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// LoadRawRPCEndpoints reads launchpad.toml and returns rpc_url values without env var expansion.
func LoadRawRPCEndpoints(projectRoot string) (map[string]string, error) {
	path := filepath.Join(projectRoot, ProjectFile)

	var cfg config.ProjectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	endpoints := make(map[string]string, len(cfg.Networks))
	for name, n := range cfg.Networks {
		endpoints[name] = n.RPCURL
	}
	return endpoints, nil
}

// RPCSource describes where a network's RPC URL comes from, for display.
// Hardcoded URLs get a hint naming the conventional env var.
func RPCSource(rawValue, networkName string) (source string, hardcoded bool) {
	if name, ok := DetectEnvVar(rawValue); ok {
		return "$" + name, false
	}
	if strings.Contains(rawValue, "${") {
		return "env", false
	}
	return "hardcoded (consider $" + GenerateEnvVarName(networkName) + ")", true
}
