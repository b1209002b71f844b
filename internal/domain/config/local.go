package config

import "strconv"

// LocalConfig represents the local launchpad configuration. Unset fields
// are omitted from the file so launchpad.toml and flags still apply.
type LocalConfig struct {
	Network string `json:"network,omitempty"`
	// Analyze overrides [analyzer] enabled when set
	Analyze *bool `json:"analyze,omitempty"`
}

// AnalyzeSetting returns the saved analyze value and whether one is saved
func (c *LocalConfig) AnalyzeSetting() (enabled, set bool) {
	if c == nil || c.Analyze == nil {
		return false, false
	}
	return *c.Analyze, true
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork ConfigKey = "network"
	ConfigKeyAnalyze ConfigKey = "analyze"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyAnalyze,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	for _, validKey := range ValidConfigKeys() {
		if string(validKey) == key || (key == "net" && validKey == ConfigKeyNetwork) {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "net" -> "network")
func NormalizeConfigKey(key string) ConfigKey {
	if key == "net" {
		return ConfigKeyNetwork
	}
	return ConfigKey(key)
}

// ParseBool accepts the spellings users type for boolean config values
func ParseBool(value string) (bool, error) {
	switch value {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(value)
}
