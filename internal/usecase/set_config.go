package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store    LocalConfigRepository
	networks NetworkResolver
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigRepository, networks NetworkResolver) *SetConfig {
	return &SetConfig{
		store:    store,
		networks: networks,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key := strings.ToLower(params.Key)
	if !config.IsValidConfigKey(key) {
		return nil, unknownKeyError(params.Key)
	}
	normalizedKey := config.NormalizeConfigKey(key)

	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	value := params.Value
	switch normalizedKey {
	case config.ConfigKeyNetwork:
		// Reject names that launchpad.toml does not define
		value = strings.TrimSpace(value)
		if _, err := uc.networks.ResolveNetwork(ctx, value); err != nil {
			return nil, fmt.Errorf("cannot set network: %w", err)
		}
		cfg.Network = value
	case config.ConfigKeyAnalyze:
		enabled, err := config.ParseBool(strings.ToLower(value))
		if err != nil {
			return nil, fmt.Errorf("invalid value for analyze: %q (expected true or false)", value)
		}
		cfg.Analyze = &enabled
		value = fmt.Sprintf("%t", enabled)
	}

	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           normalizedKey,
		Value:         value,
	}, nil
}

func unknownKeyError(key string) error {
	validKeys := []string{}
	for _, k := range config.ValidConfigKeys() {
		if k == config.ConfigKeyNetwork {
			validKeys = append(validKeys, string(k)+" (net)")
		} else {
			validKeys = append(validKeys, string(k))
		}
	}
	return fmt.Errorf("unknown config key: %s\nAvailable keys: %s", key, strings.Join(validKeys, ", "))
}
