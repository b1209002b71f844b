package usecase

import (
	"context"
	"slices"

	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

// Where the effective analyze default comes from
const (
	AnalyzeSourceLocal   = "config.local.json"
	AnalyzeSourceProject = "launchpad.toml"
	AnalyzeSourceDefault = "default"
)

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config     *config.LocalConfig
	ConfigPath string
	Exists     bool
	// NetworkConfigured is false when the saved network is no longer in launchpad.toml
	NetworkConfigured bool
	// Analyze is the default used by deploy when no --analyze flag is given
	Analyze       bool
	AnalyzeSource string
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	cfg      *config.RuntimeConfig
	store    LocalConfigRepository
	networks NetworkResolver
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigRepository, networks NetworkResolver) *ShowConfig {
	return &ShowConfig{
		cfg:      cfg,
		store:    store,
		networks: networks,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	exists := uc.store.Exists()

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowConfigResult{
		Config:            local,
		ConfigPath:        uc.store.GetPath(),
		Exists:            exists,
		NetworkConfigured: local.Network == "" || slices.Contains(uc.networks.GetNetworks(ctx), local.Network),
		AnalyzeSource:     AnalyzeSourceDefault,
	}

	if enabled, set := local.AnalyzeSetting(); set {
		result.Analyze = enabled
		result.AnalyzeSource = AnalyzeSourceLocal
	} else if uc.cfg != nil && uc.cfg.Project != nil && uc.cfg.Project.Analyzer.Enabled {
		result.Analyze = true
		result.AnalyzeSource = AnalyzeSourceProject
	}
	return result, nil
}
