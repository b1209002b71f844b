package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// memoryLocalConfig is an in-memory LocalConfigRepository
type memoryLocalConfig struct {
	cfg *config.LocalConfig
}

func (m *memoryLocalConfig) Exists() bool { return m.cfg != nil }

func (m *memoryLocalConfig) Load(context.Context) (*config.LocalConfig, error) {
	if m.cfg == nil {
		return config.DefaultLocalConfig(), nil
	}
	c := *m.cfg
	return &c, nil
}

func (m *memoryLocalConfig) Save(_ context.Context, cfg *config.LocalConfig) error {
	c := *cfg
	m.cfg = &c
	return nil
}

func (m *memoryLocalConfig) GetPath() string { return "/project/.launchpad/config.local.json" }

func testNetworks() *fakeResolver {
	return &fakeResolver{networks: map[string]*domain.Network{
		"sepolia": {Name: "sepolia", ChainID: 11155111, ExplorerURL: "https://sepolia.etherscan.io"},
		"mainnet": {Name: "mainnet", ChainID: 1},
	}}
}

func TestSetConfig(t *testing.T) {
	ctx := context.Background()
	store := &memoryLocalConfig{}
	uc := usecase.NewSetConfig(store, testNetworks())

	result, err := uc.Run(ctx, usecase.SetConfigParams{Key: "net", Value: "sepolia"})
	require.NoError(t, err)
	assert.Equal(t, config.ConfigKeyNetwork, result.Key)
	assert.Equal(t, "sepolia", store.cfg.Network)

	assert.Nil(t, store.cfg.Analyze)

	result, err = uc.Run(ctx, usecase.SetConfigParams{Key: "analyze", Value: "Yes"})
	require.NoError(t, err)
	assert.Equal(t, "true", result.Value)
	enabled, set := store.cfg.AnalyzeSetting()
	assert.True(t, set)
	assert.True(t, enabled)

	_, err = uc.Run(ctx, usecase.SetConfigParams{Key: "network", Value: " mainnet "})
	require.NoError(t, err)
	assert.Equal(t, "mainnet", store.cfg.Network)

	_, err = uc.Run(ctx, usecase.SetConfigParams{Key: "network", Value: "goerli"})
	assert.ErrorContains(t, err, "cannot set network")

	_, err = uc.Run(ctx, usecase.SetConfigParams{Key: "analyze", Value: "maybe"})
	assert.ErrorContains(t, err, "invalid value for analyze")

	_, err = uc.Run(ctx, usecase.SetConfigParams{Key: "namespace", Value: "x"})
	assert.ErrorContains(t, err, "unknown config key")
}

func TestShowAndRemoveConfig(t *testing.T) {
	ctx := context.Background()
	store := &memoryLocalConfig{}

	_, err := usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "network"})
	assert.ErrorContains(t, err, "no config file found")

	enabled := false
	store.cfg = &config.LocalConfig{Network: "mainnet", Analyze: &enabled}
	runtime := &config.RuntimeConfig{Project: &config.ProjectConfig{Analyzer: config.AnalyzerConfig{Enabled: true}}}
	show := usecase.NewShowConfig(runtime, store, testNetworks())

	shown, err := show.Run(ctx)
	require.NoError(t, err)
	assert.True(t, shown.Exists)
	assert.Equal(t, "mainnet", shown.Config.Network)
	assert.True(t, shown.NetworkConfigured)
	assert.False(t, shown.Analyze)
	assert.Equal(t, usecase.AnalyzeSourceLocal, shown.AnalyzeSource)

	removed, err := usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "network"})
	require.NoError(t, err)
	assert.Equal(t, "mainnet", removed.RemovedValue)
	assert.Empty(t, store.cfg.Network)
	_, set := store.cfg.AnalyzeSetting()
	assert.True(t, set)

	removed, err = usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "analyze"})
	require.NoError(t, err)
	assert.Equal(t, "false", removed.RemovedValue)
	assert.Nil(t, store.cfg.Analyze)

	// With nothing saved locally launchpad.toml decides
	shown, err = show.Run(ctx)
	require.NoError(t, err)
	assert.True(t, shown.Analyze)
	assert.Equal(t, usecase.AnalyzeSourceProject, shown.AnalyzeSource)
}

func TestShowConfig_StaleNetwork(t *testing.T) {
	store := &memoryLocalConfig{cfg: &config.LocalConfig{Network: "goerli"}}

	shown, err := usecase.NewShowConfig(&config.RuntimeConfig{}, store, testNetworks()).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, shown.NetworkConfigured)
	assert.False(t, shown.Analyze)
	assert.Equal(t, usecase.AnalyzeSourceDefault, shown.AnalyzeSource)
}

func TestListNetworks(t *testing.T) {
	store := &memoryLocalConfig{cfg: &config.LocalConfig{Network: "sepolia"}}

	result, err := usecase.NewListNetworks(testNetworks(), store).Run(context.Background(), usecase.ListNetworksParams{})
	require.NoError(t, err)
	require.Len(t, result.Networks, 2)
	assert.Equal(t, "mainnet", result.Networks[0].Name)
	assert.Equal(t, uint64(11155111), result.Networks[1].ChainID)
	assert.Equal(t, "https://sepolia.etherscan.io", result.Networks[1].ExplorerURL)
	assert.Equal(t, "sepolia", result.Current)
}
