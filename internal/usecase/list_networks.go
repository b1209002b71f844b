package usecase

import (
	"context"
	"sort"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name        string
	ChainID     uint64
	ExplorerURL string
	Error       error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	local    LocalConfigRepository
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, local LocalConfigRepository) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		local:    local,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)
	sort.Strings(networkNames)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		// Resolving may dial the RPC to learn the chain ID
		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.ChainID = info.ChainID
			status.ExplorerURL = info.ExplorerURL
		}

		networks = append(networks, status)
	}

	result := &ListNetworksResult{Networks: networks}
	if uc.local != nil {
		if cfg, err := uc.local.Load(ctx); err == nil {
			result.Current = cfg.Network
		}
	}
	return result, nil
}
