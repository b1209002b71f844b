package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/trebuchet-org/launchpad/internal/config"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// NetworkResolverAdapter adapts the config.NetworkResolver to the usecase.NetworkResolver interface
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewNetworkResolverAdapter creates a new adapter
func NewNetworkResolverAdapter(resolver *config.NetworkResolver) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: resolver,
	}
}

// GetNetworks returns all configured network names
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.resolver.Names()
}

// ResolveNetwork resolves a deployment target by name. Unknown names list
// the networks launchpad.toml does define.
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, networkName string) (*domain.Network, error) {
	name := strings.TrimSpace(networkName)
	if name == "" {
		return nil, fmt.Errorf("network name is empty: %w", domain.ErrNotFound)
	}

	network, err := a.resolver.Resolve(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		names := a.resolver.Names()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w; add a [networks.%s] table with rpc_url", err, name)
		}
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
	}
	return network, err
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
