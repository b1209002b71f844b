package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

// ChainIDFetcher reads the chain ID served by an RPC endpoint
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names from launchpad.toml to networks.
// Chain IDs missing from the file are fetched from the RPC and cached under
// the data dir.
type NetworkResolver struct {
	dataDir  string
	networks map[string]config.NetworkConfig
	fetch    ChainIDFetcher
	cache    *NetworkCache
	mu       sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(dataDir string, project *config.ProjectConfig) *NetworkResolver {
	networks := map[string]config.NetworkConfig{}
	if project != nil && project.Networks != nil {
		networks = project.Networks
	}
	r := &NetworkResolver{
		dataDir:  dataDir,
		networks: networks,
		fetch:    fetchChainID,
	}
	r.loadCache()
	return r
}

// WithFetcher replaces the RPC chain ID lookup
func (r *NetworkResolver) WithFetcher(fetch ChainIDFetcher) *NetworkResolver {
	r.fetch = fetch
	return r
}

// Names returns the configured network names, sorted
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*domain.Network, error) {
	nc, exists := r.networks[networkName]
	if !exists {
		return nil, fmt.Errorf("network '%s' not found in %s [networks]: %w", networkName, ProjectFile, domain.ErrNotFound)
	}

	chainID := nc.ChainID
	if chainID == 0 {
		r.mu.RLock()
		cached, ok := r.cache.RPCs[nc.RPCURL]
		r.mu.RUnlock()

		if ok {
			chainID = cached
		} else {
			fetched, err := r.fetch(ctx, nc.RPCURL)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
			}
			chainID = fetched
			r.updateCache(networkName, nc.RPCURL, chainID)
		}
	}

	explorer := nc.Explorer
	if explorer == "" {
		explorer = DefaultExplorerURL(chainID)
	}

	return &domain.Network{
		Name:        networkName,
		RPCURL:      nc.RPCURL,
		ChainID:     chainID,
		ExplorerURL: explorer,
	}, nil
}

// fetchChainID asks the endpoint for eth_chainId
func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// DefaultExplorerURL returns the block explorer for well-known chains
func DefaultExplorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 42220:
		return "https://celoscan.io"
	default:
		return ""
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()
	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		// Cache doesn't exist yet, that's fine
		return
	}

	if err := json.Unmarshal(data, r.cache); err != nil || r.cache.RPCs == nil || r.cache.Networks == nil {
		r.cache = newNetworkCache()
	}
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks:  make(map[string]uint64),
		RPCs:      make(map[string]uint64),
		UpdatedAt: time.Now(),
	}
}

// updateCache updates the cache with new chain ID information
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// Cache is just for performance
	_ = r.saveCache()
}

// saveCache saves the cache to disk
func (r *NetworkResolver) saveCache() error {
	if r.dataDir == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.cachePath(), data, 0644)
}
