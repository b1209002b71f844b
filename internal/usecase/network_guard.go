package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/launchpad/internal/domain"
)

// NetworkGuard checks that the wallet is on the target chain. The active
// chain is read fresh on every call.
type NetworkGuard struct {
	wallet Wallet
}

// NewNetworkGuard creates a new NetworkGuard
func NewNetworkGuard(wallet Wallet) *NetworkGuard {
	return &NetworkGuard{wallet: wallet}
}

// Ensure returns a NetworkMismatchError naming both chain IDs when the
// wallet is on a different chain than target.
func (g *NetworkGuard) Ensure(ctx context.Context, target uint64) error {
	current, err := g.wallet.GetActiveChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read wallet chain: %w", err)
	}
	return domain.EnsureChain(current, target)
}
