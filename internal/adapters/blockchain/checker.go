package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

const callTimeout = 5 * time.Second

// ChainReader is the subset of ethclient.Client the checker reads through
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Dialer opens a ChainReader for an RPC URL
type Dialer func(ctx context.Context, rpcURL string) (ChainReader, error)

// CheckerAdapter verifies recorded deployments against the chain
type CheckerAdapter struct {
	dial    Dialer
	client  ChainReader
	chainID uint64
}

// NewCheckerAdapter creates a new blockchain checker adapter
func NewCheckerAdapter() *CheckerAdapter {
	return &CheckerAdapter{
		dial: func(ctx context.Context, rpcURL string) (ChainReader, error) {
			return ethclient.DialContext(ctx, rpcURL)
		},
	}
}

// WithDialer replaces how the checker connects
func (c *CheckerAdapter) WithDialer(dial Dialer) *CheckerAdapter {
	c.dial = dial
	return c
}

// Connect establishes connection to the blockchain
func (c *CheckerAdapter) Connect(ctx context.Context, rpcURL string, chainID uint64) error {
	client, err := c.dial(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A zero chain ID accepts whatever the node reports
	switch {
	case chainID == 0:
		chainID = networkChainID.Uint64()
	case networkChainID.Uint64() != chainID:
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", chainID, networkChainID.Uint64())
	}

	c.client = client
	c.chainID = chainID
	return nil
}

// CheckDeploymentExists checks if a contract exists at the given address
func (c *CheckerAdapter) CheckDeploymentExists(ctx context.Context, address string) (exists bool, reason string, err error) {
	if c.client == nil {
		return false, "", fmt.Errorf("not connected to blockchain")
	}
	if !common.IsHexAddress(address) {
		return false, "invalid address", nil
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	code, err := c.client.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return false, fmt.Sprintf("failed to check code: %v", err), nil
	}
	if len(code) == 0 {
		return false, "no code at address", nil
	}
	return true, "", nil
}

// CheckTransactionExists checks if a transaction exists on-chain
func (c *CheckerAdapter) CheckTransactionExists(ctx context.Context, txHash string) (exists bool, blockNumber uint64, reason string, err error) {
	if c.client == nil {
		return false, 0, "", fmt.Errorf("not connected to blockchain")
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return false, 0, "transaction not found on-chain", nil
		}
		return false, 0, "", fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	if receipt.BlockNumber != nil {
		return true, receipt.BlockNumber.Uint64(), "", nil
	}
	return true, 0, "", nil
}

// Ensure the adapter implements the interface
var _ usecase.ChainChecker = (*CheckerAdapter)(nil)
