package blockchain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	liveAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	knownTx     = common.HexToHash("0x01")
)

type fakeChain struct {
	chainID uint64
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).SetUint64(f.chainID), nil
}

func (f *fakeChain) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	if account == liveAddress {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if hash == knownTx {
		return &types.Receipt{BlockNumber: big.NewInt(99)}, nil
	}
	return nil, ethereum.NotFound
}

func connectedChecker(t *testing.T, chainID uint64) *CheckerAdapter {
	t.Helper()
	c := NewCheckerAdapter().WithDialer(func(context.Context, string) (ChainReader, error) {
		return &fakeChain{chainID: 11155111}, nil
	})
	require.NoError(t, c.Connect(context.Background(), "http://node", chainID))
	return c
}

func TestCheckerAdapter_Connect(t *testing.T) {
	c := connectedChecker(t, 0)
	assert.Equal(t, uint64(11155111), c.chainID)

	err := NewCheckerAdapter().WithDialer(func(context.Context, string) (ChainReader, error) {
		return &fakeChain{chainID: 1}, nil
	}).Connect(context.Background(), "http://node", 11155111)
	assert.ErrorContains(t, err, "chain ID mismatch: expected 11155111, got 1")

	err = NewCheckerAdapter().WithDialer(func(context.Context, string) (ChainReader, error) {
		return nil, errors.New("boom")
	}).Connect(context.Background(), "http://node", 1)
	assert.ErrorContains(t, err, "failed to connect to RPC")
}

func TestCheckerAdapter_CheckDeploymentExists(t *testing.T) {
	c := connectedChecker(t, 11155111)

	exists, reason, err := c.CheckDeploymentExists(context.Background(), liveAddress.Hex())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Empty(t, reason)

	exists, reason, err = c.CheckDeploymentExists(context.Background(), "0x000000000000000000000000000000000000dEaD")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, "no code at address", reason)

	_, _, err = NewCheckerAdapter().CheckDeploymentExists(context.Background(), liveAddress.Hex())
	assert.ErrorContains(t, err, "not connected")
}

func TestCheckerAdapter_CheckTransactionExists(t *testing.T) {
	c := connectedChecker(t, 11155111)

	exists, block, _, err := c.CheckTransactionExists(context.Background(), knownTx.Hex())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, uint64(99), block)

	exists, _, reason, err := c.CheckTransactionExists(context.Background(), "0x02")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, "transaction not found on-chain", reason)
}
