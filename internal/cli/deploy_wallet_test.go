package cli

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/launchpad/internal/adapters/wallet"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

// Hardhat/anvil account #0, whose address is ownerAddr
const anvilKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// chainBackend is an in-memory node. Receipts are withheld until mined is set.
type chainBackend struct {
	mu      sync.Mutex
	chainID uint64
	mined   bool
	sent    []*types.Transaction
}

func (b *chainBackend) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).SetUint64(b.chainID), nil
}

func (b *chainBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *chainBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *chainBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(1_000_000_000)}, nil
}

func (b *chainBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 500_000, nil
}

func (b *chainBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	return nil
}

func (b *chainBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mined {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{
		Status:          types.ReceiptStatusSuccessful,
		ContractAddress: common.HexToAddress(deployedAt),
		BlockNumber:     big.NewInt(9),
	}, nil
}

func (b *chainBackend) setMined() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mined = true
}

func (b *chainBackend) sendCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

// newRPCWallet builds a wallet with no endpoint of its own, recording the
// URLs it dials
func newRPCWallet(cfg *config.RuntimeConfig, backend *chainBackend, dialed *[]string) *wallet.RPCWallet {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return wallet.NewRPCWallet(cfg, log).
		WithPollInterval(time.Millisecond).
		WithDialer(func(_ context.Context, rpcURL string) (wallet.Backend, error) {
			*dialed = append(*dialed, rpcURL)
			return backend, nil
		})
}

func TestDeploy_SelectedNetworkReachesWallet(t *testing.T) {
	cfg := &config.RuntimeConfig{
		Yes:     true,
		Project: &config.ProjectConfig{Wallet: config.WalletConfig{PrivateKey: anvilKey, ConfirmationTimeout: time.Second}},
	}
	backend := &chainBackend{chainID: sepolia.ChainID, mined: true}
	var dialed []string
	w := newRPCWallet(cfg, backend, &dialed)

	f := newDeployFixtureWithWallet(t, cfg, nil, w)
	f.prompter.network = "sepolia"

	err := f.run(providedArgs{"owner": ownerAddr, "supply": "1000"})
	require.NoError(t, err)

	assert.Equal(t, []string{sepolia.RPCURL}, dialed)
	assert.Equal(t, 1, backend.sendCount())
	assert.Contains(t, f.out.String(), deployedAt)
	assert.True(t, f.app.Session.Snapshot().IsComplete())
}

func TestDeploy_KeepsWaitingForUnconfirmedTransaction(t *testing.T) {
	cfg := &config.RuntimeConfig{
		Yes:     true,
		Network: sepolia,
		Project: &config.ProjectConfig{Wallet: config.WalletConfig{PrivateKey: anvilKey, ConfirmationTimeout: 20 * time.Millisecond}},
	}
	backend := &chainBackend{chainID: sepolia.ChainID}
	var dialed []string
	w := newRPCWallet(cfg, backend, &dialed)

	f := newDeployFixtureWithWallet(t, cfg, nil, w)
	f.prompter.onConfirm = func(label string) {
		if strings.HasPrefix(label, "Keep waiting") {
			backend.setMined()
		}
	}

	err := f.run(providedArgs{"owner": ownerAddr, "supply": "1000"})
	require.NoError(t, err)

	require.Len(t, f.prompter.confirms, 1)
	assert.Contains(t, f.prompter.confirms[0], "Keep waiting for transaction 0x")
	assert.Contains(t, f.out.String(), "was sent but not confirmed")
	assert.Equal(t, 1, backend.sendCount())

	st := f.app.Session.Snapshot()
	require.NotNil(t, st)
	assert.True(t, st.IsComplete())
	assert.Nil(t, st.PendingTx)
	assert.Equal(t, backend.sent[0].Hash().Hex(), st.DeployResult.TransactionHash)
}

func TestDeploy_NonInteractiveUnconfirmedTransaction(t *testing.T) {
	cfg := &config.RuntimeConfig{
		NonInteractive: true,
		Yes:            true,
		Network:        sepolia,
		Project:        &config.ProjectConfig{Wallet: config.WalletConfig{PrivateKey: anvilKey, ConfirmationTimeout: 10 * time.Millisecond}},
	}
	backend := &chainBackend{chainID: sepolia.ChainID}
	var dialed []string
	f := newDeployFixtureWithWallet(t, cfg, nil, newRPCWallet(cfg, backend, &dialed))

	err := f.run(providedArgs{"owner": ownerAddr, "supply": "1000"})
	var pending *domain.PendingTransactionError
	require.ErrorAs(t, err, &pending)
	assert.Equal(t, backend.sent[0].Hash().Hex(), pending.Tx.Hash)
	assert.Equal(t, 1, backend.sendCount())
}
