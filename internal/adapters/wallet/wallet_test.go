package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/abitype"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// Hardhat/anvil account #0
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

const constructorABI = `[{"type":"constructor","stateMutability":"nonpayable","inputs":[
  {"name":"supply","type":"uint256"},
  {"name":"owner","type":"address"},
  {"name":"paused","type":"bool"},
  {"name":"salt","type":"bytes32"},
  {"name":"decimals","type":"uint8[2]"},
  {"name":"label","type":"string"},
  {"name":"deltas","type":"int64[]"}
]}]`

type fakeBackend struct {
	mu          sync.Mutex
	chainID     uint64
	estimateErr error
	sendErr     error
	pending     int
	sent        *types.Transaction
	sends       int
	receipt     *types.Receipt
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).SetUint64(f.chainID), nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(10_000_000_000)}, nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 100_000, f.estimateErr
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = tx
	f.sends++
	return f.sendErr
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending > 0 {
		f.pending--
		return nil, ethereum.NotFound
	}
	if f.receipt == nil {
		return nil, ethereum.NotFound
	}
	return f.receipt, nil
}

func newTestWallet(t *testing.T, backend *fakeBackend, key string) *RPCWallet {
	t.Helper()
	cfg := &config.RuntimeConfig{
		Network: &domain.Network{Name: "sepolia", RPCURL: "http://node", ChainID: 11155111},
		Project: &config.ProjectConfig{Wallet: config.WalletConfig{PrivateKey: key, ConfirmationTimeout: 200 * time.Millisecond}},
	}
	return NewRPCWallet(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithPollInterval(time.Millisecond).
		WithDialer(func(ctx context.Context, rpcURL string) (Backend, error) {
			assert.Equal(t, "http://node", rpcURL)
			return backend, nil
		})
}

func deployRequest(t *testing.T, signer usecase.Signer) usecase.SubmitRequest {
	t.Helper()
	contractABI, err := domain.ParseABI([]byte(`[{"type":"constructor","inputs":[{"name":"supply","type":"uint256"}]}]`))
	require.NoError(t, err)
	return usecase.SubmitRequest{ABI: contractABI, Bytecode: "0x6080", Args: []any{"100"}, Signer: signer}
}

func TestRPCWallet_GetSigner(t *testing.T) {
	w := newTestWallet(t, &fakeBackend{}, testKey)
	signer, err := w.GetSigner(context.Background())
	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", signer.Address())

	signer, err = newTestWallet(t, &fakeBackend{}, "").GetSigner(context.Background())
	require.NoError(t, err)
	assert.Nil(t, signer)

	_, err = newTestWallet(t, &fakeBackend{}, "0xnothex").GetSigner(context.Background())
	assert.ErrorContains(t, err, "invalid wallet private key")
}

func TestRPCWallet_GetActiveChainID(t *testing.T) {
	w := newTestWallet(t, &fakeBackend{chainID: 1}, testKey)
	id, err := w.GetActiveChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestRPCWallet_Submit(t *testing.T) {
	deployed := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	backend := &fakeBackend{
		chainID: 11155111,
		pending: 2,
		receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, ContractAddress: deployed, BlockNumber: big.NewInt(42)},
	}
	w := newTestWallet(t, backend, testKey)
	signer, err := w.GetSigner(context.Background())
	require.NoError(t, err)

	result, err := w.Submit(context.Background(), deployRequest(t, signer))
	require.NoError(t, err)

	assert.Equal(t, deployed.Hex(), result.ContractAddress)
	assert.Equal(t, uint64(42), result.BlockNumber)

	require.NotNil(t, backend.sent)
	assert.Equal(t, backend.sent.Hash().Hex(), result.TransactionHash)
	assert.Nil(t, backend.sent.To())
	assert.Equal(t, uint64(7), backend.sent.Nonce())
	assert.Equal(t, uint64(120_000), backend.sent.Gas())
	assert.Equal(t, []byte{0x60, 0x80}, backend.sent.Data()[:2])
	assert.Len(t, backend.sent.Data(), 2+32)

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(11155111)), backend.sent)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), from.Hex())
}

func TestRPCWallet_SubmitDerivesAddressWhenReceiptHasNone(t *testing.T) {
	backend := &fakeBackend{
		chainID: 1,
		receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)},
	}
	w := newTestWallet(t, backend, testKey)
	signer, _ := w.GetSigner(context.Background())

	result, err := w.Submit(context.Background(), deployRequest(t, signer))
	require.NoError(t, err)

	want := crypto.CreateAddress(common.HexToAddress(signer.Address()), 7)
	assert.Equal(t, want.Hex(), result.ContractAddress)
}

func TestRPCWallet_SubmitErrors(t *testing.T) {
	t.Run("insufficient funds", func(t *testing.T) {
		backend := &fakeBackend{chainID: 1, estimateErr: errors.New("insufficient funds for gas * price + value")}
		w := newTestWallet(t, backend, testKey)
		signer, _ := w.GetSigner(context.Background())

		_, err := w.Submit(context.Background(), deployRequest(t, signer))
		var target *domain.InsufficientFundsError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("reverted", func(t *testing.T) {
		backend := &fakeBackend{chainID: 1, receipt: &types.Receipt{Status: types.ReceiptStatusFailed}}
		w := newTestWallet(t, backend, testKey)
		signer, _ := w.GetSigner(context.Background())

		_, err := w.Submit(context.Background(), deployRequest(t, signer))
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
		var pending *domain.PendingTransactionError
		assert.False(t, errors.As(err, &pending))
	})

	t.Run("receipt timeout keeps the sent transaction", func(t *testing.T) {
		backend := &fakeBackend{chainID: 1}
		w := newTestWallet(t, backend, testKey)
		signer, _ := w.GetSigner(context.Background())

		_, err := w.Submit(context.Background(), deployRequest(t, signer))
		var target *domain.TransactionNetworkError
		require.True(t, errors.As(err, &target))
		assert.True(t, errors.Is(err, context.DeadlineExceeded))

		var pending *domain.PendingTransactionError
		require.ErrorAs(t, err, &pending)
		assert.Equal(t, backend.sent.Hash().Hex(), pending.Tx.Hash)
		assert.Equal(t, signer.Address(), pending.Tx.From)
		assert.Equal(t, uint64(7), pending.Tx.Nonce)
		assert.True(t, domain.IsClassified(err))
	})

	t.Run("foreign signer", func(t *testing.T) {
		w := newTestWallet(t, &fakeBackend{chainID: 1}, testKey)
		_, err := w.Submit(context.Background(), deployRequest(t, nil))
		assert.ErrorContains(t, err, "unsupported signer")
	})
}

func TestRPCWallet_WaitForDeployment(t *testing.T) {
	backend := &fakeBackend{chainID: 1}
	w := newTestWallet(t, backend, testKey)
	signer, _ := w.GetSigner(context.Background())

	_, err := w.Submit(context.Background(), deployRequest(t, signer))
	var pending *domain.PendingTransactionError
	require.ErrorAs(t, err, &pending)

	backend.mu.Lock()
	backend.receipt = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(12)}
	backend.mu.Unlock()

	result, err := w.WaitForDeployment(context.Background(), pending.Tx)
	require.NoError(t, err)
	assert.Equal(t, pending.Tx.Hash, result.TransactionHash)
	assert.Equal(t, uint64(12), result.BlockNumber)
	assert.Equal(t, crypto.CreateAddress(common.HexToAddress(signer.Address()), 7).Hex(), result.ContractAddress)
	assert.Equal(t, 1, backend.sends)
}

func TestRPCWallet_Connect(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mainnet := &domain.Network{Name: "mainnet", RPCURL: "http://mainnet", ChainID: 1}

	newWallet := func(cfg *config.RuntimeConfig, dialed *[]string) *RPCWallet {
		return NewRPCWallet(cfg, log).WithDialer(func(_ context.Context, rpcURL string) (Backend, error) {
			*dialed = append(*dialed, rpcURL)
			return &fakeBackend{chainID: 1}, nil
		})
	}

	t.Run("follows the selected network", func(t *testing.T) {
		var dialed []string
		w := newWallet(&config.RuntimeConfig{}, &dialed)

		_, err := w.GetActiveChainID(context.Background())
		require.ErrorIs(t, err, domain.ErrWalletNotConnected)

		require.NoError(t, w.Connect(context.Background(), mainnet))
		id, err := w.GetActiveChainID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
		assert.Equal(t, []string{"http://mainnet"}, dialed)
	})

	t.Run("switching networks redials", func(t *testing.T) {
		var dialed []string
		w := newWallet(&config.RuntimeConfig{Network: &domain.Network{Name: "sepolia", RPCURL: "http://sepolia"}}, &dialed)

		require.NoError(t, w.Connect(context.Background(), &domain.Network{Name: "sepolia", RPCURL: "http://sepolia"}))
		require.NoError(t, w.Connect(context.Background(), mainnet))
		require.NoError(t, w.Connect(context.Background(), mainnet))
		assert.Equal(t, []string{"http://sepolia", "http://mainnet"}, dialed)
	})

	t.Run("wallet endpoint is kept", func(t *testing.T) {
		var dialed []string
		cfg := &config.RuntimeConfig{Project: &config.ProjectConfig{Wallet: config.WalletConfig{RPCURL: "http://wallet"}}}
		w := newWallet(cfg, &dialed)

		require.NoError(t, w.Connect(context.Background(), mainnet))
		assert.Equal(t, []string{"http://wallet"}, dialed)
	})

	t.Run("network without an endpoint", func(t *testing.T) {
		var dialed []string
		w := newWallet(&config.RuntimeConfig{}, &dialed)

		err := w.Connect(context.Background(), &domain.Network{Name: "local"})
		require.ErrorIs(t, err, domain.ErrWalletNotConnected)
		assert.Contains(t, err.Error(), "network local has no RPC URL")
		assert.Empty(t, dialed)
	})
}

func TestEncodeDeployment(t *testing.T) {
	contractABI, err := domain.ParseABI([]byte(constructorABI))
	require.NoError(t, err)

	args := contractABI.ConstructorArguments()
	values := []string{
		"1000000000000000000000",
		"0x5FbDB2315678afecb367f032d93F642f64180aa3",
		"true",
		"0x" + fmt.Sprintf("%064x", 1),
		"[6, 18]",
		"Launch Token",
		"[-1, 2]",
	}
	for i := range args {
		args[i].Value = values[i]
	}

	converted, err := abitype.ConvertAll(contractABI.ConstructorParams(), args)
	require.NoError(t, err)

	data, err := EncodeDeployment(contractABI, "0x6080", converted)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, data[:2])

	parsed, err := abi.JSON(bytesReader(constructorABI))
	require.NoError(t, err)
	out, err := parsed.Constructor.Inputs.Unpack(data[2:])
	require.NoError(t, err)
	require.Len(t, out, 7)

	supply, _ := new(big.Int).SetString("1000000000000000000000", 10)
	assert.Equal(t, 0, supply.Cmp(out[0].(*big.Int)))
	assert.Equal(t, common.HexToAddress(values[1]), out[1].(common.Address))
	assert.Equal(t, true, out[2].(bool))
	assert.Equal(t, byte(1), out[3].([32]byte)[31])
	assert.Equal(t, [2]uint8{6, 18}, out[4].([2]uint8))
	assert.Equal(t, "Launch Token", out[5].(string))
	assert.Equal(t, []int64{-1, 2}, out[6].([]int64))
}

func TestEncodeDeployment_Errors(t *testing.T) {
	contractABI, err := domain.ParseABI([]byte(`[{"type":"constructor","inputs":[{"name":"supply","type":"uint256"}]}]`))
	require.NoError(t, err)

	_, err = EncodeDeployment(contractABI, "0x", []any{"1"})
	assert.ErrorContains(t, err, "empty bytecode")

	_, err = EncodeDeployment(contractABI, "0x6080", nil)
	assert.ErrorContains(t, err, "takes 1 arguments, got 0")

	_, err = EncodeDeployment(contractABI, "0x6080", []any{true})
	assert.ErrorContains(t, err, "expected integer text")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"rejected", errors.New("User denied transaction signature"), func(err error) bool {
			var e *domain.UserRejectedError
			return errors.As(err, &e)
		}},
		{"funds", errors.New("insufficient funds for transfer"), func(err error) bool {
			var e *domain.InsufficientFundsError
			return errors.As(err, &e)
		}},
		{"network", errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"), func(err error) bool {
			var e *domain.TransactionNetworkError
			return errors.As(err, &e)
		}},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), func(err error) bool {
			var e *domain.TransactionNetworkError
			return errors.As(err, &e)
		}},
		{"other", errors.New("execution reverted"), func(err error) bool {
			return !domain.IsClassified(err)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(classify(tt.err)))
		})
	}
}

func bytesReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
