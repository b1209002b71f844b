package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

const (
	defaultConfirmationTimeout = 5 * time.Minute
	defaultPollInterval        = 2 * time.Second
	// gasMarginPercent is added on top of the node's gas estimate
	gasMarginPercent = 20
)

// Backend is the subset of ethclient.Client the wallet needs
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Dialer opens a Backend for an RPC URL
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

func dialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// KeySigner signs with an in-memory private key
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner creates a signer from a hex private key
func NewKeySigner(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid wallet private key: %w", err)
	}
	return &KeySigner{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// Address returns the checksummed signer address
func (s *KeySigner) Address() string {
	return s.address.Hex()
}

// RPCWallet deploys contracts through a JSON-RPC node, signing locally.
// Without a [wallet] rpc_url it follows the selected network's endpoint.
type RPCWallet struct {
	// configuredRPC is the explicit [wallet] rpc_url, which Connect never overrides
	configuredRPC string
	rpcURL        string
	signer        *KeySigner
	signerErr     error
	timeout       time.Duration
	pollInterval  time.Duration
	dial          Dialer
	log           *slog.Logger

	mu      sync.Mutex
	backend Backend
}

// NewRPCWallet creates a wallet from the [wallet] section. The RPC endpoint
// falls back to the default network's when the wallet has none of its own.
func NewRPCWallet(cfg *config.RuntimeConfig, log *slog.Logger) *RPCWallet {
	w := &RPCWallet{
		timeout:      defaultConfirmationTimeout,
		pollInterval: defaultPollInterval,
		dial:         dialEthclient,
		log:          log.With("component", "RPCWallet"),
	}

	if cfg.Project != nil {
		settings := cfg.Project.Wallet
		w.configuredRPC = settings.RPCURL
		w.rpcURL = settings.RPCURL
		if settings.ConfirmationTimeout > 0 {
			w.timeout = settings.ConfirmationTimeout
		}
		if settings.PrivateKey != "" {
			w.signer, w.signerErr = NewKeySigner(settings.PrivateKey)
		}
	}
	if w.rpcURL == "" && cfg.Network != nil {
		w.rpcURL = cfg.Network.RPCURL
	}
	return w
}

// WithDialer replaces how the wallet connects to its node
func (w *RPCWallet) WithDialer(dial Dialer) *RPCWallet {
	w.dial = dial
	return w
}

// WithPollInterval sets how often receipts are polled
func (w *RPCWallet) WithPollInterval(d time.Duration) *RPCWallet {
	w.pollInterval = d
	return w
}

// Connect switches the wallet to the network's RPC endpoint unless the
// wallet has its own, then dials it.
func (w *RPCWallet) Connect(ctx context.Context, network *domain.Network) error {
	w.mu.Lock()
	if w.configuredRPC == "" {
		if network == nil || network.RPCURL == "" {
			w.mu.Unlock()
			return fmt.Errorf("%w: network %s has no RPC URL", domain.ErrWalletNotConnected, networkName(network))
		}
		if network.RPCURL != w.rpcURL {
			w.log.Debug("switching wallet endpoint", "network", network.Name)
			w.rpcURL = network.RPCURL
			w.backend = nil
		}
	}
	w.mu.Unlock()

	_, err := w.connect(ctx)
	return err
}

func networkName(n *domain.Network) string {
	if n == nil {
		return "(none)"
	}
	return n.Name
}

func (w *RPCWallet) connect(ctx context.Context) (Backend, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.backend != nil {
		return w.backend, nil
	}
	if w.rpcURL == "" {
		return nil, fmt.Errorf("%w: no RPC endpoint configured (set [wallet] rpc_url or select a network)", domain.ErrWalletNotConnected)
	}

	backend, err := w.dial(ctx, w.rpcURL)
	if err != nil {
		return nil, &domain.TransactionNetworkError{Cause: fmt.Errorf("failed to connect to RPC: %w", err)}
	}
	w.backend = backend
	return backend, nil
}

// GetActiveChainID returns the chain id of the node the wallet is connected to
func (w *RPCWallet) GetActiveChainID(ctx context.Context) (uint64, error) {
	backend, err := w.connect(ctx)
	if err != nil {
		return 0, err
	}
	id, err := backend.ChainID(ctx)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to get chain ID: %w", err))
	}
	return id.Uint64(), nil
}

// GetSigner returns the configured key signer, or nil when no key is set
func (w *RPCWallet) GetSigner(ctx context.Context) (usecase.Signer, error) {
	if w.signerErr != nil {
		return nil, w.signerErr
	}
	if w.signer == nil {
		return nil, nil
	}
	return w.signer, nil
}

// Submit signs and broadcasts a contract creation transaction and waits for
// its receipt.
func (w *RPCWallet) Submit(ctx context.Context, req usecase.SubmitRequest) (*domain.DeployResult, error) {
	signer, ok := req.Signer.(*KeySigner)
	if !ok || signer == nil {
		return nil, fmt.Errorf("unsupported signer %T", req.Signer)
	}

	data, err := EncodeDeployment(req.ABI, req.Bytecode, req.Args)
	if err != nil {
		return nil, err
	}

	backend, err := w.connect(ctx)
	if err != nil {
		return nil, err
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get chain ID: %w", err))
	}
	nonce, err := backend.PendingNonceAt(ctx, signer.address)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get nonce: %w", err))
	}
	tip, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to suggest gas tip: %w", err))
	}
	head, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get latest header: %w", err))
	}
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	gas, err := backend.EstimateGas(ctx, ethereum.CallMsg{
		From:      signer.address,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Data:      data,
	})
	if err != nil {
		return nil, classify(fmt.Errorf("failed to estimate gas: %w", err))
	}
	gas += gas * gasMarginPercent / 100

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		Value:     big.NewInt(0),
		Data:      data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), signer.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	w.log.Debug("sending deployment transaction", "from", signer.address.Hex(), "nonce", nonce, "gas", gas, "hash", signed.Hash().Hex())
	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, classify(fmt.Errorf("failed to send transaction: %w", err))
	}

	// From here on the transaction may be mined; failures keep its hash
	return w.awaitDeployment(ctx, backend, domain.PendingTransaction{
		Hash:  signed.Hash().Hex(),
		From:  signer.address.Hex(),
		Nonce: nonce,
	})
}

// WaitForDeployment resumes waiting for a transaction an earlier Submit
// broadcast without seeing it confirmed.
func (w *RPCWallet) WaitForDeployment(ctx context.Context, tx domain.PendingTransaction) (*domain.DeployResult, error) {
	backend, err := w.connect(ctx)
	if err != nil {
		return nil, &domain.PendingTransactionError{Tx: tx, Cause: err}
	}
	w.log.Debug("waiting for pending deployment", "hash", tx.Hash)
	return w.awaitDeployment(ctx, backend, tx)
}

func (w *RPCWallet) awaitDeployment(ctx context.Context, backend Backend, tx domain.PendingTransaction) (*domain.DeployResult, error) {
	receipt, err := w.waitReceipt(ctx, backend, common.HexToHash(tx.Hash))
	if err != nil {
		return nil, &domain.PendingTransactionError{
			Tx:    tx,
			Cause: &domain.TransactionNetworkError{Cause: err},
		}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionReverted, tx.Hash)
	}

	address := receipt.ContractAddress
	if address == (common.Address{}) {
		address = crypto.CreateAddress(common.HexToAddress(tx.From), tx.Nonce)
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}

	return &domain.DeployResult{
		ContractAddress: address.Hex(),
		TransactionHash: tx.Hash,
		BlockNumber:     block,
	}, nil
}

func (w *RPCWallet) waitReceipt(ctx context.Context, backend Backend, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			w.log.Debug("receipt poll failed", "hash", hash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("no receipt for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Ensure the adapter implements the interface
var _ usecase.Wallet = (*RPCWallet)(nil)
