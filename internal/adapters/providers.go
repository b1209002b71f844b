package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/launchpad/internal/adapters/analyzer"
	"github.com/trebuchet-org/launchpad/internal/adapters/blockchain"
	"github.com/trebuchet-org/launchpad/internal/adapters/compiler"
	internalconfig "github.com/trebuchet-org/launchpad/internal/adapters/config"
	"github.com/trebuchet-org/launchpad/internal/adapters/fs"
	"github.com/trebuchet-org/launchpad/internal/adapters/interactive"
	"github.com/trebuchet-org/launchpad/internal/adapters/storage"
	"github.com/trebuchet-org/launchpad/internal/adapters/wallet"
	"github.com/trebuchet-org/launchpad/internal/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewSourceRepositoryAdapter,
	wire.Bind(new(usecase.SourceRepository), new(*fs.SourceRepositoryAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),
)

// StorageSet provides the configured key-value backend
var StorageSet = wire.NewSet(
	storage.NewStorage,
)

// ToolchainSet provides the compiler and analyzer
var ToolchainSet = wire.NewSet(
	compiler.NewSolcAdapter,
	wire.Bind(new(usecase.Compiler), new(*compiler.SolcAdapter)),

	analyzer.NewLLMAnalyzer,
	wire.Bind(new(usecase.Analyzer), new(*analyzer.LLMAnalyzer)),
)

// WalletSet provides the signing wallet
var WalletSet = wire.NewSet(
	wallet.NewRPCWallet,
	wire.Bind(new(usecase.Wallet), new(*wallet.RPCWallet)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractivePrompter), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.ChainChecker), new(*blockchain.CheckerAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	StorageSet,
	ToolchainSet,
	WalletSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
)
