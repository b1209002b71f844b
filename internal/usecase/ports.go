package usecase

import (
	"context"

	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

// Collaborator ports

// CompileRequest is the input to a Compiler
type CompileRequest struct {
	SourceText string
	ModuleName string
	SourcePath string
}

// Compiler turns source text into an ABI and bytecode. Compiler-reported
// diagnostics come back in the result with Success=false; the error return
// is reserved for failures to run the compiler at all.
type Compiler interface {
	Compile(ctx context.Context, req CompileRequest) (*domain.CompileResult, error)
}

// AnalysisRequest is the input to an Analyzer
type AnalysisRequest struct {
	SourceText string
}

// Analyzer produces a risk report for source text. Implementations return a
// well-formed default report when the model output cannot be parsed.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*domain.AnalysisResult, error)
}

// Signer is an opaque capability that authorizes transaction submission
type Signer interface {
	Address() string
}

// SubmitRequest carries everything a wallet needs to deploy a contract
type SubmitRequest struct {
	ABI      *domain.ABI
	Bytecode string
	Args     []any
	Signer   Signer
}

// Wallet is the signing provider. Submit waits for on-chain confirmation.
// When the transaction was broadcast but not confirmed, Submit returns a
// *domain.PendingTransactionError and the caller resumes with
// WaitForDeployment rather than submitting again.
type Wallet interface {
	// Connect points the wallet at the deployment target. A wallet with its
	// own endpoint keeps it, and the network guard reports any mismatch.
	Connect(ctx context.Context, network *domain.Network) error
	GetActiveChainID(ctx context.Context) (uint64, error)
	// GetSigner returns nil without error when no signer is connected
	GetSigner(ctx context.Context) (Signer, error)
	Submit(ctx context.Context, req SubmitRequest) (*domain.DeployResult, error)
	WaitForDeployment(ctx context.Context, tx domain.PendingTransaction) (*domain.DeployResult, error)
}

// Storage is a key-indexed value store. Get returns domain.ErrNotFound for
// missing keys.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SourceRepository loads the source content of a subject
type SourceRepository interface {
	GetSubject(ctx context.Context, subjectID string) (*domain.Subject, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*domain.Network, error)
}

// ChainChecker checks on-chain state of recorded deployments
type ChainChecker interface {
	Connect(ctx context.Context, rpcURL string, chainID uint64) error
	CheckDeploymentExists(ctx context.Context, address string) (exists bool, reason string, err error)
	CheckTransactionExists(ctx context.Context, txHash string) (exists bool, blockNumber uint64, reason string, err error)
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// InteractivePrompter collects input from the user. Implementations fail
// rather than block when running non-interactively.
type InteractivePrompter interface {
	PromptArgument(ctx context.Context, arg domain.ConstructorArgument, validate func(string) error) (string, error)
	Confirm(ctx context.Context, label string) (bool, error)
	WaitForEnter(ctx context.Context, label string) error
	SelectNetwork(ctx context.Context, networks []string, current string) (string, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ExecutionStage
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// ExecutionStage represents a stage in the deployment workflow
type ExecutionStage string

const (
	StageAnalyzing ExecutionStage = "Analyzing"
	StageCompiling ExecutionStage = "Compiling"
	StageReview    ExecutionStage = "Review"
	StageDeploying ExecutionStage = "Deploying"
	StageSaving    ExecutionStage = "Saving"
	StageChecking  ExecutionStage = "Checking"
	StageCompleted ExecutionStage = "Completed"
	StageFailed    ExecutionStage = "Failed"
)
