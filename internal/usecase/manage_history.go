package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/trebuchet-org/launchpad/internal/domain"
)

// ListHistoryParams contains parameters for listing deployment history
type ListHistoryParams struct {
	Network string
	ChainID uint64
	Limit   int
}

// ListHistoryResult contains the result of listing history
type ListHistoryResult struct {
	Records []*domain.HistoryRecord
	Total   int
}

// ListHistory is a use case for listing past deployments
type ListHistory struct {
	history *DeploymentHistory
}

// NewListHistory creates a new ListHistory use case
func NewListHistory(history *DeploymentHistory) *ListHistory {
	return &ListHistory{history: history}
}

// Run executes the use case
func (uc *ListHistory) Run(ctx context.Context, params ListHistoryParams) (*ListHistoryResult, error) {
	records, err := uc.history.List(ctx, domain.HistoryFilter{
		Network: params.Network,
		ChainID: params.ChainID,
	})
	if err != nil {
		return nil, err
	}

	total := len(records)
	if params.Limit > 0 && params.Limit < total {
		records = records[:params.Limit]
	}
	return &ListHistoryResult{Records: records, Total: total}, nil
}

// ClearHistory is a use case for deleting the deployment history
type ClearHistory struct {
	history *DeploymentHistory
}

// NewClearHistory creates a new ClearHistory use case
func NewClearHistory(history *DeploymentHistory) *ClearHistory {
	return &ClearHistory{history: history}
}

// Run deletes all records and returns how many were removed
func (uc *ClearHistory) Run(ctx context.Context) (int, error) {
	return uc.history.Clear(ctx)
}

// CheckHistoryParams contains parameters for checking history on-chain
type CheckHistoryParams struct {
	Network string
}

// RecordCheck is the on-chain status of one history record
type RecordCheck struct {
	Record      *domain.HistoryRecord `json:"record"`
	CodeExists  bool                  `json:"codeExists"`
	TxExists    bool                  `json:"txExists"`
	Reason      string                `json:"reason,omitempty"`
	NetworkErr  error                 `json:"-"`
	BlockNumber uint64                `json:"blockNumber,omitempty"`
}

// CheckHistoryResult contains the result of checking history
type CheckHistoryResult struct {
	Checks  []*RecordCheck `json:"checks"`
	Live    int            `json:"live"`
	Missing int            `json:"missing"`
	Errored int            `json:"errored"`
}

// CheckHistory verifies that recorded deployments still have code on-chain
type CheckHistory struct {
	history  *DeploymentHistory
	networks NetworkResolver
	checker  ChainChecker
	progress ProgressSink
}

// NewCheckHistory creates a new CheckHistory use case
func NewCheckHistory(history *DeploymentHistory, networks NetworkResolver, checker ChainChecker, progress ProgressSink) *CheckHistory {
	if progress == nil {
		progress = NopProgress{}
	}
	return &CheckHistory{
		history:  history,
		networks: networks,
		checker:  checker,
		progress: progress,
	}
}

// Run executes the use case
func (uc *CheckHistory) Run(ctx context.Context, params CheckHistoryParams) (*CheckHistoryResult, error) {
	records, err := uc.history.List(ctx, domain.HistoryFilter{Network: params.Network})
	if err != nil {
		return nil, err
	}

	result := &CheckHistoryResult{Checks: make([]*RecordCheck, 0, len(records))}
	byNetwork := lo.GroupBy(records, func(r *domain.HistoryRecord) string { return r.Network })

	for _, name := range lo.Uniq(lo.Map(records, func(r *domain.HistoryRecord, _ int) string { return r.Network })) {
		group := byNetwork[name]
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageChecking,
			Message: fmt.Sprintf("Checking %d deployments on %s", len(group), name),
			Spinner: true,
		})

		connErr := uc.connect(ctx, name, group[0].ChainID)
		for _, record := range group {
			check := &RecordCheck{Record: record}
			result.Checks = append(result.Checks, check)

			if connErr != nil {
				check.NetworkErr = connErr
				result.Errored++
				continue
			}
			uc.checkRecord(ctx, check)
			if check.NetworkErr != nil {
				result.Errored++
			} else if check.CodeExists {
				result.Live++
			} else {
				result.Missing++
			}
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Check complete"})
	return result, nil
}

func (uc *CheckHistory) connect(ctx context.Context, name string, chainID uint64) error {
	network, err := uc.networks.ResolveNetwork(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to resolve network %s: %w", name, err)
	}
	if err := uc.checker.Connect(ctx, network.RPCURL, chainID); err != nil {
		return err
	}
	return nil
}

func (uc *CheckHistory) checkRecord(ctx context.Context, check *RecordCheck) {
	exists, reason, err := uc.checker.CheckDeploymentExists(ctx, check.Record.ContractAddress)
	if err != nil {
		check.NetworkErr = err
		return
	}
	check.CodeExists = exists
	check.Reason = reason

	if check.Record.TransactionHash == "" {
		return
	}
	txExists, block, txReason, err := uc.checker.CheckTransactionExists(ctx, check.Record.TransactionHash)
	if err != nil {
		check.NetworkErr = err
		return
	}
	check.TxExists = txExists
	check.BlockNumber = block
	if !txExists && check.Reason == "" {
		check.Reason = txReason
	}
}
