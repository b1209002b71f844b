package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trebuchet-org/launchpad/internal/domain"
)

// HistoryKey is the storage key holding the deployment history
const HistoryKey = "deployments/history"

// DeploymentHistory keeps an append-only list of successful deployments in
// a Storage under HistoryKey.
type DeploymentHistory struct {
	store Storage
	now   func() time.Time
	log   *slog.Logger
}

// NewDeploymentHistory creates a new DeploymentHistory
func NewDeploymentHistory(store Storage, log *slog.Logger) *DeploymentHistory {
	return &DeploymentHistory{
		store: store,
		now:   time.Now,
		log:   log.With("component", "DeploymentHistory"),
	}
}

// Append adds a record to the history. Missing ID and CreatedAt are filled in.
func (h *DeploymentHistory) Append(ctx context.Context, record *domain.HistoryRecord) error {
	records, err := h.load(ctx)
	if err != nil {
		return err
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = h.now().UTC()
	}
	records = append(records, record)

	if err := h.save(ctx, records); err != nil {
		return err
	}
	h.log.Debug("history record appended", "id", record.ID, "address", record.ContractAddress)
	return nil
}

// List returns matching records, newest first
func (h *DeploymentHistory) List(ctx context.Context, filter domain.HistoryFilter) ([]*domain.HistoryRecord, error) {
	records, err := h.load(ctx)
	if err != nil {
		return nil, err
	}

	records = lo.Filter(records, func(r *domain.HistoryRecord, _ int) bool {
		return filter.Matches(r)
	})
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Clear deletes the whole history and returns how many records it held
func (h *DeploymentHistory) Clear(ctx context.Context) (int, error) {
	records, err := h.load(ctx)
	if err != nil {
		return 0, err
	}
	if err := h.store.Delete(ctx, HistoryKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return len(records), nil
}

func (h *DeploymentHistory) load(ctx context.Context) ([]*domain.HistoryRecord, error) {
	data, err := h.store.Get(ctx, HistoryKey)
	if errors.Is(err, domain.ErrNotFound) {
		return []*domain.HistoryRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var records []*domain.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return records, nil
}

func (h *DeploymentHistory) save(ctx context.Context, records []*domain.HistoryRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := h.store.Set(ctx, HistoryKey, data); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

func newHistoryRecord(st *domain.WorkflowState, network *domain.Network, signer Signer, result *domain.DeployResult) *domain.HistoryRecord {
	record := &domain.HistoryRecord{
		SubjectID:       st.SubjectID,
		ContractName:    subjectContractName(st.SubjectID),
		Network:         network.Name,
		ChainID:         network.ChainID,
		ContractAddress: result.ContractAddress,
		TransactionHash: result.TransactionHash,
		BlockNumber:     result.BlockNumber,
		Deployer:        signer.Address(),
		ConstructorArgs: append([]domain.ConstructorArgument(nil), st.ConstructorArgs...),
		Analyzed:        st.AnalysisResult != nil,
		HighFindings:    st.AnalysisResult.CountBySeverity(domain.SeverityHigh),
	}
	return record
}

func subjectContractName(subjectID string) string {
	_, name := domain.ParseSubjectID(subjectID)
	return name
}
