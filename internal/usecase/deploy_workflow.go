package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/abitype"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

// DeploymentOutcome is the result of a successful deployment. Result is the
// hard outcome; HistoryErr reports a failed history append, which never
// undoes the deployment.
type DeploymentOutcome struct {
	Result     *domain.DeployResult
	Record     *domain.HistoryRecord
	HistoryErr error
}

// DeployWorkflow drives a session through analyze, compile, review, deploy
// and done. Each run operation checks and flips its step status before it
// awaits a collaborator, so a repeated or concurrent call is rejected
// instead of repeating the side effect.
type DeployWorkflow struct {
	sources  SourceRepository
	compiler Compiler
	analyzer Analyzer
	wallet   Wallet
	guard    *NetworkGuard
	history  *DeploymentHistory
	progress ProgressSink
	network  *domain.Network
	log      *slog.Logger
}

// NewDeployWorkflow creates a new deploy workflow use case
func NewDeployWorkflow(
	cfg *config.RuntimeConfig,
	sources SourceRepository,
	compiler Compiler,
	analyzer Analyzer,
	wallet Wallet,
	guard *NetworkGuard,
	history *DeploymentHistory,
	progress ProgressSink,
	log *slog.Logger,
) *DeployWorkflow {
	if progress == nil {
		progress = NopProgress{}
	}
	w := &DeployWorkflow{
		sources:  sources,
		compiler: compiler,
		analyzer: analyzer,
		wallet:   wallet,
		guard:    guard,
		history:  history,
		progress: progress,
		log:      log.With("component", "DeployWorkflow"),
	}
	if cfg != nil {
		w.network = cfg.Network
	}
	return w
}

// Start creates the workflow for a subject and runs its first step. If the
// subject cannot be loaded no workflow is created. If the first step fails
// the workflow stays in the session with that step parked for retry.
func (w *DeployWorkflow) Start(ctx context.Context, s *Session, subjectID string, analysisEnabled bool) error {
	if s.Active() {
		return domain.ErrSessionActive
	}

	subject, err := w.sources.GetSubject(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", subjectID, err)
	}

	s.mu.Lock()
	if s.state != nil {
		s.mu.Unlock()
		return domain.ErrSessionActive
	}
	s.state = domain.NewWorkflowState(subject.ID, analysisEnabled)
	if s.network == nil && w.network != nil {
		n := *w.network
		s.network = &n
	}
	s.mu.Unlock()

	w.log.Debug("workflow started", "subject", subject.ID, "analysis", analysisEnabled)

	if analysisEnabled {
		return w.RunAnalysis(ctx, s)
	}
	return w.RunCompilation(ctx, s)
}

// RunAnalysis runs the risk analyzer. It does not continue to compilation;
// callers decide after reading the report.
func (w *DeployWorkflow) RunAnalysis(ctx context.Context, s *Session) error {
	st, err := w.begin(s, domain.StepAnalyze, nil, domain.StepStatusPending, domain.StepStatusFailed)
	if err != nil {
		return err
	}
	w.report(ctx, StageAnalyzing, "Analyzing contract for risks", true)

	subject, err := w.loadSource(ctx, st.SubjectID)
	if err != nil {
		return w.fail(ctx, s, st, domain.StepAnalyze, err)
	}

	result, err := w.analyzer.Analyze(ctx, AnalysisRequest{SourceText: subject.Source})
	if err != nil {
		return w.fail(ctx, s, st, domain.StepAnalyze, err)
	}
	if result == nil {
		result = domain.DefaultAnalysisResult()
	}

	if err := w.commit(s, st, func() {
		st.AnalysisResult = result
		st.SetStepStatus(domain.StepAnalyze, domain.StepStatusCompleted, "")
	}); err != nil {
		return err
	}

	w.report(ctx, StageAnalyzing, fmt.Sprintf("Analysis complete: %d findings", len(result.Vulnerabilities)), false)
	return nil
}

// SkipAnalysis marks a pending or failed analysis step as skipped so the
// workflow can continue without a report.
func (w *DeployWorkflow) SkipAnalysis(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return domain.ErrNoSession
	}
	if err := checkStatus(s.state, domain.StepAnalyze, domain.StepStatusPending, domain.StepStatusFailed); err != nil {
		return err
	}
	s.state.SetStepStatus(domain.StepAnalyze, domain.StepStatusSkipped, "")
	return nil
}

// ContinueAfterAnalysis moves on to compilation once the analysis step is finished
func (w *DeployWorkflow) ContinueAfterAnalysis(ctx context.Context, s *Session) error {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return domain.ErrNoSession
	}
	err := checkStatus(s.state, domain.StepAnalyze, domain.StepStatusCompleted, domain.StepStatusSkipped)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return w.RunCompilation(ctx, s)
}

// RunCompilation compiles the subject's current source. A failed compile
// keeps the partial result so its diagnostics can be shown, and may be
// retried after the source is edited.
func (w *DeployWorkflow) RunCompilation(ctx context.Context, s *Session) error {
	st, err := w.begin(s, domain.StepCompile, requireAnalysisFinished, domain.StepStatusPending, domain.StepStatusFailed)
	if err != nil {
		return err
	}
	w.report(ctx, StageCompiling, "Compiling contract", true)

	subject, err := w.loadSource(ctx, st.SubjectID)
	if err != nil {
		return w.fail(ctx, s, st, domain.StepCompile, err)
	}

	result, err := w.compiler.Compile(ctx, CompileRequest{
		SourceText: subject.Source,
		ModuleName: subject.ContractName,
		SourcePath: subject.Path,
	})
	if err != nil {
		return w.fail(ctx, s, st, domain.StepCompile, err)
	}
	if err := result.Validate(); err != nil {
		return w.fail(ctx, s, st, domain.StepCompile, fmt.Errorf("invalid compiler output: %w", err))
	}

	if !result.Success {
		cerr := &domain.CompilationError{Errors: result.Errors}
		if err := w.commit(s, st, func() {
			st.CompileResult = result
			st.ConstructorArgs = nil
			st.SetStepStatus(domain.StepCompile, domain.StepStatusFailed, cerr.Error())
		}); err != nil {
			return err
		}
		w.log.Debug("compilation failed", "errors", len(result.Errors), "warnings", len(result.Warnings))
		w.report(ctx, StageFailed, "Compilation failed", false)
		return cerr
	}

	args := result.ABI.ConstructorArguments()
	if err := w.commit(s, st, func() {
		st.CompileResult = result
		st.ConstructorArgs = args
		st.SetStepStatus(domain.StepCompile, domain.StepStatusCompleted, "")
		st.SetStepStatus(domain.StepReview, domain.StepStatusInProgress, "")
	}); err != nil {
		return err
	}

	w.log.Debug("compilation succeeded", "constructorArgs", len(args), "warnings", len(result.Warnings))
	w.report(ctx, StageReview, fmt.Sprintf("Compiled with %d constructor arguments", len(args)), false)
	return nil
}

// ValidateArguments checks user-supplied constructor arguments against the
// compiled constructor schema and stores them when they are all valid.
// Arguments can only change while review is open.
func (w *DeployWorkflow) ValidateArguments(s *Session, args []domain.ConstructorArgument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st == nil {
		return domain.ErrNoSession
	}
	if st.CompileResult == nil || !st.CompileResult.Success {
		return &domain.StepNotReadyErr{Step: domain.StepCompile, Status: st.StepStatus(domain.StepCompile), Want: []domain.StepStatus{domain.StepStatusCompleted}}
	}
	if err := checkStatus(st, domain.StepReview, domain.StepStatusInProgress); err != nil {
		return err
	}

	if err := abitype.ValidateAll(st.CompileResult.ABI.ConstructorParams(), args); err != nil {
		return err
	}

	// Keep the schema's names and types next to the accepted values
	stored := st.CompileResult.ABI.ConstructorArguments()
	for i := range stored {
		stored[i].Value = args[i].Value
	}
	st.ConstructorArgs = stored
	return nil
}

// CompleteReview closes the review step. The stored arguments must be
// valid. Completing an already completed review is a no-op.
func (w *DeployWorkflow) CompleteReview(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st == nil {
		return domain.ErrNoSession
	}
	switch st.StepStatus(domain.StepReview) {
	case domain.StepStatusCompleted:
		return nil
	case domain.StepStatusInProgress:
	default:
		return &domain.StepNotReadyErr{Step: domain.StepReview, Status: st.StepStatus(domain.StepReview), Want: []domain.StepStatus{domain.StepStatusInProgress}}
	}

	if err := abitype.ValidateAll(st.CompileResult.ABI.ConstructorParams(), st.ConstructorArgs); err != nil {
		return err
	}
	st.SetStepStatus(domain.StepReview, domain.StepStatusCompleted, "")
	return nil
}

// SelectNetwork sets the deployment target for the session
func (w *DeployWorkflow) SelectNetwork(s *Session, network *domain.Network) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil && s.state.StepStatus(domain.StepDeploy) == domain.StepStatusInProgress {
		return &domain.StepNotReadyErr{Step: domain.StepDeploy, Status: domain.StepStatusInProgress, Want: []domain.StepStatus{domain.StepStatusPending, domain.StepStatusFailed}}
	}
	if s.state != nil && s.state.PendingTx != nil {
		return fmt.Errorf("%w: %s", domain.ErrTransactionPending, s.state.PendingTx.Hash)
	}
	if network == nil {
		s.network = nil
		return nil
	}
	n := *network
	s.network = &n
	return nil
}

// RunDeployment submits the contract. The wallet is pointed at the target
// network and its chain is checked right before submission. A transaction
// that was broadcast but not confirmed is kept on the workflow, and a retry
// waits on it instead of sending another. On success the deploy and done
// steps complete together and a history record is appended on a
// best-effort basis.
func (w *DeployWorkflow) RunDeployment(ctx context.Context, s *Session) (*DeploymentOutcome, error) {
	st, err := w.begin(s, domain.StepDeploy, requireReviewCompleted, domain.StepStatusPending, domain.StepStatusFailed)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	compiled := st.CompileResult
	args := slices.Clone(st.ConstructorArgs)
	network := s.network
	var pending *domain.PendingTransaction
	if st.PendingTx != nil {
		tx := *st.PendingTx
		pending = &tx
	}
	s.mu.Unlock()

	if network == nil {
		return nil, w.fail(ctx, s, st, domain.StepDeploy, domain.ErrNoTargetNetwork)
	}

	signer, err := w.wallet.GetSigner(ctx)
	if err != nil {
		return nil, w.fail(ctx, s, st, domain.StepDeploy, fmt.Errorf("failed to get signer: %w", err))
	}
	if signer == nil {
		return nil, w.fail(ctx, s, st, domain.StepDeploy, domain.ErrWalletNotConnected)
	}

	w.report(ctx, StageDeploying, fmt.Sprintf("Checking wallet network (%s)", network.Name), true)
	if err := w.wallet.Connect(ctx, network); err != nil {
		return nil, w.fail(ctx, s, st, domain.StepDeploy, err)
	}
	if err := w.guard.Ensure(ctx, network.ChainID); err != nil {
		return nil, w.fail(ctx, s, st, domain.StepDeploy, err)
	}

	var result *domain.DeployResult
	if pending != nil {
		w.report(ctx, StageDeploying, fmt.Sprintf("Waiting for pending transaction %s", pending.Hash), true)
		result, err = w.wallet.WaitForDeployment(ctx, *pending)
	} else {
		values, cerr := abitype.ConvertAll(compiled.ABI.ConstructorParams(), args)
		if cerr != nil {
			return nil, w.fail(ctx, s, st, domain.StepDeploy, cerr)
		}

		w.report(ctx, StageDeploying, fmt.Sprintf("Submitting deployment to %s", network.Name), true)
		result, err = w.wallet.Submit(ctx, SubmitRequest{
			ABI:      compiled.ABI,
			Bytecode: compiled.Bytecode,
			Args:     values,
			Signer:   signer,
		})
	}
	if err != nil {
		w.trackPending(s, st, err)
		return nil, w.fail(ctx, s, st, domain.StepDeploy, err)
	}

	outcome := &DeploymentOutcome{Result: result}
	if err := w.commit(s, st, func() {
		st.PendingTx = nil
		st.DeployResult = result
		st.SetStepStatus(domain.StepDeploy, domain.StepStatusCompleted, "")
		st.SetStepStatus(domain.StepDone, domain.StepStatusCompleted, "")
	}); err != nil {
		// The transaction cannot be taken back; surface it anyway.
		w.log.Warn("deployment confirmed after workflow reset",
			"address", result.ContractAddress, "tx", result.TransactionHash)
		return outcome, err
	}

	w.report(ctx, StageSaving, "Saving deployment history", true)
	outcome.Record = newHistoryRecord(st, network, signer, result)
	if err := w.history.Append(ctx, outcome.Record); err != nil {
		outcome.HistoryErr = &domain.PersistenceError{Cause: err}
		w.log.Warn("failed to save deployment history", "error", err)
		w.progress.Error(outcome.HistoryErr.Error())
	}

	w.report(ctx, StageCompleted, fmt.Sprintf("Deployed at %s", result.ContractAddress), false)
	return outcome, nil
}

// trackPending records an unconfirmed broadcast on the workflow, and forgets
// it once the chain reports the transaction reverted.
func (w *DeployWorkflow) trackPending(s *Session, st *domain.WorkflowState, err error) {
	var perr *domain.PendingTransactionError
	switch {
	case errors.As(err, &perr):
		tx := perr.Tx
		_ = w.commit(s, st, func() { st.PendingTx = &tx })
		w.log.Warn("deployment transaction not confirmed", "tx", tx.Hash, "error", perr.Cause)
	case errors.Is(err, domain.ErrTransactionReverted):
		_ = w.commit(s, st, func() { st.PendingTx = nil })
	}
}

// Reset discards the workflow. Operations still awaiting a collaborator
// finish in the background and their results are dropped.
func (w *DeployWorkflow) Reset(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil {
		w.log.Debug("workflow reset", "subject", s.state.SubjectID, "step", s.state.CurrentStepIndex)
		if s.state.PendingTx != nil {
			w.log.Warn("reset discards an unconfirmed deployment transaction", "tx", s.state.PendingTx.Hash)
		}
	}
	s.state = nil
	s.network = nil
}

// begin checks that the step is in one of the allowed statuses, runs the
// extra requirement, and marks the step in progress, all under the lock.
func (w *DeployWorkflow) begin(s *Session, step domain.StepID, require func(*domain.WorkflowState) error, allowed ...domain.StepStatus) (*domain.WorkflowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st == nil {
		return nil, domain.ErrNoSession
	}
	if err := checkStatus(st, step, allowed...); err != nil {
		return nil, err
	}
	if require != nil {
		if err := require(st); err != nil {
			return nil, err
		}
	}
	st.SetStepStatus(step, domain.StepStatusInProgress, "")
	return st, nil
}

// commit applies fn if the session still holds st
func (w *DeployWorkflow) commit(s *Session, st *domain.WorkflowState, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != st {
		return domain.ErrSessionReset
	}
	fn()
	return nil
}

// fail records err on the step and returns it. Typed workflow errors keep
// their message; anything else is prefixed with the step name.
func (w *DeployWorkflow) fail(ctx context.Context, s *Session, st *domain.WorkflowState, step domain.StepID, err error) error {
	if !domain.IsClassified(err) {
		err = fmt.Errorf("%s: %w", step, err)
	}

	if cerr := w.commit(s, st, func() {
		st.SetStepStatus(step, domain.StepStatusFailed, err.Error())
	}); cerr != nil {
		return fmt.Errorf("%w: %w", cerr, err)
	}

	w.log.Debug("step failed", "step", step, "error", err)
	w.report(ctx, StageFailed, err.Error(), false)
	return err
}

func (w *DeployWorkflow) loadSource(ctx context.Context, subjectID string) (*domain.Subject, error) {
	subject, err := w.sources.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}
	if strings.TrimSpace(subject.Source) == "" {
		return nil, domain.ErrEmptySource
	}
	return subject, nil
}

func (w *DeployWorkflow) report(ctx context.Context, stage ExecutionStage, message string, spinner bool) {
	w.progress.OnProgress(ctx, ProgressEvent{Stage: stage, Message: message, Spinner: spinner})
}

func checkStatus(st *domain.WorkflowState, step domain.StepID, allowed ...domain.StepStatus) error {
	if st.StepIndex(step) < 0 {
		return &domain.StepNotReadyErr{Step: step, Status: "absent", Want: allowed}
	}
	status := st.StepStatus(step)
	if !slices.Contains(allowed, status) {
		return &domain.StepNotReadyErr{Step: step, Status: status, Want: allowed}
	}
	return nil
}

func requireAnalysisFinished(st *domain.WorkflowState) error {
	if st.StepIndex(domain.StepAnalyze) < 0 {
		return nil
	}
	return checkStatus(st, domain.StepAnalyze, domain.StepStatusCompleted, domain.StepStatusSkipped)
}

func requireReviewCompleted(st *domain.WorkflowState) error {
	return checkStatus(st, domain.StepReview, domain.StepStatusCompleted)
}

// IsStepNotReady reports whether err is a rejected out-of-order call
func IsStepNotReady(err error) bool {
	return errors.Is(err, domain.ErrStepNotReady)
}
