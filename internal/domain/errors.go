package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrSessionActive is returned when starting a workflow on a session that already has one
	ErrSessionActive = errors.New("a deployment workflow is already active")

	// ErrNoSession is returned when an operation needs a workflow but the session is empty
	ErrNoSession = errors.New("no active deployment workflow")

	// ErrSessionReset is returned when the session was reset while an operation was in flight
	ErrSessionReset = errors.New("workflow was reset while the operation was running")

	// ErrStepNotReady is returned when a step is not in a status that allows the operation
	ErrStepNotReady = errors.New("step is not ready")

	// ErrEmptySource is returned when the subject has no source content
	ErrEmptySource = errors.New("source is empty")

	// ErrWalletNotConnected is returned when the wallet has no signer
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrNoTargetNetwork is returned when no deployment network was selected
	ErrNoTargetNetwork = errors.New("no target network selected")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is matched by NetworkMismatchError
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrTransactionReverted is returned when a mined deployment transaction failed
	ErrTransactionReverted = errors.New("deployment transaction reverted")

	// ErrTransactionPending is returned when an operation would change a
	// deployment whose transaction is still awaiting confirmation
	ErrTransactionPending = errors.New("a deployment transaction is awaiting confirmation")
)

// StepNotReadyErr wraps ErrStepNotReady with the offending step
type StepNotReadyErr struct {
	Step   StepID
	Status StepStatus
	Want   []StepStatus
}

func (e *StepNotReadyErr) Error() string {
	want := make([]string, len(e.Want))
	for i, s := range e.Want {
		want[i] = string(s)
	}
	return fmt.Sprintf("step %s is %s (expected %s)", e.Step, e.Status, strings.Join(want, " or "))
}

func (e *StepNotReadyErr) Unwrap() error { return ErrStepNotReady }

// FieldError describes one invalid constructor argument
type FieldError struct {
	Index   int
	Name    string
	Type    string
	Message string
}

func (e FieldError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s): %s", e.Name, e.Type, e.Message)
}

// ValidationError aggregates invalid user input
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "invalid argument: " + e.Fields[0].Error()
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d invalid arguments: %s", len(e.Fields), strings.Join(msgs, "; "))
}

// CompilationError carries the compiler's diagnostics verbatim
type CompilationError struct {
	Errors []string
}

func (e *CompilationError) Error() string {
	return strings.Join(e.Errors, "\n")
}

// NetworkMismatchError is returned when the wallet is on the wrong chain
type NetworkMismatchError struct {
	Current uint64
	Target  uint64
}

func (e *NetworkMismatchError) Error() string {
	return fmt.Sprintf("wallet is connected to chain %d but the deployment targets chain %d; switch networks and retry", e.Current, e.Target)
}

func (e *NetworkMismatchError) Is(target error) bool { return target == ErrNetworkMismatch }

// UserRejectedError is returned when the signer declined the transaction
type UserRejectedError struct {
	Cause error
}

func (e *UserRejectedError) Error() string {
	return "transaction was rejected by the signer"
}

func (e *UserRejectedError) Unwrap() error { return e.Cause }

// InsufficientFundsError is returned when the deployer cannot pay for the transaction
type InsufficientFundsError struct {
	Cause error
}

func (e *InsufficientFundsError) Error() string {
	return "insufficient funds to pay for deployment gas"
}

func (e *InsufficientFundsError) Unwrap() error { return e.Cause }

// TransactionNetworkError is returned when the RPC endpoint failed during submission
type TransactionNetworkError struct {
	Cause error
}

func (e *TransactionNetworkError) Error() string {
	if e.Cause == nil {
		return "network error while submitting transaction"
	}
	return fmt.Sprintf("network error while submitting transaction: %v", e.Cause)
}

func (e *TransactionNetworkError) Unwrap() error { return e.Cause }

// PendingTransactionError is returned when a deployment transaction was
// broadcast but its confirmation never arrived. The transaction may still be
// mined, so retrying waits on Tx instead of sending a new one.
type PendingTransactionError struct {
	Tx    PendingTransaction
	Cause error
}

func (e *PendingTransactionError) Error() string {
	return fmt.Sprintf("deployment transaction %s was sent but not confirmed: %v; retry to keep waiting", e.Tx.Hash, e.Cause)
}

func (e *PendingTransactionError) Unwrap() error { return e.Cause }

// PersistenceError is returned when the deployment history could not be saved.
// The deployment itself stands.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save deployment history: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// IsClassified reports whether err is one of the typed workflow errors whose
// message is meant for the user as-is.
func IsClassified(err error) bool {
	var (
		ve  *ValidationError
		ce  *CompilationError
		nme *NetworkMismatchError
		ure *UserRejectedError
		ife *InsufficientFundsError
		tne *TransactionNetworkError
		pte *PendingTransactionError
	)
	return errors.As(err, &ve) || errors.As(err, &ce) || errors.As(err, &nme) ||
		errors.As(err, &ure) || errors.As(err, &ife) || errors.As(err, &tne) ||
		errors.As(err, &pte) ||
		errors.Is(err, ErrEmptySource) || errors.Is(err, ErrWalletNotConnected) ||
		errors.Is(err, ErrNoTargetNetwork)
}
