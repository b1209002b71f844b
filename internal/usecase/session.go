package usecase

import (
	"sync"

	"github.com/trebuchet-org/launchpad/internal/domain"
)

// Session holds the single in-flight deployment workflow. It is owned by
// the caller and passed into every DeployWorkflow operation; at most one
// workflow lives in a session at a time.
//
// The mutex guards state between suspension points. It is never held while
// a collaborator call is in flight.
type Session struct {
	mu      sync.Mutex
	state   *domain.WorkflowState
	network *domain.Network
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// Active reports whether a workflow has been started and not reset
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != nil
}

// Snapshot returns a copy of the current workflow state, or nil
func (s *Session) Snapshot() *domain.WorkflowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Network returns the selected deployment target, or nil
func (s *Session) Network() *domain.Network {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.network == nil {
		return nil
	}
	n := *s.network
	return &n
}
