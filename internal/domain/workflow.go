package domain

// StepID identifies one phase of a deployment workflow
type StepID string

const (
	StepAnalyze StepID = "analyze"
	StepCompile StepID = "compile"
	StepReview  StepID = "review"
	StepDeploy  StepID = "deploy"
	StepDone    StepID = "done"
)

// StepStatus is the status of a single workflow step
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in-progress"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusFailed     StepStatus = "failed"
	StepStatusSkipped    StepStatus = "skipped"
)

// Finished reports whether the status lets the workflow move past the step
func (s StepStatus) Finished() bool {
	return s == StepStatusCompleted || s == StepStatusSkipped
}

// WorkflowStep is one phase of the workflow. Its ID never changes once the
// workflow has started; only Status and ErrorMessage do.
type WorkflowStep struct {
	ID           StepID     `json:"id"`
	Status       StepStatus `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// WorkflowState is the single in-flight deployment session
type WorkflowState struct {
	SubjectID        string                `json:"subjectId"`
	Steps            []WorkflowStep        `json:"steps"`
	CurrentStepIndex int                   `json:"currentStepIndex"`
	AnalysisEnabled  bool                  `json:"analysisEnabled"`
	AnalysisResult   *AnalysisResult       `json:"analysisResult,omitempty"`
	CompileResult    *CompileResult        `json:"compileResult,omitempty"`
	ConstructorArgs  []ConstructorArgument `json:"constructorArgs,omitempty"`
	DeployResult     *DeployResult         `json:"deployResult,omitempty"`
	// PendingTx is set while a broadcast deployment awaits its receipt
	PendingTx *PendingTransaction `json:"pendingTx,omitempty"`
}

// NewWorkflowState builds the fixed step list for a session:
// [analyze?] compile review deploy done
func NewWorkflowState(subjectID string, analysisEnabled bool) *WorkflowState {
	ids := []StepID{StepCompile, StepReview, StepDeploy, StepDone}
	if analysisEnabled {
		ids = append([]StepID{StepAnalyze}, ids...)
	}

	steps := make([]WorkflowStep, len(ids))
	for i, id := range ids {
		steps[i] = WorkflowStep{ID: id, Status: StepStatusPending}
	}

	return &WorkflowState{
		SubjectID:       subjectID,
		Steps:           steps,
		AnalysisEnabled: analysisEnabled,
	}
}

// StepIndex returns the position of a step, or -1 when the session has no such step
func (w *WorkflowState) StepIndex(id StepID) int {
	for i, step := range w.Steps {
		if step.ID == id {
			return i
		}
	}
	return -1
}

// Step returns a copy of the step with the given id
func (w *WorkflowState) Step(id StepID) (WorkflowStep, bool) {
	idx := w.StepIndex(id)
	if idx < 0 {
		return WorkflowStep{}, false
	}
	return w.Steps[idx], true
}

// StepStatus returns the status of a step, or "" when the step is absent
func (w *WorkflowState) StepStatus(id StepID) StepStatus {
	step, ok := w.Step(id)
	if !ok {
		return ""
	}
	return step.Status
}

// SetStepStatus updates a step and moves the cursor.
//
// A finished step (completed or skipped) moves the cursor to the step after
// it; any other status parks the cursor on the step itself. The cursor never
// moves backwards.
func (w *WorkflowState) SetStepStatus(id StepID, status StepStatus, errorMessage string) {
	idx := w.StepIndex(id)
	if idx < 0 {
		return
	}

	w.Steps[idx].Status = status
	if status == StepStatusFailed {
		w.Steps[idx].ErrorMessage = errorMessage
	} else {
		w.Steps[idx].ErrorMessage = ""
	}

	next := idx
	if status.Finished() {
		next = idx + 1
	}
	if next > w.CurrentStepIndex {
		w.CurrentStepIndex = next
	}
}

// CurrentStep returns the step the cursor points at. The second value is
// false once every step has finished.
func (w *WorkflowState) CurrentStep() (WorkflowStep, bool) {
	if w.CurrentStepIndex >= len(w.Steps) {
		return WorkflowStep{}, false
	}
	return w.Steps[w.CurrentStepIndex], true
}

// IsComplete reports whether the done step has completed
func (w *WorkflowState) IsComplete() bool {
	return w.StepStatus(StepDone) == StepStatusCompleted
}

// Clone returns a deep copy safe to hand to observers
func (w *WorkflowState) Clone() *WorkflowState {
	if w == nil {
		return nil
	}

	out := *w
	out.Steps = append([]WorkflowStep(nil), w.Steps...)
	if w.ConstructorArgs != nil {
		out.ConstructorArgs = append([]ConstructorArgument(nil), w.ConstructorArgs...)
	}
	if w.AnalysisResult != nil {
		ar := *w.AnalysisResult
		ar.Vulnerabilities = append([]Vulnerability(nil), w.AnalysisResult.Vulnerabilities...)
		ar.Recommendations = append([]string(nil), w.AnalysisResult.Recommendations...)
		out.AnalysisResult = &ar
	}
	if w.CompileResult != nil {
		cr := *w.CompileResult
		cr.Warnings = append([]string(nil), w.CompileResult.Warnings...)
		cr.Errors = append([]string(nil), w.CompileResult.Errors...)
		out.CompileResult = &cr
	}
	if w.DeployResult != nil {
		dr := *w.DeployResult
		out.DeployResult = &dr
	}
	if w.PendingTx != nil {
		tx := *w.PendingTx
		out.PendingTx = &tx
	}
	return &out
}
