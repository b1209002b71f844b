package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkflowState(t *testing.T) {
	t.Run("with analysis", func(t *testing.T) {
		w := NewWorkflowState("src/Token.sol:Token", true)
		ids := make([]StepID, len(w.Steps))
		for i, s := range w.Steps {
			ids[i] = s.ID
			assert.Equal(t, StepStatusPending, s.Status)
		}
		assert.Equal(t, []StepID{StepAnalyze, StepCompile, StepReview, StepDeploy, StepDone}, ids)
		assert.Equal(t, 0, w.CurrentStepIndex)
		assert.True(t, w.AnalysisEnabled)
	})

	t.Run("without analysis", func(t *testing.T) {
		w := NewWorkflowState("src/Token.sol:Token", false)
		require.Len(t, w.Steps, 4)
		assert.Equal(t, StepCompile, w.Steps[0].ID)
		assert.Equal(t, -1, w.StepIndex(StepAnalyze))
		assert.Equal(t, StepStatus(""), w.StepStatus(StepAnalyze))
	})
}

func TestSetStepStatus_CursorRule(t *testing.T) {
	w := NewWorkflowState("s", true)

	w.SetStepStatus(StepAnalyze, StepStatusInProgress, "")
	assert.Equal(t, 0, w.CurrentStepIndex)

	w.SetStepStatus(StepAnalyze, StepStatusCompleted, "")
	assert.Equal(t, 1, w.CurrentStepIndex)

	w.SetStepStatus(StepCompile, StepStatusFailed, "boom")
	assert.Equal(t, 1, w.CurrentStepIndex)
	step, _ := w.Step(StepCompile)
	assert.Equal(t, "boom", step.ErrorMessage)

	w.SetStepStatus(StepCompile, StepStatusInProgress, "")
	step, _ = w.Step(StepCompile)
	assert.Empty(t, step.ErrorMessage)

	w.SetStepStatus(StepCompile, StepStatusCompleted, "")
	assert.Equal(t, 2, w.CurrentStepIndex)

	// Touching an earlier step never moves the cursor back
	w.SetStepStatus(StepAnalyze, StepStatusFailed, "late")
	assert.Equal(t, 2, w.CurrentStepIndex)

	current, ok := w.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, StepReview, current.ID)
}

func TestSetStepStatus_SkippedAdvances(t *testing.T) {
	w := NewWorkflowState("s", true)
	w.SetStepStatus(StepAnalyze, StepStatusSkipped, "")
	assert.Equal(t, 1, w.CurrentStepIndex)
	assert.True(t, StepStatusSkipped.Finished())
	assert.False(t, StepStatusFailed.Finished())
}

func TestWorkflowState_Complete(t *testing.T) {
	w := NewWorkflowState("s", false)
	for _, id := range []StepID{StepCompile, StepReview, StepDeploy, StepDone} {
		w.SetStepStatus(id, StepStatusCompleted, "")
	}
	assert.True(t, w.IsComplete())
	_, ok := w.CurrentStep()
	assert.False(t, ok)
}

func TestWorkflowState_Clone(t *testing.T) {
	w := NewWorkflowState("s", false)
	w.ConstructorArgs = []ConstructorArgument{{Name: "a", Type: "uint256", Value: "1"}}
	w.DeployResult = &DeployResult{ContractAddress: "0x1"}

	c := w.Clone()
	c.Steps[0].Status = StepStatusFailed
	c.ConstructorArgs[0].Value = "2"
	c.DeployResult.ContractAddress = "0x2"

	assert.Equal(t, StepStatusPending, w.Steps[0].Status)
	assert.Equal(t, "1", w.ConstructorArgs[0].Value)
	assert.Equal(t, "0x1", w.DeployResult.ContractAddress)

	var nilState *WorkflowState
	assert.Nil(t, nilState.Clone())
}
