package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// SpinnerProgressReporter renders workflow progress as a spinner trailed by
// the stages seen so far.
type SpinnerProgressReporter struct {
	mu           sync.Mutex
	out          io.Writer
	spinner      *spinner.Spinner
	stages       []stageInfo
	currentStage usecase.ExecutionStage
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Message   string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
		stages:  []stageInfo{},
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != "" && event.Stage != r.currentStage {
		r.enterStage(event.Stage)
	}
	if len(r.stages) > 0 {
		r.stages[len(r.stages)-1].Message = event.Message
	}

	switch {
	case event.Stage == usecase.StageCompleted || event.Stage == usecase.StageFailed:
		r.spinner.Stop()
		r.printLine(r.stageColor(event.Stage), r.trail())
	case event.Spinner:
		r.spinner.Suffix = " " + r.trail()
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	default:
		if r.spinner.Active() {
			r.spinner.Stop()
		}
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printLine(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printLine(color.New(color.FgRed), message)
}

// printLine writes a line without tearing the spinner
func (r *SpinnerProgressReporter) printLine(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// enterStage closes the running stage and opens the next one
func (r *SpinnerProgressReporter) enterStage(stage usecase.ExecutionStage) {
	now := time.Now()
	if len(r.stages) > 0 {
		idx := len(r.stages) - 1
		r.stages[idx].EndTime = now
		r.stages[idx].Status = "completed"
		if stage == usecase.StageFailed {
			r.stages[idx].Status = "failed"
		}
	}

	r.currentStage = stage
	if stage == usecase.StageFailed {
		return
	}
	r.stages = append(r.stages, stageInfo{
		Stage:     stage,
		StartTime: now,
		Status:    "running",
	})
	if stage == usecase.StageCompleted {
		r.stages[len(r.stages)-1].Status = "completed"
	}
}

func (r *SpinnerProgressReporter) stageColor(stage usecase.ExecutionStage) *color.Color {
	if stage == usecase.StageFailed {
		return color.New(color.FgRed)
	}
	return color.New(color.FgGreen)
}

// trail renders "✓ Compiling (1.2s) → ● Deploying: message"
func (r *SpinnerProgressReporter) trail() string {
	parts := make([]string, 0, len(r.stages))
	for i, stage := range r.stages {
		var icon string
		var stageColor *color.Color

		switch stage.Status {
		case "completed":
			icon = "✓"
			stageColor = color.New(color.FgGreen)
		case "running":
			icon = "●"
			stageColor = color.New(color.FgYellow)
		case "failed":
			icon = "✗"
			stageColor = color.New(color.FgRed)
		default:
			icon = "○"
			stageColor = color.New(color.FgWhite)
		}

		duration := ""
		if !stage.EndTime.IsZero() {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		}

		part := fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(string(stage.Stage)), duration)
		if i == len(r.stages)-1 && stage.Message != "" {
			part += ": " + stage.Message
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " → ")
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
