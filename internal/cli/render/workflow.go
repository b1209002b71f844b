package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	stepLabel    = cases.Title(language.English)
	headerStyle  = color.New(color.FgCyan, color.Bold)
	labelStyle   = color.New(color.Bold)
	typeStyle    = color.New(color.FgBlue)
	faintStyle   = color.New(color.Faint)
	addressStyle = color.New(color.FgYellow, color.Bold)
)

// WorkflowRenderer renders the state and results of a deployment workflow
type WorkflowRenderer struct {
	out io.Writer
}

// NewWorkflowRenderer creates a new workflow renderer
func NewWorkflowRenderer(out io.Writer) *WorkflowRenderer {
	return &WorkflowRenderer{out: out}
}

// RenderSteps prints one line per workflow step
func (r *WorkflowRenderer) RenderSteps(state *domain.WorkflowState) {
	if state == nil {
		fmt.Fprintln(r.out, "No active deployment workflow")
		return
	}

	headerStyle.Fprintf(r.out, "Deploying %s\n", state.SubjectID)
	for i, step := range state.Steps {
		icon, style := stepIcon(step.Status)
		marker := "  "
		if i == state.CurrentStepIndex {
			marker = "▸ "
		}
		line := fmt.Sprintf("%s%s %s", marker, icon, stepLabel.String(string(step.ID)))
		if step.ErrorMessage != "" {
			line += faintStyle.Sprintf(" (%s)", firstLine(step.ErrorMessage))
		}
		style.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
}

func stepIcon(status domain.StepStatus) (string, *color.Color) {
	switch status {
	case domain.StepStatusCompleted:
		return "✓", color.New(color.FgGreen)
	case domain.StepStatusInProgress:
		return "●", color.New(color.FgYellow)
	case domain.StepStatusFailed:
		return "✗", color.New(color.FgRed)
	case domain.StepStatusSkipped:
		return "⊘", color.New(color.FgWhite, color.Faint)
	default:
		return "○", color.New(color.FgWhite)
	}
}

// RenderCompile prints compiler diagnostics and the constructor schema
func (r *WorkflowRenderer) RenderCompile(result *usecase.CompileSubjectResult) error {
	r.RenderDiagnostics(result.Result)
	if !result.Result.Success {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("compilation of %s failed", result.Subject.ContractName)))
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Compiled %s", result.Subject.ContractName)))
	fmt.Fprintf(r.out, "  Bytecode: %d bytes\n", (len(result.Result.Bytecode)-2)/2)
	if len(result.Params) == 0 {
		fmt.Fprintln(r.out, "  Constructor: no arguments")
		return nil
	}
	fmt.Fprintln(r.out, "  Constructor:")
	for _, p := range result.Params {
		fmt.Fprintf(r.out, "    %s %s\n", labelStyle.Sprint(p.Name), typeStyle.Sprint(p.Type))
	}
	return nil
}

// RenderDiagnostics prints compiler errors and warnings
func (r *WorkflowRenderer) RenderDiagnostics(result *domain.CompileResult) {
	if result == nil {
		return
	}
	for _, e := range result.Errors {
		color.New(color.FgRed).Fprintln(r.out, indent(e))
	}
	for _, w := range result.Warnings {
		color.New(color.FgYellow).Fprintln(r.out, indent(w))
	}
}

// RenderArguments lists constructor arguments with their current values
func (r *WorkflowRenderer) RenderArguments(args []domain.ConstructorArgument) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Constructor takes no arguments")
		return
	}
	fmt.Fprintln(r.out, "Constructor arguments:")
	for _, a := range args {
		value := a.Value
		if value == "" {
			value = faintStyle.Sprint("(empty)")
		}
		fmt.Fprintf(r.out, "  %s %s = %s\n", labelStyle.Sprint(a.Name), typeStyle.Sprintf("(%s)", a.Type), value)
	}
}

// RenderValidation lists the failing fields of a validation error
func (r *WorkflowRenderer) RenderValidation(err *domain.ValidationError) {
	for _, f := range err.Fields {
		color.New(color.FgRed).Fprintf(r.out, "❌ %s\n", f.Error())
	}
}

// RenderDeployment prints the outcome of a successful deployment
func (r *WorkflowRenderer) RenderDeployment(outcome *usecase.DeploymentOutcome, network *domain.Network) {
	result := outcome.Result
	fmt.Fprintln(r.out, FormatSuccess("Contract deployed"))
	fmt.Fprintf(r.out, "  Address:     %s\n", addressStyle.Sprint(result.ContractAddress))
	fmt.Fprintf(r.out, "  Transaction: %s\n", result.TransactionHash)
	fmt.Fprintf(r.out, "  Block:       %d\n", result.BlockNumber)
	if network != nil {
		fmt.Fprintf(r.out, "  Network:     %s (chain %d)\n", network.Name, network.ChainID)
		if network.ExplorerURL != "" {
			fmt.Fprintf(r.out, "  Explorer:    %s/address/%s\n", strings.TrimSuffix(network.ExplorerURL, "/"), result.ContractAddress)
		}
	}
	if outcome.HistoryErr != nil {
		fmt.Fprintln(r.out, FormatWarning(outcome.HistoryErr.Error()))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
