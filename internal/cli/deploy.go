package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/launchpad/internal/app"
	"github.com/trebuchet-org/launchpad/internal/cli/render"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/abitype"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

var errDeployCancelled = errors.New("deployment cancelled")

func errConfirmationRequired(action string) error {
	return fmt.Errorf("confirmation required to %s in non-interactive mode (pass --yes to proceed)", strings.ToLower(action))
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		argFlags []string
		argsFile string
	)

	cmd := &cobra.Command{
		Use:   "deploy <path[:Contract]>",
		Short: "Analyze, compile and deploy a contract",
		Long: `Run the guided deployment workflow for a contract.

Steps:
  analyze  optional risk report on the source (--analyze)
  compile  compile with solc; on errors you can fix the file and retry
  review   collect and validate constructor arguments
  deploy   check the wallet network, submit and wait for confirmation

Constructor arguments come from --arg flags, then --args-file, then an
interactive prompt for anything still missing. Array values are JSON arrays.`,
		Example: `  # Deploy interactively
  launchpad deploy src/Token.sol:Token

  # Fully scripted
  launchpad deploy src/Token.sol:Token -n sepolia --arg owner=0xf39F... --arg supply=1000000 --yes --non-interactive

  # Arguments from a file, with risk analysis
  launchpad deploy src/Vault.sol --args-file vault.yaml --analyze`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			provided, err := parseArgFlags(argFlags)
			if err != nil {
				return err
			}
			if argsFile != "" {
				fromFile, err := loadArgsFile(argsFile)
				if err != nil {
					return err
				}
				// Flags win over the file
				provided = fromFile.merge(provided)
			}

			run := newDeployRun(a, cmd.OutOrStdout())
			return run.execute(cmd.Context(), args[0], provided)
		},
	}

	cmd.Flags().Bool("analyze", false, "Run risk analysis before compiling")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
	cmd.Flags().StringArrayVar(&argFlags, "arg", nil, "Constructor argument as name=value (repeatable)")
	cmd.Flags().StringVar(&argsFile, "args-file", "", "YAML or JSON file mapping argument names to values")

	return cmd
}

// deployRun drives one DeployWorkflow session from the terminal
type deployRun struct {
	app         *app.App
	wf          *usecase.DeployWorkflow
	session     *usecase.Session
	prompter    usecase.InteractivePrompter
	out         io.Writer
	renderer    *render.WorkflowRenderer
	json        bool
	interactive bool
	yes         bool
}

func newDeployRun(a *app.App, out io.Writer) *deployRun {
	return &deployRun{
		app:         a,
		wf:          a.DeployWorkflow,
		session:     a.Session,
		prompter:    a.Prompter,
		out:         out,
		renderer:    render.NewWorkflowRenderer(out),
		json:        a.Config.JSON,
		interactive: !a.Config.NonInteractive,
		yes:         a.Config.Yes,
	}
}

// deployOutput is the JSON shape of a finished deployment
type deployOutput struct {
	Subject         string                       `json:"subject"`
	Network         *domain.Network              `json:"network"`
	ContractAddress string                       `json:"contractAddress"`
	TransactionHash string                       `json:"transactionHash"`
	BlockNumber     uint64                       `json:"blockNumber"`
	ConstructorArgs []domain.ConstructorArgument `json:"constructorArgs"`
	Analysis        *domain.AnalysisResult       `json:"analysis,omitempty"`
	HistoryID       string                       `json:"historyId,omitempty"`
	HistoryError    string                       `json:"historyError,omitempty"`
}

func (r *deployRun) execute(ctx context.Context, subjectID string, provided providedArgs) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.resetOnInterrupt(ctx, cancel)

	if err := r.startAndCompile(ctx, subjectID); err != nil {
		return err
	}
	if err := r.review(ctx, provided); err != nil {
		return err
	}
	network, err := r.chooseNetwork(ctx)
	if err != nil {
		return err
	}
	if err := r.confirmDeployment(ctx, network); err != nil {
		return err
	}

	outcome, err := r.deploy(ctx)
	if err != nil {
		return err
	}
	return r.renderOutcome(outcome)
}

// deploy runs the deploy step. When the transaction was sent but not
// confirmed, an interactive user can keep waiting on the same hash.
func (r *deployRun) deploy(ctx context.Context) (*usecase.DeploymentOutcome, error) {
	for {
		outcome, err := r.wf.RunDeployment(ctx, r.session)
		var pending *domain.PendingTransactionError
		if err == nil || !errors.As(err, &pending) || !r.interactive || ctx.Err() != nil {
			return outcome, err
		}

		fmt.Fprintln(r.out, render.FormatWarning(err.Error()))
		ok, cerr := r.prompter.Confirm(ctx, fmt.Sprintf("Keep waiting for transaction %s", pending.Tx.Hash))
		if cerr != nil {
			return nil, cerr
		}
		if !ok {
			return nil, err
		}
	}
}

// resetOnInterrupt discards the workflow on SIGINT/SIGTERM. In-flight
// collaborator calls see a cancelled context and their results are dropped.
func (r *deployRun) resetOnInterrupt(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			r.app.Log.Debug("interrupt received, resetting workflow")
			r.wf.Reset(r.session)
			cancel()
		case <-ctx.Done():
		}
	}()
}

func (r *deployRun) startAndCompile(ctx context.Context, subjectID string) error {
	analysis := r.app.Config.Analyze
	err := r.wf.Start(ctx, r.session, subjectID, analysis)
	if r.session.Snapshot() == nil {
		// The subject never loaded
		return err
	}

	if analysis {
		if err := r.afterAnalysis(ctx, err); err != nil {
			return err
		}
		err = r.wf.ContinueAfterAnalysis(ctx, r.session)
	}

	return r.compileUntilClean(ctx, err)
}

// afterAnalysis shows the report and asks whether to go on. A failed
// analysis can be skipped.
func (r *deployRun) afterAnalysis(ctx context.Context, analyzeErr error) error {
	if analyzeErr != nil {
		if !r.json {
			fmt.Fprintln(r.out, render.FormatWarning("Risk analysis failed: "+analyzeErr.Error()))
		}
		ok, err := r.confirm(ctx, "Continue without risk analysis")
		if err != nil || !ok {
			r.wf.Reset(r.session)
			return analyzeErr
		}
		return r.wf.SkipAnalysis(r.session)
	}

	st := r.session.Snapshot()
	if !r.json && st != nil && st.AnalysisResult != nil {
		if err := render.NewAnalysisRenderer(r.out).Render(st.AnalysisResult); err != nil {
			return err
		}
	}

	ok, err := r.confirm(ctx, "Continue to compilation")
	if err != nil {
		return err
	}
	if !ok {
		r.wf.Reset(r.session)
		return errDeployCancelled
	}
	return nil
}

// compileUntilClean renders compiler errors and, when interactive, waits
// for the user to fix the source before recompiling.
func (r *deployRun) compileUntilClean(ctx context.Context, compileErr error) error {
	for compileErr != nil {
		var cerr *domain.CompilationError
		if !errors.As(compileErr, &cerr) {
			return compileErr
		}
		if r.json {
			return compileErr
		}

		if st := r.session.Snapshot(); st != nil && st.CompileResult != nil {
			r.renderer.RenderDiagnostics(st.CompileResult)
		}
		if !r.interactive {
			return errors.New("compilation failed")
		}
		if err := r.prompter.WaitForEnter(ctx, "Fix the errors above and press Enter to recompile"); err != nil {
			return compileErr
		}
		compileErr = r.wf.RunCompilation(ctx, r.session)
	}

	if st := r.session.Snapshot(); !r.json && st != nil && st.CompileResult != nil && len(st.CompileResult.Warnings) > 0 {
		r.renderer.RenderDiagnostics(st.CompileResult)
	}
	return nil
}

// review fills constructor arguments from flags and prompts, validates them
// and closes the review step. With no constructor arguments the review
// completes immediately.
func (r *deployRun) review(ctx context.Context, provided providedArgs) error {
	st := r.session.Snapshot()
	if st == nil {
		return domain.ErrNoSession
	}

	args, unknown := provided.apply(st.ConstructorArgs)
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("unknown constructor arguments: %s", strings.Join(unknown, ", "))
	}

	for i := range args {
		if args[i].Value != "" {
			continue
		}
		value, err := r.promptArgument(ctx, args[i])
		if err != nil {
			return err
		}
		args[i].Value = value
	}

	for {
		err := r.wf.ValidateArguments(r.session, args)
		if err == nil {
			break
		}
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || !r.interactive {
			return err
		}
		r.renderer.RenderValidation(verr)
		for _, f := range verr.Fields {
			if f.Index < 0 || f.Index >= len(args) {
				return err
			}
			value, perr := r.promptArgument(ctx, args[f.Index])
			if perr != nil {
				return perr
			}
			args[f.Index].Value = value
		}
	}

	if !r.json && len(args) > 0 {
		r.renderer.RenderArguments(r.session.Snapshot().ConstructorArgs)
	}
	return r.wf.CompleteReview(r.session)
}

func (r *deployRun) promptArgument(ctx context.Context, arg domain.ConstructorArgument) (string, error) {
	if !r.interactive {
		return "", fmt.Errorf("missing value for constructor argument %s (%s); pass --arg %s=<value>", arg.Name, arg.Type, arg.Name)
	}
	return r.prompter.PromptArgument(ctx, arg, func(value string) error {
		return abitype.Validate(arg.Type, value)
	})
}

// chooseNetwork returns the session's target, asking for one when none was
// configured.
func (r *deployRun) chooseNetwork(ctx context.Context) (*domain.Network, error) {
	if n := r.session.Network(); n != nil {
		return n, nil
	}
	if !r.interactive {
		return nil, fmt.Errorf("%w: pass --network or set a default with 'launchpad config set network <name>'", domain.ErrNoTargetNetwork)
	}

	names := r.app.Networks.GetNetworks(ctx)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no networks configured in launchpad.toml", domain.ErrNoTargetNetwork)
	}
	name, err := r.prompter.SelectNetwork(ctx, names, "")
	if err != nil {
		return nil, err
	}
	network, err := r.app.Networks.ResolveNetwork(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", name, err)
	}
	if err := r.wf.SelectNetwork(r.session, network); err != nil {
		return nil, err
	}
	return network, nil
}

func (r *deployRun) confirmDeployment(ctx context.Context, network *domain.Network) error {
	st := r.session.Snapshot()
	if st == nil {
		return domain.ErrNoSession
	}
	ok, err := r.confirm(ctx, fmt.Sprintf("Deploy %s to %s (chain %d)", st.SubjectID, network.Name, network.ChainID))
	if err != nil {
		return err
	}
	if !ok {
		r.wf.Reset(r.session)
		return errDeployCancelled
	}
	return nil
}

// confirm asks a yes/no question unless --yes was given. Non-interactive
// runs without --yes refuse rather than guess.
func (r *deployRun) confirm(ctx context.Context, label string) (bool, error) {
	if r.yes {
		return true, nil
	}
	if !r.interactive {
		return false, errConfirmationRequired(label)
	}
	return r.prompter.Confirm(ctx, label)
}

func (r *deployRun) renderOutcome(outcome *usecase.DeploymentOutcome) error {
	st := r.session.Snapshot()
	network := r.session.Network()

	if r.json {
		out := deployOutput{
			Network:         network,
			ContractAddress: outcome.Result.ContractAddress,
			TransactionHash: outcome.Result.TransactionHash,
			BlockNumber:     outcome.Result.BlockNumber,
		}
		if st != nil {
			out.Subject = st.SubjectID
			out.ConstructorArgs = st.ConstructorArgs
			out.Analysis = st.AnalysisResult
		}
		if outcome.Record != nil {
			out.HistoryID = outcome.Record.ID
		}
		if outcome.HistoryErr != nil {
			out.HistoryError = outcome.HistoryErr.Error()
		}
		return render.RenderJSON(r.out, out)
	}

	if st != nil {
		r.renderer.RenderSteps(st)
	}
	r.renderer.RenderDeployment(outcome, network)
	return nil
}
