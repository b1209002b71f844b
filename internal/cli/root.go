package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/launchpad/internal/adapters/progress"
	"github.com/trebuchet-org/launchpad/internal/app"
	"github.com/trebuchet-org/launchpad/internal/config"
	domainconfig "github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/logging"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "launchpad",
		Short: "Guided smart contract deployment",
		Long: `Launchpad walks a contract from source to chain: optional risk analysis,
compilation, constructor argument review and a confirmed deployment from
your configured wallet.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot)
			bindGlobalFlags(v, cmd)

			appInstance, err := app.InitApp(v, newProgressSink(v))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., mainnet, sepolia)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall command timeout (e.g. 10m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{NewDeployCmd(), NewCompileCmd(), NewValidateCmd()} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewHistoryCmd(), NewNetworksCmd(), NewConfigCmd()} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether cmd runs without a project
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "validate":
		return true
	}
	return false
}

// newProgressSink picks the progress output for the run mode. JSON output
// must stay clean, and non-interactive runs log instead of animating.
func newProgressSink(v *viper.Viper) usecase.ProgressSink {
	switch {
	case v.GetBool("json"):
		return progress.NewNopSink()
	case v.GetBool("non_interactive"):
		return progress.NewLogSink(logging.NewLogger(&domainconfig.RuntimeConfig{Debug: v.GetBool("debug")}))
	default:
		return progress.NewSpinnerProgressReporter()
	}
}

// globalFlagKeys maps flag names to viper keys
var globalFlagKeys = map[string]string{
	"debug":           "debug",
	"non-interactive": "non_interactive",
	"json":            "json",
	"network":         "network",
	"timeout":         "timeout",
	"analyze":         "analyze",
	"yes":             "yes",
}

// bindGlobalFlags copies flags that were set on the command line into viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := globalFlagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
