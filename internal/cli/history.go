package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/launchpad/internal/cli/render"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past deployments",
		Long: `Show deployments recorded by launchpad deploy.

Available subcommands:
  history          List recorded deployments
  history check    Check that recorded contracts still exist on-chain
  history clear    Delete all recorded deployments

Use --network to restrict any of these to one network.`,
		SilenceUsage: true,
		RunE:         runHistoryList,
	}
	cmd.Flags().Int("limit", 0, "Show at most this many deployments (newest first)")

	list := &cobra.Command{
		Use:          "list",
		Short:        "List recorded deployments",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runHistoryList,
	}
	list.Flags().Int("limit", 0, "Show at most this many deployments (newest first)")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check recorded deployments on-chain",
		Long: `Connect to each network in the history and check that every recorded
contract still has code and its deployment transaction is known.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CheckHistory.Run(cmd.Context(), usecase.CheckHistoryParams{
				Network: networkFilter(cmd),
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewHistoryRenderer(cmd.OutOrStdout()).RenderCheck(result)
		},
	})

	clearCmd := &cobra.Command{
		Use:          "clear",
		Short:        "Delete all recorded deployments",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if !app.Config.Yes {
				if app.Config.NonInteractive {
					return errConfirmationRequired("clear deployment history")
				}
				ok, err := app.Prompter.Confirm(cmd.Context(), "Delete all recorded deployments")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			n, err := app.ClearHistory.Run(cmd.Context())
			if err != nil {
				return err
			}
			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), map[string]int{"removed": n})
			}
			render.NewHistoryRenderer(cmd.OutOrStdout()).RenderCleared(n)
			return nil
		},
	}
	clearCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	cmd.AddCommand(clearCmd)

	return cmd
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	result, err := app.ListHistory.Run(cmd.Context(), usecase.ListHistoryParams{
		Network: networkFilter(cmd),
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.RenderJSON(cmd.OutOrStdout(), result.Records)
	}
	return render.NewHistoryRenderer(cmd.OutOrStdout()).Render(result)
}

// networkFilter returns the network named on the command line. The
// configured default network does not filter history.
func networkFilter(cmd *cobra.Command) string {
	if f := cmd.Flag("network"); f != nil && f.Changed {
		return f.Value.String()
	}
	return ""
}
