package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/launchpad/internal/cli/render"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage launchpad local config",
		Long: `Manage launchpad local config stored in .launchpad/config.local.json

The config defines default values for network and analyze
that are used when these flags are not explicitly provided.

Available subcommands:
  config           Show current config
  config set       Set a config value
  config remove    Remove a config value

When run without subcommands, displays the current config.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	}

	cmd.AddCommand(NewConfigShowCmd())
	cmd.AddCommand(NewConfigSetCmd())
	cmd.AddCommand(NewConfigRemoveCmd())

	return cmd
}

// NewConfigShowCmd creates the config show subcommand
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Show the current config",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	}
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a config value in .launchpad/config.local.json.
Available keys: network, analyze

Examples:
  launchpad config set network sepolia
  launchpad config set analyze true`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{
				Key:   args[0],
				Value: args[1],
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result.UpdatedConfig)
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderSet(result)
		},
	}
}

// NewConfigRemoveCmd creates the config remove subcommand
func NewConfigRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a config value",
		Long: `Remove a config value from .launchpad/config.local.json.
Removing network makes it unspecified (prompted for, or required as a flag).
Removing analyze turns risk analysis off unless launchpad.toml enables it.

Examples:
  launchpad config remove network
  launchpad config remove analyze`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{
				Key: args[0],
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result.UpdatedConfig)
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderRemove(result)
		},
	}
}

// showConfig displays the current configuration
func showConfig(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.RenderJSON(cmd.OutOrStdout(), configJSON{
			Network:           result.Config.Network,
			NetworkConfigured: result.NetworkConfigured,
			Analyze:           result.Analyze,
			AnalyzeSource:     result.AnalyzeSource,
			Path:              result.ConfigPath,
			Exists:            result.Exists,
		})
	}
	return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
}

type configJSON struct {
	Network           string `json:"network,omitempty"`
	NetworkConfigured bool   `json:"networkConfigured"`
	Analyze           bool   `json:"analyze"`
	AnalyzeSource     string `json:"analyzeSource"`
	Path              string `json:"path"`
	Exists            bool   `json:"exists"`
}
