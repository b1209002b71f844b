package cli

import (
	"log/slog"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/launchpad/internal/cli/render"
	"github.com/trebuchet-org/launchpad/internal/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from launchpad.toml",
		Long: `List all networks configured in the [networks] section of launchpad.toml.

This command shows all available networks and attempts to fetch their chain IDs.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), networksJSON(result))
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).
				WithRPCSources(rpcSources(app.Config.ProjectRoot, app.Log)).
				Render(result)
		},
	}

	return cmd
}

type networkJSON struct {
	Name        string `json:"name"`
	ChainID     uint64 `json:"chainId,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Default     bool   `json:"default,omitempty"`
	Error       string `json:"error,omitempty"`
}

func networksJSON(result *usecase.ListNetworksResult) []networkJSON {
	return lo.Map(result.Networks, func(n usecase.NetworkStatus, _ int) networkJSON {
		out := networkJSON{
			Name:        n.Name,
			ChainID:     n.ChainID,
			ExplorerURL: n.ExplorerURL,
			Default:     n.Name == result.Current,
		}
		if n.Error != nil {
			out.Error = n.Error.Error()
		}
		return out
	})
}

// rpcSources describes each network's RPC URL origin without expanding env
// references, so secrets in URLs are never printed.
func rpcSources(projectRoot string, log *slog.Logger) map[string]string {
	raw, err := config.LoadRawRPCEndpoints(projectRoot)
	if err != nil {
		log.Debug("could not read raw rpc endpoints", "error", err)
		return nil
	}
	return lo.MapValues(raw, func(value, name string) string {
		source, _ := config.RPCSource(value, name)
		return source
	})
}
