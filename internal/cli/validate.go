package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/launchpad/internal/cli/render"
	"github.com/trebuchet-org/launchpad/internal/domain/abitype"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <type> <value>",
		Short: "Check a value against a Solidity type",
		Long: `Check that text is a valid value for a Solidity ABI type and print the
value it converts to. Uses the same rules as constructor argument review.

Array values are JSON arrays.`,
		Example: `  launchpad validate uint8 255
  launchpad validate address 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
  launchpad validate 'uint256[2]' '["1", "2"]'`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, value := args[0], args[1]
			asJSON, _ := cmd.Flags().GetBool("json")

			converted, err := abitype.Convert(typ, value)
			if err != nil {
				if asJSON {
					_ = render.RenderJSON(cmd.OutOrStdout(), map[string]any{
						"type":  typ,
						"valid": false,
						"error": err.Error(),
					})
				}
				return fmt.Errorf("invalid %s: %w", typ, err)
			}

			if asJSON {
				return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
					"type":  typ,
					"valid": true,
					"value": converted,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("valid %s", abitype.ParseTag(typ))))
			fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", converted)
			return nil
		},
	}

	return cmd
}
