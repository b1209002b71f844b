package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/launchpad/internal/cli/render"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <path[:Contract]>",
		Short: "Compile a contract and show its constructor",
		Long: `Compile a contract with the configured solc without deploying it.

Prints compiler warnings and errors and the constructor parameters the
deploy command will ask for.`,
		Example: `  launchpad compile src/Token.sol
  launchpad compile src/Token.sol:Token --json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CompileSubject.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if app.Config.JSON {
				if err := render.RenderJSON(cmd.OutOrStdout(), newCompileOutput(result)); err != nil {
					return err
				}
			} else if err := render.NewWorkflowRenderer(cmd.OutOrStdout()).RenderCompile(result); err != nil {
				return err
			}

			if !result.Result.Success {
				return errors.New("compilation failed")
			}
			return nil
		},
	}
}

// compileOutput is the JSON shape of a standalone compile
type compileOutput struct {
	Subject     string          `json:"subject"`
	Contract    string          `json:"contract"`
	Success     bool            `json:"success"`
	ABI         json.RawMessage `json:"abi,omitempty"`
	Bytecode    string          `json:"bytecode,omitempty"`
	Constructor []domain.Param  `json:"constructor"`
	Warnings    []string        `json:"warnings,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

func newCompileOutput(result *usecase.CompileSubjectResult) compileOutput {
	out := compileOutput{
		Subject:     result.Subject.ID,
		Contract:    result.Subject.ContractName,
		Success:     result.Result.Success,
		Bytecode:    result.Result.Bytecode,
		Constructor: result.Params,
		Warnings:    result.Result.Warnings,
		Errors:      result.Result.Errors,
	}
	if out.Constructor == nil {
		out.Constructor = []domain.Param{}
	}
	if result.Result.ABI != nil {
		out.ABI = result.Result.ABI.Raw
	}
	return out
}
