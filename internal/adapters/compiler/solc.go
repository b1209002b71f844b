package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// Runner executes the compiler binary with input on stdin and returns stdout
type Runner func(ctx context.Context, binary string, stdin []byte) ([]byte, error)

// SolcAdapter compiles Solidity through `solc --standard-json`
type SolcAdapter struct {
	log      *slog.Logger
	settings config.CompilerConfig
	run      Runner
}

// NewSolcAdapter creates a new solc compiler adapter
func NewSolcAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *SolcAdapter {
	settings := config.CompilerConfig{Solc: "solc"}
	if cfg.Project != nil {
		settings = cfg.Project.Compiler
	}
	return &SolcAdapter{
		log:      log.With("component", "SolcAdapter"),
		settings: settings,
		run:      runSolc,
	}
}

// WithRunner replaces the process runner
func (s *SolcAdapter) WithRunner(run Runner) *SolcAdapter {
	s.run = run
	return s
}

// Compile implements usecase.Compiler
func (s *SolcAdapter) Compile(ctx context.Context, req usecase.CompileRequest) (*domain.CompileResult, error) {
	sourceName := req.SourcePath
	if sourceName == "" {
		sourceName = req.ModuleName + ".sol"
	}

	input, err := json.Marshal(s.buildInput(sourceName, req.SourceText))
	if err != nil {
		return nil, fmt.Errorf("failed to encode solc input: %w", err)
	}

	start := time.Now()
	s.log.Debug("running solc", "binary", s.settings.Solc, "source", sourceName, "module", req.ModuleName)

	output, err := s.run(ctx, s.settings.Solc, input)
	if err != nil {
		return nil, err
	}
	s.log.Debug("solc finished", "duration", time.Since(start))

	return parseOutput(output, sourceName, req.ModuleName)
}

type standardInput struct {
	Language string                 `json:"language"`
	Sources  map[string]inputSource `json:"sources"`
	Settings inputSettings          `json:"settings"`
}

type inputSource struct {
	Content string `json:"content"`
}

type inputSettings struct {
	Optimizer       optimizer                      `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

type optimizer struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs,omitempty"`
}

func (s *SolcAdapter) buildInput(sourceName, source string) standardInput {
	return standardInput{
		Language: "Solidity",
		Sources:  map[string]inputSource{sourceName: {Content: source}},
		Settings: inputSettings{
			Optimizer:  optimizer{Enabled: s.settings.Optimize, Runs: s.settings.Runs},
			EVMVersion: s.settings.EVMVersion,
			OutputSelection: map[string]map[string][]string{
				"*": {"*": {"abi", "evm.bytecode.object"}},
			},
		},
	}
}

type standardOutput struct {
	Errors    []diagnostic                         `json:"errors"`
	Contracts map[string]map[string]outputContract `json:"contracts"`
}

type diagnostic struct {
	Severity         string `json:"severity"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
}

func (d diagnostic) text() string {
	if d.FormattedMessage != "" {
		return strings.TrimSpace(d.FormattedMessage)
	}
	return fmt.Sprintf("%s: %s", d.Type, d.Message)
}

type outputContract struct {
	ABI json.RawMessage `json:"abi"`
	EVM struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// parseOutput turns solc's standard JSON into a CompileResult. Compiler
// diagnostics become a failed result, never an error.
func parseOutput(output []byte, sourceName, module string) (*domain.CompileResult, error) {
	var out standardOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return nil, fmt.Errorf("failed to parse solc output: %w", err)
	}

	errs := lo.FilterMap(out.Errors, func(d diagnostic, _ int) (string, bool) {
		return d.text(), d.Severity == "error"
	})
	warnings := lo.FilterMap(out.Errors, func(d diagnostic, _ int) (string, bool) {
		return d.text(), d.Severity != "error"
	})
	if len(errs) > 0 {
		return &domain.CompileResult{Success: false, Warnings: warnings, Errors: errs}, nil
	}

	name, contract, err := selectContract(out.Contracts[sourceName], module)
	if err != nil {
		return &domain.CompileResult{Success: false, Warnings: warnings, Errors: []string{err.Error()}}, nil
	}

	abi, err := domain.ParseABI(contract.ABI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", name, err)
	}

	return &domain.CompileResult{
		Success:  true,
		ABI:      abi,
		Bytecode: "0x" + strings.TrimPrefix(contract.EVM.Bytecode.Object, "0x"),
		Warnings: warnings,
	}, nil
}

// selectContract picks the requested contract, or the only deployable one
func selectContract(contracts map[string]outputContract, module string) (string, outputContract, error) {
	if len(contracts) == 0 {
		return "", outputContract{}, errors.New("no contracts found in source")
	}

	if c, ok := contracts[module]; ok {
		if c.EVM.Bytecode.Object == "" {
			return "", outputContract{}, fmt.Errorf("%s is not deployable (abstract contract or interface)", module)
		}
		return module, c, nil
	}

	deployable := lo.Filter(lo.Keys(contracts), func(name string, _ int) bool {
		return contracts[name].EVM.Bytecode.Object != ""
	})
	sort.Strings(deployable)

	switch len(deployable) {
	case 0:
		return "", outputContract{}, errors.New("no deployable contract found in source")
	case 1:
		return deployable[0], contracts[deployable[0]], nil
	default:
		return "", outputContract{}, fmt.Errorf("contract %s not found; source defines %s", module, strings.Join(deployable, ", "))
	}
}

func runSolc(ctx context.Context, binary string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, "--standard-json")
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("solc not found (set [compiler] solc in launchpad.toml): %w", err)
		}
		// solc exits non-zero on some input errors but still writes JSON
		if stdout.Len() > 0 {
			return stdout.Bytes(), nil
		}
		return nil, fmt.Errorf("solc failed: %w\nOutput: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// Ensure the adapter implements the interface
var _ usecase.Compiler = (*SolcAdapter)(nil)
