package render

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

func init() {
	color.NoColor = true
}

func TestWorkflowRenderer_RenderSteps(t *testing.T) {
	st := domain.NewWorkflowState("src/Token.sol:Token", true)
	st.SetStepStatus(domain.StepAnalyze, domain.StepStatusSkipped, "")
	st.SetStepStatus(domain.StepCompile, domain.StepStatusFailed, "ParserError: Expected ';'\n  --> src/Token.sol:3:1")

	var buf bytes.Buffer
	NewWorkflowRenderer(&buf).RenderSteps(st)
	out := buf.String()

	assert.Contains(t, out, "Deploying src/Token.sol:Token")
	assert.Contains(t, out, "⊘ Analyze")
	assert.Contains(t, out, "▸ ✗ Compile (ParserError: Expected ';')")
	assert.NotContains(t, out, "-->")
	assert.Contains(t, out, "○ Review")
}

func TestWorkflowRenderer_RenderArguments(t *testing.T) {
	var buf bytes.Buffer
	r := NewWorkflowRenderer(&buf)

	r.RenderArguments(nil)
	assert.Contains(t, buf.String(), "Constructor takes no arguments")

	buf.Reset()
	r.RenderArguments([]domain.ConstructorArgument{
		{Name: "owner", Type: "address", Value: "0x1"},
		{Name: "supply", Type: "uint256"},
	})
	assert.Contains(t, buf.String(), "owner (address) = 0x1")
	assert.Contains(t, buf.String(), "supply (uint256) = (empty)")
}

func TestWorkflowRenderer_RenderDeployment(t *testing.T) {
	var buf bytes.Buffer
	outcome := &usecase.DeploymentOutcome{
		Result:     &domain.DeployResult{ContractAddress: "0xabc", TransactionHash: "0xdef", BlockNumber: 9},
		HistoryErr: &domain.PersistenceError{Cause: errors.New("disk full")},
	}
	network := &domain.Network{Name: "sepolia", ChainID: 11155111, ExplorerURL: "https://sepolia.etherscan.io/"}

	NewWorkflowRenderer(&buf).RenderDeployment(outcome, network)
	out := buf.String()

	assert.Contains(t, out, "Address:     0xabc")
	assert.Contains(t, out, "Block:       9")
	assert.Contains(t, out, "https://sepolia.etherscan.io/address/0xabc")
	assert.Contains(t, out, "disk full")
}

func TestAnalysisRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	err := NewAnalysisRenderer(&buf).Render(&domain.AnalysisResult{
		Summary: "Two issues",
		Vulnerabilities: []domain.Vulnerability{
			{Severity: domain.SeverityLow, Title: "Floating pragma"},
			{Severity: domain.SeverityHigh, Title: "Reentrancy", Description: "withdraw calls out before updating balance"},
		},
		Recommendations: []string{"Use a reentrancy guard"},
	})
	require.NoError(t, err)
	out := buf.String()

	// High findings come first regardless of input order
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Reentrancy")), bytes.Index(buf.Bytes(), []byte("Floating pragma")))
	assert.Contains(t, out, "[high] Reentrancy")
	assert.Contains(t, out, "• Use a reentrancy guard")
}

func TestHistoryRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewHistoryRenderer(&buf)

	require.NoError(t, r.Render(&usecase.ListHistoryResult{}))
	assert.Contains(t, buf.String(), "No deployments recorded")

	buf.Reset()
	rec := &domain.HistoryRecord{
		ContractName:    "Token",
		Network:         "sepolia",
		ChainID:         11155111,
		ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		TransactionHash: "0x1111111111111111111111111111111111111111111111111111111111111111",
		Deployer:        "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		HighFindings:    2,
		CreatedAt:       time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC),
	}
	require.NoError(t, r.Render(&usecase.ListHistoryResult{Records: []*domain.HistoryRecord{rec}, Total: 3}))
	out := buf.String()
	assert.Contains(t, out, "CONTRACT")
	assert.Contains(t, out, "Token (2 high)")
	assert.Contains(t, out, "sepolia (11155111)")
	assert.Contains(t, out, "Showing 1 of 3 deployments")

	buf.Reset()
	require.NoError(t, r.RenderCheck(&usecase.CheckHistoryResult{
		Checks: []*usecase.RecordCheck{
			{Record: rec, CodeExists: true, BlockNumber: 12},
			{Record: rec, Reason: "no code at address"},
			{Record: rec, NetworkErr: errors.New("dial failed")},
		},
		Live: 1, Missing: 1, Errored: 1,
	}))
	out = buf.String()
	assert.Contains(t, out, "tx in block 12")
	assert.Contains(t, out, "no code at address")
	assert.Contains(t, out, "dial failed")
	assert.Contains(t, out, "1 live, 1 missing, 1 unreachable")
}

func TestNetworksRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewNetworksRenderer(&buf).Render(&usecase.ListNetworksResult{
		Current: "sepolia",
		Networks: []usecase.NetworkStatus{
			{Name: "mainnet", Error: errors.New("rpc unreachable")},
			{Name: "sepolia", ChainID: 11155111},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "mainnet - Error: rpc unreachable")
	assert.Contains(t, buf.String(), "sepolia (default) - Chain ID: 11155111")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, map[string]int{"removed": 2}))
	assert.JSONEq(t, `{"removed": 2}`, buf.String())

	assert.Error(t, RenderJSON(&buf, make(chan int)))
}

func TestWorkflowRenderer_RenderCompile(t *testing.T) {
	var buf bytes.Buffer
	r := NewWorkflowRenderer(&buf)

	subject := &domain.Subject{ID: "src/Token.sol", ContractName: "Token"}
	require.NoError(t, r.RenderCompile(&usecase.CompileSubjectResult{
		Subject: subject,
		Result:  &domain.CompileResult{Errors: []string{"TypeError: nope"}},
	}))
	assert.Contains(t, buf.String(), "TypeError: nope")
	assert.Contains(t, buf.String(), "❌ Compilation of Token failed")

	buf.Reset()
	require.NoError(t, r.RenderCompile(&usecase.CompileSubjectResult{
		Subject: subject,
		Result:  &domain.CompileResult{Success: true, ABI: &domain.ABI{}, Bytecode: "0x60806040"},
		Params:  []domain.Param{{Name: "owner", Type: "address"}},
	}))
	assert.Contains(t, buf.String(), "Compiled Token")
	assert.Contains(t, buf.String(), "Bytecode: 4 bytes")
	assert.Contains(t, buf.String(), "owner address")
}

func TestWorkflowRenderer_RenderValidation(t *testing.T) {
	var buf bytes.Buffer
	NewWorkflowRenderer(&buf).RenderValidation(&domain.ValidationError{Fields: []domain.FieldError{
		{Index: 0, Name: "owner", Type: "address", Message: "must be a 20-byte hex address"},
	}})
	assert.Contains(t, buf.String(), "owner (address): must be a 20-byte hex address")
}

func TestNetworksRenderer_RPCSources(t *testing.T) {
	var buf bytes.Buffer
	err := NewNetworksRenderer(&buf).
		WithRPCSources(map[string]string{"sepolia": "$SEPOLIA_RPC_URL"}).
		Render(&usecase.ListNetworksResult{
			Networks: []usecase.NetworkStatus{{Name: "sepolia", ChainID: 11155111}},
		})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "rpc: $SEPOLIA_RPC_URL")
}

func TestConfigRenderer_RenderConfig(t *testing.T) {
	var buf bytes.Buffer
	err := NewConfigRenderer(&buf).RenderConfig(&usecase.ShowConfigResult{
		Config:        &config.LocalConfig{Network: "goerli"},
		ConfigPath:    "/tmp/project/.launchpad/config.local.json",
		Exists:        true,
		Analyze:       true,
		AnalyzeSource: usecase.AnalyzeSourceProject,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Network: goerli")
	assert.Contains(t, out, "network goerli is not defined in launchpad.toml")
	assert.Contains(t, out, "Analyze: true (launchpad.toml)")
}
