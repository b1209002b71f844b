package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Subject is the unit of source content being compiled and deployed
type Subject struct {
	ID           string
	Path         string
	ContractName string
	Source       string
}

// ParseSubjectID splits "path/File.sol:Name" into its path and contract
// name. Without a ":Name" suffix the contract name is the file's base name.
func ParseSubjectID(id string) (path, contractName string) {
	path = id
	if i := strings.LastIndex(id, ":"); i > 0 && !strings.ContainsAny(id[i+1:], `/\`) {
		path, contractName = id[:i], id[i+1:]
	}
	if contractName == "" {
		base := filepath.Base(path)
		contractName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return path, contractName
}

// ConstructorArgument is one constructor parameter awaiting a value
type ConstructorArgument struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// CompileResult is the compiler's answer for a subject
type CompileResult struct {
	Success  bool     `json:"success"`
	ABI      *ABI     `json:"abi,omitempty"`
	Bytecode string   `json:"bytecode,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Validate checks that success implies ABI and bytecode, and failure implies
// neither plus at least one error.
func (r *CompileResult) Validate() error {
	if r.Success {
		if r.ABI == nil || r.Bytecode == "" {
			return fmt.Errorf("successful compile result is missing abi or bytecode")
		}
		return nil
	}
	if r.ABI != nil || r.Bytecode != "" {
		return fmt.Errorf("failed compile result must not carry abi or bytecode")
	}
	if len(r.Errors) == 0 {
		return fmt.Errorf("failed compile result has no errors")
	}
	return nil
}

// Severity of an analysis finding
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Vulnerability is one risk analysis finding
type Vulnerability struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// AnalysisResult is the risk analyzer's report
type AnalysisResult struct {
	Summary         string          `json:"summary"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Recommendations []string        `json:"recommendations"`
}

// CountBySeverity returns the number of findings with the given severity
func (a *AnalysisResult) CountBySeverity(sev Severity) int {
	if a == nil {
		return 0
	}
	n := 0
	for _, v := range a.Vulnerabilities {
		if v.Severity == sev {
			n++
		}
	}
	return n
}

// DefaultAnalysisResult is returned when the analyzer output cannot be read
func DefaultAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Summary:         "Automated analysis did not produce a readable report.",
		Vulnerabilities: []Vulnerability{},
		Recommendations: []string{"Perform a manual review of the contract before deploying."},
	}
}

// DeployResult identifies a deployed contract
type DeployResult struct {
	ContractAddress string `json:"contractAddress"`
	TransactionHash string `json:"transactionHash"`
	BlockNumber     uint64 `json:"blockNumber"`
}

// PendingTransaction identifies a deployment transaction that was broadcast
// but not yet confirmed. From and Nonce determine the contract address.
type PendingTransaction struct {
	Hash  string `json:"hash"`
	From  string `json:"from"`
	Nonce uint64 `json:"nonce"`
}

// Network is a deployment target
type Network struct {
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ChainID     uint64 `json:"chainId"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// HistoryRecord is the persisted trace of one successful deployment
type HistoryRecord struct {
	ID              string                `json:"id" yaml:"id"`
	SubjectID       string                `json:"subjectId" yaml:"subjectId"`
	ContractName    string                `json:"contractName" yaml:"contractName"`
	Network         string                `json:"network" yaml:"network"`
	ChainID         uint64                `json:"chainId" yaml:"chainId"`
	ContractAddress string                `json:"contractAddress" yaml:"contractAddress"`
	TransactionHash string                `json:"transactionHash" yaml:"transactionHash"`
	BlockNumber     uint64                `json:"blockNumber" yaml:"blockNumber"`
	Deployer        string                `json:"deployer" yaml:"deployer"`
	ConstructorArgs []ConstructorArgument `json:"constructorArgs,omitempty" yaml:"constructorArgs,omitempty"`
	Analyzed        bool                  `json:"analyzed" yaml:"analyzed"`
	HighFindings    int                   `json:"highFindings,omitempty" yaml:"highFindings,omitempty"`
	CreatedAt       time.Time             `json:"createdAt" yaml:"createdAt"`
}

// HistoryFilter narrows a history listing
type HistoryFilter struct {
	Network string
	ChainID uint64
}

// Matches reports whether a record passes the filter
func (f HistoryFilter) Matches(r *HistoryRecord) bool {
	if f.Network != "" && r.Network != f.Network {
		return false
	}
	if f.ChainID != 0 && r.ChainID != f.ChainID {
		return false
	}
	return true
}
