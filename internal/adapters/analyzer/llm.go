package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

const (
	httpTimeout = 2 * time.Minute
	// maxErrorBody bounds how much of an error response ends up in messages
	maxErrorBody = 512
)

const systemPrompt = `You are a smart contract security auditor. Review the Solidity source you are given and reply with a single JSON object and nothing else:
{"summary": string, "vulnerabilities": [{"severity": "high"|"medium"|"low", "title": string, "description": string}], "recommendations": [string]}`

// LLMAnalyzer asks an OpenAI-compatible chat completions endpoint for a risk
// report on contract source.
type LLMAnalyzer struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	log      *slog.Logger
}

// NewLLMAnalyzer creates a new analyzer from the [analyzer] configuration
func NewLLMAnalyzer(cfg *config.RuntimeConfig, log *slog.Logger) *LLMAnalyzer {
	var settings config.AnalyzerConfig
	if cfg.Project != nil {
		settings = cfg.Project.Analyzer
	}
	return &LLMAnalyzer{
		endpoint: strings.TrimSuffix(settings.Endpoint, "/"),
		model:    settings.Model,
		apiKey:   settings.APIKey,
		client:   &http.Client{Timeout: httpTimeout},
		log:      log.With("component", "LLMAnalyzer"),
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze implements usecase.Analyzer
func (a *LLMAnalyzer) Analyze(ctx context.Context, req usecase.AnalysisRequest) (*domain.AnalysisResult, error) {
	if a.apiKey == "" {
		return nil, errors.New("analyzer api key not configured (set [analyzer] api_key in launchpad.toml)")
	}
	if a.endpoint == "" {
		return nil, errors.New("analyzer endpoint not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.SourceText},
		},
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	start := time.Now()
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis response: %w", err)
	}
	a.log.Debug("analysis response", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, strings.TrimSpace(msg))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	if chat.Error != nil {
		return nil, fmt.Errorf("analyzer error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		a.log.Warn("analyzer returned no choices, using default report")
		return domain.DefaultAnalysisResult(), nil
	}

	result, ok := ParseReport(chat.Choices[0].Message.Content)
	if !ok {
		a.log.Warn("could not parse analyzer output, using default report")
		return domain.DefaultAnalysisResult(), nil
	}
	return result, nil
}

// ParseReport extracts a report from model output. Output wrapped in a code
// fence or surrounded by prose is accepted as long as it holds one JSON
// object with a summary.
func ParseReport(content string) (*domain.AnalysisResult, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return nil, false
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, false
	}

	result.Vulnerabilities = lo.Map(result.Vulnerabilities, func(v domain.Vulnerability, _ int) domain.Vulnerability {
		v.Severity = normalizeSeverity(v.Severity)
		return v
	})
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	return &result, true
}

func normalizeSeverity(s domain.Severity) domain.Severity {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "critical", "high":
		return domain.SeverityHigh
	case "medium", "moderate":
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// Ensure the adapter implements the interface
var _ usecase.Analyzer = (*LLMAnalyzer)(nil)
