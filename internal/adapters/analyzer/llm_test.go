package analyzer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

func newTestAnalyzer(endpoint, apiKey string) *LLMAnalyzer {
	cfg := &config.RuntimeConfig{Project: &config.ProjectConfig{Analyzer: config.AnalyzerConfig{
		Enabled: true, Endpoint: endpoint, Model: "test-model", APIKey: apiKey,
	}}}
	return NewLLMAnalyzer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "test-model", req.Model)
			assert.Equal(t, "contract Token {}", req.Messages[1].Content)
		}

		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
			return
		}
		resp := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLLMAnalyzer_Analyze(t *testing.T) {
	content := "```json\n" + `{"summary":"Owner can mint without limit.","vulnerabilities":[{"severity":"Critical","title":"Unbounded mint","description":"mint has no cap"},{"severity":"info","title":"Floating pragma","description":"pin the version"}],"recommendations":["Add a supply cap"]}` + "\n```"
	srv := chatServer(t, http.StatusOK, content)

	result, err := newTestAnalyzer(srv.URL+"/", "secret").Analyze(context.Background(), usecase.AnalysisRequest{SourceText: "contract Token {}"})
	require.NoError(t, err)
	assert.Equal(t, "Owner can mint without limit.", result.Summary)
	require.Len(t, result.Vulnerabilities, 2)
	assert.Equal(t, domain.SeverityHigh, result.Vulnerabilities[0].Severity)
	assert.Equal(t, domain.SeverityLow, result.Vulnerabilities[1].Severity)
	assert.Equal(t, 1, result.CountBySeverity(domain.SeverityHigh))
	assert.Equal(t, []string{"Add a supply cap"}, result.Recommendations)
}

func TestLLMAnalyzer_UnparseableOutputYieldsDefault(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "I cannot review this contract.")

	result, err := newTestAnalyzer(srv.URL, "secret").Analyze(context.Background(), usecase.AnalysisRequest{SourceText: "contract Token {}"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAnalysisResult(), result)
}

func TestLLMAnalyzer_Errors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		srv := chatServer(t, http.StatusTooManyRequests, "")
		_, err := newTestAnalyzer(srv.URL, "secret").Analyze(context.Background(), usecase.AnalysisRequest{SourceText: "contract Token {}"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 429")
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := newTestAnalyzer("http://localhost", "").Analyze(context.Background(), usecase.AnalysisRequest{SourceText: "x"})
		assert.ErrorContains(t, err, "api key not configured")
	})
}

func TestParseReport(t *testing.T) {
	tests := []struct {
		name    string
		content string
		ok      bool
	}{
		{name: "plain object", content: `{"summary":"ok"}`, ok: true},
		{name: "prose around object", content: `Here you go: {"summary":"ok","vulnerabilities":[]} Thanks`, ok: true},
		{name: "missing summary", content: `{"vulnerabilities":[]}`},
		{name: "no object", content: "nothing to see"},
		{name: "broken json", content: `{"summary": "ok"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseReport(tt.content)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "ok", result.Summary)
				assert.NotNil(t, result.Vulnerabilities)
				assert.NotNil(t, result.Recommendations)
			}
		})
	}
}
