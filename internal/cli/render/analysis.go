package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/launchpad/internal/domain"
)

var severityOrder = []domain.Severity{domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow}

// AnalysisRenderer renders risk analysis reports
type AnalysisRenderer struct {
	out io.Writer
}

// NewAnalysisRenderer creates a new analysis renderer
func NewAnalysisRenderer(out io.Writer) *AnalysisRenderer {
	return &AnalysisRenderer{out: out}
}

// Render prints the report grouped by severity
func (r *AnalysisRenderer) Render(result *domain.AnalysisResult) error {
	if result == nil {
		return nil
	}

	headerStyle.Fprintln(r.out, "Risk analysis")
	fmt.Fprintf(r.out, "  %s\n\n", result.Summary)

	if len(result.Vulnerabilities) == 0 {
		fmt.Fprintln(r.out, FormatSuccess("No findings"))
	}

	bySeverity := lo.GroupBy(result.Vulnerabilities, func(v domain.Vulnerability) domain.Severity { return v.Severity })
	for _, sev := range severityOrder {
		for _, v := range bySeverity[sev] {
			severityStyle(sev).Fprintf(r.out, "  [%s] ", sev)
			fmt.Fprintln(r.out, labelStyle.Sprint(v.Title))
			if v.Description != "" {
				fmt.Fprintf(r.out, "        %s\n", v.Description)
			}
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(r.out, "\nRecommendations:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(r.out, "  • %s\n", rec)
		}
	}
	fmt.Fprintln(r.out)
	return nil
}

func severityStyle(sev domain.Severity) *color.Color {
	switch sev {
	case domain.SeverityHigh:
		return color.New(color.FgRed, color.Bold)
	case domain.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

var _ Renderer[*domain.AnalysisResult] = (*AnalysisRenderer)(nil)
