package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

var (
	liveStyle    = color.New(color.FgGreen)
	missingStyle = color.New(color.FgRed)
	erroredStyle = color.New(color.FgYellow)
	timeStyle    = color.New(color.Faint)
)

// HistoryRenderer renders deployment history tables
type HistoryRenderer struct {
	out io.Writer
}

// NewHistoryRenderer creates a new history renderer
func NewHistoryRenderer(out io.Writer) *HistoryRenderer {
	return &HistoryRenderer{out: out}
}

// Render prints the records as a table, newest first
func (r *HistoryRenderer) Render(result *usecase.ListHistoryResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintln(r.out, "No deployments recorded")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"Contract", "Network", "Address", "Tx", "Deployer", "When"})
	for _, rec := range result.Records {
		contract := rec.ContractName
		if rec.HighFindings > 0 {
			contract += missingStyle.Sprintf(" (%d high)", rec.HighFindings)
		}
		t.AppendRow(table.Row{
			contract,
			fmt.Sprintf("%s (%d)", rec.Network, rec.ChainID),
			addressStyle.Sprint(rec.ContractAddress),
			shortHex(rec.TransactionHash),
			shortHex(rec.Deployer),
			timeStyle.Sprint(rec.CreatedAt.Local().Format("2006-01-02 15:04")),
		})
	}
	t.Render()

	if result.Total > len(result.Records) {
		fmt.Fprintf(r.out, "\nShowing %d of %d deployments\n", len(result.Records), result.Total)
	}
	return nil
}

// RenderCheck prints the on-chain status of each record
func (r *HistoryRenderer) RenderCheck(result *usecase.CheckHistoryResult) error {
	if len(result.Checks) == 0 {
		fmt.Fprintln(r.out, "No deployments recorded")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"Contract", "Network", "Address", "Status", "Details"})
	for _, c := range result.Checks {
		status, details := checkStatus(c)
		t.AppendRow(table.Row{
			c.Record.ContractName,
			c.Record.Network,
			c.Record.ContractAddress,
			status,
			details,
		})
	}
	t.Render()

	fmt.Fprintf(r.out, "\n%s live, %s missing, %s unreachable\n",
		liveStyle.Sprint(result.Live),
		missingStyle.Sprint(result.Missing),
		erroredStyle.Sprint(result.Errored))
	return nil
}

// RenderCleared prints how many records were removed
func (r *HistoryRenderer) RenderCleared(n int) {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %d deployment records", n)))
}

func checkStatus(c *usecase.RecordCheck) (string, string) {
	switch {
	case c.NetworkErr != nil:
		return erroredStyle.Sprint("unreachable"), c.NetworkErr.Error()
	case c.CodeExists:
		details := ""
		if c.BlockNumber > 0 {
			details = fmt.Sprintf("tx in block %d", c.BlockNumber)
		}
		return liveStyle.Sprint("live"), details
	default:
		return missingStyle.Sprint("missing"), c.Reason
	}
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Format.Header = text.FormatUpper
	t.Style().Box.PaddingRight = "  "
	return t
}

var _ Renderer[*usecase.ListHistoryResult] = (*HistoryRenderer)(nil)
