package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/launchdarkly/aria-at-harness/results"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// StatusString renders a status word, coloured when the console supports it.
func StatusString(s results.Status) string {
	switch s {
	case results.StatusPass:
		return color.New(color.FgGreen, color.Bold).Sprint(s.String())
	case results.StatusFail:
		return color.New(color.FgRed, color.Bold).Sprint(s.String())
	default:
		return color.New(color.FgYellow, color.Bold).Sprint(s.String())
	}
}

// PrintSummary writes a console table of every assertion result followed by the overall status.
func PrintSummary(out io.Writer, r SuiteReport) {
	fmt.Fprintf(out, "%s\n\n", r.Title)
	if len(r.Behaviors) == 0 {
		fmt.Fprintln(out, "No behaviors were tested.")
	}
	for _, b := range r.Behaviors {
		fmt.Fprintf(out, "After user performs task %q in %s mode: %s\n", b.Task, b.Mode, StatusString(b.Status))

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Status", "Assertion", "Passed", "Incorrect", "Incomplete"})
		for _, a := range b.AssertionResults {
			t.AppendRow(table.Row{
				StatusString(a.Status),
				a.Name,
				strings.Join(Commands(a.Details.Correct), ", "),
				strings.Join(Commands(a.Details.Incorrect), ", "),
				strings.Join(Commands(a.Details.Incomplete), ", "),
			})
		}
		t.Render()
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Test result: %s\n", StatusString(r.Status))
}

// SummaryReporter prints the console summary as its way of reporting.
type SummaryReporter struct {
	W io.Writer
}

func (s SummaryReporter) Report(r SuiteReport) error {
	PrintSummary(s.W, r)
	return nil
}
