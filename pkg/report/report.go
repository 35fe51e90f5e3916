// Package report formats run summaries for the terminal and for external
// publishing. Pure formatting; no control logic lives here.
package report

import (
	"fmt"
	"strings"

	"github.com/cgast/netintent/pkg/experiment"
)

const rule = "======================================================================"

// Render formats a summary as the final-results block printed after a run.
func Render(sum experiment.Summary) string {
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(" FINAL RESULTS\n")
	b.WriteString(rule + "\n")

	for i, r := range sum.Results {
		status := "[FAIL]"
		if r.Success {
			status = "[PASS]"
		}
		fmt.Fprintf(&b, "\n %d. %s %s\n", i+1, status, r.Intent.Text)
		fmt.Fprintf(&b, "    Attempts: %d\n", r.Attempts)
		if r.Command != "" {
			fmt.Fprintf(&b, "    Command:  %s\n", r.Command)
		}
	}

	fmt.Fprintf(&b, "\n Success Rate: %.0f%%\n", sum.SuccessRate()*100)
	return b.String()
}

// Markdown formats a summary as a markdown report suitable for an issue
// body.
func Markdown(sum experiment.Summary) string {
	var b strings.Builder
	b.WriteString("## Intent verification run\n\n")
	if !sum.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Started: %s\n\n", sum.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	b.WriteString("| # | Result | Intent | Attempts | Command |\n")
	b.WriteString("|---|--------|--------|----------|---------|\n")
	for i, r := range sum.Results {
		status := "FAIL"
		if r.Success {
			status = "PASS"
		}
		command := "-"
		if r.Command != "" {
			command = "`" + r.Command + "`"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %s |\n", i+1, status, r.Intent.Text, r.Attempts, command)
	}
	fmt.Fprintf(&b, "\n**Success rate: %.0f%%** (%d/%d)\n", sum.SuccessRate()*100, sum.SuccessCount(), len(sum.Results))
	return b.String()
}
