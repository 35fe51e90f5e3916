package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cgast/netintent/pkg/events"
)

const banner = "======================================================================"

// printer renders loop events as staged progress on the terminal. It is the
// only consumer of the event stream in the CLI and carries no control
// logic.
type printer struct {
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) Handle(e events.Event) {
	switch e.Type {
	case events.TypeRunStart:
		fmt.Fprintf(p.out, "%s\n INTENT VERIFICATION RUN (%d cases)\n%s\n", banner, e.Total, banner)

	case events.TypeIntentStart:
		fmt.Fprintf(p.out, "\n%s\n USER INTENT: %s\n%s\n", banner, e.Intent, banner)

	case events.TypeAttemptStart:
		fmt.Fprintf(p.out, "\n--- Attempt %d/%d ---\n", e.Attempt, e.MaxAttempts)

	case events.TypeRuleGenerated:
		fmt.Fprintf(p.out, "\n[1/5] LLM Translation\n      Generated: %s\n", e.Command)

	case events.TypeRuleSkipped:
		fmt.Fprintf(p.out, "\n[1/5] LLM Translation\n      [SKIP] No usable rule (%s), moving to next attempt...\n", e.Err)

	case events.TypeProbeResult:
		switch e.Stage {
		case events.StageBaseline:
			fmt.Fprintf(p.out, "\n[2/5] Baseline Test\n      Before: %d%% loss (%s)\n", e.LossPercent, e.Status)
		case events.StageVerify:
			fmt.Fprintf(p.out, "\n[4/5] Verification Test\n      After: %d%% loss (%s)\n", e.LossPercent, e.Status)
		}

	case events.TypeRuleApplied:
		fmt.Fprintf(p.out, "\n[3/5] Deploy Configuration\n      Applied: %s\n", e.Command)
		if out := strings.TrimSpace(e.Output); out != "" {
			fmt.Fprintf(p.out, "      Output: %s\n", out)
		}

	case events.TypeAttemptResult:
		if e.Success {
			fmt.Fprintf(p.out, "\n[5/5] Validation\n      *** SUCCESS: INTENT VERIFIED ***\n")
		} else {
			fmt.Fprintf(p.out, "\n[5/5] Validation\n      [FAIL] Intent not satisfied; measured %d%% loss.\n", e.LossPercent)
		}

	case events.TypeRulesReset:
		if e.Err != "" {
			fmt.Fprintf(p.out, "      [WARN] Reset on %s failed: %s\n", e.Source, e.Err)
		}

	case events.TypeIntentResult:
		if !e.Success {
			fmt.Fprintf(p.out, "\n[FAIL] Could not verify intent after all attempts.\n")
		}

	case events.TypeRunSummary:
		fmt.Fprintf(p.out, "\n%s\n Run complete: %d/%d verified (%.0f%%)\n%s\n",
			banner, e.Successes, e.Total, e.SuccessRate*100, banner)
	}
}
