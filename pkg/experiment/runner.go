// Package experiment runs a batch of intents through the verification loop
// and folds the per-intent outcomes into a summary.
package experiment

import (
	"context"
	"time"

	"github.com/cgast/netintent/pkg/deploy"
	"github.com/cgast/netintent/pkg/events"
	"github.com/cgast/netintent/pkg/intent"
)

// Summary is the externally observable result of a full run: the ordered
// per-intent results plus the derived success rate.
type Summary struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Results    []intent.Result `json:"results"`
}

// SuccessCount returns how many intents were verified.
func (s Summary) SuccessCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// SuccessRate returns successes/total, or 0.0 for an empty run.
func (s Summary) SuccessRate() float64 {
	if len(s.Results) == 0 {
		return 0.0
	}
	return float64(s.SuccessCount()) / float64(len(s.Results))
}

// Runner processes intents strictly sequentially: one intent at a time, one
// attempt at a time, no parallel probing or speculative deployment.
type Runner struct {
	proc *intent.Processor
	dep  deploy.Deployer
	bus  *events.Bus
}

// NewRunner creates a Runner. The deployer is used to clear the source
// host's rules between intents so nothing leaks into the next measurement.
func NewRunner(proc *intent.Processor, dep deploy.Deployer, bus *events.Bus) *Runner {
	return &Runner{proc: proc, dep: dep, bus: bus}
}

// Run processes each intent in order and returns the summary. A failed
// intent does not abort the batch.
func (r *Runner) Run(ctx context.Context, cases []intent.Intent) Summary {
	sum := Summary{
		StartedAt: time.Now(),
		Results:   make([]intent.Result, 0, len(cases)),
	}
	r.bus.Publish(events.Event{Type: events.TypeRunStart, Total: len(cases)})

	for _, it := range cases {
		res := r.proc.Process(ctx, it)
		sum.Results = append(sum.Results, res)

		// Cleanup between intents; the processor already resets after a
		// failed attempt, but a successful rule must not outlive its test.
		resetEvent := events.Event{Type: events.TypeRulesReset, Intent: it.Text, Source: it.Source}
		if err := r.dep.Reset(ctx, it.Source); err != nil {
			resetEvent.Err = err.Error()
		}
		r.bus.Publish(resetEvent)
	}

	sum.FinishedAt = time.Now()
	r.bus.Publish(events.Event{
		Type:        events.TypeRunSummary,
		Total:       len(sum.Results),
		Successes:   sum.SuccessCount(),
		SuccessRate: sum.SuccessRate(),
	})
	return sum
}
