package experiment

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/cgast/netintent/pkg/events"
	"github.com/cgast/netintent/pkg/intent"
	"github.com/cgast/netintent/pkg/probe"
	"github.com/cgast/netintent/pkg/topology"
)

// perIntentGenerator scripts rule generation per intent text.
type perIntentGenerator struct {
	rules map[string]string // intent text -> rule; missing means failure
}

func (g *perIntentGenerator) Generate(ctx context.Context, intentText, feedback string) (string, error) {
	rule, ok := g.rules[intentText]
	if !ok {
		return "", fmt.Errorf("no rule for intent")
	}
	return rule, nil
}

// verdictProber reports reachable at baseline; at verify, destinations in
// the blocked set measure fully blocked and the rest stay reachable.
type verdictProber struct {
	blocked  map[string]bool // keyed by destination address
	baseline bool
}

func (p *verdictProber) Probe(ctx context.Context, srcHost, dstAddr string) probe.Measurement {
	p.baseline = !p.baseline
	if p.baseline {
		return probe.Measurement{LossPercent: 0, Status: probe.StatusReachable}
	}
	if p.blocked[dstAddr] {
		return probe.Measurement{LossPercent: 100, Status: probe.StatusBlocked}
	}
	return probe.Measurement{LossPercent: 0, Status: probe.StatusReachable}
}

type countingDeployer struct {
	applied []string
	resets  []string
}

func (d *countingDeployer) Apply(ctx context.Context, host, rule string) string {
	d.applied = append(d.applied, rule)
	return ""
}

func (d *countingDeployer) Reset(ctx context.Context, host string) error {
	d.resets = append(d.resets, host)
	return nil
}

func TestRunMixedOutcomes(t *testing.T) {
	good := intent.Intent{Text: "Block traffic from h1 to h2", Source: "h1", Dest: "h2"}
	bad := intent.Intent{Text: "Block traffic from h1 to h3", Source: "h1", Dest: "h3"}

	gen := &perIntentGenerator{rules: map[string]string{
		good.Text: "iptables -I OUTPUT -d 10.0.0.2 -j DROP",
		bad.Text:  "iptables -X",
	}}
	pr := &verdictProber{blocked: map[string]bool{"10.0.0.2": true}}
	dep := &countingDeployer{}
	bus := events.NewBus()

	proc := intent.NewProcessor(gen, pr, dep, topology.Default(),
		intent.WithSettleDelay(0), intent.WithBus(bus))
	runner := NewRunner(proc, dep, bus)

	sum := runner.Run(context.Background(), []intent.Intent{good, bad})

	if len(sum.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(sum.Results))
	}
	if !sum.Results[0].Success || sum.Results[0].Attempts != 1 {
		t.Errorf("first result = %+v, want success on attempt 1", sum.Results[0])
	}
	if sum.Results[1].Success || sum.Results[1].Attempts != intent.DefaultMaxAttempts {
		t.Errorf("second result = %+v, want exhaustion after %d attempts", sum.Results[1], intent.DefaultMaxAttempts)
	}
	if got := sum.SuccessRate(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("success rate = %v, want 0.5", got)
	}
	if sum.SuccessCount() != 1 {
		t.Errorf("success count = %d, want 1", sum.SuccessCount())
	}
}

func TestRunResetsBetweenIntents(t *testing.T) {
	a := intent.Intent{Text: "Block traffic from h1 to h2", Source: "h1", Dest: "h2"}
	b := intent.Intent{Text: "Block traffic from h1 to h3", Source: "h1", Dest: "h3"}

	gen := &perIntentGenerator{rules: map[string]string{
		a.Text: "iptables -I OUTPUT -d 10.0.0.2 -j DROP",
		b.Text: "iptables -I OUTPUT -d 10.0.0.3 -j DROP",
	}}
	pr := &alwaysBlockedProber{}
	dep := &countingDeployer{}

	proc := intent.NewProcessor(gen, pr, dep, topology.Default(), intent.WithSettleDelay(0))
	sum := NewRunner(proc, dep, nil).Run(context.Background(), []intent.Intent{a, b})

	if sum.SuccessCount() != 2 {
		t.Fatalf("summary = %+v, want both verified", sum)
	}
	// Both intents succeed on the first attempt, so the only resets are the
	// inter-intent cleanups: one per case, on the source host.
	if len(dep.resets) != 2 {
		t.Fatalf("resets = %v, want one per intent", dep.resets)
	}
	for _, host := range dep.resets {
		if host != "h1" {
			t.Errorf("reset on %q, want source host h1", host)
		}
	}
}

func TestRunEmptyBatch(t *testing.T) {
	dep := &countingDeployer{}
	proc := intent.NewProcessor(
		&perIntentGenerator{}, &alwaysBlockedProber{}, dep, topology.Default(),
		intent.WithSettleDelay(0))

	sum := NewRunner(proc, dep, nil).Run(context.Background(), nil)

	if len(sum.Results) != 0 {
		t.Errorf("results = %v, want none", sum.Results)
	}
	if got := sum.SuccessRate(); got != 0.0 {
		t.Errorf("success rate = %v, want 0.0 for empty run", got)
	}
}

func TestRunPublishesSummaryEvent(t *testing.T) {
	a := intent.Intent{Text: "Block traffic from h1 to h2", Source: "h1", Dest: "h2"}
	gen := &perIntentGenerator{rules: map[string]string{a.Text: "iptables -I OUTPUT -d 10.0.0.2 -j DROP"}}
	dep := &countingDeployer{}
	bus := events.NewBus()

	proc := intent.NewProcessor(gen, &alwaysBlockedProber{}, dep, topology.Default(),
		intent.WithSettleDelay(0), intent.WithBus(bus))
	NewRunner(proc, dep, bus).Run(context.Background(), []intent.Intent{a})

	hist := bus.History()
	if len(hist) == 0 || hist[0].Type != events.TypeRunStart {
		t.Fatal("missing run.start event")
	}
	last := hist[len(hist)-1]
	if last.Type != events.TypeRunSummary {
		t.Fatalf("last event = %s, want run.summary", last.Type)
	}
	if last.Total != 1 || last.Successes != 1 || last.SuccessRate != 1.0 {
		t.Errorf("summary event = %+v", last)
	}
}

// alwaysBlockedProber reports reachable at baseline and blocked at verify.
type alwaysBlockedProber struct {
	verify bool
}

func (p *alwaysBlockedProber) Probe(ctx context.Context, srcHost, dstAddr string) probe.Measurement {
	p.verify = !p.verify
	if p.verify {
		return probe.Measurement{LossPercent: 0, Status: probe.StatusReachable}
	}
	return probe.Measurement{LossPercent: 100, Status: probe.StatusBlocked}
}
