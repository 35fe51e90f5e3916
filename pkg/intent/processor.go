package intent

import (
	"context"
	"time"

	"github.com/cgast/netintent/pkg/deploy"
	"github.com/cgast/netintent/pkg/events"
	"github.com/cgast/netintent/pkg/generate"
	"github.com/cgast/netintent/pkg/probe"
	"github.com/cgast/netintent/pkg/topology"
)

// DefaultMaxAttempts is the attempt budget used when none is configured.
const DefaultMaxAttempts = 3

// Prober measures reachability between a source host and a destination
// address. Satisfied by *probe.Prober.
type Prober interface {
	Probe(ctx context.Context, srcHost, dstAddr string) probe.Measurement
}

// Processor drives the attempt loop for a single intent. All per-attempt
// errors are absorbed here and surfaced only through classification; nothing
// escapes past the attempt boundary.
type Processor struct {
	gen         generate.Generator
	prober      Prober
	dep         deploy.Deployer
	topo        topology.Topology
	bus         *events.Bus
	maxAttempts int
	settle      time.Duration
}

// Option configures a Processor.
type Option func(*Processor)

// WithMaxAttempts sets the attempt budget.
func WithMaxAttempts(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithSettleDelay sets the pause after rule changes before probing again.
func WithSettleDelay(d time.Duration) Option {
	return func(p *Processor) {
		if d >= 0 {
			p.settle = d
		}
	}
}

// WithBus attaches a progress event bus.
func WithBus(bus *events.Bus) Option {
	return func(p *Processor) {
		p.bus = bus
	}
}

// NewProcessor composes the loop from its collaborators. Defaults: 3
// attempts, 1s settle delay, no event bus.
func NewProcessor(gen generate.Generator, prober Prober, dep deploy.Deployer, topo topology.Topology, opts ...Option) *Processor {
	p := &Processor{
		gen:         gen,
		prober:      prober,
		dep:         dep,
		topo:        topo,
		maxAttempts: DefaultMaxAttempts,
		settle:      time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxAttempts returns the configured attempt budget.
func (p *Processor) MaxAttempts() int { return p.maxAttempts }

// Process runs the attempt loop for one intent and returns its result.
// The sequence per attempt is generate, baseline probe, deploy, verify
// probe, classify. A failed attempt builds feedback for the next
// generation call and resets the source host's rules; a missing candidate
// consumes the attempt without touching the network or the feedback.
func (p *Processor) Process(ctx context.Context, it Intent) Result {
	p.bus.Publish(events.Event{
		Type: events.TypeIntentStart, Intent: it.Text,
		Source: it.Source, Dest: it.Dest, MaxAttempts: p.maxAttempts,
	})

	dstAddr, err := p.topo.AddressOf(it.Dest)
	if err != nil {
		// Config validation rejects unknown endpoints before a run; this
		// guard reports the same shape as budget exhaustion.
		p.bus.Publish(events.Event{
			Type: events.TypeIntentResult, Intent: it.Text,
			Success: false, Attempts: p.maxAttempts, Err: err.Error(),
		})
		return Result{Intent: it, Success: false, Attempts: p.maxAttempts}
	}

	feedback := ""
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		p.bus.Publish(events.Event{
			Type: events.TypeAttemptStart, Intent: it.Text,
			Attempt: attempt, MaxAttempts: p.maxAttempts,
		})

		raw, genErr := p.gen.Generate(ctx, it.Text, feedback)
		if genErr != nil {
			p.bus.Publish(events.Event{
				Type: events.TypeRuleSkipped, Intent: it.Text,
				Attempt: attempt, Err: genErr.Error(),
			})
			continue
		}
		command := generate.Sanitize(raw)
		if command == "" {
			p.bus.Publish(events.Event{
				Type: events.TypeRuleSkipped, Intent: it.Text,
				Attempt: attempt, Err: "empty rule after sanitization",
			})
			continue
		}
		p.bus.Publish(events.Event{
			Type: events.TypeRuleGenerated, Intent: it.Text,
			Attempt: attempt, Command: command,
		})

		baseline := p.prober.Probe(ctx, it.Source, dstAddr)
		p.bus.Publish(events.Event{
			Type: events.TypeProbeResult, Intent: it.Text, Attempt: attempt,
			Stage: events.StageBaseline, LossPercent: baseline.LossPercent,
			Status: string(baseline.Status),
		})

		output := p.dep.Apply(ctx, it.Source, command)
		p.bus.Publish(events.Event{
			Type: events.TypeRuleApplied, Intent: it.Text, Attempt: attempt,
			Command: command, Output: output,
		})
		p.pause()

		post := p.prober.Probe(ctx, it.Source, dstAddr)
		p.bus.Publish(events.Event{
			Type: events.TypeProbeResult, Intent: it.Text, Attempt: attempt,
			Stage: events.StageVerify, LossPercent: post.LossPercent,
			Status: string(post.Status),
		})

		if Satisfied(it.Text, post.LossPercent) {
			p.bus.Publish(events.Event{
				Type: events.TypeAttemptResult, Intent: it.Text,
				Attempt: attempt, Success: true, Command: command,
				LossPercent: post.LossPercent,
			})
			p.bus.Publish(events.Event{
				Type: events.TypeIntentResult, Intent: it.Text,
				Success: true, Command: command, Attempts: attempt,
			})
			return Result{Intent: it, Success: true, Command: command, Attempts: attempt}
		}

		feedback = BuildFeedback(it, post.LossPercent)
		p.bus.Publish(events.Event{
			Type: events.TypeAttemptResult, Intent: it.Text,
			Attempt: attempt, Success: false, Command: command,
			LossPercent: post.LossPercent, Feedback: feedback,
		})

		resetEvent := events.Event{Type: events.TypeRulesReset, Intent: it.Text, Attempt: attempt, Source: it.Source}
		if resetErr := p.dep.Reset(ctx, it.Source); resetErr != nil {
			resetEvent.Err = resetErr.Error()
		}
		p.bus.Publish(resetEvent)
		p.pause()
	}

	p.bus.Publish(events.Event{
		Type: events.TypeIntentResult, Intent: it.Text,
		Success: false, Attempts: p.maxAttempts,
	})
	return Result{Intent: it, Success: false, Attempts: p.maxAttempts}
}

func (p *Processor) pause() {
	if p.settle > 0 {
		time.Sleep(p.settle)
	}
}
