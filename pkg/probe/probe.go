// Package probe measures reachability between two endpoints and classifies
// the result into the three-bucket loss model used by the verification loop.
package probe

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/cgast/netintent/pkg/fabric"
)

// Status is the coarse classification of a connectivity measurement.
type Status string

const (
	StatusReachable Status = "REACHABLE"
	StatusBlocked   Status = "BLOCKED"
	StatusPartial   Status = "PARTIAL"
)

// Measurement is the outcome of one probe run.
type Measurement struct {
	LossPercent int    `json:"loss_percent"`
	Status      Status `json:"status"`
	Raw         string `json:"-"`
}

var lossPattern = regexp.MustCompile(`(\d+)(?:\.\d+)?% packet loss`)

// ParseLoss extracts the packet-loss percentage from ping output.
// The second return value is false when no loss figure is present.
func ParseLoss(raw string) (int, bool) {
	m := lossPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	loss, err := strconv.Atoi(m[1])
	if err != nil || loss < 0 || loss > 100 {
		return 0, false
	}
	return loss, true
}

// Classify maps an observed loss percentage onto the three-bucket model:
// 0 is reachable, 100 is blocked, and everything in between collapses to
// a partial result reported as 50. The success test downstream only
// distinguishes the two extremes.
func Classify(lossPercent int) (int, Status) {
	switch lossPercent {
	case 0:
		return 0, StatusReachable
	case 100:
		return 100, StatusBlocked
	default:
		return 50, StatusPartial
	}
}

// Prober issues bounded reachability checks over the fabric.
type Prober struct {
	fab     fabric.Runner
	count   int
	timeout time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

// WithCount sets how many probes are sent per measurement.
func WithCount(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.count = n
		}
	}
}

// WithTimeout sets the per-probe reply timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New creates a Prober with the default 3 probes and 1s per-probe timeout.
func New(fab fabric.Runner, opts ...Option) *Prober {
	p := &Prober{
		fab:     fab,
		count:   3,
		timeout: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe measures reachability from srcHost to dstAddr. It never returns an
// error: any execution failure or unparseable output is reported as a
// partial result.
func (p *Prober) Probe(ctx context.Context, srcHost, dstAddr string) Measurement {
	secs := int(p.timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	command := fmt.Sprintf("ping -c %d -W %d %s", p.count, secs, dstAddr)

	raw, _ := p.fab.Exec(ctx, srcHost, command)

	observed, ok := ParseLoss(raw)
	if !ok {
		return Measurement{LossPercent: 50, Status: StatusPartial, Raw: raw}
	}
	loss, status := Classify(observed)
	return Measurement{LossPercent: loss, Status: status, Raw: raw}
}
