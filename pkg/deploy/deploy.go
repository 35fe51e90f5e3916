// Package deploy applies candidate filtering rules to an endpoint and
// clears them again. Rule text is an opaque, already-sanitized payload; the
// execution capability sits behind an interface so a stricter
// implementation could add allow-list validation without touching the
// verification loop.
package deploy

import (
	"context"
	"fmt"

	"github.com/cgast/netintent/pkg/fabric"
)

// resetCommand clears every filtering rule installed on a host.
const resetCommand = "iptables -F"

// Deployer installs and clears filtering rules on a host.
type Deployer interface {
	// Apply executes the rule text on the host's shell context and returns
	// the captured output. A non-zero exit is surfaced through the output,
	// not as a distinct error: deployment success is judged by the probe
	// that follows, not by inspecting execution status.
	Apply(ctx context.Context, host, rule string) string

	// Reset clears all filtering rules on the host. It is idempotent and
	// mandatory between attempts and between intents; a skipped reset lets
	// stale rules corrupt the next measurement.
	Reset(ctx context.Context, host string) error
}

// FabricDeployer executes rules through the fabric.
type FabricDeployer struct {
	fab fabric.Runner
}

// New creates a Deployer over the given fabric.
func New(fab fabric.Runner) *FabricDeployer {
	return &FabricDeployer{fab: fab}
}

func (d *FabricDeployer) Apply(ctx context.Context, host, rule string) string {
	out, err := d.fab.Exec(ctx, host, rule)
	if err != nil && out == "" {
		return err.Error()
	}
	return out
}

func (d *FabricDeployer) Reset(ctx context.Context, host string) error {
	if _, err := d.fab.Exec(ctx, host, resetCommand); err != nil {
		return fmt.Errorf("deploy: reset rules on %s: %w", host, err)
	}
	return nil
}
