// Package fabric is the boundary to the network testbed: the ability to run
// a shell command in the context of a named host and capture its output.
// The fabric itself (hosts, links, switch) is provisioned outside this
// process; everything here assumes it is already up.
package fabric

import (
	"context"
	"os/exec"
	"strings"
)

// Runner executes a command on a named host and returns the combined output.
// Output is returned even when the command exits non-zero, so callers can
// inspect partial results (a fully blocked ping exits non-zero but still
// prints its statistics).
type Runner interface {
	Exec(ctx context.Context, host, command string) (string, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, host, command string) (string, error)

func (f RunnerFunc) Exec(ctx context.Context, host, command string) (string, error) {
	return f(ctx, host, command)
}

// ShellFabric runs commands through the local shell, wrapping each one in a
// per-host prefix such as "ip netns exec {host}". An empty prefix runs the
// command directly, which is only useful for single-host smoke tests.
type ShellFabric struct {
	prefix string
}

// NewShellFabric creates a fabric whose per-host prefix template may contain
// the {host} placeholder.
func NewShellFabric(prefix string) *ShellFabric {
	return &ShellFabric{prefix: prefix}
}

func (f *ShellFabric) Exec(ctx context.Context, host, command string) (string, error) {
	full := command
	if f.prefix != "" {
		full = strings.ReplaceAll(f.prefix, "{host}", host) + " " + command
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", full)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
