package topology

import (
	"fmt"
	"strings"
)

// Host is one addressable endpoint in the verification fabric.
type Host struct {
	Name   string `yaml:"name" json:"name"`
	IP     string `yaml:"ip" json:"ip"`
	Switch string `yaml:"switch" json:"switch"`
}

// Topology is the fixed set of endpoints an experiment runs against.
// It is built once from configuration and never mutated afterwards.
type Topology struct {
	hosts []Host
}

// New creates a Topology from the given hosts.
func New(hosts []Host) Topology {
	h := make([]Host, len(hosts))
	copy(h, hosts)
	return Topology{hosts: h}
}

// Default returns the three-host single-switch testbed topology.
func Default() Topology {
	return New([]Host{
		{Name: "h1", IP: "10.0.0.1", Switch: "s1"},
		{Name: "h2", IP: "10.0.0.2", Switch: "s1"},
		{Name: "h3", IP: "10.0.0.3", Switch: "s1"},
	})
}

// Hosts returns a copy of the host list.
func (t Topology) Hosts() []Host {
	h := make([]Host, len(t.hosts))
	copy(h, t.hosts)
	return h
}

// Lookup returns the host with the given name.
func (t Topology) Lookup(name string) (Host, bool) {
	for _, h := range t.hosts {
		if h.Name == name {
			return h, true
		}
	}
	return Host{}, false
}

// AddressOf returns the IP address of the named host.
func (t Topology) AddressOf(name string) (string, error) {
	h, ok := t.Lookup(name)
	if !ok {
		return "", fmt.Errorf("topology: unknown host %q", name)
	}
	return h.IP, nil
}

// Summary renders the addressing table as a prompt-ready text block.
func (t Topology) Summary() string {
	lines := make([]string, 0, len(t.hosts)+1)
	lines = append(lines, "Network topology summary:")
	for _, h := range t.hosts {
		lines = append(lines, fmt.Sprintf("Host %s | IP: %s | Switch: %s", h.Name, h.IP, h.Switch))
	}
	return strings.Join(lines, "\n")
}
