// Package config loads the experiment configuration: the LLM credentials,
// probe and loop parameters, the testbed topology, and the batch of intent
// cases to verify.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cgast/netintent/pkg/generate"
	"github.com/cgast/netintent/pkg/intent"
	"github.com/cgast/netintent/pkg/topology"
)

// Config is the full runtime configuration, typically from netintent.yaml.
type Config struct {
	LLM      LLMConfig       `yaml:"llm"`
	Probe    ProbeConfig     `yaml:"probe"`
	Loop     LoopConfig      `yaml:"loop"`
	Fabric   FabricConfig    `yaml:"fabric"`
	Topology []topology.Host `yaml:"topology"`
	Cases    []intent.Intent `yaml:"cases"`
	History  HistoryConfig   `yaml:"history"`
	Report   ReportConfig    `yaml:"report"`
}

// LLMConfig holds the rule-generation service settings.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ProbeConfig holds connectivity-probe settings.
type ProbeConfig struct {
	Count          int `yaml:"count"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoopConfig holds the attempt-loop settings.
type LoopConfig struct {
	MaxAttempts   int `yaml:"max_attempts"`
	SettleSeconds int `yaml:"settle_seconds"`
}

// FabricConfig holds the command-execution settings. ExecPrefix is the
// per-host wrapper template, e.g. "ip netns exec {host}".
type FabricConfig struct {
	ExecPrefix string `yaml:"exec_prefix"`
}

// HistoryConfig holds run-persistence settings.
type HistoryConfig struct {
	Path    string `yaml:"path"`
	Persist bool   `yaml:"persist"`
}

// ReportConfig holds optional external reporting settings.
type ReportConfig struct {
	GitHub GitHubReportConfig `yaml:"github"`
}

// GitHubReportConfig configures publishing the run summary as an issue.
// Publishing is enabled when Repo is non-empty.
type GitHubReportConfig struct {
	Repo  string `yaml:"repo"`
	Token string `yaml:"token"`
}

// DefaultConfig returns the configuration used when no file is present:
// the three-host testbed, 3 probes with a 1s timeout, a 3-attempt loop,
// and the default generation endpoint.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			BaseURL:     generate.DefaultBaseURL,
			Model:       generate.DefaultModel,
			Temperature: generate.DefaultTemperature,
			MaxTokens:   generate.DefaultMaxTokens,
		},
		Probe: ProbeConfig{
			Count:          3,
			TimeoutSeconds: 1,
		},
		Loop: LoopConfig{
			MaxAttempts:   intent.DefaultMaxAttempts,
			SettleSeconds: 1,
		},
		Fabric: FabricConfig{
			ExecPrefix: "ip netns exec {host}",
		},
		Topology: topology.Default().Hosts(),
		History: HistoryConfig{
			Path:    ".netintent/history.db",
			Persist: true,
		},
	}
}

// LoadConfig reads and parses a YAML config file, interpolating ${VAR}
// references from the environment. A missing file yields the defaults.
// When no API key is configured, the GROQ_API_KEY environment variable is
// used.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvFallbacks()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	interpolated := interpolateEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(interpolated), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnvFallbacks()
	return cfg, nil
}

func (c *Config) applyEnvFallbacks() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	}
}

// Validate checks everything that must hold before a run starts. A
// violation here is fatal: no partial run is attempted.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("config: llm api key is not set; export GROQ_API_KEY or set llm.api_key")
	}
	if len(c.Cases) == 0 {
		return fmt.Errorf("config: no intent cases configured")
	}
	if c.Loop.MaxAttempts < 1 {
		return fmt.Errorf("config: loop.max_attempts must be at least 1")
	}
	if c.Probe.Count < 1 {
		return fmt.Errorf("config: probe.count must be at least 1")
	}

	topo := topology.New(c.Topology)
	for i, cs := range c.Cases {
		if strings.TrimSpace(cs.Text) == "" {
			return fmt.Errorf("config: case %d: intent text is empty", i+1)
		}
		if _, ok := topo.Lookup(cs.Source); !ok {
			return fmt.Errorf("config: case %d: unknown source endpoint %q", i+1, cs.Source)
		}
		if _, ok := topo.Lookup(cs.Dest); !ok {
			return fmt.Errorf("config: case %d: unknown destination endpoint %q", i+1, cs.Dest)
		}
	}
	if c.Report.GitHub.Repo != "" && c.Report.GitHub.Token == "" {
		return fmt.Errorf("config: report.github.repo is set but report.github.token is empty")
	}
	return nil
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnvVars replaces ${VAR_NAME} patterns with environment
// variable values. Unset variables are left as-is.
func interpolateEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}
