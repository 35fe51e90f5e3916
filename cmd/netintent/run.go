package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cgast/netintent/internal/config"
	"github.com/cgast/netintent/pkg/deploy"
	"github.com/cgast/netintent/pkg/events"
	"github.com/cgast/netintent/pkg/experiment"
	"github.com/cgast/netintent/pkg/fabric"
	"github.com/cgast/netintent/pkg/generate"
	"github.com/cgast/netintent/pkg/history"
	"github.com/cgast/netintent/pkg/intent"
	"github.com/cgast/netintent/pkg/probe"
	"github.com/cgast/netintent/pkg/report"
	"github.com/cgast/netintent/pkg/topology"
)

func handleRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "netintent.yaml", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	topo := topology.New(cfg.Topology)
	fab := fabric.NewShellFabric(cfg.Fabric.ExecPrefix)

	gen, err := generate.NewGroqClient(cfg.LLM.APIKey, topo,
		generate.WithBaseURL(cfg.LLM.BaseURL),
		generate.WithModel(cfg.LLM.Model),
		generate.WithTemperature(cfg.LLM.Temperature),
		generate.WithMaxTokens(cfg.LLM.MaxTokens),
	)
	if err != nil {
		return err
	}

	prober := probe.New(fab,
		probe.WithCount(cfg.Probe.Count),
		probe.WithTimeout(time.Duration(cfg.Probe.TimeoutSeconds)*time.Second),
	)
	dep := deploy.New(fab)

	bus := events.NewBus()
	printer := newPrinter(os.Stdout)
	bus.Notify(printer.Handle)

	proc := intent.NewProcessor(gen, prober, dep, topo,
		intent.WithMaxAttempts(cfg.Loop.MaxAttempts),
		intent.WithSettleDelay(time.Duration(cfg.Loop.SettleSeconds)*time.Second),
		intent.WithBus(bus),
	)
	runner := experiment.NewRunner(proc, dep, bus)

	sum := runner.Run(context.Background(), cfg.Cases)

	fmt.Println()
	fmt.Println(report.Render(sum))

	if cfg.History.Persist && cfg.History.Path != "" {
		if err := persistRun(cfg.History.Path, sum); err != nil {
			fmt.Fprintf(os.Stderr, "warning: saving run history: %v\n", err)
		}
	}

	if cfg.Report.GitHub.Repo != "" {
		pub, err := report.NewGitHubPublisher(cfg.Report.GitHub.Token, cfg.Report.GitHub.Repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: github reporter: %v\n", err)
		} else if url, err := pub.Publish(context.Background(), sum); err != nil {
			fmt.Fprintf(os.Stderr, "warning: publishing report: %v\n", err)
		} else {
			fmt.Printf("Report published: %s\n", url)
		}
	}

	return nil
}

func persistRun(path string, sum experiment.Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	key, err := store.Save(sum)
	if err != nil {
		return err
	}
	fmt.Printf("Run saved to history as %s\n", key)
	return nil
}
