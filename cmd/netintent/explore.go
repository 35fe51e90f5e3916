package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/cgast/netintent/internal/config"
	"github.com/cgast/netintent/pkg/generate"
	"github.com/cgast/netintent/pkg/topology"
)

// handleExplore runs the exploratory one-shot variant: print the topology,
// ask the model for a structured JSON rule, and decode it best-effort.
// Nothing is deployed or verified.
func handleExplore(args []string) error {
	fs := flag.NewFlagSet("explore", flag.ExitOnError)
	configPath := fs.String("config", "netintent.yaml", "path to config file")
	intentText := fs.String("intent", "Block traffic from h1 to h2", "intent to translate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is not set; export GROQ_API_KEY or set llm.api_key")
	}

	topo := topology.New(cfg.Topology)
	fmt.Println(topo.Summary())
	fmt.Printf("\nUser Intent: %s\n", *intentText)

	gen, err := generate.NewGroqClient(cfg.LLM.APIKey, topo,
		generate.WithBaseURL(cfg.LLM.BaseURL),
		generate.WithModel(cfg.LLM.Model),
	)
	if err != nil {
		return err
	}

	raw, err := gen.GenerateFlowRule(context.Background(), *intentText)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Raw model output ===")
	fmt.Println(raw)

	rule, err := generate.DecodeFlowRule(raw)
	if err != nil {
		fmt.Printf("\nCould not parse a JSON rule from the output: %v\n", err)
		return nil
	}

	fmt.Println("\n=== Parsed rule ===")
	fmt.Printf("switch_id: %s\n", rule.SwitchID)
	fmt.Printf("src_ip:    %s\n", rule.MatchSrcIP)
	fmt.Printf("dst_ip:    %s\n", rule.MatchDstIP)
	fmt.Printf("action:    %s\n", rule.Action)
	return nil
}
