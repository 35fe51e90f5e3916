package main

import (
	"flag"
	"fmt"

	"github.com/cgast/netintent/internal/config"
)

func handleValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
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

	fmt.Printf("OK: %d cases, %d hosts, max %d attempts per intent\n",
		len(cfg.Cases), len(cfg.Topology), cfg.Loop.MaxAttempts)
	return nil
}
