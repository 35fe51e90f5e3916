package main

import (
	"flag"
	"fmt"

	"github.com/cgast/netintent/internal/config"
	"github.com/cgast/netintent/pkg/history"
)

func handleHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "netintent.yaml", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("history path is not configured")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, rec := range records {
		sum := rec.Summary
		fmt.Printf("%s  %d/%d verified (%.0f%%)\n",
			rec.Key, sum.SuccessCount(), len(sum.Results), sum.SuccessRate()*100)
	}
	return nil
}
