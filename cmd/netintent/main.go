package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = handleRun(os.Args[2:])
	case "validate":
		err = handleValidate(os.Args[2:])
	case "explore":
		err = handleExplore(os.Args[2:])
	case "history":
		err = handleHistory(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: netintent <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run       Run the intent verification batch")
	fmt.Println("  validate  Check the configuration without running")
	fmt.Println("  explore   One-shot topology + JSON rule generation probe")
	fmt.Println("  history   List persisted runs")
	fmt.Println()
	fmt.Println("Common flags:")
	fmt.Println("  -config   Path to the config file (default netintent.yaml)")
}
