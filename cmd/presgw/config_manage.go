package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dpres-tools/presgw/internal/config"
	"github.com/dpres-tools/presgw/internal/doctor"
)

// runConfigCheck loads the config (verifying integrity if locked) and runs
// the doctor checks against it.
func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("config check", flag.ContinueOnError)
	configFlag := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	configPath, err := resolveConfigPath(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	result := doctor.New(cfg).Validate()

	for _, issue := range result.Warnings {
		fmt.Printf("WARN  [%s] %s: %s\n", issue.Category, issue.Field, issue.Message)
	}
	for _, issue := range result.Errors {
		fmt.Printf("ERROR [%s] %s: %s\n", issue.Category, issue.Field, issue.Message)
	}

	if !result.Valid {
		fmt.Printf("Configuration check failed: %d error(s), %d warning(s)\n",
			len(result.Errors), len(result.Warnings))
		return 1
	}

	fmt.Printf("Configuration OK (%s): %d warning(s)\n", configPath, len(result.Warnings))
	return 0
}

// runConfigLock writes the .checksums manifest authorizing the current
// configuration state.
func runConfigLock(args []string) int {
	fs := flag.NewFlagSet("config lock", flag.ContinueOnError)
	configFlag := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	configPath, err := resolveConfigPath(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	checksumPath, err := config.Lock(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Wrote %s\n", checksumPath)
	return 0
}
