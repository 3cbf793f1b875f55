// Package cli wires the ledgerclean commands.
//
//	ledgerclean
//	├── clean <file>   clean one ledger export and write the result
//	├── serve          run the HTTP API
//	└── version        print build information
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/ledgerclean/internal/infrastructure/config"
)

// RootFlags are persistent flags shared by every command.
type RootFlags struct {
	ConfigFile string
	Verbose    bool

	// configSet is true when --config was given on the command line.
	configSet bool
}

// loadConfig reads the config file. An explicit --config must load; the
// implicit default falls back to environment variables.
func (f *RootFlags) loadConfig() (*config.Config, error) {
	if !f.configSet {
		return config.LoadOrEnv_WithPath(f.ConfigFile), nil
	}
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (f *RootFlags) loggingConfig(cfg *config.Config) config.LoggingConfig {
	loggingCfg := cfg.Observability.Logging
	if f.Verbose {
		loggingCfg.Level = "debug"
	}
	return loggingCfg
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &RootFlags{}

	root := &cobra.Command{
		Use:   "ledgerclean",
		Short: "Find and remove duplicate transactions in ledger exports",
		Long: `ledgerclean reads a household-ledger export (CSV, TSV or XLSX, UTF-8 or
Shift_JIS), finds duplicate transactions and writes a cleaned file.

Duplicates are found three ways, in priority order:
  - a card charge matching a store debit net of points (1 to 2)
  - the same purchase recorded in two accounts (1 to 1)
  - repeated entries within one account

Example Usage:
  ledgerclean clean export.csv                  # write export-cleaned-YYYYMM.csv
  ledgerclean clean export.csv --groups         # also list every duplicate group
  ledgerclean clean export.csv --format xlsx --out ./cleaned
  ledgerclean serve --port 8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags.configSet = cmd.Flags().Changed("config")
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.ConfigFile, "config", "config.yaml", "Path to the configuration file")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newCleanCommand(flags),
		newServeCommand(flags),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI with process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	return run(ctx, NewRootCommand(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
