// Package main provides the rank-eval command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ricesearch/rank-eval/internal/config"
	"github.com/ricesearch/rank-eval/internal/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rank-eval",
		Short: "rank-eval - ranking quality evaluation results",
		Long: `rank-eval scores ranked search hits against relevance ratings and
produces evaluation results carrying a metric breakdown.

Results are stored in their binary wire format and can be published to a
message bus for downstream consumers.

Examples:
  rank-eval evaluate queries.yaml              # Evaluate and print JSON
  rank-eval evaluate queries.yaml -o out.bin   # Also write binary results
  rank-eval inspect out.bin                    # Decode binary results
  rank-eval results list                       # List stored results`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("format", "json", "output format (text, json)")

	rootCmd.AddCommand(
		evaluateCmd(),
		inspectCmd(),
		resultsCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig loads configuration and builds the logger from global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath == "" {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(configPath)
	}
	if err != nil {
		return nil, nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return cfg, log, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rank-eval %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
