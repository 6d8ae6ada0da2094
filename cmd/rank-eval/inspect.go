package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ricesearch/rank-eval/internal/rankeval"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode binary evaluation results",
		Long: `Decode evaluation results written by 'evaluate -o' and print them.
Use '-' to read from stdin. Breakdowns are resolved with the built-in metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	results, err := decodeResults(data, rankeval.DefaultRegistry())
	if err != nil {
		return err
	}
	return printResults(cmd, results, nil)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// decodeResults reads consecutive results until data is exhausted.
func decodeResults(data []byte, reg *rankeval.Registry) ([]*rankeval.EvaluationResult, error) {
	in := rankeval.NewStreamInput(data)
	var results []*rankeval.EvaluationResult
	for in.Remaining() > 0 {
		r, err := rankeval.ReadEvaluationResult(in, reg)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", len(results), err)
		}
		results = append(results, r)
	}
	return results, nil
}
