package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ricesearch/rank-eval/internal/evaluation"
	"github.com/ricesearch/rank-eval/internal/pkg/errors"
	"github.com/ricesearch/rank-eval/internal/rankeval"
	"github.com/ricesearch/rank-eval/internal/store"
)

type report struct {
	Results []*rankeval.EvaluationResult `json:"results"`
	Summary *evaluation.Summary          `json:"summary,omitempty"`
	Skipped []skippedEntry               `json:"skipped,omitempty"`
}

type skippedEntry struct {
	ID    string `json:"id"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// printResults writes results in the format selected by --format.
func printResults(cmd *cobra.Command, results []*rankeval.EvaluationResult, summary *evaluation.Summary) error {
	return printReport(cmd, report{Results: results, Summary: summary})
}

// printListing writes stored results followed by the ids that could not be loaded.
func printListing(cmd *cobra.Command, results []*rankeval.EvaluationResult, skipped []store.Skipped) error {
	rep := report{Results: results}
	for _, s := range skipped {
		rep.Skipped = append(rep.Skipped, skippedEntry{
			ID:    s.ID,
			Code:  errors.CodeOf(s.Err),
			Error: s.Err.Error(),
		})
	}
	return printReport(cmd, rep)
}

func printReport(cmd *cobra.Command, rep report) error {
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		if rep.Results == nil {
			rep.Results = []*rankeval.EvaluationResult{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "text":
		return printText(out, rep)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func printText(out io.Writer, rep report) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUALITY\tUNKNOWN\tMETRIC")
	for _, r := range rep.Results {
		metric := r.Breakdown().Name()
		if metric == "" {
			metric = "-"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%d\t%s\n", r.ID(), r.QualityLevel(), len(r.UnknownDocs()), metric)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s := rep.Summary; s != nil {
		fmt.Fprintf(out, "\n%s: mean %.4f over %d queries, %d unknown docs\n",
			s.Metric, s.MeanQuality, s.QueryCount, s.UnknownDocs)
	}
	if len(rep.Skipped) > 0 {
		fmt.Fprintf(out, "\nskipped %d unreadable results:\n", len(rep.Skipped))
		for _, s := range rep.Skipped {
			fmt.Fprintf(out, "  %s: %s\n", s.ID, s.Error)
		}
	}
	return nil
}
