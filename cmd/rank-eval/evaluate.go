package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ricesearch/rank-eval/internal/bus"
	"github.com/ricesearch/rank-eval/internal/config"
	"github.com/ricesearch/rank-eval/internal/evaluation"
	"github.com/ricesearch/rank-eval/internal/pkg/logger"
	"github.com/ricesearch/rank-eval/internal/rankeval"
	"github.com/ricesearch/rank-eval/internal/store"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <fixture.yaml>",
		Short: "Evaluate rated queries from a fixture file",
		Long: `Evaluate every query in a YAML fixture, store the results, publish them
to the configured bus and print them.

Metric settings come from the config, then the fixture, then flags.`,
		Args: cobra.ExactArgs(1),
		RunE: runEvaluate,
	}

	cmd.Flags().String("metric", "", "metric to compute (precision, recall, reciprocal_rank)")
	cmd.Flags().Int("k", 0, "evaluate only the top k hits (0 = all)")
	cmd.Flags().StringP("output", "o", "", "write binary results to this file")
	cmd.Flags().Bool("no-store", false, "do not save results to the result store")
	cmd.Flags().Bool("no-publish", false, "do not publish results to the bus")

	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fixture, err := evaluation.LoadFixture(args[0])
	if err != nil {
		return err
	}

	opts := fixture.Apply(evaluation.Options{
		Metric:            cfg.Eval.Metric,
		RelevantThreshold: cfg.Eval.RelevantThreshold,
		IgnoreUnlabeled:   cfg.Eval.IgnoreUnlabeled,
		Concurrency:       cfg.Eval.Concurrency,
	})
	if metric, _ := cmd.Flags().GetString("metric"); metric != "" {
		opts.Metric = metric
	}
	if k, _ := cmd.Flags().GetInt("k"); k > 0 {
		opts.K = k
	}

	evaluator, err := evaluation.NewEvaluator(opts, log)
	if err != nil {
		return err
	}

	results, err := evaluator.EvaluateAll(ctx, fixture.Queries)
	if err != nil {
		return err
	}
	log.Info("evaluation complete", "queries", len(results), "metric", opts.Metric)

	if noStore, _ := cmd.Flags().GetBool("no-store"); !noStore {
		if err := saveResults(ctx, cfg.Store, results, log); err != nil {
			return err
		}
	}

	if noPublish, _ := cmd.Flags().GetBool("no-publish"); !noPublish {
		if err := publishResults(ctx, cfg.Bus, results, log); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := writeResults(path, results); err != nil {
			return err
		}
		log.Info("binary results written", "path", path)
	}

	return printResults(cmd, results, evaluator.Summarize(results))
}

func saveResults(ctx context.Context, cfg config.StoreConfig, results []*rankeval.EvaluationResult, log *logger.Logger) error {
	storage, err := store.NewStorage(cfg)
	if err != nil {
		return fmt.Errorf("opening result store: %w", err)
	}
	svc := store.NewService(storage, nil, log)
	defer svc.Close()

	for _, r := range results {
		if err := svc.Save(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func publishResults(ctx context.Context, cfg config.BusConfig, results []*rankeval.EvaluationResult, log *logger.Logger) error {
	b, err := bus.NewBus(cfg, log)
	if err != nil {
		return fmt.Errorf("opening bus: %w", err)
	}
	defer b.Close()

	return evaluation.NewPublisher(b, cfg.Topic, log).PublishAll(ctx, results)
}

// writeResults writes results back to back so inspect can read them in order.
func writeResults(path string, results []*rankeval.EvaluationResult) error {
	out := rankeval.NewStreamOutput()
	for _, r := range results {
		r.Encode(out)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := out.CopyTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
