package main

import (
	"github.com/spf13/cobra"

	"github.com/ricesearch/rank-eval/internal/rankeval"
	"github.com/ricesearch/rank-eval/internal/store"
)

func resultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Read results from the configured result store",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print all stored results",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(svc *store.Service) error {
					results, skipped, err := svc.All(cmd.Context())
					if err != nil {
						return err
					}
					return printListing(cmd, results, skipped)
				})
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print one stored result",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(svc *store.Service) error {
					r, err := svc.Get(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return printResults(cmd, []*rankeval.EvaluationResult{r}, nil)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a stored result",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(svc *store.Service) error {
					return svc.Delete(cmd.Context(), args[0])
				})
			},
		},
	)

	return cmd
}

func withStore(cmd *cobra.Command, fn func(svc *store.Service) error) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	storage, err := store.NewStorage(cfg.Store)
	if err != nil {
		return err
	}
	svc := store.NewService(storage, nil, log)
	defer svc.Close()

	return fn(svc)
}
