package evaluation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ricesearch/rank-eval/internal/pkg/errors"
	"github.com/ricesearch/rank-eval/internal/pkg/logger"
	"github.com/ricesearch/rank-eval/internal/rankeval"
)

// Evaluator scores ranked hits against relevance ratings and produces
// evaluation results carrying the metric breakdown.
type Evaluator struct {
	opts Options
	log  *logger.Logger
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(opts Options, log *logger.Logger) (*Evaluator, error) {
	switch opts.Metric {
	case rankeval.PrecisionName, rankeval.RecallName, rankeval.ReciprocalRankName:
	case "":
		opts.Metric = rankeval.PrecisionName
	default:
		return nil, errors.ValidationError(fmt.Sprintf("unknown metric: %s", opts.Metric))
	}
	if opts.RelevantThreshold < 0 {
		return nil, errors.ValidationError("relevant threshold cannot be negative")
	}
	if opts.K < 0 {
		return nil, errors.ValidationError("k cannot be negative")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if log == nil {
		log = logger.Default()
	}

	return &Evaluator{
		opts: opts,
		log:  log.WithComponent("evaluation"),
	}, nil
}

// Options returns the evaluator's effective options.
func (e *Evaluator) Options() Options {
	return e.opts
}

// EvaluateQuery evaluates a single query.
func (e *Evaluator) EvaluateQuery(ctx context.Context, q Query) (*rankeval.EvaluationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeTimeout, "evaluation cancelled", err)
	}
	if q.ID == "" {
		return nil, errors.ValidationError("query id cannot be empty")
	}

	ratings := make(map[rankeval.DocumentKey]int, len(q.Ratings))
	for _, d := range q.Ratings {
		if d.Rating < 0 {
			return nil, errors.ValidationError(fmt.Sprintf("negative rating for %s", d.Key())).
				WithDetail("query", q.ID)
		}
		if _, dup := ratings[d.Key()]; dup {
			return nil, errors.ValidationError(fmt.Sprintf("duplicate rating for %s", d.Key())).
				WithDetail("query", q.ID)
		}
		ratings[d.Key()] = d.Rating
	}

	hits := q.Hits
	if e.opts.K > 0 && len(hits) > e.opts.K {
		hits = hits[:e.opts.K]
	}

	// Get relevances for hits, collecting unrated ones in rank order.
	// A document repeated in the hits counts once, at its first rank.
	relevances := make([]int, 0, len(hits))
	seen := make(map[rankeval.DocumentKey]struct{}, len(hits))
	var unknown []rankeval.DocumentKey
	for _, hit := range hits {
		if _, dup := seen[hit]; dup {
			continue
		}
		seen[hit] = struct{}{}

		rating, ok := ratings[hit]
		if !ok {
			relevances = append(relevances, Unrated)
			unknown = append(unknown, hit)
			continue
		}
		relevances = append(relevances, rating)
	}

	var detail rankeval.MetricDetail
	switch e.opts.Metric {
	case rankeval.RecallName:
		detail = Recall(relevances, q.Ratings, e.opts.RelevantThreshold)
	case rankeval.ReciprocalRankName:
		detail = ReciprocalRank(relevances, e.opts.RelevantThreshold)
	default:
		detail = Precision(relevances, e.opts.RelevantThreshold, e.opts.IgnoreUnlabeled)
	}

	result := rankeval.NewEvaluationResult(q.ID, detail.Value(), unknown)
	result.AttachBreakdown(rankeval.NewBreakdown(detail))
	if err := result.Validate(); err != nil {
		return nil, err
	}

	e.log.WithResult(q.ID).Debug("query evaluated",
		"metric", e.opts.Metric,
		"quality_level", result.QualityLevel(),
		"hits", len(relevances),
		"unknown_docs", len(unknown),
	)
	return result, nil
}

// EvaluateAll evaluates queries concurrently, bounded by Options.Concurrency.
// Results are returned in query order. The first failure cancels the rest.
func (e *Evaluator) EvaluateAll(ctx context.Context, queries []Query) ([]*rankeval.EvaluationResult, error) {
	seen := make(map[string]struct{}, len(queries))
	for _, q := range queries {
		if _, dup := seen[q.ID]; dup {
			return nil, errors.ValidationError(fmt.Sprintf("duplicate query id: %s", q.ID))
		}
		seen[q.ID] = struct{}{}
	}

	results := make([]*rankeval.EvaluationResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for i, q := range queries {
		g.Go(func() error {
			result, err := e.EvaluateQuery(gctx, q)
			if err != nil {
				return fmt.Errorf("query %s: %w", q.ID, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summarize aggregates results across queries.
func (e *Evaluator) Summarize(results []*rankeval.EvaluationResult) *Summary {
	summary := &Summary{
		Metric:     e.opts.Metric,
		QueryCount: len(results),
	}
	if len(results) == 0 {
		return summary
	}

	for _, r := range results {
		summary.MeanQuality += r.QualityLevel()
		unknown := len(r.UnknownDocs())
		summary.UnknownDocs += unknown
		if unknown == 0 {
			summary.FullyRated++
		}
	}
	summary.MeanQuality /= float64(len(results))

	return summary
}
