package evaluation

import (
	"github.com/ricesearch/rank-eval/internal/rankeval"
)

// RatedDocument is a human relevance label for one document of a query.
type RatedDocument struct {
	Index  string `json:"_index" yaml:"index"`
	DocID  string `json:"_id" yaml:"id"`
	Rating int    `json:"rating" yaml:"rating"` // 0=not relevant, 1=partially, 2=relevant, 3=highly
}

// Key returns the document key the rating applies to.
func (d RatedDocument) Key() rankeval.DocumentKey {
	return rankeval.NewDocumentKey(d.Index, d.DocID)
}

// Query is one rated request together with the ranked hits the search
// system returned for it.
type Query struct {
	ID      string                 `json:"id" yaml:"id"`
	Ratings []RatedDocument        `json:"ratings" yaml:"ratings"`
	Hits    []rankeval.DocumentKey `json:"hits" yaml:"hits"`
}

// Options controls how queries are scored.
type Options struct {
	// Metric names the breakdown to compute: precision, recall or reciprocal_rank.
	Metric string

	// RelevantThreshold is the lowest rating counted as relevant.
	RelevantThreshold int

	// IgnoreUnlabeled drops unrated hits from the precision denominator.
	IgnoreUnlabeled bool

	// K limits evaluation to the top K hits. 0 means all hits.
	K int

	// Concurrency bounds parallel query evaluation in EvaluateAll.
	Concurrency int
}

// DefaultOptions returns precision with threshold 1 over all hits.
func DefaultOptions() Options {
	return Options{
		Metric:            rankeval.PrecisionName,
		RelevantThreshold: 1,
		Concurrency:       4,
	}
}

// Summary aggregates results across queries.
type Summary struct {
	Metric      string  `json:"metric"`
	QueryCount  int     `json:"query_count"`
	MeanQuality float64 `json:"mean_quality_level"`
	UnknownDocs int     `json:"unknown_docs"`
	FullyRated  int     `json:"fully_rated_queries"`
}
