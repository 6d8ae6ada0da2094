package ranktest

import (
	"math/rand/v2"
	"slices"

	"github.com/ricesearch/rank-eval/internal/rankeval"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewRand returns a deterministic source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomString returns an ASCII string of length n.
func RandomString(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.IntN(len(letters))]
	}
	return string(b)
}

// RandomDocumentKey returns a key with short random fields.
func RandomDocumentKey(rng *rand.Rand) rankeval.DocumentKey {
	return rankeval.NewDocumentKey(RandomString(rng, 1+rng.IntN(10)), RandomString(rng, 1+rng.IntN(10)))
}

// RandomBreakdown returns one of the built-in breakdowns with random fields.
func RandomBreakdown(rng *rand.Rand) *rankeval.Breakdown {
	switch rng.IntN(3) {
	case 0:
		retrieved := rng.Uint32N(50)
		return rankeval.NewBreakdown(rankeval.NewPrecisionBreakdown(rng.Uint32N(retrieved+1), retrieved))
	case 1:
		relevant := rng.Uint32N(50)
		return rankeval.NewBreakdown(rankeval.NewRecallBreakdown(rng.Uint32N(relevant+1), relevant))
	default:
		return rankeval.NewBreakdown(rankeval.NewReciprocalRankBreakdown(rng.Int32N(20) - 1))
	}
}

// RandomEvaluationResult returns a valid result with up to five unknown docs
// and, half of the time, a breakdown.
func RandomEvaluationResult(rng *rand.Rand) *rankeval.EvaluationResult {
	docs := make([]rankeval.DocumentKey, rng.IntN(6))
	for i := range docs {
		docs[i] = RandomDocumentKey(rng)
	}

	r := rankeval.NewEvaluationResult(RandomString(rng, 10), rng.Float64(), docs)
	if rng.IntN(2) == 0 {
		r.AttachBreakdown(RandomBreakdown(rng))
	}
	return r
}

// MutateEvaluationResult returns a new result differing from original in
// exactly one of id, quality level, unknown docs or breakdown.
func MutateEvaluationResult(rng *rand.Rand, original *rankeval.EvaluationResult) *rankeval.EvaluationResult {
	id := original.ID()
	quality := original.QualityLevel()
	docs := original.UnknownDocs()
	breakdown := original.Breakdown()

	switch rng.IntN(4) {
	case 0:
		id += "_"
	case 1:
		quality += 0.1
	case 2:
		docs = append(slices.Clone(docs), RandomDocumentKey(rng))
	default:
		if breakdown == nil {
			breakdown = rankeval.NewBreakdown(rankeval.NewPrecisionBreakdown(1, 5))
		} else {
			breakdown = nil
		}
	}

	mutated := rankeval.NewEvaluationResult(id, quality, docs)
	mutated.AttachBreakdown(breakdown)
	return mutated
}
