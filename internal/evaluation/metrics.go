package evaluation

import (
	"github.com/ricesearch/rank-eval/internal/rankeval"
)

// Unrated marks a hit that has no rating in a relevance list.
const Unrated = -1

// Precision counts relevant hits among the retrieved ones. Unrated hits count
// as retrieved unless ignoreUnlabeled is set.
func Precision(relevances []int, threshold int, ignoreUnlabeled bool) rankeval.PrecisionBreakdown {
	var relevant, retrieved uint32
	for _, r := range relevances {
		if r == Unrated {
			if !ignoreUnlabeled {
				retrieved++
			}
			continue
		}
		retrieved++
		if r >= threshold {
			relevant++
		}
	}
	return rankeval.NewPrecisionBreakdown(relevant, retrieved)
}

// Recall counts relevant hits against all documents rated relevant for the
// query, retrieved or not.
func Recall(relevances []int, ratings []RatedDocument, threshold int) rankeval.RecallBreakdown {
	var relevant uint32
	for _, d := range ratings {
		if d.Rating >= threshold {
			relevant++
		}
	}

	var retrieved uint32
	for _, r := range relevances {
		if r != Unrated && r >= threshold {
			retrieved++
		}
	}
	return rankeval.NewRecallBreakdown(retrieved, relevant)
}

// ReciprocalRank records the 1-based rank of the first relevant hit.
func ReciprocalRank(relevances []int, threshold int) rankeval.ReciprocalRankBreakdown {
	for i, r := range relevances {
		if r != Unrated && r >= threshold {
			return rankeval.NewReciprocalRankBreakdown(int32(i + 1))
		}
	}
	return rankeval.NewReciprocalRankBreakdown(rankeval.NoRelevantRank)
}
