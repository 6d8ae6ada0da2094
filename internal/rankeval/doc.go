// Package rankeval holds the per-query result of a ranking evaluation and its
// binary codec.
//
// An EvaluationResult may carry a Breakdown whose payload type is open: any
// MetricDetail registered by name in a Registry can be decoded. Encoding
// needs no registry; decoding always takes one explicitly, so callers can
// decode with an isolated set of variants.
//
//	reg := rankeval.NewRegistry()
//	if err := rankeval.RegisterBuiltins(reg); err != nil {
//	    return err
//	}
//	reg.MustRegister("ndcg", readNDCG)
//
//	r := rankeval.NewEvaluationResult("q1", 0.5, nil)
//	r.AttachBreakdown(rankeval.NewBreakdown(rankeval.NewPrecisionBreakdown(1, 5)))
//	data, _ := r.MarshalBinary()
//	copy, err := rankeval.DecodeEvaluationResult(data, reg)
package rankeval
