package rankeval

import "github.com/ricesearch/rank-eval/internal/pkg/hash"

// Built-in breakdown names.
const (
	PrecisionName      = "precision"
	RecallName         = "recall"
	ReciprocalRankName = "reciprocal_rank"
)

// PrecisionBreakdown holds the counts behind precision: how many retrieved
// documents were relevant out of how many were retrieved.
type PrecisionBreakdown struct {
	RelevantRetrieved uint32 `json:"relevant_docs_retrieved"`
	Retrieved         uint32 `json:"docs_retrieved"`
}

// NewPrecisionBreakdown creates a precision breakdown.
func NewPrecisionBreakdown(relevantRetrieved, retrieved uint32) PrecisionBreakdown {
	return PrecisionBreakdown{RelevantRetrieved: relevantRetrieved, Retrieved: retrieved}
}

// MetricName returns PrecisionName.
func (p PrecisionBreakdown) MetricName() string { return PrecisionName }

// WritePayload writes RelevantRetrieved then Retrieved as uint32.
func (p PrecisionBreakdown) WritePayload(out *StreamOutput) {
	out.WriteUint32(p.RelevantRetrieved)
	out.WriteUint32(p.Retrieved)
}

// Value is RelevantRetrieved/Retrieved, and 0 when nothing was retrieved.
func (p PrecisionBreakdown) Value() float64 {
	if p.Retrieved == 0 {
		return 0
	}
	return float64(p.RelevantRetrieved) / float64(p.Retrieved)
}

// Equal reports whether other is a PrecisionBreakdown with the same fields.
func (p PrecisionBreakdown) Equal(other MetricDetail) bool {
	o, ok := other.(PrecisionBreakdown)
	return ok && o == p
}

// HashInto adds the two counts to h.
func (p PrecisionBreakdown) HashInto(h *hash.Hasher) {
	h.Uint64(uint64(p.RelevantRetrieved)).Uint64(uint64(p.Retrieved))
}

// ReadPrecisionBreakdown decodes a precision payload.
func ReadPrecisionBreakdown(in *StreamInput) (MetricDetail, error) {
	relevant, err := in.ReadUint32()
	if err != nil {
		return nil, err
	}
	retrieved, err := in.ReadUint32()
	if err != nil {
		return nil, err
	}
	return PrecisionBreakdown{RelevantRetrieved: relevant, Retrieved: retrieved}, nil
}

// RecallBreakdown holds the counts behind recall: how many relevant documents
// were retrieved out of all rated relevant documents.
type RecallBreakdown struct {
	RelevantRetrieved uint32 `json:"relevant_docs_retrieved"`
	Relevant          uint32 `json:"relevant_docs"`
}

// NewRecallBreakdown creates a recall breakdown.
func NewRecallBreakdown(relevantRetrieved, relevant uint32) RecallBreakdown {
	return RecallBreakdown{RelevantRetrieved: relevantRetrieved, Relevant: relevant}
}

// MetricName returns RecallName.
func (r RecallBreakdown) MetricName() string { return RecallName }

// WritePayload writes RelevantRetrieved then Relevant as uint32.
func (r RecallBreakdown) WritePayload(out *StreamOutput) {
	out.WriteUint32(r.RelevantRetrieved)
	out.WriteUint32(r.Relevant)
}

// Value is RelevantRetrieved/Relevant, and 0 when no document is relevant.
func (r RecallBreakdown) Value() float64 {
	if r.Relevant == 0 {
		return 0
	}
	return float64(r.RelevantRetrieved) / float64(r.Relevant)
}

// Equal reports whether other is a RecallBreakdown with the same fields.
func (r RecallBreakdown) Equal(other MetricDetail) bool {
	o, ok := other.(RecallBreakdown)
	return ok && o == r
}

// HashInto adds the two counts to h.
func (r RecallBreakdown) HashInto(h *hash.Hasher) {
	h.Uint64(uint64(r.RelevantRetrieved)).Uint64(uint64(r.Relevant))
}

// ReadRecallBreakdown decodes a recall payload.
func ReadRecallBreakdown(in *StreamInput) (MetricDetail, error) {
	relevantRetrieved, err := in.ReadUint32()
	if err != nil {
		return nil, err
	}
	relevant, err := in.ReadUint32()
	if err != nil {
		return nil, err
	}
	return RecallBreakdown{RelevantRetrieved: relevantRetrieved, Relevant: relevant}, nil
}

// NoRelevantRank marks a reciprocal rank breakdown with no relevant hit.
const NoRelevantRank int32 = -1

// ReciprocalRankBreakdown records the 1-based rank of the first relevant hit.
type ReciprocalRankBreakdown struct {
	FirstRelevantRank int32 `json:"first_relevant"`
}

// NewReciprocalRankBreakdown creates a reciprocal rank breakdown. Use
// NoRelevantRank when no hit was relevant.
func NewReciprocalRankBreakdown(firstRelevantRank int32) ReciprocalRankBreakdown {
	return ReciprocalRankBreakdown{FirstRelevantRank: firstRelevantRank}
}

// MetricName returns ReciprocalRankName.
func (r ReciprocalRankBreakdown) MetricName() string { return ReciprocalRankName }

// WritePayload writes FirstRelevantRank as int32.
func (r ReciprocalRankBreakdown) WritePayload(out *StreamOutput) {
	out.WriteInt32(r.FirstRelevantRank)
}

// Value is 1/FirstRelevantRank, and 0 for any rank below 1.
func (r ReciprocalRankBreakdown) Value() float64 {
	if r.FirstRelevantRank < 1 {
		return 0
	}
	return 1 / float64(r.FirstRelevantRank)
}

// Equal reports whether other is a ReciprocalRankBreakdown with the same fields.
func (r ReciprocalRankBreakdown) Equal(other MetricDetail) bool {
	o, ok := other.(ReciprocalRankBreakdown)
	return ok && o == r
}

// HashInto adds the rank to h.
func (r ReciprocalRankBreakdown) HashInto(h *hash.Hasher) {
	h.Int64(int64(r.FirstRelevantRank))
}

// ReadReciprocalRankBreakdown decodes a reciprocal rank payload.
func ReadReciprocalRankBreakdown(in *StreamInput) (MetricDetail, error) {
	rank, err := in.ReadInt32()
	if err != nil {
		return nil, err
	}
	return ReciprocalRankBreakdown{FirstRelevantRank: rank}, nil
}
