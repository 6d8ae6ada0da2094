package rankeval

import (
	"encoding/json"

	"github.com/ricesearch/rank-eval/internal/pkg/hash"
)

// MetricDetail is the payload of a breakdown: the metric-specific evidence
// behind a quality score. Implementations are immutable values.
type MetricDetail interface {
	// MetricName is the registry name written ahead of the payload.
	MetricName() string

	// WritePayload writes the payload fields. The length prefix is added by
	// the caller.
	WritePayload(out *StreamOutput)

	// Value derives the scalar metric value. It never fails.
	Value() float64

	// Equal reports whether other has the same concrete type and fields.
	Equal(other MetricDetail) bool

	// HashInto adds the payload fields to h, consistently with Equal.
	HashInto(h *hash.Hasher)
}

// Breakdown wraps a MetricDetail with its name. A nil *Breakdown means the
// result carries no breakdown.
type Breakdown struct {
	detail MetricDetail
}

// NewBreakdown wraps detail. A nil detail yields a nil breakdown.
func NewBreakdown(detail MetricDetail) *Breakdown {
	if detail == nil {
		return nil
	}
	return &Breakdown{detail: detail}
}

// Name returns the variant name, or "" for a nil breakdown.
func (b *Breakdown) Name() string {
	if b == nil {
		return ""
	}
	return b.detail.MetricName()
}

// Detail returns the payload.
func (b *Breakdown) Detail() MetricDetail {
	if b == nil {
		return nil
	}
	return b.detail
}

// Value returns the payload's metric value, or 0 for a nil breakdown.
func (b *Breakdown) Value() float64 {
	if b == nil {
		return 0
	}
	return b.detail.Value()
}

// Encode returns the variant name and the payload bytes.
func (b *Breakdown) Encode() (string, []byte) {
	out := NewStreamOutput()
	b.detail.WritePayload(out)
	return b.detail.MetricName(), out.Bytes()
}

// DecodeBreakdown resolves name in reg and decodes payload.
func DecodeBreakdown(name string, payload []byte, reg *Registry) (*Breakdown, error) {
	detail, err := reg.Decode(name, payload)
	if err != nil {
		return nil, err
	}
	return &Breakdown{detail: detail}, nil
}

// Equal reports whether both breakdowns are absent, or both carry the same
// name and equal payloads.
func (b *Breakdown) Equal(other *Breakdown) bool {
	if b == nil || other == nil {
		return b == nil && other == nil
	}
	return b.detail.MetricName() == other.detail.MetricName() && b.detail.Equal(other.detail)
}

// Hash returns a hash consistent with Equal.
func (b *Breakdown) Hash() uint64 {
	h := hash.NewHasher()
	b.hashInto(h)
	return h.Sum64()
}

func (b *Breakdown) hashInto(h *hash.Hasher) {
	if b == nil {
		h.Bool(false)
		return
	}
	h.Bool(true).String(b.detail.MetricName())
	b.detail.HashInto(h)
}

// MarshalJSON renders the breakdown as {"<name>": <payload>}.
func (b *Breakdown) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]MetricDetail{b.detail.MetricName(): b.detail})
}
