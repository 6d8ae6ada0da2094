package rankeval

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/ricesearch/rank-eval/internal/pkg/errors"
	"github.com/ricesearch/rank-eval/internal/pkg/hash"
)

// EvaluationResult is the quality of one evaluated query: its id, the
// quality level in [0, 1], the hits that had no rating and an optional
// metric breakdown.
//
// The breakdown is attached after construction, once the metric has been
// computed. Order of unknown docs is significant for equality.
type EvaluationResult struct {
	id           string
	qualityLevel float64
	unknownDocs  []DocumentKey
	breakdown    *Breakdown
}

// NewEvaluationResult creates a result without a breakdown. unknownDocs is copied.
func NewEvaluationResult(id string, qualityLevel float64, unknownDocs []DocumentKey) *EvaluationResult {
	return &EvaluationResult{
		id:           id,
		qualityLevel: qualityLevel,
		unknownDocs:  slices.Clone(unknownDocs),
	}
}

// ID returns the query id.
func (r *EvaluationResult) ID() string { return r.id }

// QualityLevel returns the aggregate score.
func (r *EvaluationResult) QualityLevel() float64 { return r.qualityLevel }

// UnknownDocs returns a copy of the unrated document keys.
func (r *EvaluationResult) UnknownDocs() []DocumentKey { return slices.Clone(r.unknownDocs) }

// Breakdown returns the attached breakdown, or nil.
func (r *EvaluationResult) Breakdown() *Breakdown { return r.breakdown }

// AttachBreakdown sets the breakdown, replacing any previous one. nil clears it.
func (r *EvaluationResult) AttachBreakdown(b *Breakdown) {
	r.breakdown = b
}

// WithBreakdown returns a copy of r carrying b. r is unchanged.
func (r *EvaluationResult) WithBreakdown(b *Breakdown) *EvaluationResult {
	c := NewEvaluationResult(r.id, r.qualityLevel, r.unknownDocs)
	c.breakdown = b
	return c
}

// Validate checks the invariants the constructor trusts callers with,
// including that every string fits its uint32 length prefix.
func (r *EvaluationResult) Validate() error {
	if r.id == "" {
		return errors.ValidationError("id cannot be empty")
	}
	if !utf8.ValidString(r.id) {
		return errors.ValidationError("id must be valid UTF-8")
	}
	if uint64(len(r.id)) > maxFieldLen {
		return errors.ValidationError(fmt.Sprintf("id is %d bytes, limit is %d", len(r.id), maxFieldLen))
	}
	if uint64(len(r.unknownDocs)) > maxFieldLen {
		return errors.ValidationError(fmt.Sprintf("%d unknown docs exceed the limit of %d", len(r.unknownDocs), maxFieldLen)).
			WithDetail("id", r.id)
	}
	for _, k := range r.unknownDocs {
		if uint64(len(k.Index)) > maxFieldLen || uint64(len(k.DocID)) > maxFieldLen {
			return errors.ValidationError(fmt.Sprintf("unknown doc key exceeds %d bytes", maxFieldLen)).
				WithDetail("id", r.id)
		}
	}
	if !validQuality(r.qualityLevel) {
		return errors.ValidationError(fmt.Sprintf("quality level %v outside [0, 1]", r.qualityLevel)).
			WithDetail("id", r.id)
	}
	return nil
}

func validQuality(q float64) bool {
	return !math.IsNaN(q) && q >= 0 && q <= 1
}

// Equal reports structural equality over id, quality level, unknown docs and
// breakdown. Quality levels compare by bit pattern, matching Hash.
func (r *EvaluationResult) Equal(other *EvaluationResult) bool {
	if r == nil || other == nil {
		return r == nil && other == nil
	}
	return r.id == other.id &&
		math.Float64bits(r.qualityLevel) == math.Float64bits(other.qualityLevel) &&
		slices.Equal(r.unknownDocs, other.unknownDocs) &&
		r.breakdown.Equal(other.breakdown)
}

// Hash combines the same four components Equal compares.
func (r *EvaluationResult) Hash() uint64 {
	h := hash.NewHasher()
	h.String(r.id).Float64(r.qualityLevel).Uint64(uint64(len(r.unknownDocs)))
	for _, k := range r.unknownDocs {
		k.hashInto(h)
	}
	r.breakdown.hashInto(h)
	return h.Sum64()
}

// Encode writes r in wire order: id, quality level, unknown docs, presence
// flag and, when present, breakdown name and length-prefixed payload.
func (r *EvaluationResult) Encode(out *StreamOutput) {
	out.WriteString(r.id)
	out.WriteFloat64(r.qualityLevel)
	out.WriteUint32(uint32(len(r.unknownDocs)))
	for _, k := range r.unknownDocs {
		k.Encode(out)
	}
	out.WriteBool(r.breakdown != nil)
	if r.breakdown != nil {
		name, payload := r.breakdown.Encode()
		out.WriteString(name)
		out.WriteBytes(payload)
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r *EvaluationResult) MarshalBinary() ([]byte, error) {
	out := NewStreamOutput()
	r.Encode(out)
	return out.Bytes(), nil
}

// EncodeTo writes the encoded result to w.
func (r *EvaluationResult) EncodeTo(w io.Writer) error {
	out := NewStreamOutput()
	r.Encode(out)
	return out.CopyTo(w)
}

// ReadEvaluationResult reads one result from in, resolving the breakdown
// through reg. Bytes after the result are left for the caller.
func ReadEvaluationResult(in *StreamInput, reg *Registry) (*EvaluationResult, error) {
	id, err := in.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading id: %w", err)
	}

	quality, err := in.ReadFloat64()
	if err != nil {
		return nil, fmt.Errorf("reading quality level: %w", err)
	}
	if !validQuality(quality) {
		return nil, errors.MalformedStreamError(fmt.Sprintf("quality level %v outside [0, 1]", quality)).
			WithDetail("id", id)
	}

	count, err := in.ReadCount(documentKeyMinSize)
	if err != nil {
		return nil, fmt.Errorf("reading unknown docs: %w", err)
	}
	unknownDocs := make([]DocumentKey, 0, count)
	for i := 0; i < count; i++ {
		k, err := ReadDocumentKey(in)
		if err != nil {
			return nil, fmt.Errorf("reading unknown doc %d: %w", i, err)
		}
		unknownDocs = append(unknownDocs, k)
	}

	result := &EvaluationResult{
		id:           id,
		qualityLevel: quality,
		unknownDocs:  unknownDocs,
	}

	present, err := in.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("reading breakdown flag: %w", err)
	}
	if !present {
		return result, nil
	}

	name, err := in.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading breakdown name: %w", err)
	}
	payload, err := in.ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("reading breakdown payload: %w", err)
	}
	breakdown, err := DecodeBreakdown(name, payload, reg)
	if err != nil {
		return nil, fmt.Errorf("decoding breakdown: %w", err)
	}
	result.breakdown = breakdown

	return result, nil
}

// DecodeEvaluationResult decodes a result that occupies all of data.
func DecodeEvaluationResult(data []byte, reg *Registry) (*EvaluationResult, error) {
	in := NewStreamInput(data)
	result, err := ReadEvaluationResult(in, reg)
	if err != nil {
		return nil, err
	}
	if err := in.Finish(); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeFrom reads r to EOF and decodes a single result.
func DecodeFrom(r io.Reader, reg *Registry) (*EvaluationResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "reading stream", err)
	}
	return DecodeEvaluationResult(data, reg)
}

type resultJSON struct {
	ID            string        `json:"id"`
	QualityLevel  float64       `json:"quality_level"`
	UnknownDocs   []DocumentKey `json:"unknown_docs"`
	MetricDetails *Breakdown    `json:"metric_details,omitempty"`
}

// MarshalJSON renders the result for display.
func (r *EvaluationResult) MarshalJSON() ([]byte, error) {
	docs := r.unknownDocs
	if docs == nil {
		docs = []DocumentKey{}
	}
	return json.Marshal(resultJSON{
		ID:            r.id,
		QualityLevel:  r.qualityLevel,
		UnknownDocs:   docs,
		MetricDetails: r.breakdown,
	})
}

func (r *EvaluationResult) String() string {
	return fmt.Sprintf("EvaluationResult{id=%s, quality=%v, unknown=%d, breakdown=%s}",
		r.id, r.qualityLevel, len(r.unknownDocs), r.breakdown.Name())
}
