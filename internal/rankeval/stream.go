package rankeval

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/ricesearch/rank-eval/internal/pkg/errors"
)

// StreamOutput accumulates the big-endian wire encoding of rank-eval values.
type StreamOutput struct {
	buf bytes.Buffer
}

// NewStreamOutput creates an empty output stream.
func NewStreamOutput() *StreamOutput {
	return &StreamOutput{}
}

// WriteUint32 writes v as 4 bytes.
func (o *StreamOutput) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	o.buf.Write(b[:])
}

// WriteInt32 writes v as 4 bytes, two's complement.
func (o *StreamOutput) WriteInt32(v int32) {
	o.WriteUint32(uint32(v))
}

// WriteFloat64 writes v as 8 bytes IEEE-754 binary64.
func (o *StreamOutput) WriteFloat64(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	o.buf.Write(b[:])
}

// WriteBool writes a single presence byte.
func (o *StreamOutput) WriteBool(v bool) {
	if v {
		o.buf.WriteByte(1)
		return
	}
	o.buf.WriteByte(0)
}

// maxFieldLen is the longest string or byte field a uint32 length prefix can
// describe. Callers check it before encoding; EvaluationResult.Validate does.
var maxFieldLen uint64 = math.MaxUint32

// WriteString writes a uint32 byte length followed by the bytes of s.
// s must not exceed math.MaxUint32 bytes.
func (o *StreamOutput) WriteString(s string) {
	o.WriteUint32(uint32(len(s)))
	o.buf.WriteString(s)
}

// WriteBytes writes a uint32 length followed by p. p must not exceed
// math.MaxUint32 bytes.
func (o *StreamOutput) WriteBytes(p []byte) {
	o.WriteUint32(uint32(len(p)))
	o.buf.Write(p)
}

// Len returns the number of bytes written so far.
func (o *StreamOutput) Len() int {
	return o.buf.Len()
}

// Bytes returns a copy of the encoded bytes.
func (o *StreamOutput) Bytes() []byte {
	return bytes.Clone(o.buf.Bytes())
}

// CopyTo writes the encoded bytes to w.
func (o *StreamOutput) CopyTo(w io.Writer) error {
	if _, err := w.Write(o.buf.Bytes()); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "writing stream", err)
	}
	return nil
}

// StreamInput reads values written by StreamOutput. Every read checks the
// remaining length first and fails with a MALFORMED_STREAM error instead of
// reading past the end.
type StreamInput struct {
	data []byte
	off  int
}

// NewStreamInput creates an input stream over data. The caller keeps ownership
// of data; values read from the stream never alias it.
func NewStreamInput(data []byte) *StreamInput {
	return &StreamInput{data: data}
}

// Remaining returns the number of unread bytes.
func (in *StreamInput) Remaining() int {
	return len(in.data) - in.off
}

func (in *StreamInput) take(n int, what string) ([]byte, error) {
	if n < 0 || n > in.Remaining() {
		return nil, errors.MalformedStreamError(
			fmt.Sprintf("reading %s: need %d bytes, %d remaining", what, n, in.Remaining()),
		).WithDetail("offset", fmt.Sprintf("%d", in.off))
	}
	p := in.data[in.off : in.off+n]
	in.off += n
	return p, nil
}

// ReadUint32 reads 4 bytes.
func (in *StreamInput) ReadUint32() (uint32, error) {
	p, err := in.take(4, "uint32")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

// ReadInt32 reads 4 bytes as a signed value.
func (in *StreamInput) ReadInt32() (int32, error) {
	v, err := in.ReadUint32()
	return int32(v), err
}

// ReadFloat64 reads 8 bytes IEEE-754 binary64.
func (in *StreamInput) ReadFloat64() (float64, error) {
	p, err := in.take(8, "float64")
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}

// ReadBool reads one byte; any nonzero value is true.
func (in *StreamInput) ReadBool() (bool, error) {
	p, err := in.take(1, "presence flag")
	if err != nil {
		return false, err
	}
	return p[0] != 0, nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (in *StreamInput) ReadString() (string, error) {
	n, err := in.ReadUint32()
	if err != nil {
		return "", err
	}
	p, err := in.take(int(n), "string")
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", errors.MalformedStreamError("string is not valid UTF-8")
	}
	return string(p), nil
}

// ReadBytes reads a length-prefixed byte slice. The result is a copy.
func (in *StreamInput) ReadBytes() ([]byte, error) {
	n, err := in.ReadUint32()
	if err != nil {
		return nil, err
	}
	p, err := in.take(int(n), "bytes")
	if err != nil {
		return nil, err
	}
	return bytes.Clone(p), nil
}

// ReadCount reads a uint32 element count and rejects counts that cannot fit
// in the remaining bytes given each element takes at least minSize bytes.
func (in *StreamInput) ReadCount(minSize int) (int, error) {
	n, err := in.ReadUint32()
	if err != nil {
		return 0, err
	}
	if minSize > 0 && uint64(n)*uint64(minSize) > uint64(in.Remaining()) {
		return 0, errors.MalformedStreamError(
			fmt.Sprintf("count %d exceeds %d remaining bytes", n, in.Remaining()),
		)
	}
	return int(n), nil
}

// Finish fails if unread bytes remain.
func (in *StreamInput) Finish() error {
	if r := in.Remaining(); r != 0 {
		return errors.MalformedStreamError(fmt.Sprintf("%d trailing bytes", r))
	}
	return nil
}
