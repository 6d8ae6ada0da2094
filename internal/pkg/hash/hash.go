// Package hash provides hashing utilities.
package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/cespare/xxhash/v2"
)

// SHA256 computes the SHA256 hash of data and returns it as a hex string.
func SHA256(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SHA256String computes the SHA256 hash of a string.
func SHA256String(s string) string {
	return SHA256([]byte(s))
}

// SHA256Short returns the first n characters of a SHA256 hash.
func SHA256Short(data []byte, n int) string {
	h := SHA256(data)
	if n > len(h) {
		return h
	}
	return h[:n]
}

// Hasher accumulates field values into a 64-bit structural hash.
// Strings are length-prefixed so ("ab","c") and ("a","bc") differ.
type Hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{d: xxhash.New()}
}

// String adds s to the hash.
func (h *Hasher) String(s string) *Hasher {
	h.Uint64(uint64(len(s)))
	_, _ = h.d.WriteString(s)
	return h
}

// Uint64 adds v to the hash.
func (h *Hasher) Uint64(v uint64) *Hasher {
	binary.BigEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
	return h
}

// Int64 adds v to the hash.
func (h *Hasher) Int64(v int64) *Hasher {
	return h.Uint64(uint64(v))
}

// Float64 adds the bit pattern of v to the hash.
func (h *Hasher) Float64(v float64) *Hasher {
	return h.Uint64(math.Float64bits(v))
}

// Bool adds b to the hash.
func (h *Hasher) Bool(b bool) *Hasher {
	if b {
		return h.Uint64(1)
	}
	return h.Uint64(0)
}

// Sum64 returns the hash of everything added so far.
func (h *Hasher) Sum64() uint64 {
	return h.d.Sum64()
}
