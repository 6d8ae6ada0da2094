// Package ranktest provides contract checks and random fixtures for values
// with structural equality.
package ranktest

import (
	"reflect"
	"testing"

	"github.com/ricesearch/rank-eval/internal/rankeval"
)

// Value is a type with structural equality and a hash consistent with it.
type Value[T any] interface {
	Equal(other T) bool
	Hash() uint64
}

// CheckEqualsAndHash verifies the equality contract of a value type.
// original and copy must be equal, typically copy comes from CopyViaStream;
// mutated must differ from original in exactly one field.
func CheckEqualsAndHash[T Value[T]](t testing.TB, original, mutated, copy T) {
	t.Helper()

	if !original.Equal(original) {
		t.Errorf("original is not equal to itself: %v", original)
	}
	if !original.Equal(copy) {
		t.Errorf("original != copy\noriginal: %v\ncopy:     %v", original, copy)
	}
	if !copy.Equal(original) {
		t.Errorf("equality is not symmetric: copy != original")
	}
	if original.Hash() != copy.Hash() {
		t.Errorf("hash(original) = %d, hash(copy) = %d", original.Hash(), copy.Hash())
	}
	if sameInstance(original, copy) {
		t.Errorf("copy is the same instance as original")
	}

	if original.Equal(mutated) {
		t.Errorf("original == mutated\noriginal: %v\nmutated:  %v", original, mutated)
	}
	if mutated.Equal(original) {
		t.Errorf("equality is not symmetric: mutated == original")
	}

	// Repeated calls must agree.
	for i := 0; i < 3; i++ {
		if !original.Equal(copy) || original.Equal(mutated) {
			t.Fatalf("equality changed on call %d", i+2)
		}
		if original.Hash() != copy.Hash() {
			t.Fatalf("hash changed on call %d", i+2)
		}
	}
}

func sameInstance(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return !va.IsNil() && va.Pointer() == vb.Pointer()
}

// CopyViaStream encodes original and decodes it back, failing the test on
// any error or unread bytes.
func CopyViaStream[T any](
	t testing.TB,
	original T,
	encode func(T, *rankeval.StreamOutput),
	decode func(*rankeval.StreamInput) (T, error),
) T {
	t.Helper()

	out := rankeval.NewStreamOutput()
	encode(original, out)

	in := rankeval.NewStreamInput(out.Bytes())
	copied, err := decode(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := in.Finish(); err != nil {
		t.Fatalf("decode left bytes: %v", err)
	}
	return copied
}

// CopyResult round-trips r through its binary encoding using reg.
func CopyResult(t testing.TB, r *rankeval.EvaluationResult, reg *rankeval.Registry) *rankeval.EvaluationResult {
	t.Helper()
	return CopyViaStream(t, r,
		func(v *rankeval.EvaluationResult, out *rankeval.StreamOutput) { v.Encode(out) },
		func(in *rankeval.StreamInput) (*rankeval.EvaluationResult, error) {
			return rankeval.ReadEvaluationResult(in, reg)
		},
	)
}
