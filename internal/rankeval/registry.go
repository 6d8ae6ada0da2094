package rankeval

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ricesearch/rank-eval/internal/pkg/errors"
)

// Decoder reads one breakdown payload. The input holds exactly the payload
// bytes; bytes left unread are reported as a malformed stream.
type Decoder func(in *StreamInput) (MetricDetail, error)

// Registry maps metric breakdown names to payload decoders.
//
// Registration happens during initialization. The first Decode call seals the
// registry, after which it is read-only and safe for concurrent use; Register
// on a sealed registry fails.
type Registry struct {
	mu       sync.Mutex
	decoders map[string]Decoder
	sealed   bool
	sealOnce sync.Once
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]Decoder),
	}
}

// Register adds a decoder for name.
func (r *Registry) Register(name string, decoder Decoder) error {
	if name == "" {
		return errors.ValidationError("metric breakdown name cannot be empty")
	}
	if decoder == nil {
		return errors.ValidationError("metric breakdown decoder cannot be nil").WithDetail("name", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return errors.New(errors.CodeInternal, "registry is sealed").WithDetail("name", name)
	}
	if _, exists := r.decoders[name]; exists {
		return errors.DuplicateRegistrationError(name)
	}

	r.decoders[name] = decoder
	return nil
}

// MustRegister is like Register but panics on error. Intended for init-time
// wiring where a duplicate name must abort startup.
func (r *Registry) MustRegister(name string, decoder Decoder) *Registry {
	if err := r.Register(name, decoder); err != nil {
		panic(err)
	}
	return r
}

// Seal freezes the registry. Calling it more than once is harmless.
func (r *Registry) Seal() {
	r.sealOnce.Do(func() {
		r.mu.Lock()
		r.sealed = true
		r.mu.Unlock()
	})
}

// Sealed reports whether the registry is read-only.
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// Decode resolves name and decodes payload with the registered decoder.
// A nil registry behaves as an empty one.
func (r *Registry) Decode(name string, payload []byte) (MetricDetail, error) {
	if r == nil {
		return nil, errors.UnknownVariantError(name)
	}
	r.Seal()

	decoder, ok := r.decoders[name]
	if !ok {
		return nil, errors.UnknownVariantError(name)
	}

	in := NewStreamInput(payload)
	detail, err := decoder(in)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, errors.MalformedStreamError("decoder returned no breakdown").WithDetail("name", name)
	}
	if detail.MetricName() != name {
		return nil, errors.InternalError("decoder produced a breakdown with a different name",
			fmt.Errorf("registered as %q, produced %q", name, detail.MetricName())).
			WithDetail("name", name)
	}
	if err := in.Finish(); err != nil {
		return nil, err
	}
	return detail, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.decoders[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterBuiltins registers every breakdown shipped with this package.
func RegisterBuiltins(r *Registry) error {
	builtins := []struct {
		name    string
		decoder Decoder
	}{
		{PrecisionName, ReadPrecisionBreakdown},
		{RecallName, ReadRecallBreakdown},
		{ReciprocalRankName, ReadReciprocalRankBreakdown},
	}
	for _, b := range builtins {
		if err := r.Register(b.name, b.decoder); err != nil {
			return err
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns a sealed registry holding the built-in breakdowns.
// Callers that need plugin breakdowns build their own with NewRegistry and
// RegisterBuiltins.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		if err := RegisterBuiltins(r); err != nil {
			panic(err)
		}
		r.Seal()
		defaultRegistry = r
	})
	return defaultRegistry
}
