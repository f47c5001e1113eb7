package waveshape

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-feedbackws/dsp/core"
)

// selectorOffset is subtracted from a normalized selector value before it is
// scaled, so that a knob at exactly k/len still selects entry k-1.
const selectorOffset = 0.001

// Entry is one registered transfer function.
type Entry struct {
	Kind       Kind
	Name       string
	Descriptor string
	// Params is the number of shape parameters the function reads (a, b, c, d in order).
	Params int
	Func   Func
}

// Apply evaluates the transfer function and replaces a non-finite result by 0.
func (e Entry) Apply(x, a, b, c, d float64) float64 {
	y := e.Func(x, a, b, c, d)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0
	}

	return y
}

var builtin = [...]Entry{
	KindLogistic: {
		Kind: KindLogistic, Name: "logistic", Params: 1, Func: Logistic,
		Descriptor: "2(1/1+e^(-a*x)))-1",
	},
	KindSinLog: {
		Kind: KindSinLog, Name: "sinlog", Params: 1, Func: SinLog,
		Descriptor: "sin(a*log(x+1))",
	},
	KindXSinXSquared: {
		Kind: KindXSinXSquared, Name: "xsinx2", Params: 1, Func: XSinXSquared,
		Descriptor: "x * sin(x^2 + a))",
	},
	KindSinFun: {
		Kind: KindSinFun, Name: "sinfun", Params: 2, Func: SinFun,
		Descriptor: "x * (a + (1 - a)) * (1 + sin(x * b * 200))",
	},
	KindFMLogistic: {
		Kind: KindFMLogistic, Name: "fmlogistic", Params: 2, Func: FMLogistic,
		Descriptor: "2 * (1 / 1 + e ^ (-x * a * cos (b * 50 / (2 * pi)))) - 1",
	},
	KindSineFM: {
		Kind: KindSineFM, Name: "sinefm", Params: 4, Func: SineFM,
		Descriptor: "x * (1 - d) + d * sin(x * b + curve(a) * sin(x * c))",
	},
}

var (
	errEmptyRegistry = errors.New("waveshape: registry needs at least one shaper")
	errDuplicateKind = errors.New("waveshape: duplicate shaper")
)

// Registry is an immutable, ordered set of transfer functions.
type Registry struct {
	entries []Entry
}

// NewRegistry builds a registry holding kinds in the given order.
func NewRegistry(kinds ...Kind) (*Registry, error) {
	if len(kinds) == 0 {
		return nil, errEmptyRegistry
	}

	seen := make(map[Kind]struct{}, len(kinds))
	entries := make([]Entry, 0, len(kinds))

	for _, k := range kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("waveshape: shaper kind is invalid: %d", int(k))
		}

		if _, ok := seen[k]; ok {
			return nil, fmt.Errorf("%w: %s", errDuplicateKind, k)
		}

		seen[k] = struct{}{}
		entries = append(entries, builtin[k])
	}

	return &Registry{entries: entries}, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(kinds ...Kind) *Registry {
	r, err := NewRegistry(kinds...)
	if err != nil {
		panic(err)
	}

	return r
}

// Default returns a registry holding every known shaper.
func Default() *Registry {
	return MustRegistry(Kinds()...)
}

// Canonical returns the five-shaper registry of the two-parameter plugin layout.
func Canonical() *Registry {
	return MustRegistry(KindLogistic, KindSinLog, KindXSinXSquared, KindSinFun, KindFMLogistic)
}

// Len returns the number of registered shapers.
func (r *Registry) Len() int { return len(r.entries) }

// Entry returns the shaper at index i. Out-of-range indices are clamped.
func (r *Registry) Entry(i int) Entry {
	return r.entries[r.clampIndex(i)]
}

// Entries returns a copy of all entries in registry order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out
}

// IndexOf returns the position of kind in the registry.
func (r *Registry) IndexOf(kind Kind) (int, bool) {
	for i, e := range r.entries {
		if e.Kind == kind {
			return i, true
		}
	}

	return 0, false
}

// MaxParams returns the largest number of shape parameters any entry reads.
func (r *Registry) MaxParams() int {
	n := 0
	for _, e := range r.entries {
		n = max(n, e.Params)
	}

	return n
}

// IndexFromNormalized maps a host-normalized selector value to an index as
// floor((v - 0.001) * Len()), clamped to [0, Len()-1]. Non-finite values
// select index 0.
func (r *Registry) IndexFromNormalized(v float64) int {
	if !core.IsFinite(v) {
		return 0
	}

	v = core.Clamp(v, 0, 1)

	return r.clampIndex(int(math.Floor((v - selectorOffset) * float64(len(r.entries)))))
}

// Normalized returns the selector value reported back to a host for index i:
// the centre of the index's bin, so that IndexFromNormalized(Normalized(i)) == i.
func (r *Registry) Normalized(i int) float64 {
	return (float64(r.clampIndex(i)) + 0.5) / float64(len(r.entries))
}

func (r *Registry) clampIndex(i int) int {
	if i < 0 {
		return 0
	}

	if i >= len(r.entries) {
		return len(r.entries) - 1
	}

	return i
}
