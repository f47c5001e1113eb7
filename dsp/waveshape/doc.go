// Package waveshape provides the memoryless transfer functions used by the
// feedback waveshaper and an immutable, indexable registry over them.
//
// Every shaper takes one sample and up to four shape parameters a, b, c, d
// and is pure: identical inputs always produce identical outputs. Shapers
// that leave their domain (for example the logarithm in KindSinLog for
// x <= -1) return 0 rather than NaN, and Entry.Apply replaces any remaining
// non-finite result with 0.
//
// A Registry is built once from a list of kinds and never changes. Hosts
// select an entry with a normalized control value through
// Registry.IndexFromNormalized, which always yields a valid index.
//
// Building with the fastmath tag replaces the exponential and logarithm in
// the hot path with polynomial approximations from algo-approx.
package waveshape
