package dcblock

import (
	"fmt"
	"math"
)

// OutputBeta is the pole used when conditioning the signal returned to the
// host: near unity pass with only the lowest frequencies removed.
const OutputBeta = 0.0001

// Highpass returns x - (x·beta + last·(1-beta)).
func Highpass(x, last, beta float64) float64 {
	return x - (x*beta + last*(1-beta))
}

// Blocker is a stateful Highpass that stores its own output as the next
// history sample.
type Blocker struct {
	beta float64
	last float64
}

// NewBlocker creates a Blocker with the given pole. beta must be finite.
func NewBlocker(beta float64) (*Blocker, error) {
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("dcblock: beta must be finite: %f", beta)
	}

	return &Blocker{beta: beta}, nil
}

// Process filters one sample and stores the result as history.
func (b *Blocker) Process(x float64) float64 {
	y := Highpass(x, b.last, b.beta)
	b.last = y

	return y
}

// ProcessInPlace filters buf in place.
func (b *Blocker) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = b.Process(buf[i])
	}
}

// SetBeta changes the pole without touching the history.
func (b *Blocker) SetBeta(beta float64) error {
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return fmt.Errorf("dcblock: beta must be finite: %f", beta)
	}

	b.beta = beta

	return nil
}

// Beta returns the current pole.
func (b *Blocker) Beta() float64 { return b.beta }

// Last returns the stored history sample.
func (b *Blocker) Last() float64 { return b.last }

// Reset clears the history.
func (b *Blocker) Reset() { b.last = 0 }
