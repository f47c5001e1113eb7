package feedbackws

import (
	"fmt"
	"math"
)

// Params holds the controls of the chain. Values are used as delivered by
// the host, typically in [0, 1].
type Params struct {
	// Function indexes the engine's waveshape registry.
	Function int

	// A, B, C and D are the shape parameters of the selected function.
	A, B, C, D float64

	// Feedback attenuates the stored sample before it is mixed into the input.
	Feedback float64
	// Gain multiplies the mixed signal before waveshaping.
	Gain float64

	// StereoDepth and StereoColor are the amplitude and rate of the stereo
	// widening modulation.
	StereoDepth float64
	StereoColor float64

	// Beta is the pole of the filter applied to the fed-back sample.
	Beta float64
}

// DefaultParams returns the controls of a freshly instantiated plugin.
func DefaultParams() Params {
	return Params{
		Function:    0,
		Feedback:    0.5,
		Gain:        0.5,
		StereoDepth: 0,
		StereoColor: 0.1,
		Beta:        0.99,
	}
}

// Validate reports an error when any control is NaN or infinite.
func (p Params) Validate() error {
	fields := [...]struct {
		name  string
		value float64
	}{
		{"a", p.A},
		{"b", p.B},
		{"c", p.C},
		{"d", p.D},
		{"feedback", p.Feedback},
		{"gain", p.Gain},
		{"stereo depth", p.StereoDepth},
		{"stereo color", p.StereoColor},
		{"beta", p.Beta},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("feedbackws: %s must be finite: %f", f.name, f.value)
		}
	}

	return nil
}
