package plugin

import (
	"fmt"

	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
)

const (
	minShapeParams = 2
	maxShapeParams = 4

	// fixed parameters following the shape controls:
	// feedback, gain, stereo depth, stereo color, beta.
	tailParams = 5
)

// ParamID identifies a control independently of its host index.
type ParamID int

const (
	ParamFunction ParamID = iota
	ParamA
	ParamB
	ParamC
	ParamD
	ParamFeedback
	ParamGain
	ParamStereoDepth
	ParamStereoColor
	ParamBeta
)

var paramNames = [...]string{
	ParamFunction:    "function",
	ParamA:           "parameter a",
	ParamB:           "parameter b",
	ParamC:           "parameter c",
	ParamD:           "parameter d",
	ParamFeedback:    "feedback",
	ParamGain:        "gain",
	ParamStereoDepth: "stereo",
	ParamStereoColor: "stereo freq",
	ParamBeta:        "beta",
}

// String returns the host-facing parameter name.
func (id ParamID) String() string {
	if id < 0 || int(id) >= len(paramNames) {
		return ""
	}

	return paramNames[id]
}

// Layout maps host parameter indices onto controls for one plugin variant.
type Layout struct {
	registry *waveshape.Registry
	ids      []ParamID
}

// NewLayout creates a layout over r exposing shapeParams shape controls
// (2..4, starting at parameter a).
func NewLayout(r *waveshape.Registry, shapeParams int) (Layout, error) {
	if r == nil || r.Len() == 0 {
		return Layout{}, fmt.Errorf("plugin: layout registry must not be empty")
	}
	if shapeParams < minShapeParams || shapeParams > maxShapeParams {
		return Layout{}, fmt.Errorf("plugin: shape parameter count must be in [%d, %d]: %d",
			minShapeParams, maxShapeParams, shapeParams)
	}

	ids := make([]ParamID, 0, 1+shapeParams+tailParams)
	ids = append(ids, ParamFunction)
	for i := 0; i < shapeParams; i++ {
		ids = append(ids, ParamA+ParamID(i))
	}

	ids = append(ids, ParamFeedback, ParamGain, ParamStereoDepth, ParamStereoColor, ParamBeta)

	return Layout{registry: r, ids: ids}, nil
}

// CanonicalLayout is the eight-parameter variant over the five canonical
// shapers: function, parameter a, parameter b, feedback, gain, stereo,
// stereo freq, beta.
func CanonicalLayout() Layout {
	l, err := NewLayout(waveshape.Canonical(), minShapeParams)
	if err != nil {
		panic(err)
	}

	return l
}

// ExtendedLayout is the ten-parameter variant over all six shapers.
func ExtendedLayout() Layout {
	l, err := NewLayout(waveshape.Default(), maxShapeParams)
	if err != nil {
		panic(err)
	}

	return l
}

// Registry returns the shapers selectable through the function parameter.
func (l Layout) Registry() *waveshape.Registry { return l.registry }

// NumParams returns the number of host parameters.
func (l Layout) NumParams() int { return len(l.ids) }

// ID returns the control at host index i.
func (l Layout) ID(i int) (ParamID, bool) {
	if i < 0 || i >= len(l.ids) {
		return 0, false
	}

	return l.ids[i], true
}

// Index returns the host index of id, or false when the layout does not
// expose it.
func (l Layout) Index(id ParamID) (int, bool) {
	for i, v := range l.ids {
		if v == id {
			return i, true
		}
	}

	return 0, false
}
