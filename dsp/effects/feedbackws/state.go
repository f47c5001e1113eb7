package feedbackws

import (
	"github.com/cwbudde/algo-feedbackws/dsp/core"
	"github.com/cwbudde/algo-feedbackws/dsp/effects/spatial"
	"github.com/cwbudde/algo-feedbackws/dsp/filter/dcblock"
	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
)

// ChannelState is the history one channel carries from sample to sample.
type ChannelState struct {
	// Last is the previous unfiltered sample after the Beta high-pass.
	Last float64
}

// Reset zeroes the state.
func (s *ChannelState) Reset() { s.Last = 0 }

// Trace records every intermediate value of one pass through the chain.
type Trace struct {
	Input      float64
	Mixed      float64
	Gained     float64
	Shaped     float64
	Unfiltered float64
	Output     float64
	// State is the channel's Last value after the update.
	State float64
}

// ProcessSample runs one sample through the chain, updates state and returns
// the sample for the host. left selects the sign of the stereo modulation.
func ProcessSample(state *ChannelState, shaper waveshape.Entry, p *Params, input float64, left bool) float64 {
	return traceSample(state, shaper, p, input, left).Output
}

func traceSample(state *ChannelState, shaper waveshape.Entry, p *Params, input float64, left bool) Trace {
	tr := Trace{Input: input}
	last := state.Last

	tr.Mixed = input + last*p.Feedback
	tr.Gained = tr.Mixed * p.Gain
	tr.Shaped = shaper.Apply(tr.Gained, p.A, p.B, p.C, p.D)
	tr.Unfiltered = core.Sanitize(spatial.Widen(tr.Shaped, p.StereoDepth, p.StereoColor, left))
	tr.Output = core.Sanitize(dcblock.Highpass(tr.Unfiltered, last, dcblock.OutputBeta))

	state.Last = core.FlushDenormals(core.Sanitize(dcblock.Highpass(tr.Unfiltered, last, p.Beta)))
	tr.State = state.Last

	return tr
}
