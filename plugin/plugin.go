package plugin

import (
	"fmt"

	"github.com/cwbudde/algo-feedbackws/dsp/core"
	"github.com/cwbudde/algo-feedbackws/dsp/effects/feedbackws"
	"github.com/cwbudde/algo-feedbackws/internal/blockops"
)

const (
	// Name is the product name reported to hosts.
	Name = "FeedbackWS"
	// UniqueID is the registered plugin identifier.
	UniqueID = 543229834
)

// Info is the plugin metadata handed to a host.
type Info struct {
	Name       string
	UniqueID   int32
	Inputs     int
	Outputs    int
	Parameters int
}

// CanDo names an optional host capability.
type CanDo int

const (
	CanSendEvents CanDo = iota
	CanSendMIDIEvent
	CanReceiveEvents
	CanReceiveMIDIEvent
	CanReceiveTimeInfo
	CanOffline
	CanBypass
)

// Supported is the answer to a capability query.
type Supported int

const (
	Maybe Supported = iota
	Yes
	No
)

func (s Supported) String() string {
	switch s {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "maybe"
	}
}

// Plugin wraps an Engine with a host-facing parameter list, MIDI note
// tracking and float32 block processing.
//
// Plugin is not thread-safe; hosts call parameter and event methods between
// Process calls.
type Plugin struct {
	layout   Layout
	engine   *feedbackws.Engine
	channels int
	notes    NoteSet
	scratch  []float64
	peak     float32
}

// New creates a plugin for layout. Options configure the initial sample
// rate, the expected block size and the channel count.
func New(layout Layout, opts ...core.ProcessorOption) (*Plugin, error) {
	if layout.Registry() == nil {
		return nil, fmt.Errorf("plugin: layout is not initialized")
	}

	cfg := core.ApplyProcessorOptions(opts...)

	engine, err := feedbackws.NewEngine(cfg.SampleRate,
		feedbackws.WithRegistry(layout.Registry()),
		feedbackws.WithChannels(cfg.Channels),
	)
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}

	return &Plugin{
		layout:   layout,
		engine:   engine,
		channels: cfg.Channels,
		scratch:  make([]float64, cfg.BlockSize),
	}, nil
}

// Info returns the plugin metadata.
func (p *Plugin) Info() Info {
	return Info{
		Name:       Name,
		UniqueID:   UniqueID,
		Inputs:     p.channels,
		Outputs:    p.channels,
		Parameters: p.layout.NumParams(),
	}
}

// Layout returns the parameter layout.
func (p *Plugin) Layout() Layout { return p.layout }

// Engine exposes the underlying signal chain.
func (p *Plugin) Engine() *feedbackws.Engine { return p.engine }

// CanDo answers a host capability query.
func (p *Plugin) CanDo(c CanDo) Supported {
	if c == CanReceiveMIDIEvent {
		return Yes
	}

	return Maybe
}

// Parameter returns the normalized value at host index i, or 0 for an
// unknown index. The function selector reports the centre of the selected
// shaper's range so that feeding it back selects the same shaper.
func (p *Plugin) Parameter(i int) float64 {
	id, ok := p.layout.ID(i)
	if !ok {
		return 0
	}

	params := p.engine.Params()

	switch id {
	case ParamFunction:
		return p.layout.Registry().Normalized(params.Function)
	case ParamA:
		return params.A
	case ParamB:
		return params.B
	case ParamC:
		return params.C
	case ParamD:
		return params.D
	case ParamFeedback:
		return params.Feedback
	case ParamGain:
		return params.Gain
	case ParamStereoDepth:
		return params.StereoDepth
	case ParamStereoColor:
		return params.StereoColor
	case ParamBeta:
		return params.Beta
	}

	return 0
}

// SetParameter stores v at host index i. Unknown indices and non-finite
// values are ignored. The function selector maps v onto a shaper with
// clamping.
func (p *Plugin) SetParameter(i int, v float64) {
	id, ok := p.layout.ID(i)
	if !ok || !core.IsFinite(v) {
		return
	}

	if id == ParamFunction {
		p.engine.SetFunctionNormalized(v)

		return
	}

	params := p.engine.Params()

	switch id {
	case ParamA:
		params.A = v
	case ParamB:
		params.B = v
	case ParamC:
		params.C = v
	case ParamD:
		params.D = v
	case ParamFeedback:
		params.Feedback = v
	case ParamGain:
		params.Gain = v
	case ParamStereoDepth:
		params.StereoDepth = v
	case ParamStereoColor:
		params.StereoColor = v
	case ParamBeta:
		params.Beta = v
	}

	// v is finite, so validation cannot fail.
	_ = p.engine.SetParams(params)
}

// ParameterName returns the display name at host index i, or "".
func (p *Plugin) ParameterName(i int) string {
	id, ok := p.layout.ID(i)
	if !ok {
		return ""
	}

	return id.String()
}

// ParameterText returns the display text at host index i: the formula of
// the selected shaper for the function selector, the value with three
// decimals otherwise, and "" for an unknown index.
func (p *Plugin) ParameterText(i int) string {
	id, ok := p.layout.ID(i)
	if !ok {
		return ""
	}
	if id == ParamFunction {
		return p.engine.Shaper().Descriptor
	}

	return fmt.Sprintf("%.3f", p.Parameter(i))
}

// SetSampleRate is the host's sample-rate notification.
func (p *Plugin) SetSampleRate(rate float64) error {
	err := p.engine.SetSampleRate(rate)
	if err != nil {
		return fmt.Errorf("plugin: %w", err)
	}

	return nil
}

// SampleRate returns the current sample rate in Hz.
func (p *Plugin) SampleRate() float64 { return p.engine.SampleRate() }

// TimePerSample returns the duration of one sample in seconds.
func (p *Plugin) TimePerSample() float64 { return 1 / p.engine.SampleRate() }

// ProcessEvents records the MIDI notes carried by events.
func (p *Plugin) ProcessEvents(events []Event) {
	for _, ev := range events {
		p.notes.Handle(ev.Data)
	}
}

// Notes returns the currently active MIDI notes.
func (p *Plugin) Notes() []uint8 {
	return p.notes.AppendNotes(make([]uint8, 0, NoteCapacity))
}

// Process runs one host block. Channel i of in is written to channel i of
// out; min(len(in[i]), len(out[i])) samples are processed and any remaining
// output samples and channels are silenced.
func (p *Plugin) Process(in, out [][]float32) {
	var peak float32

	for ch := range out {
		dst := out[ch]
		if ch >= len(in) || ch >= p.engine.Channels() {
			clear(dst)
			continue
		}

		n := min(len(in[ch]), len(dst))
		buf := p.buffer(n)

		blockops.Widen(buf, in[ch][:n])
		p.engine.ProcessBlock(ch, buf)
		peak = max(peak, blockops.Narrow(dst[:n], buf))

		clear(dst[n:])
	}

	p.peak = peak
}

// OutputPeak returns the absolute output peak of the last Process call.
func (p *Plugin) OutputPeak() float32 { return p.peak }

// Reset clears the feedback state of every channel and all active notes.
func (p *Plugin) Reset() {
	p.engine.Reset()
	p.notes.Reset()
	p.peak = 0
}

func (p *Plugin) buffer(n int) []float64 {
	p.scratch = core.EnsureLen(p.scratch, n)

	return p.scratch[:n]
}
