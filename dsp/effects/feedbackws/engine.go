package feedbackws

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-feedbackws/dsp/core"
	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
)

const (
	defaultChannels = 2
	maxChannels     = 64
)

// Option mutates construction-time parameters.
type Option func(*engineConfig) error

type engineConfig struct {
	registry *waveshape.Registry
	channels int
	params   Params
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		registry: waveshape.Default(),
		channels: defaultChannels,
		params:   DefaultParams(),
	}
}

// WithRegistry selects the set of waveshaping functions Params.Function indexes.
func WithRegistry(r *waveshape.Registry) Option {
	return func(cfg *engineConfig) error {
		if r == nil || r.Len() == 0 {
			return fmt.Errorf("feedbackws: registry must not be empty")
		}

		cfg.registry = r

		return nil
	}
}

// WithChannels sets the number of independently processed channels in [1, 64].
func WithChannels(n int) Option {
	return func(cfg *engineConfig) error {
		if n < 1 || n > maxChannels {
			return fmt.Errorf("feedbackws: channel count must be in [1, %d]: %d", maxChannels, n)
		}

		cfg.channels = n

		return nil
	}
}

// WithParams sets the initial controls.
func WithParams(p Params) Option {
	return func(cfg *engineConfig) error {
		err := p.Validate()
		if err != nil {
			return err
		}

		cfg.params = p

		return nil
	}
}

// Engine runs the feedback waveshaping chain over a fixed number of channels.
// Even channel indices take the left-channel sign of the stereo modulation,
// odd indices the right-channel sign.
//
// Engine is real-time safe and not thread-safe: parameter changes must happen
// between calls to the processing methods.
type Engine struct {
	sampleRate float64
	registry   *waveshape.Registry
	shaper     waveshape.Entry
	params     Params
	states     []ChannelState
}

// NewEngine creates an engine with zeroed channel state.
func NewEngine(sampleRate float64, opts ...Option) (*Engine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("feedbackws: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultEngineConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		sampleRate: sampleRate,
		registry:   cfg.registry,
		states:     make([]ChannelState, cfg.channels),
	}
	e.applyParams(cfg.params)

	return e, nil
}

// SetParams replaces all controls. A Function outside the registry is clamped
// to the nearest valid index.
func (e *Engine) SetParams(p Params) error {
	err := p.Validate()
	if err != nil {
		return err
	}

	e.applyParams(p)

	return nil
}

func (e *Engine) applyParams(p Params) {
	e.shaper = e.registry.Entry(p.Function)
	p.Function, _ = e.registry.IndexOf(e.shaper.Kind)
	e.params = p
}

// Params returns the current controls.
func (e *Engine) Params() Params { return e.params }

// SetFunction selects the waveshaping function by registry index (clamped).
func (e *Engine) SetFunction(index int) {
	p := e.params
	p.Function = index
	e.applyParams(p)
}

// SetFunctionNormalized selects the waveshaping function from a host
// normalized selector value.
func (e *Engine) SetFunctionNormalized(v float64) {
	e.SetFunction(e.registry.IndexFromNormalized(v))
}

// Shaper returns the selected waveshaping function.
func (e *Engine) Shaper() waveshape.Entry { return e.shaper }

// Registry returns the set of functions the engine selects from.
func (e *Engine) Registry() *waveshape.Registry { return e.registry }

// Channels returns the number of channels.
func (e *Engine) Channels() int { return len(e.states) }

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// SetSampleRate updates the sample rate. The chain itself is rate
// independent; the value is kept for hosts and analysis tools.
func (e *Engine) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("feedbackws: sample rate must be > 0 and finite: %f", sampleRate)
	}

	e.sampleRate = sampleRate

	return nil
}

// State returns the state of channel ch. Out-of-range channels report a zero state.
func (e *Engine) State(ch int) ChannelState {
	if ch < 0 || ch >= len(e.states) {
		return ChannelState{}
	}

	return e.states[ch]
}

// SetState overwrites the state of channel ch.
func (e *Engine) SetState(ch int, s ChannelState) {
	if ch < 0 || ch >= len(e.states) {
		return
	}

	e.states[ch] = s
}

// Reset zeroes every channel state.
func (e *Engine) Reset() {
	for i := range e.states {
		e.states[i].Reset()
	}
}

// ProcessSample runs one sample of channel ch through the chain. Samples for
// channels the engine does not have produce 0.
func (e *Engine) ProcessSample(ch int, input float64) float64 {
	if ch < 0 || ch >= len(e.states) {
		return 0
	}

	return ProcessSample(&e.states[ch], e.shaper, &e.params, input, isLeft(ch))
}

// Trace is ProcessSample returning every intermediate value.
func (e *Engine) Trace(ch int, input float64) Trace {
	if ch < 0 || ch >= len(e.states) {
		return Trace{Input: input}
	}

	return traceSample(&e.states[ch], e.shaper, &e.params, input, isLeft(ch))
}

// ProcessBlock processes buf of channel ch in place.
func (e *Engine) ProcessBlock(ch int, buf []float64) {
	if ch < 0 || ch >= len(e.states) {
		core.Zero(buf)

		return
	}

	state := &e.states[ch]
	left := isLeft(ch)

	for i, x := range buf {
		buf[i] = ProcessSample(state, e.shaper, &e.params, x, left)
	}
}

// ProcessStereo processes channel 0 and 1 buffers in place. Both buffers must
// have the same length and the engine at least two channels.
func (e *Engine) ProcessStereo(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("feedbackws: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	if len(e.states) < 2 {
		return fmt.Errorf("feedbackws: stereo processing needs 2 channels, engine has %d", len(e.states))
	}

	e.ProcessBlock(0, left)
	e.ProcessBlock(1, right)

	return nil
}

// Process reads in and writes out channel by channel. Channels beyond the
// engine's count are zeroed; only min(len(in[ch]), len(out[ch])) samples of
// each channel are processed.
func (e *Engine) Process(in, out [][]float64) {
	for ch := range out {
		if ch >= len(in) || ch >= len(e.states) {
			core.Zero(out[ch])

			continue
		}

		n := min(len(in[ch]), len(out[ch]))
		state := &e.states[ch]
		left := isLeft(ch)

		for i := range n {
			out[ch][i] = ProcessSample(state, e.shaper, &e.params, in[ch][i], left)
		}
	}
}

func isLeft(ch int) bool {
	return ch%2 == 0
}
