package effectchain

import (
	"github.com/cwbudde/algo-feedbackws/dsp/effects/feedbackws"
	"github.com/cwbudde/algo-feedbackws/dsp/effects/spatial"
	"github.com/cwbudde/algo-feedbackws/dsp/filter/dcblock"
	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
)

const (
	// TypeFeedbackWaveshaper is the full feedback waveshaping chain.
	TypeFeedbackWaveshaper = "feedback-waveshaper"
	// TypeSineWidener is the standalone sinusoidal stereo widener.
	TypeSineWidener = "sine-widener"
	// TypeDCBlocker is a one-pole DC blocker per channel.
	TypeDCBlocker = "dc-blocker"
)

type registryConfig struct {
	shapers *waveshape.Registry
}

// RegistryOption configures the default registry.
type RegistryOption func(*registryConfig)

// WithShapers sets the waveshape registry used by feedback-waveshaper nodes.
func WithShapers(r *waveshape.Registry) RegistryOption {
	return func(c *registryConfig) {
		if r != nil {
			c.shapers = r
		}
	}
}

// DefaultRegistry returns a Registry pre-populated with all built-in effect runtimes.
func DefaultRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{shapers: waveshape.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	r := NewRegistry()

	r.MustRegister(TypeFeedbackWaveshaper, func(ctx Context) (Runtime, error) {
		engine, err := feedbackws.NewEngine(ctx.SampleRate,
			feedbackws.WithRegistry(cfg.shapers),
			feedbackws.WithChannels(2),
		)
		if err != nil {
			return nil, err
		}

		return &feedbackWSRuntime{engine: engine}, nil
	})
	r.MustRegister(TypeSineWidener, func(_ Context) (Runtime, error) {
		fx, err := spatial.NewStereoWidener()
		if err != nil {
			return nil, err
		}

		return &widenerRuntime{fx: fx}, nil
	})
	r.MustRegister(TypeDCBlocker, func(_ Context) (Runtime, error) {
		left, err := dcblock.NewBlocker(dcblock.OutputBeta)
		if err != nil {
			return nil, err
		}

		right, err := dcblock.NewBlocker(dcblock.OutputBeta)
		if err != nil {
			return nil, err
		}

		return &dcBlockerRuntime{left: left, right: right}, nil
	})

	return r
}
