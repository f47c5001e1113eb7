package spatial

import (
	"fmt"
	"math"
)

const (
	// widenerRate scales the color control into the sine argument.
	widenerRate = 1000.0

	defaultWidenerDepth = 0.0
	defaultWidenerColor = 0.1

	minWidenerDepth = 0.0
	maxWidenerDepth = 1.0
	minWidenerColor = 0.0
	maxWidenerColor = 1.0
)

// Widen adds sin(sample·1000·color)·depth to a left-channel sample and
// subtracts the same term from a right-channel sample. depth = 0 returns
// sample unchanged.
func Widen(sample, depth, color float64, left bool) float64 {
	mod := modulation(sample, depth, color)
	if !left {
		mod = -mod
	}

	return sample + mod
}

func modulation(sample, depth, color float64) float64 {
	return math.Sin(sample*widenerRate*color) * depth
}

// StereoWidenerOption mutates stereo widener construction parameters.
type StereoWidenerOption func(*stereoWidenerConfig) error

type stereoWidenerConfig struct {
	depth float64
	color float64
}

func defaultStereoWidenerConfig() stereoWidenerConfig {
	return stereoWidenerConfig{
		depth: defaultWidenerDepth,
		color: defaultWidenerColor,
	}
}

// WithDepth sets the modulation amplitude in [0, 1].
func WithDepth(depth float64) StereoWidenerOption {
	return func(cfg *stereoWidenerConfig) error {
		if depth < minWidenerDepth || depth > maxWidenerDepth ||
			math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("stereo widener depth must be in [%g, %g]: %f",
				minWidenerDepth, maxWidenerDepth, depth)
		}

		cfg.depth = depth

		return nil
	}
}

// WithColor sets the modulation rate in [0, 1]; the sine argument is
// sample·1000·color.
func WithColor(color float64) StereoWidenerOption {
	return func(cfg *stereoWidenerConfig) error {
		if color < minWidenerColor || color > maxWidenerColor ||
			math.IsNaN(color) || math.IsInf(color, 0) {
			return fmt.Errorf("stereo widener color must be in [%g, %g]: %f",
				minWidenerColor, maxWidenerColor, color)
		}

		cfg.color = color

		return nil
	}
}

// StereoWidener widens a stereo image by adding a sinusoidal function of each
// sample to the left channel and subtracting it from the right.
//
// The modulation depends only on the current sample, so the processor is
// stateless apart from its two controls. It is real-time safe and not
// thread-safe.
type StereoWidener struct {
	depth float64
	color float64
}

// NewStereoWidener creates a stereo widener with practical defaults and
// optional overrides.
func NewStereoWidener(opts ...StereoWidenerOption) (*StereoWidener, error) {
	cfg := defaultStereoWidenerConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	return &StereoWidener{depth: cfg.depth, color: cfg.color}, nil
}

// ProcessSample widens one sample of the given channel side.
func (w *StereoWidener) ProcessSample(sample float64, left bool) float64 {
	return Widen(sample, w.depth, w.color, left)
}

// ProcessStereo processes a single stereo sample pair and returns the
// widened left and right outputs.
func (w *StereoWidener) ProcessStereo(left, right float64) (float64, float64) {
	return Widen(left, w.depth, w.color, true), Widen(right, w.depth, w.color, false)
}

// ProcessStereoInPlace applies stereo widening to paired left/right buffers
// in place. Both buffers must have the same length.
func (w *StereoWidener) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("stereo widener: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = w.ProcessStereo(left[i], right[i])
	}

	return nil
}

// ProcessInterleavedInPlace applies stereo widening to an interleaved stereo
// buffer (L, R, L, R, ...) in place. The buffer length must be even.
func (w *StereoWidener) ProcessInterleavedInPlace(buf []float64) error {
	if len(buf)%2 != 0 {
		return fmt.Errorf("stereo widener: interleaved buffer length must be even: %d", len(buf))
	}

	for i := 0; i < len(buf); i += 2 {
		buf[i], buf[i+1] = w.ProcessStereo(buf[i], buf[i+1])
	}

	return nil
}

// Depth returns the modulation amplitude.
func (w *StereoWidener) Depth() float64 { return w.depth }

// Color returns the modulation rate.
func (w *StereoWidener) Color() float64 { return w.color }

// SetDepth sets the modulation amplitude in [0, 1].
func (w *StereoWidener) SetDepth(depth float64) error {
	if depth < minWidenerDepth || depth > maxWidenerDepth ||
		math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("stereo widener depth must be in [%g, %g]: %f",
			minWidenerDepth, maxWidenerDepth, depth)
	}

	w.depth = depth

	return nil
}

// SetColor sets the modulation rate in [0, 1].
func (w *StereoWidener) SetColor(color float64) error {
	if color < minWidenerColor || color > maxWidenerColor ||
		math.IsNaN(color) || math.IsInf(color, 0) {
		return fmt.Errorf("stereo widener color must be in [%g, %g]: %f",
			minWidenerColor, maxWidenerColor, color)
	}

	w.color = color

	return nil
}
