package thd

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-feedbackws/measure/level"
)

// BlockProcessor processes one channel of audio in place.
// feedbackws.Engine satisfies it.
type BlockProcessor interface {
	ProcessBlock(ch int, buf []float64)
}

// ToneConfig describes the test tone rendered through a processor.
type ToneConfig struct {
	SampleRate float64
	// FFTSize is the analysis length, a power of two.
	FFTSize int
	// Frequency is rounded to the nearest bin centre so the tone is
	// periodic in the analysis frame.
	Frequency float64
	Amplitude float64
	// Settle samples are rendered and discarded before the analysis frame
	// to let feedback state reach steady state.
	Settle int
	// Channel is the processor channel the tone is sent through.
	Channel int
}

// DefaultToneConfig returns a 1 kHz tone at 0.5 amplitude analysed over
// 8192 samples at 48 kHz after a 4096 sample settle period.
func DefaultToneConfig() ToneConfig {
	return ToneConfig{
		SampleRate: 48000,
		FFTSize:    8192,
		Frequency:  1000,
		Amplitude:  0.5,
		Settle:     4096,
	}
}

// Report is the THD analysis of a processed tone plus time-domain figures.
type Report struct {
	Result
	// Level holds peak, RMS and DC offset of the analysis frame.
	Level level.Stats
}

var errInvalidTone = errors.New("thd: invalid tone config")

// MeasureProcessor renders a sine through p and analyses the steady-state
// output.
func MeasureProcessor(p BlockProcessor, tone ToneConfig) (Report, error) {
	if p == nil {
		return Report{}, fmt.Errorf("%w: nil processor", errInvalidTone)
	}

	if tone.SampleRate <= 0 || math.IsNaN(tone.SampleRate) || math.IsInf(tone.SampleRate, 0) {
		return Report{}, fmt.Errorf("%w: sample rate must be > 0: %f", errInvalidTone, tone.SampleRate)
	}

	if tone.FFTSize < 16 || tone.FFTSize&(tone.FFTSize-1) != 0 {
		return Report{}, fmt.Errorf("%w: fft size must be a power of two >= 16: %d", errInvalidTone, tone.FFTSize)
	}

	if tone.Settle < 0 {
		return Report{}, fmt.Errorf("%w: settle must be >= 0: %d", errInvalidTone, tone.Settle)
	}

	binHz := tone.SampleRate / float64(tone.FFTSize)

	bin := int(math.Round(tone.Frequency / binHz))
	if bin < 1 || bin >= tone.FFTSize/2 {
		return Report{}, fmt.Errorf("%w: frequency must be within (0, Nyquist): %f", errInvalidTone, tone.Frequency)
	}

	freq := float64(bin) * binHz
	step := 2 * math.Pi * freq / tone.SampleRate

	buf := make([]float64, tone.Settle+tone.FFTSize)
	for i := range buf {
		buf[i] = tone.Amplitude * math.Sin(step*float64(i))
	}

	p.ProcessBlock(tone.Channel, buf)

	frame := buf[tone.Settle:]

	res := AnalyzeSignal(frame, Config{
		SampleRate:      tone.SampleRate,
		FFTSize:         tone.FFTSize,
		FundamentalFreq: freq,
		RangeUpperFreq:  tone.SampleRate / 2,
	})

	return Report{
		Result: res,
		Level:  level.Calculate(frame),
	}, nil
}
