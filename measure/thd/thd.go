// Package thd measures harmonic distortion, from a spectrum or from a
// time-domain signal, and renders test tones through block processors such
// as the feedback waveshaper to characterize their transfer curves.
package thd

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-feedbackws/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultLowerHz = 20.0
	defaultUpperHz = 20000.0

	// main-lobe half width in bins of the analysis windows.
	hannCaptureBins        = 2
	rectangularCaptureBins = 1
)

// Config holds THD calculation parameters. Zero values select defaults.
type Config struct {
	SampleRate float64
	FFTSize    int
	// FundamentalFreq fixes the fundamental. 0 picks the strongest bin in
	// range.
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	// CaptureBins is the number of bins on each side of a peak summed into
	// its level. 0 derives it from the window.
	CaptureBins  int
	MaxHarmonics int
	// Rectangular disables the periodic Hann window applied by AnalyzeSignal.
	Rectangular bool
}

// Result holds THD measurement results. Ratios are relative to the
// fundamental level.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THD_dB           float64
	THDN_dB          float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	SINAD            float64
	// Harmonics[i] is the level of harmonic i+2, for every harmonic inside
	// the analysis range.
	Harmonics []float64
}

// Calculator evaluates THD for one configuration. It caches the FFT plan
// between AnalyzeSignal calls and is not safe for concurrent use.
type Calculator struct {
	cfg      Config
	plan     *algofft.Plan[complex128]
	planSize int
}

// NewCalculator creates a THD calculator.
func NewCalculator(cfg Config) *Calculator {
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultLowerHz
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = defaultUpperHz
	}

	cfg.RangeUpperFreq = max(cfg.RangeUpperFreq, cfg.RangeLowerFreq)
	cfg.CaptureBins = max(cfg.CaptureBins, 0)
	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)

	return &Calculator{cfg: cfg}
}

// Analyze is a one-shot THD analysis of a complex spectrum.
func Analyze(spectrum []complex128, cfg Config) Result {
	return NewCalculator(cfg).Calculate(spectrum)
}

// AnalyzeSignal is a one-shot THD analysis of a time-domain signal.
func AnalyzeSignal(signal []float64, cfg Config) Result {
	return NewCalculator(cfg).AnalyzeSignal(signal)
}

// Calculate computes THD metrics from a full complex spectrum.
func (c *Calculator) Calculate(spectrum []complex128) Result {
	bins := len(spectrum)/2 + 1
	if bins <= 1 {
		return Result{}
	}

	re := make([]float64, bins)
	im := make([]float64, bins)

	for i, v := range spectrum[:bins] {
		re[i], im[i] = real(v), imag(v)
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return c.withSize(len(spectrum)).CalculateFromMagnitude(power)
}

// AnalyzeSignal windows signal, transforms it and evaluates THD metrics.
// A signal shorter than the FFT size is zero padded.
func (c *Calculator) AnalyzeSignal(signal []float64) Result {
	size := c.cfg.FFTSize
	if size <= 0 {
		size = 1
		for size < len(signal) {
			size <<= 1
		}
	}

	if len(signal) == 0 || size <= 1 {
		return Result{}
	}

	if c.plan == nil || c.planSize != size {
		plan, err := algofft.NewPlan64(size)
		if err != nil {
			return Result{}
		}

		c.plan, c.planSize = plan, size
	}

	frame := append([]float64(nil), signal[:min(len(signal), size)]...)
	if !c.cfg.Rectangular {
		vecmath.MulBlockInPlace(frame, hann(len(frame)))
	}

	in := make([]complex128, size)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, size)
	if err := c.plan.Forward(out, in); err != nil {
		return Result{}
	}

	return c.withSize(size).Calculate(out)
}

// withSize returns a copy of c whose FFT size and sample rate fall back to
// n when unset.
func (c *Calculator) withSize(n int) *Calculator {
	cfg := c.cfg
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = n
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	return &Calculator{cfg: cfg}
}

// CalculateFromMagnitude computes THD metrics from squared magnitudes of the
// bins 0..Nyquist.
func (c *Calculator) CalculateFromMagnitude(magSquared []float64) Result {
	last := len(magSquared) - 1
	if last < 1 {
		return Result{}
	}

	cfg := c.withSize(2 * last).cfg
	binHz := cfg.SampleRate / float64(cfg.FFTSize)

	lo := core.ClampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, last)
	hi := core.ClampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lo, last)
	fund := c.fundamentalBin(magSquared, lo, hi, binHz)

	capture := cfg.CaptureBins
	if capture == 0 {
		capture = hannCaptureBins
		if cfg.Rectangular {
			capture = rectangularCaptureBins
		}
	}

	capture = min(capture, fund/2)

	res := Result{FundamentalFreq: float64(fund) * binHz}

	level := peakLevel(magSquared, fund, capture)
	if level <= 0 {
		return res
	}

	var harmonicSum float64

	for k := 2; k*fund <= hi; k++ {
		if cfg.MaxHarmonics > 0 && k-1 > cfg.MaxHarmonics {
			break
		}

		h := peakLevel(magSquared, k*fund, capture) / level
		res.Harmonics = append(res.Harmonics, h)
		harmonicSum += h

		if k%2 == 0 {
			res.EvenHD += h
		} else {
			res.OddHD += h
		}
	}

	var total float64
	for _, p := range magSquared[lo : hi+1] {
		total += amplitude(p)
	}

	res.FundamentalLevel = level
	res.THD = harmonicSum
	res.THDN = max(total-level, 0) / level
	res.Noise = max(res.THDN-res.THD, 0)
	res.THD_dB = core.LinearToDB(res.THD)
	res.THDN_dB = core.LinearToDB(res.THDN)

	res.SINAD = math.Inf(1)
	if res.THDN > 0 {
		res.SINAD = -res.THDN_dB
	}

	return res
}

func (c *Calculator) fundamentalBin(magSquared []float64, lo, hi int, binHz float64) int {
	if c.cfg.FundamentalFreq > 0 {
		return core.ClampInt(int(math.Round(c.cfg.FundamentalFreq/binHz)), lo, hi)
	}

	best := lo
	for i := lo + 1; i <= hi; i++ {
		if magSquared[i] > magSquared[best] {
			best = i
		}
	}

	return best
}

// hann returns a periodic Hann window, which puts a bin-centred tone into
// exactly three bins.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}

// peakLevel sums the amplitudes of bin and its capture neighbours.
func peakLevel(magSquared []float64, bin, capture int) float64 {
	if bin < 0 || bin >= len(magSquared) {
		return 0
	}

	var sum float64
	for _, p := range magSquared[max(bin-capture, 0):min(bin+capture+1, len(magSquared))] {
		sum += amplitude(p)
	}

	return sum
}

func amplitude(power float64) float64 {
	if power <= 0 {
		return 0
	}

	return math.Sqrt(power)
}
