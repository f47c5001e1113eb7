// Package level measures time-domain levels of rendered audio: DC offset,
// RMS, peak and crest factor, per block or streamed across blocks.
package level

import "math"

// Stats holds the level figures of one channel.
//
//nolint:revive
type Stats struct {
	Frames  int
	DC      float64 // mean
	RMS     float64
	RMS_dB  float64
	Peak    float64 // max |x|
	Peak_dB float64
	// PeakPos is the frame index of the first sample reaching Peak.
	PeakPos int
	// Crest is Peak / RMS, 0 for silence.
	Crest    float64
	Crest_dB float64
	// Clipped counts samples with |x| >= 1.
	Clipped       int
	ZeroCrossings int
}

func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate returns the statistics of signal.
func Calculate(signal []float64) Stats {
	var m Meter
	m.Update(signal)

	return m.Result()
}

// Meter accumulates Stats over consecutive blocks of one channel. The
// zero value is ready to use.
type Meter struct {
	n         int
	sum       float64
	sumSq     float64
	peak      float64
	peakPos   int
	clipped   int
	crossings int
	last      float64
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float64) {
	for _, x := range samples {
		m.sum += x
		m.sumSq += x * x

		a := math.Abs(x)
		if a > m.peak {
			m.peak = a
			m.peakPos = m.n
		}

		if a >= 1 {
			m.clipped++
		}

		if m.n > 0 && m.last*x < 0 {
			m.crossings++
		}

		m.last = x
		m.n++
	}
}

// Result returns the statistics of everything seen since the last Reset.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return Stats{
			RMS_dB:   math.Inf(-1),
			Peak_dB:  math.Inf(-1),
			Crest_dB: math.Inf(-1),
		}
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	s := Stats{
		Frames:        m.n,
		DC:            m.sum / nf,
		RMS:           rms,
		RMS_dB:        ampTodB(rms),
		Peak:          m.peak,
		Peak_dB:       ampTodB(m.peak),
		PeakPos:       m.peakPos,
		Crest_dB:      math.Inf(-1),
		Clipped:       m.clipped,
		ZeroCrossings: m.crossings,
	}

	if rms > 0 {
		s.Crest = m.peak / rms
		s.Crest_dB = ampTodB(s.Crest)
	}

	return s
}

// Reset clears the accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}

// StereoMeter meters a left/right pair.
type StereoMeter struct {
	Left, Right Meter
}

// Update adds one stereo block. Only the common length is metered.
func (s *StereoMeter) Update(left, right []float64) {
	n := min(len(left), len(right))
	s.Left.Update(left[:n])
	s.Right.Update(right[:n])
}

// Result returns left and right statistics.
func (s *StereoMeter) Result() (Stats, Stats) {
	return s.Left.Result(), s.Right.Result()
}

// Reset clears both channels.
func (s *StereoMeter) Reset() {
	s.Left.Reset()
	s.Right.Reset()
}
