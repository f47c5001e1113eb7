package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-feedbackws/internal/testutil"
)

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Frames != 0 || !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
		t.Fatalf("Calculate(nil) = %+v", s)
	}
}

func TestCalculateSquareWave(t *testing.T) {
	s := Calculate([]float64{0.5, -0.5, 0.5, -0.5})

	if s.Frames != 4 || s.DC != 0 || s.RMS != 0.5 || s.Peak != 0.5 {
		t.Fatalf("Calculate() = %+v", s)
	}

	if s.Crest != 1 || s.Crest_dB != 0 || s.ZeroCrossings != 3 || s.Clipped != 0 {
		t.Fatalf("Calculate() = %+v", s)
	}
}

func TestCalculateSine(t *testing.T) {
	// 1 kHz at 48 kHz has a whole number of cycles in 4800 samples.
	s := Calculate(testutil.DeterministicSine(1000, 48000, 1, 4800))

	if math.Abs(s.RMS-1/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS = %v", s.RMS)
	}

	if math.Abs(s.Crest_dB-20*math.Log10(math.Sqrt2)) > 1e-6 {
		t.Fatalf("Crest_dB = %v", s.Crest_dB)
	}

	if math.Abs(s.DC) > 1e-12 {
		t.Fatalf("DC = %v", s.DC)
	}
}

func TestPeakPosAndClipping(t *testing.T) {
	s := Calculate([]float64{0.1, -1.5, 1.5, 1})

	if s.Peak != 1.5 || s.PeakPos != 1 || s.Clipped != 3 {
		t.Fatalf("Calculate() = %+v", s)
	}
}

func TestMeterMatchesCalculate(t *testing.T) {
	sig := testutil.DeterministicNoise(7, 0.8, 1000)
	want := Calculate(sig)

	var m Meter
	for i := 0; i < len(sig); i += 128 {
		m.Update(sig[i:min(i+128, len(sig))])
	}

	got := m.Result()
	if got.Peak != want.Peak || got.PeakPos != want.PeakPos || got.ZeroCrossings != want.ZeroCrossings {
		t.Fatalf("streamed = %+v, want %+v", got, want)
	}

	if math.Abs(got.RMS-want.RMS) > 1e-12 || math.Abs(got.DC-want.DC) > 1e-12 {
		t.Fatalf("streamed RMS/DC = %v/%v, want %v/%v", got.RMS, got.DC, want.RMS, want.DC)
	}

	m.Reset()
	if m.Result().Frames != 0 {
		t.Fatal("Reset() did not clear the meter")
	}
}

func TestStereoMeter(t *testing.T) {
	var s StereoMeter
	s.Update([]float64{1, 1, 1}, []float64{-0.5, -0.5})

	l, r := s.Result()
	if l.Frames != 2 || r.Frames != 2 || l.DC != 1 || r.DC != -0.5 {
		t.Fatalf("Result() = %+v, %+v", l, r)
	}

	s.Reset()
	if l, _ = s.Result(); l.Frames != 0 {
		t.Fatal("Reset() did not clear the meter")
	}
}
