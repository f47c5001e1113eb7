package spatial

import (
	"math"
	"testing"
)

func TestWidenZeroDepthIsIdentity(t *testing.T) {
	for _, s := range []float64{-1.5, -0.3, 0, 0.25, 0.9, 7} {
		for _, color := range []float64{0, 0.1, 0.77, 1} {
			if got := Widen(s, 0, color, true); got != s {
				t.Fatalf("Widen(%g, 0, %g, left) = %g, want %g", s, color, got, s)
			}

			if got := Widen(s, 0, color, false); got != s {
				t.Fatalf("Widen(%g, 0, %g, right) = %g, want %g", s, color, got, s)
			}
		}
	}
}

func TestWidenChannelsCancel(t *testing.T) {
	for _, s := range []float64{-0.8, -0.01, 0.125, 0.5, 0.99} {
		for _, depth := range []float64{0.1, 0.5, 1} {
			for _, color := range []float64{0.05, 0.3, 1} {
				l := Widen(s, depth, color, true)
				r := Widen(s, depth, color, false)

				mod := modulation(s, depth, color)
				if l != s+mod || r != s+(-mod) {
					t.Fatalf("modulation terms not mirrored: left=%g right=%g mod=%g", l, r, mod)
				}

				if math.Abs(l+r-2*s) > 1e-15 {
					t.Fatalf("Widen left+right = %g, want %g", l+r, 2*s)
				}
			}
		}
	}
}

func TestWidenMatchesFormula(t *testing.T) {
	s, depth, color := 0.3, 0.4, 0.002
	want := s + math.Sin(s*1000*color)*depth

	if got := Widen(s, depth, color, true); got != want {
		t.Fatalf("Widen() = %g, want %g", got, want)
	}
}

func TestStereoWidenerValidation(t *testing.T) {
	if _, err := NewStereoWidener(WithDepth(-0.1)); err == nil {
		t.Fatal("expected error for negative depth")
	}

	if _, err := NewStereoWidener(WithColor(math.NaN())); err == nil {
		t.Fatal("expected error for NaN color")
	}

	w, err := NewStereoWidener(nil, WithDepth(0.5))
	if err != nil {
		t.Fatalf("NewStereoWidener() error = %v", err)
	}

	if w.Depth() != 0.5 || w.Color() != defaultWidenerColor {
		t.Fatalf("unexpected controls: depth=%g color=%g", w.Depth(), w.Color())
	}

	if err := w.SetDepth(2); err == nil {
		t.Fatal("expected error for depth above range")
	}

	if err := w.SetColor(0.25); err != nil || w.Color() != 0.25 {
		t.Fatalf("SetColor(0.25) = %v, Color() = %g", err, w.Color())
	}
}

func TestStereoWidenerInPlaceMatchesProcessStereo(t *testing.T) {
	w, err := NewStereoWidener(WithDepth(0.3), WithColor(0.02))
	if err != nil {
		t.Fatalf("NewStereoWidener() error = %v", err)
	}

	n := 128
	inL := make([]float64, n)
	inR := make([]float64, n)

	for i := range inL {
		inL[i] = math.Sin(2 * math.Pi * float64(i) / 29)
		inR[i] = math.Sin(2*math.Pi*float64(i)/29 + 0.3)
	}

	wantL := make([]float64, n)
	wantR := make([]float64, n)

	for i := range inL {
		wantL[i], wantR[i] = w.ProcessStereo(inL[i], inR[i])
	}

	if err := w.ProcessStereoInPlace(inL, inR); err != nil {
		t.Fatalf("ProcessStereoInPlace() error = %v", err)
	}

	for i := range inL {
		if inL[i] != wantL[i] || inR[i] != wantR[i] {
			t.Fatalf("sample %d mismatch: got (%g, %g) want (%g, %g)", i, inL[i], inR[i], wantL[i], wantR[i])
		}
	}

	if err := w.ProcessStereoInPlace(make([]float64, 2), make([]float64, 3)); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestStereoWidenerInterleaved(t *testing.T) {
	w, _ := NewStereoWidener(WithDepth(0.2), WithColor(0.5))

	frames := []float64{0.4, -0.2}
	buf := []float64{0.4, 0.4, -0.2, -0.2}

	if err := w.ProcessInterleavedInPlace(buf); err != nil {
		t.Fatalf("ProcessInterleavedInPlace() error = %v", err)
	}

	for i, s := range frames {
		l, r := buf[2*i], buf[2*i+1]
		if math.Abs(l+r-2*s) > 1e-15 {
			t.Fatalf("frame %d does not cancel: L=%g R=%g", i, l, r)
		}

		if l == r {
			t.Fatalf("frame %d was not widened", i)
		}
	}

	if err := w.ProcessInterleavedInPlace(make([]float64, 3)); err == nil {
		t.Fatal("expected odd length error")
	}
}
