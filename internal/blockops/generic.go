package blockops

import (
	"math"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	Global.Register(OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Widen:     widenGeneric,
		Narrow:    narrowGeneric,
	})
}

func widenGeneric(dst []float64, src []float32) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = float64(src[i])
	}
}

func narrowGeneric(dst []float32, src []float64) float32 {
	n := min(len(dst), len(src))
	var peak float32
	for i := 0; i < n; i++ {
		v := narrowSample(src[i])
		dst[i] = v
		peak = max(peak, abs32(v))
	}
	return peak
}

// narrowSample rounds to float32 and zeroes anything that is not finite
// after rounding, including float64 values beyond the float32 range.
func narrowSample(x float64) float32 {
	v := float32(x)
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return v
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
