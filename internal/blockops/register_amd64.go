//go:build amd64 && !purego

package blockops

import "github.com/cwbudde/algo-vecmath/cpu"

func init() {
	// TODO: replace with explicit AVX2 conversion kernels.
	Global.Register(OpEntry{
		Name:      "avx2",
		SIMDLevel: cpu.SIMDAVX2,
		Priority:  20,
		Widen:     widenUnrolled4,
		Narrow:    narrowUnrolled4,
	})
}
