//go:build arm64 && !purego

package blockops

import "github.com/cwbudde/algo-vecmath/cpu"

func init() {
	Global.Register(OpEntry{
		Name:      "neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  15,
		Widen:     widenUnrolled4,
		Narrow:    narrowUnrolled4,
	})
}
