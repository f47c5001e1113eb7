// Package blockops converts between float32 host buffers and the float64
// buffers the DSP engine works on.
//
// Kernels register themselves with Global; the best one for the running CPU
// is selected on first use from cpu.DetectFeatures.
package blockops

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

var (
	selectOnce sync.Once
	selected   *OpEntry
)

func kernels() *OpEntry {
	selectOnce.Do(func() {
		selected = Global.Lookup(cpu.DetectFeatures())
		if selected == nil {
			panic("blockops: no kernel registered (missing generic fallback?)")
		}
	})
	return selected
}

// Widen copies min(len(dst), len(src)) host samples into dst.
func Widen(dst []float64, src []float32) {
	kernels().Widen(dst, src)
}

// Narrow copies min(len(dst), len(src)) engine samples into the host buffer
// and returns their absolute peak. Non-finite values are written as 0.
func Narrow(dst []float32, src []float64) float32 {
	return kernels().Narrow(dst, src)
}

// Selected returns the name of the active kernel set.
func Selected() string {
	return kernels().Name
}
