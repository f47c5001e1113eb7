package thd

import (
	"strconv"
	"testing"
)

func BenchmarkAnalyzeSignal(b *testing.B) {
	for _, n := range []int{1024, 4096, 16384} {
		b.Run("fft_"+strconv.Itoa(n), func(b *testing.B) {
			signal := make([]float64, n)
			for i := range signal {
				signal[i] = float64(i%64)/32 - 1
			}

			cfg := Config{SampleRate: 48000, FFTSize: n}

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = AnalyzeSignal(signal, cfg)
			}
		})
	}
}
