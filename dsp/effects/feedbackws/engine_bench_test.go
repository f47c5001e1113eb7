package feedbackws

import (
	"testing"

	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
)

func BenchmarkEngineProcessBlock(b *testing.B) {
	for _, entry := range waveshape.Default().Entries() {
		b.Run(entry.Name, func(b *testing.B) {
			p := DefaultParams()
			p.A, p.B, p.C, p.D = 0.5, 0.5, 0.5, 0.5

			e, err := NewEngine(48000, WithParams(p))
			if err != nil {
				b.Fatalf("NewEngine() error = %v", err)
			}

			idx, _ := e.Registry().IndexOf(entry.Kind)
			e.SetFunction(idx)

			buf := make([]float64, 512)
			for i := range buf {
				buf[i] = float64(i%100)/100 - 0.5
			}

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				e.ProcessBlock(0, buf)
			}
		})
	}
}
