package level_test

import (
	"fmt"

	"github.com/cwbudde/algo-feedbackws/measure/level"
)

func ExampleCalculate() {
	s := level.Calculate([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f crest=%.1f zc=%d clipped=%d\n", s.RMS, s.Crest, s.ZeroCrossings, s.Clipped)

	// Output:
	// rms=1.0 crest=1.0 zc=3 clipped=4
}

func ExampleStereoMeter() {
	var m level.StereoMeter
	m.Update([]float64{0.5, 0.5}, []float64{0, -0.25})
	m.Update([]float64{0.5, 0.5}, []float64{0, -0.25})

	l, r := m.Result()
	fmt.Printf("left dc=%.2f right peak=%.2f frames=%d\n", l.DC, r.Peak, r.Frames)

	// Output:
	// left dc=0.50 right peak=0.25 frames=4
}
