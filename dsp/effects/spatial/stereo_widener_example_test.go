package spatial_test

import (
	"fmt"

	"github.com/cwbudde/algo-feedbackws/dsp/effects/spatial"
)

func ExampleWiden() {
	l := spatial.Widen(0.5, 0.25, 0.001, true)
	r := spatial.Widen(0.5, 0.25, 0.001, false)

	fmt.Printf("L=%.4f R=%.4f sum=%.4f\n", l, r, l+r)
	// Output:
	// L=0.6199 R=0.3801 sum=1.0000
}

func ExampleStereoWidener_ProcessStereo() {
	w, err := spatial.NewStereoWidener(spatial.WithDepth(0))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	outL, outR := w.ProcessStereo(0.8, 0.2)

	fmt.Printf("L=%.4f R=%.4f\n", outL, outR)
	// Output:
	// L=0.8000 R=0.2000
}
