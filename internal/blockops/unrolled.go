package blockops

// widenUnrolled4 is a 4x-unrolled scalar widening kernel.
func widenUnrolled4(dst []float64, src []float32) {
	n := min(len(dst), len(src))
	dst = dst[:n]
	src = src[:n]

	i := 0
	for ; i+3 < n; i += 4 {
		dst[i] = float64(src[i])
		dst[i+1] = float64(src[i+1])
		dst[i+2] = float64(src[i+2])
		dst[i+3] = float64(src[i+3])
	}
	for ; i < n; i++ {
		dst[i] = float64(src[i])
	}
}

// narrowUnrolled4 is a 4x-unrolled scalar narrowing kernel with split peak
// accumulators.
func narrowUnrolled4(dst []float32, src []float64) float32 {
	n := min(len(dst), len(src))
	dst = dst[:n]
	src = src[:n]

	var p0, p1, p2, p3 float32
	i := 0
	for ; i+3 < n; i += 4 {
		v0 := narrowSample(src[i])
		v1 := narrowSample(src[i+1])
		v2 := narrowSample(src[i+2])
		v3 := narrowSample(src[i+3])

		dst[i] = v0
		dst[i+1] = v1
		dst[i+2] = v2
		dst[i+3] = v3

		p0 = max(p0, abs32(v0))
		p1 = max(p1, abs32(v1))
		p2 = max(p2, abs32(v2))
		p3 = max(p3, abs32(v3))
	}
	for ; i < n; i++ {
		v := narrowSample(src[i])
		dst[i] = v
		p0 = max(p0, abs32(v))
	}
	return max(p0, p1, p2, p3)
}
