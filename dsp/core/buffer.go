package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// EnsureChannels returns a channel set with the requested shape, reusing
// existing backing arrays where their capacity allows.
func EnsureChannels(bufs [][]float64, channels, n int) [][]float64 {
	if channels <= 0 {
		return bufs[:0]
	}
	if cap(bufs) < channels {
		grown := make([][]float64, channels)
		copy(grown, bufs)
		bufs = grown
	}
	bufs = bufs[:channels]
	for i := range bufs {
		bufs[i] = EnsureLen(bufs[i], n)
	}
	return bufs
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
