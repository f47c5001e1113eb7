package waveshape

// InputCurve is the steepness of the logistic used by Curve.
const InputCurve = 5.0

// Curve remaps a knob position p in [0, 1] through a logistic centred at 0.5
// and rescales the result so that Curve(0) == 0 and Curve(1) == 1. The low end
// of the range stays close to linear while the top end is compressed.
// Values outside [0, 1] are clamped first.
func Curve(p float64) float64 {
	if p != p || p <= 0 {
		return 0
	}

	if p >= 1 {
		return 1
	}

	lo := logistic(0)
	hi := logistic(1)

	return (logistic(p) - lo) / (hi - lo)
}

func logistic(p float64) float64 {
	return 1 / (1 + mathExp(-InputCurve*(p-0.5)))
}
