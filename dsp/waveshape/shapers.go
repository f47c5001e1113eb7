package waveshape

import "math"

// Func is a memoryless transfer function of one sample and four shape
// parameters. Shapers ignore the parameters they do not use.
type Func func(x, a, b, c, d float64) float64

// Logistic saturates softly for small a and approaches a hard clip as a grows.
// The output is odd-symmetric and bounded in (-1, 1).
func Logistic(x, a, _, _, _ float64) float64 {
	return 2/(1+mathExp(-a*x*10)) - 1
}

// SinLog folds the log-compressed input through a sine. The logarithm is only
// defined above -1; inputs at or below -1 map to 0.
func SinLog(x, a, _, _, _ float64) float64 {
	if !(x > -1) {
		return 0
	}

	return math.Sin(30 * a * mathLog(x+1))
}

// XSinXSquared multiplies the input with sin(x² + 3a); a shifts the phase.
func XSinXSquared(x, a, _, _, _ float64) float64 {
	return x * math.Sin(x*x+a*3)
}

// SinFun amplitude-modulates the input with a sine of itself. a sets the
// unmodulated floor and b the modulation frequency.
func SinFun(x, a, b, _, _ float64) float64 {
	return x * (a + (1-a)*(1+math.Sin(x*b*200)))
}

// FMLogistic is a logistic whose slope a is scaled by cos(50·b/(2π)).
func FMLogistic(x, a, b, _, _ float64) float64 {
	return 2/(1+mathExp(-x*a*math.Cos(b*50/(2*math.Pi)))) - 1
}

// SineFM runs the input through a sine carrier with frequency set by b and
// phase-modulated by a second sine with frequency c. The modulation index is
// Curve(a) so the top of the knob range stays usable. d blends from the dry
// input (0) to the shaped signal (1).
func SineFM(x, a, b, c, d float64) float64 {
	carrier := 1 + 199*b
	modulator := 1 + 199*c
	index := 10 * Curve(a)

	shaped := math.Sin(x*carrier + index*math.Sin(x*modulator))

	return x*(1-d) + shaped*d
}
