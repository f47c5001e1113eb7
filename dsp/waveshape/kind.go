package waveshape

import (
	"fmt"
	"strings"
)

// Kind identifies one transfer function.
type Kind int

const (
	// KindLogistic is 2/(1+e^(-10·a·x)) - 1.
	KindLogistic Kind = iota
	// KindSinLog is sin(30·a·ln(x+1)), defined for x > -1.
	KindSinLog
	// KindXSinXSquared is x·sin(x² + 3a).
	KindXSinXSquared
	// KindSinFun is the amplitude modulated sine x·(a + (1-a)·(1+sin(200·b·x))).
	KindSinFun
	// KindFMLogistic is a logistic curve whose slope is modulated by cos(50·b/(2π)).
	KindFMLogistic
	// KindSineFM is a sine carrier frequency-modulated by a second sine of the input.
	KindSineFM
)

var kindNames = [...]string{
	KindLogistic:     "logistic",
	KindSinLog:       "sinlog",
	KindXSinXSquared: "xsinx2",
	KindSinFun:       "sinfun",
	KindFMLogistic:   "fmlogistic",
	KindSineFM:       "sinefm",
}

// Kinds returns every known kind in registry order.
func Kinds() []Kind {
	return []Kind{KindLogistic, KindSinLog, KindXSinXSquared, KindSinFun, KindFMLogistic, KindSineFM}
}

// Valid reports whether k names a known transfer function.
func (k Kind) Valid() bool {
	return k >= KindLogistic && k <= KindSineFM
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind maps a short name such as "logistic" or "sinefm" to its Kind.
// Matching ignores case and surrounding whitespace.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == normalized {
			return Kind(k), nil
		}
	}

	return 0, fmt.Errorf("waveshape: unknown shaper %q", name)
}
