package effectchain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
)

// ErrUnknownShaper is returned when a preset names a shaper that does not
// exist or is not part of the node's registry.
var ErrUnknownShaper = errors.New("unknown shaper")

// normalizeShaperName maps a preset's shaper name, including common
// spellings, onto a waveshape kind.
func normalizeShaperName(raw string) (waveshape.Kind, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)

	switch name {
	case "analog", "analogdist", "logis", "logistic", "tanh":
		return waveshape.KindLogistic, nil
	case "sinlog", "sinelog":
		return waveshape.KindSinLog, nil
	case "xsinx2", "xsinxsquared", "xsinx":
		return waveshape.KindXSinXSquared, nil
	case "sinfun", "am", "amsine":
		return waveshape.KindSinFun, nil
	case "fmlogis", "fmlogistic":
		return waveshape.KindFMLogistic, nil
	case "sinefm", "fm", "fmsine":
		return waveshape.KindSineFM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownShaper, raw)
	}
}
