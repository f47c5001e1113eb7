package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-feedbackws/dsp/core"
	"github.com/cwbudde/algo-feedbackws/dsp/effects/feedbackws"
	"github.com/cwbudde/algo-feedbackws/dsp/effects/spatial"
	"github.com/cwbudde/algo-feedbackws/dsp/filter/dcblock"
)

const (
	paramFunction = "function"
	paramShaper   = "shaper"
)

// feedbackWSRuntime handles the "feedback-waveshaper" node type.
//
// The shaper is chosen by name through the "shaper" string parameter or by
// registry index through the numeric "function" parameter. The name wins
// when both are given; Chain.SetNodeParam on "function" drops the name.
type feedbackWSRuntime struct {
	engine *feedbackws.Engine
}

func (r *feedbackWSRuntime) Configure(ctx Context, p Params) error {
	if ctx.SampleRate > 0 {
		err := r.engine.SetSampleRate(ctx.SampleRate)
		if err != nil {
			return fmt.Errorf("effectchain: set feedback waveshaper sample rate: %w", err)
		}
	}

	def := feedbackws.DefaultParams()
	params := feedbackws.Params{
		Function:    int(p.GetNum(paramFunction, float64(def.Function))),
		A:           p.GetNum("a", def.A),
		B:           p.GetNum("b", def.B),
		C:           p.GetNum("c", def.C),
		D:           p.GetNum("d", def.D),
		Feedback:    p.GetNum("feedback", def.Feedback),
		Gain:        p.GetNum("gain", def.Gain),
		StereoDepth: p.GetNum("stereoDepth", def.StereoDepth),
		StereoColor: p.GetNum("stereoColor", def.StereoColor),
		Beta:        p.GetNum("beta", def.Beta),
	}

	if name := p.GetStr(paramShaper, ""); name != "" {
		kind, err := normalizeShaperName(name)
		if err != nil {
			return wrapConfigureErr(err)
		}

		i, ok := r.engine.Registry().IndexOf(kind)
		if !ok {
			return wrapConfigureErr(fmt.Errorf("%w: %s is not in the registry", ErrUnknownShaper, kind))
		}

		params.Function = i
	}

	return wrapConfigureErr(r.engine.SetParams(params))
}

func (r *feedbackWSRuntime) ProcessStereo(left, right []float64) {
	// Lengths are equal and the engine has two channels.
	_ = r.engine.ProcessStereo(left, right)
}

// Engine exposes the node's engine for inspection.
func (r *feedbackWSRuntime) Engine() *feedbackws.Engine {
	return r.engine
}

func (r *feedbackWSRuntime) Reset() {
	r.engine.Reset()
}

// widenerRuntime handles the "sine-widener" node type.
type widenerRuntime struct {
	fx *spatial.StereoWidener
}

func (r *widenerRuntime) Configure(_ Context, p Params) error {
	err := r.fx.SetDepth(core.Clamp(p.GetNum("depth", 0), 0, 1))
	if err != nil {
		return wrapConfigureErr(err)
	}

	return wrapConfigureErr(r.fx.SetColor(core.Clamp(p.GetNum("color", 0.1), 0, 1)))
}

func (r *widenerRuntime) ProcessStereo(left, right []float64) {
	_ = r.fx.ProcessStereoInPlace(left, right)
}

// dcBlockerRuntime handles the "dc-blocker" node type.
type dcBlockerRuntime struct {
	left, right *dcblock.Blocker
}

func (r *dcBlockerRuntime) Configure(_ Context, p Params) error {
	beta := core.Clamp(p.GetNum("beta", dcblock.OutputBeta), 0, 1)

	err := r.left.SetBeta(beta)
	if err != nil {
		return wrapConfigureErr(err)
	}

	return wrapConfigureErr(r.right.SetBeta(beta))
}

func (r *dcBlockerRuntime) ProcessStereo(left, right []float64) {
	r.left.ProcessInPlace(left)
	r.right.ProcessInPlace(right)
}

func (r *dcBlockerRuntime) Reset() {
	r.left.Reset()
	r.right.Reset()
}

func wrapConfigureErr(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("effectchain: configure: %w", err)
}
