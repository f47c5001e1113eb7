package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cwbudde/algo-feedbackws/dsp/effectchain"
	"github.com/cwbudde/algo-feedbackws/dsp/effects/feedbackws"
	"github.com/cwbudde/algo-feedbackws/internal/automation"
)

// flagNodeID is the node built from command line parameters.
const flagNodeID = "fbws"

type renderConfig struct {
	blockSize int
	script    *automation.Script
	// defaultNode receives automation keys without a node prefix.
	defaultNode string
	progress    func(done, total int)
}

// flagPreset returns a one-node series preset for the given controls.
func flagPreset(shaper string, p feedbackws.Params) (string, error) {
	params := map[string]any{
		"a":           p.A,
		"b":           p.B,
		"c":           p.C,
		"d":           p.D,
		"feedback":    p.Feedback,
		"gain":        p.Gain,
		"stereoDepth": p.StereoDepth,
		"stereoColor": p.StereoColor,
		"beta":        p.Beta,
	}
	if shaper != "" {
		params["shaper"] = shaper
	} else {
		params["function"] = p.Function
	}

	preset := map[string]any{
		"nodes": []map[string]any{{
			"id":     flagNodeID,
			"type":   effectchain.TypeFeedbackWaveshaper,
			"params": params,
		}},
	}

	data, err := json.Marshal(preset)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// render processes left and right in place through chain, block by block.
// The automation script, if any, runs before each block.
func render(ctx context.Context, chain *effectchain.Chain, left, right []float64, cfg renderConfig) error {
	total := min(len(left), len(right))
	if cfg.blockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", cfg.blockSize)
	}

	rate := chain.Context().SampleRate

	for block, start := 0, 0; start < total; block, start = block+1, start+cfg.blockSize {
		err := ctx.Err()
		if err != nil {
			return err
		}

		if cfg.script != nil {
			values, err := cfg.script.Eval(ctx, float64(start)/rate, block)
			if err != nil {
				return err
			}

			err = automation.Apply(chain, cfg.defaultNode, values)
			if err != nil {
				return err
			}
		}

		end := min(start+cfg.blockSize, total)
		if !chain.ProcessStereo(left[start:end], right[start:end]) {
			return fmt.Errorf("chain has no input/output path")
		}

		if cfg.progress != nil {
			cfg.progress(end, total)
		}
	}

	return nil
}
