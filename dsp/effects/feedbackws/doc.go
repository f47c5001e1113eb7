// Package feedbackws implements a feedback waveshaping distortion with
// sinusoidal stereo widening and DC blocking.
//
// Every sample of every channel runs through the same chain:
//
//	mix     pipe = input + state.Last·Feedback
//	gain    pipe *= Gain
//	shape   pipe = shaper(pipe, A, B, C, D)
//	widen   pipe = spatial.Widen(pipe, StereoDepth, StereoColor, left)
//	output  out  = dcblock.Highpass(pipe, state.Last, dcblock.OutputBeta)
//	update  state.Last = dcblock.Highpass(pipe, state.Last, Beta)
//
// The output and the stored feedback sample are both computed from the state
// as it was before the sample, and the feedback path is filtered with the
// user pole Beta instead of the fixed output pole. Each channel owns one
// ChannelState; channels never read each other's state.
//
// Non-finite intermediates are replaced by 0 so that NaN or Inf never reach
// the output or the feedback state.
package feedbackws
