// Package spatial provides the stereo stage of the feedback waveshaper.
//
// StereoWidener adds a sinusoidal function of each sample to the left
// channel and subtracts the identical term from the right channel. The sign
// flip is the whole widening mechanism: summing both channels cancels the
// modulation exactly.
package spatial
