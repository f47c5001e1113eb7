// Package dcblock implements the one-pole high-pass used by the feedback
// waveshaper, both as a DC blocker on the output and as the conditioning
// filter on the value fed back.
//
// The filter is
//
//	y = x - (x·beta + last·(1-beta))
//
// where last is the previously stored sample. beta = 0 yields the plain
// difference x - last, beta = 1 yields 0. Neither case branches or divides.
package dcblock
