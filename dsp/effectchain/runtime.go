package effectchain

// Runtime is the per-node processing and configuration contract.
//
// ProcessStereo receives equally long left and right blocks and processes
// them in place. Configure is called whenever the node's parameters or the
// chain context change.
type Runtime interface {
	Configure(ctx Context, params Params) error
	ProcessStereo(left, right []float64)
}

// Resetter is implemented by runtimes that carry state between blocks.
type Resetter interface {
	Reset()
}
