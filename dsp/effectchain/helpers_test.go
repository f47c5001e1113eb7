package effectchain

// stubRuntime is a minimal Runtime implementation for testing.
type stubRuntime struct {
	configureErr   error
	configureCalls int
	processCalls   int
	resetCalls     int
	lastCtx        Context
	lastParams     Params
}

func (s *stubRuntime) Configure(ctx Context, params Params) error {
	s.configureCalls++
	s.lastCtx = ctx
	s.lastParams = params

	return s.configureErr
}

func (s *stubRuntime) ProcessStereo(_, _ []float64) {
	s.processCalls++
}

func (s *stubRuntime) Reset() {
	s.resetCalls++
}

// gainRuntime multiplies every sample by a fixed gain.
type gainRuntime struct {
	gain float64
}

func (g *gainRuntime) Configure(_ Context, params Params) error {
	g.gain = params.GetNum("gain", 1.0)

	return nil
}

func (g *gainRuntime) ProcessStereo(left, right []float64) {
	for i := range left {
		left[i] *= g.gain
		right[i] *= g.gain
	}
}

// addRuntime adds a constant to every sample (for testing multi-parent mixing).
type addRuntime struct {
	value float64
}

func (a *addRuntime) Configure(_ Context, params Params) error {
	a.value = params.GetNum("value", 0)

	return nil
}

func (a *addRuntime) ProcessStereo(left, right []float64) {
	for i := range left {
		left[i] += a.value
		right[i] += a.value
	}
}

func testRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("gain", func(_ Context) (Runtime, error) { return &gainRuntime{}, nil })
	r.MustRegister("add", func(_ Context) (Runtime, error) { return &addRuntime{}, nil })
	r.MustRegister("stub", func(_ Context) (Runtime, error) { return &stubRuntime{}, nil })

	return r
}
