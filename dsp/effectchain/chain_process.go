package effectchain

// ProcessStereo applies the effect chain to the left and right blocks in
// place. Only the first min(len(left), len(right)) samples are processed.
// Returns false if the chain has no valid graph with I/O nodes.
func (c *Chain) ProcessStereo(left, right []float64) bool {
	n := min(len(left), len(right))
	if n == 0 {
		return true
	}

	g := c.graph
	if g == nil || !hasRequiredIONodes(g) {
		return false
	}

	left, right = left[:n], right[:n]
	c.prepareBuffers(left, right, g)

	for _, id := range g.Order {
		if id == InputNodeID {
			continue
		}

		c.processNode(id, g)
	}

	copy(left, c.outL[OutputNodeID])
	copy(right, c.outR[OutputNodeID])

	return true
}

func (c *Chain) prepareBuffers(left, right []float64, g *compiledGraph) {
	n := len(left)

	if c.outL == nil {
		c.outL = make(map[string][]float64, len(g.Nodes))
		c.outR = make(map[string][]float64, len(g.Nodes))
	}

	for _, id := range g.Order {
		if id == InputNodeID {
			c.outL[id] = left
			c.outR[id] = right

			continue
		}

		c.outL[id] = grow(c.outL[id], n)
		c.outR[id] = grow(c.outR[id], n)
	}

	c.mixL = grow(c.mixL, n)
	c.mixR = grow(c.mixR, n)
}

func grow(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}

	return buf[:n]
}

func (c *Chain) processNode(id string, g *compiledGraph) {
	node := g.Nodes[id]
	dstL, dstR := c.outL[id], c.outR[id]

	parents := g.Incoming[id]
	mixParentsInto(parents, dstL, c.mixL, c.outL)
	mixParentsInto(parents, dstR, c.mixR, c.outR)

	if id == OutputNodeID || node.Bypassed || isStructuralNodeType(node.Type) {
		return
	}

	rt := c.nodes[id]
	if rt == nil || rt.runtime == nil {
		return
	}

	rt.runtime.ProcessStereo(dstL, dstR)
}

// mixParentsInto writes the average of the parent outputs into dst. A node
// without parents receives silence.
func mixParentsInto(parents []compiledEdge, dst, mixBuf []float64, outputs map[string][]float64) {
	if len(parents) == 0 {
		clear(dst)
		return
	}

	if len(parents) == 1 {
		copy(dst, outputs[parents[0].From])
		return
	}

	clear(mixBuf)

	for _, edge := range parents {
		src := outputs[edge.From]
		for i := range mixBuf {
			mixBuf[i] += src[i]
		}
	}

	scale := 1.0 / float64(len(parents))
	for i := range mixBuf {
		dst[i] = mixBuf[i] * scale
	}
}
