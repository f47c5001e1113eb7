package effectchain

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnknownEffect is returned when a node references an unregistered effect type.
var ErrUnknownEffect = errors.New("unknown effect type")

type nodeRuntime struct {
	effectType string
	runtime    Runtime
}

// Chain owns a graph-based stereo effect chain: topology, node runtimes and
// processing buffers.
type Chain struct {
	ctx      Context
	registry *Registry

	graph *compiledGraph
	nodes map[string]*nodeRuntime

	outL, outR map[string][]float64
	mixL, mixR []float64
}

// New creates a Chain with the given context and registry.
func New(ctx Context, registry *Registry) *Chain {
	return &Chain{
		ctx:      ctx,
		registry: registry,
		nodes:    make(map[string]*nodeRuntime),
	}
}

// SetContext updates the chain context and reconfigures every node with it.
func (c *Chain) SetContext(ctx Context) error {
	c.ctx = ctx

	if c.graph == nil {
		return nil
	}

	return c.syncNodes(c.graph)
}

// Context returns the current chain context.
func (c *Chain) Context() Context {
	return c.ctx
}

// HasGraph returns true if the chain has a loaded graph with valid I/O nodes.
func (c *Chain) HasGraph() bool {
	return c.graph != nil && hasRequiredIONodes(c.graph)
}

// LoadGraph parses a JSON graph string, compiles the topology, and
// synchronizes node runtimes. An empty string clears the graph.
func (c *Chain) LoadGraph(jsonGraph string) error {
	graph, err := parseGraph(jsonGraph)
	if err != nil {
		return err
	}

	err = c.syncNodes(graph)
	if err != nil {
		return err
	}

	c.graph = graph

	return nil
}

// LoadFile reads a JSON preset from path and loads it with LoadGraph.
func (c *Chain) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("effectchain: read preset: %w", err)
	}

	return c.LoadGraph(string(data))
}

// SetNodeParam overrides one numeric parameter of a loaded node and
// reconfigures its runtime. Setting "function" on a feedback-waveshaper node
// removes its "shaper" name so the index takes effect.
func (c *Chain) SetNodeParam(nodeID, key string, value float64) error {
	if c.graph == nil {
		return fmt.Errorf("effectchain: no graph loaded")
	}

	node, ok := c.graph.Nodes[nodeID]
	if !ok {
		return fmt.Errorf("effectchain: unknown node %q", nodeID)
	}

	if node.Num == nil {
		node.Num = map[string]float64{}
	}

	node.Num[key] = value

	if node.Type == TypeFeedbackWaveshaper && key == paramFunction {
		delete(node.Str, paramShaper)
	}

	c.graph.Nodes[nodeID] = node

	rt := c.nodes[nodeID]
	if rt == nil {
		return nil
	}

	err := rt.runtime.Configure(c.ctx, node)
	if err != nil {
		return fmt.Errorf("effectchain: configure node %q (%s): %w", node.ID, node.Type, err)
	}

	return nil
}

// NodeIDs returns the IDs of the effect nodes in processing order.
func (c *Chain) NodeIDs() []string {
	if c.graph == nil {
		return nil
	}

	ids := make([]string, 0, len(c.nodes))

	for _, id := range c.graph.Order {
		if _, ok := c.nodes[id]; ok {
			ids = append(ids, id)
		}
	}

	return ids
}

// NodeRuntime returns the Runtime for the given node ID, or nil.
func (c *Chain) NodeRuntime(nodeID string) Runtime {
	rt := c.nodes[nodeID]
	if rt == nil {
		return nil
	}

	return rt.runtime
}

// ResetState clears the processing state of every node that carries any.
func (c *Chain) ResetState() {
	for _, rt := range c.nodes {
		if r, ok := rt.runtime.(Resetter); ok {
			r.Reset()
		}
	}
}

// Reset clears all node runtimes and processing state.
func (c *Chain) Reset() {
	c.graph = nil
	c.nodes = make(map[string]*nodeRuntime)
	c.outL = nil
	c.outR = nil
	c.mixL = nil
	c.mixR = nil
}

// syncNodes synchronises runtime effect instances with the compiled graph topology.
// Nodes that are no longer present are removed; new or type-changed nodes are (re)created and configured.
func (c *Chain) syncNodes(graph *compiledGraph) error {
	if c.nodes == nil {
		c.nodes = map[string]*nodeRuntime{}
	}

	seen := map[string]struct{}{}

	for _, id := range graph.Order {
		node := graph.Nodes[id]
		if isStructuralNodeType(node.Type) {
			continue
		}

		seen[node.ID] = struct{}{}

		rt := c.nodes[node.ID]
		if rt == nil || rt.effectType != node.Type {
			runtime, err := c.newRuntime(node.Type)
			if err != nil {
				return err
			}

			rt = &nodeRuntime{effectType: node.Type, runtime: runtime}
			c.nodes[node.ID] = rt
		}

		err := rt.runtime.Configure(c.ctx, node)
		if err != nil {
			return fmt.Errorf("effectchain: configure node %q (%s): %w", node.ID, node.Type, err)
		}
	}

	for id := range c.nodes {
		if _, ok := seen[id]; !ok {
			delete(c.nodes, id)
		}
	}

	return nil
}

func (c *Chain) newRuntime(effectType string) (Runtime, error) {
	factory := c.registry.Lookup(effectType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, effectType)
	}

	rt, err := factory(c.ctx)
	if err != nil {
		return nil, fmt.Errorf("effectchain: create %s: %w", effectType, err)
	}

	return rt, nil
}

func hasRequiredIONodes(g *compiledGraph) bool {
	if g == nil {
		return false
	}

	if _, ok := g.Nodes[InputNodeID]; !ok {
		return false
	}

	if _, ok := g.Nodes[OutputNodeID]; !ok {
		return false
	}

	return true
}
