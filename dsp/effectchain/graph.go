package effectchain

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// InputNodeID is the reserved node ID for the chain input.
	InputNodeID = "_input"
	// OutputNodeID is the reserved node ID for the chain output.
	OutputNodeID = "_output"

	// NodeTypeSplit fans its input out unchanged to several children.
	NodeTypeSplit = "split"
	// NodeTypeSum averages its parents.
	NodeTypeSum = "sum"
)

// graphNode is a JSON-serializable node in the effect chain graph.
type graphNode struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Bypassed bool   `json:"bypassed"`
	Params   any    `json:"params"`
}

// graphConnection is a JSON-serializable connection between two graph nodes.
type graphConnection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// graphState is the root JSON structure for the effect chain graph.
//
// A preset that lists nodes without any connections is a plain series chain:
// the nodes are wired input -> node[0] -> ... -> node[n-1] -> output in
// declaration order and the I/O nodes may be omitted.
type graphState struct {
	Nodes       []graphNode       `json:"nodes"`
	Connections []graphConnection `json:"connections"`
}

// compiledGraph holds the compiled effect chain graph with adjacency info
// and a topologically sorted traversal order.
type compiledGraph struct {
	Nodes    map[string]Params
	Incoming map[string][]compiledEdge
	Outgoing map[string][]compiledEdge
	Order    []string
}

type compiledEdge struct {
	From string
	To   string
}

// parseGraph parses the JSON chain graph and performs a topological sort
// (Kahn's algorithm). Returns an empty graph for an empty string.
//
//nolint:cyclop
func parseGraph(raw string) (*compiledGraph, error) {
	if raw == "" {
		return &compiledGraph{}, nil
	}

	var state graphState

	err := json.Unmarshal([]byte(raw), &state)
	if err != nil {
		return nil, fmt.Errorf("invalid chain graph json: %w", err)
	}

	if len(state.Connections) == 0 {
		state = seriesGraph(state.Nodes)
	}

	nodes := make(map[string]Params, len(state.Nodes))
	declared := make([]string, 0, len(state.Nodes))

	for _, n := range state.Nodes {
		if n.ID == "" || n.Type == "" {
			continue
		}

		if _, dup := nodes[n.ID]; dup {
			return nil, fmt.Errorf("invalid chain graph: duplicate node id %q", n.ID)
		}

		num, str := parseNodeParams(n.Params)
		nodes[n.ID] = Params{
			ID:       n.ID,
			Type:     n.Type,
			Bypassed: n.Bypassed,
			Num:      num,
			Str:      str,
		}
		declared = append(declared, n.ID)
	}

	if _, ok := nodes[InputNodeID]; !ok {
		return &compiledGraph{}, nil
	}

	if _, ok := nodes[OutputNodeID]; !ok {
		return &compiledGraph{}, nil
	}

	incoming := make(map[string][]compiledEdge, len(nodes))
	outgoing := make(map[string][]compiledEdge, len(nodes))

	indegree := make(map[string]int, len(nodes))
	for id := range nodes {
		indegree[id] = 0
	}

	for _, c := range state.Connections {
		if c.From == "" || c.To == "" || c.From == c.To {
			continue
		}

		if _, ok := nodes[c.From]; !ok {
			continue
		}

		if _, ok := nodes[c.To]; !ok {
			continue
		}

		edge := compiledEdge{From: c.From, To: c.To}
		outgoing[c.From] = append(outgoing[c.From], edge)
		incoming[c.To] = append(incoming[c.To], edge)
		indegree[c.To]++
	}

	// Seed in declaration order so that the traversal is deterministic.
	queue := make([]string, 0, len(nodes))

	for _, id := range declared {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		order = append(order, id)
		for _, edge := range outgoing[id] {
			indegree[edge.To]--
			if indegree[edge.To] == 0 {
				queue = append(queue, edge.To)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, errors.New("invalid chain graph: contains cycle")
	}

	return &compiledGraph{
		Nodes:    nodes,
		Incoming: incoming,
		Outgoing: outgoing,
		Order:    order,
	}, nil
}

// seriesGraph wires nodes in declaration order between the I/O nodes.
func seriesGraph(nodes []graphNode) graphState {
	state := graphState{
		Nodes: []graphNode{{ID: InputNodeID, Type: InputNodeID}},
	}

	prev := InputNodeID

	for _, n := range nodes {
		if n.ID == "" || n.Type == "" || n.ID == InputNodeID || n.ID == OutputNodeID {
			continue
		}

		state.Nodes = append(state.Nodes, n)
		state.Connections = append(state.Connections, graphConnection{From: prev, To: n.ID})
		prev = n.ID
	}

	state.Nodes = append(state.Nodes, graphNode{ID: OutputNodeID, Type: OutputNodeID})
	state.Connections = append(state.Connections, graphConnection{From: prev, To: OutputNodeID})

	return state
}

// parseNodeParams extracts numeric and string parameters from a raw JSON params value.
func parseNodeParams(raw any) (map[string]float64, map[string]string) {
	num := map[string]float64{}
	str := map[string]string{}

	params, ok := raw.(map[string]any)
	if !ok || params == nil {
		return num, str
	}

	for k, v := range params {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		}
	}

	return num, str
}

// isStructuralNodeType returns true for I/O and routing nodes that don't need a runtime.
func isStructuralNodeType(nodeType string) bool {
	return nodeType == InputNodeID ||
		nodeType == OutputNodeID ||
		nodeType == NodeTypeSplit ||
		nodeType == NodeTypeSum
}
