package effectchain

import (
	"slices"
	"strings"
	"testing"
)

func TestParseGraph(t *testing.T) {
	t.Parallel()

	t.Run("empty string returns empty graph", func(t *testing.T) {
		t.Parallel()

		g, err := parseGraph("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(g.Nodes) != 0 {
			t.Errorf("expected empty nodes, got %d", len(g.Nodes))
		}
	})

	t.Run("invalid JSON returns error", func(t *testing.T) {
		t.Parallel()

		_, err := parseGraph("{not-json")
		if err == nil || !strings.Contains(err.Error(), "invalid chain graph json") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing output node returns empty graph", func(t *testing.T) {
		t.Parallel()

		g, err := parseGraph(`{
			"nodes": [{"id": "_input", "type": "_input"}, {"id": "g", "type": "gain"}],
			"connections": [{"from": "_input", "to": "g"}]
		}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(g.Nodes) != 0 {
			t.Errorf("expected empty graph without output node, got %d nodes", len(g.Nodes))
		}
	})

	t.Run("explicit graph is topologically ordered", func(t *testing.T) {
		t.Parallel()

		g, err := parseGraph(`{
			"nodes": [
				{"id": "_output", "type": "_output"},
				{"id": "b", "type": "gain"},
				{"id": "a", "type": "gain", "params": {"gain": 2, "label": "x", "on": true}},
				{"id": "_input", "type": "_input"}
			],
			"connections": [
				{"from": "_input", "to": "a"},
				{"from": "a", "to": "b"},
				{"from": "b", "to": "_output"}
			]
		}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{InputNodeID, "a", "b", OutputNodeID}
		if !slices.Equal(g.Order, want) {
			t.Fatalf("Order = %v, want %v", g.Order, want)
		}

		a := g.Nodes["a"]
		if a.Num["gain"] != 2 || a.Str["label"] != "x" || a.Num["on"] != 1 {
			t.Errorf("unexpected params %+v", a)
		}
	})

	t.Run("series preset without connections", func(t *testing.T) {
		t.Parallel()

		g, err := parseGraph(`{"nodes": [
			{"id": "fx1", "type": "gain"},
			{"id": "fx2", "type": "add"}
		]}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{InputNodeID, "fx1", "fx2", OutputNodeID}
		if !slices.Equal(g.Order, want) {
			t.Fatalf("Order = %v, want %v", g.Order, want)
		}

		if len(g.Incoming[OutputNodeID]) != 1 || g.Incoming[OutputNodeID][0].From != "fx2" {
			t.Errorf("output parents = %v", g.Incoming[OutputNodeID])
		}
	})

	t.Run("cycle is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := parseGraph(`{
			"nodes": [
				{"id": "_input", "type": "_input"},
				{"id": "a", "type": "gain"},
				{"id": "b", "type": "gain"},
				{"id": "_output", "type": "_output"}
			],
			"connections": [
				{"from": "_input", "to": "a"},
				{"from": "a", "to": "b"},
				{"from": "b", "to": "a"},
				{"from": "b", "to": "_output"}
			]
		}`)
		if err == nil || !strings.Contains(err.Error(), "cycle") {
			t.Fatalf("expected cycle error, got %v", err)
		}
	})

	t.Run("duplicate node id is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := parseGraph(`{"nodes": [{"id": "a", "type": "gain"}, {"id": "a", "type": "add"}]}`)
		if err == nil {
			t.Fatal("expected duplicate id error")
		}
	})
}
