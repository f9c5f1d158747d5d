package layout

import (
	"math"
	"testing"

	"github.com/substratehq/graphview/pkg/graph"
)

func nodesOfKinds(kinds ...graph.Kind) []graph.Node {
	nodes := make([]graph.Node, len(kinds))
	for i, k := range kinds {
		nodes[i] = graph.Node{ID: string(rune('a' + i)), Kind: k}
	}
	return nodes
}

func TestApply_CircularDeterminism(t *testing.T) {
	g := graph.Graph{Nodes: nodesOfKinds(
		graph.KindFragment, graph.KindCapture, graph.KindTag, graph.KindFragment, graph.KindTag,
	)}

	first := Apply(g, Circular)
	second := Apply(g, Circular)

	for i := range first.Nodes {
		a, b := first.Nodes[i].Position, second.Nodes[i].Position
		if a == nil || b == nil {
			t.Fatalf("node %d missing position", i)
		}
		if a.X != b.X || a.Y != b.Y {
			t.Fatalf("circular layout not deterministic at node %d: %+v vs %+v", i, a, b)
		}
	}

	// Node at index 0 lands at angle 0: (centerX + radius, centerY).
	p := first.Nodes[0].Position
	if math.Abs(p.X-600) > 1e-9 || math.Abs(p.Y-300) > 1e-9 {
		t.Fatalf("node 0 must land at (600,300), got (%v,%v)", p.X, p.Y)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	g := graph.Graph{Nodes: nodesOfKinds(graph.KindFragment, graph.KindTag)}
	Apply(g, Circular)
	for i, n := range g.Nodes {
		if n.Position != nil {
			t.Fatalf("input node %d was mutated", i)
		}
	}
}

func TestApply_HierarchicalTiers(t *testing.T) {
	g := graph.Graph{Nodes: nodesOfKinds(
		graph.KindFragment, graph.KindCapture, graph.KindFragment, graph.KindTag,
	)}
	out := Apply(g, Hierarchical)

	var captureY, fragmentY, tagY float64
	for _, n := range out.Nodes {
		if n.Position == nil {
			t.Fatalf("node %q has no position", n.ID)
		}
		switch n.Kind {
		case graph.KindCapture:
			captureY = n.Position.Y
		case graph.KindFragment:
			fragmentY = n.Position.Y
		case graph.KindTag:
			tagY = n.Position.Y
		}
	}

	if !(captureY < fragmentY && fragmentY < tagY) {
		t.Fatalf("tier ordering violated: capture=%v fragment=%v tag=%v", captureY, fragmentY, tagY)
	}
}

func TestApply_HierarchicalSameTierSharesYAndOrdersByIndex(t *testing.T) {
	// Three fragments, no links: same visual tier, ascending x by index.
	g := graph.Graph{Nodes: []graph.Node{
		{ID: "f1", Kind: graph.KindFragment},
		{ID: "f2", Kind: graph.KindFragment},
		{ID: "f3", Kind: graph.KindFragment},
	}}
	out := Apply(g, Hierarchical)

	y := out.Nodes[0].Position.Y
	lastX := -1.0
	for _, n := range out.Nodes {
		if n.Position.Y != y {
			t.Fatalf("fragments must share a tier: %v != %v", n.Position.Y, y)
		}
		if n.Position.X <= lastX {
			t.Fatalf("x positions must ascend with index: %v after %v", n.Position.X, lastX)
		}
		lastX = n.Position.X
	}
}

func TestApply_ScatterStaysInBounds(t *testing.T) {
	nodes := make([]graph.Node, 64)
	for i := range nodes {
		nodes[i] = graph.Node{ID: string(rune('a' + i%26)), Kind: graph.KindFragment}
	}
	out := Apply(graph.Graph{Nodes: nodes}, Scatter)
	for _, n := range out.Nodes {
		if n.Position == nil {
			t.Fatal("scatter left a node unplaced")
		}
		if n.Position.X < 0 || n.Position.X > CanvasWidth || n.Position.Y < 0 || n.Position.Y > CanvasHeight {
			t.Fatalf("scatter out of bounds: %+v", n.Position)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
	}{
		{"circular", Circular},
		{"hierarchical", Hierarchical},
		{"scatter", Scatter},
		{"", Circular},
		{"force", Circular},
	}
	for _, tt := range tests {
		if got := ParseAlgorithm(tt.in); got != tt.want {
			t.Fatalf("ParseAlgorithm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
