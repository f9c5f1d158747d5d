// Package layout assigns 2D coordinates to normalized graph nodes.
package layout

import (
	"math"
	"math/rand"

	"github.com/substratehq/graphview/pkg/graph"
)

// Logical canvas dimensions. Zoom and pan are paint-time transforms and
// never affect stored positions.
const (
	CanvasWidth  = 800.0
	CanvasHeight = 600.0
)

const (
	circleCenterX = 400.0
	circleCenterY = 300.0
	circleRadius  = 200.0
)

// Algorithm selects a placement strategy.
type Algorithm string

const (
	// Circular places node i of n at angle 2*pi*i/n on a fixed circle.
	// Deterministic; ordering follows the input node order.
	Circular Algorithm = "circular"

	// Hierarchical partitions nodes into tiers by kind (capture above
	// fragment above tag) and spaces each tier evenly along the x axis.
	Hierarchical Algorithm = "hierarchical"

	// Scatter assigns uniformly random in-bounds coordinates. It is a
	// placeholder for a force-directed simulation, not one: there is no
	// iterative refinement. A real spring embedder could replace it
	// without changing this interface.
	Scatter Algorithm = "scatter"
)

// tierOrder encodes the semantic top-to-bottom ordering of the hierarchical
// layout: capture before structure before meaning.
var tierOrder = []graph.Kind{graph.KindCapture, graph.KindFragment, graph.KindTag}

// ParseAlgorithm maps a request string to an Algorithm, defaulting to
// Circular for anything unknown.
func ParseAlgorithm(s string) Algorithm {
	switch Algorithm(s) {
	case Hierarchical:
		return Hierarchical
	case Scatter:
		return Scatter
	default:
		return Circular
	}
}

// Apply returns a copy of g in which every node has a position. It is a pure
// function of its inputs; the input graph is left untouched.
func Apply(g graph.Graph, alg Algorithm) graph.Graph {
	out := graph.Graph{
		Nodes: make([]graph.Node, len(g.Nodes)),
		Edges: g.Edges,
	}
	copy(out.Nodes, g.Nodes)

	switch alg {
	case Hierarchical:
		applyHierarchical(out.Nodes)
	case Scatter:
		applyScatter(out.Nodes)
	default:
		applyCircular(out.Nodes)
	}
	return out
}

func applyCircular(nodes []graph.Node) {
	n := len(nodes)
	for i := range nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		nodes[i].Position = &graph.Position{
			X: circleCenterX + circleRadius*math.Cos(angle),
			Y: circleCenterY + circleRadius*math.Sin(angle),
		}
	}
}

func applyHierarchical(nodes []graph.Node) {
	tiers := make(map[graph.Kind][]int, len(tierOrder))
	for i, n := range nodes {
		tiers[n.Kind] = append(tiers[n.Kind], i)
	}

	tierGap := CanvasHeight / float64(len(tierOrder)+1)
	for t, kind := range tierOrder {
		members := tiers[kind]
		y := tierGap * float64(t+1)
		gap := CanvasWidth / float64(len(members)+1)
		for j, idx := range members {
			nodes[idx].Position = &graph.Position{
				X: gap * float64(j+1),
				Y: y,
			}
		}
	}

	// Kinds outside the tier order (none today) still get a position so the
	// contract that every node is placed holds.
	for i := range nodes {
		if nodes[i].Position == nil {
			nodes[i].Position = &graph.Position{X: CanvasWidth / 2, Y: CanvasHeight / 2}
		}
	}
}

func applyScatter(nodes []graph.Node) {
	for i := range nodes {
		nodes[i].Position = &graph.Position{
			X: rand.Float64() * CanvasWidth,
			Y: rand.Float64() * CanvasHeight,
		}
	}
}
