// Package graph converts the heterogeneous substrate collections of a basket
// into a uniform node/edge model ready for layout and rendering.
package graph

// Kind classifies the substrate entity behind a node.
type Kind string

const (
	KindFragment Kind = "fragment"
	KindCapture  Kind = "capture"
	KindTag      Kind = "tag"

	// KindDocument exists in the substrate model but documents are not
	// rendered in the graph view.
	KindDocument Kind = "document"
)

// Position is a coordinate in the 800x600 logical canvas space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a display-ready vertex.
//
// Source retains the original backend record for detail display and
// navigation; it is never mutated by this package.
type Node struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	DisplayTitle   string    `json:"displayTitle"`
	TruncatedLabel string    `json:"truncatedLabel"`
	Color          string    `json:"color"`
	Radius         float64   `json:"radius"`
	Position       *Position `json:"position,omitempty"`
	Source         any       `json:"source,omitempty"`
}

// Edge is a display-ready relationship. Edges are always derived from typed
// links during normalization, never authored directly.
type Edge struct {
	ID       string  `json:"id"`
	SourceID string  `json:"sourceId"`
	TargetID string  `json:"targetId"`
	Weight   float64 `json:"weight"`
	Kind     string  `json:"relationshipKind"`
	Color    string  `json:"color"`
}

// Graph is the normalized node/edge collection for one basket snapshot.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Visibility toggles node kinds on or off. Hiding a kind removes its nodes
// and, transitively, every edge touching them.
type Visibility map[Kind]bool

// AllVisible returns a toggle map with every rendered kind enabled.
func AllVisible() Visibility {
	return Visibility{
		KindFragment: true,
		KindCapture:  true,
		KindTag:      true,
	}
}

// StrokeWidth is the painted line width for an edge of the given weight.
func (e Edge) StrokeWidth() float64 {
	return max(1, e.Weight*3)
}
