package graph

import (
	"unicode/utf8"

	"github.com/substratehq/graphview/pkg/substrate"
)

// Fallback display titles per kind, used when a record carries no usable
// text fields at all.
const (
	fallbackFragment = "Fragment"
	fallbackCapture  = "Capture"
	fallbackTag      = "Semantic Tag"
)

const defaultLinkWeight = 0.7

// Build normalizes a basket snapshot into a renderable graph. Each visible
// kind contributes its records as nodes; typed links become edges only when
// both endpoints resolve against the node set, so hiding a kind transitively
// hides every edge touching it.
//
// Normalization is best effort per record: malformed entries (missing id)
// are skipped and never fail the pass. Node ids are assumed to be namespaced
// upstream; colliding ids across collections are not deduplicated here.
func Build(snap substrate.Snapshot, vis Visibility) Graph {
	g := Graph{
		Nodes: make([]Node, 0, len(snap.Fragments)+len(snap.Captures)+len(snap.Tags)),
		Edges: make([]Edge, 0, len(snap.Links)),
	}

	if vis[KindFragment] {
		for _, f := range snap.Fragments {
			if f.ID == "" {
				continue
			}
			title := firstNonEmpty(
				substrate.AsString(f.Title),
				substrate.AsString(f.SemanticType),
				fallbackFragment,
			)
			g.Nodes = append(g.Nodes, Node{
				ID:             f.ID,
				Kind:           KindFragment,
				DisplayTitle:   title,
				TruncatedLabel: Truncate(title, LabelBudget),
				Color:          ConfidenceColor(substrate.FloatOr(f.ConfidenceScore, 0)),
				Radius:         RadiusFragment,
				Source:         f,
			})
		}
	}

	if vis[KindCapture] {
		for _, c := range snap.Captures {
			if c.ID == "" {
				continue
			}
			title := fallbackCapture
			if c.SourceMeta != nil {
				title = firstNonEmpty(substrate.AsString(c.SourceMeta.SourceType), fallbackCapture)
			}
			g.Nodes = append(g.Nodes, Node{
				ID:             c.ID,
				Kind:           KindCapture,
				DisplayTitle:   title,
				TruncatedLabel: Truncate(title, LabelBudget),
				Color:          colorCapture,
				Radius:         RadiusCapture,
				Source:         c,
			})
		}
	}

	if vis[KindTag] {
		for _, tag := range snap.Tags {
			if tag.ID == "" {
				continue
			}
			title := firstNonEmpty(
				substrate.AsString(tag.Title),
				substrate.AsString(tag.NormalizedLabel),
				substrate.AsString(tag.Type),
				fallbackTag,
			)
			g.Nodes = append(g.Nodes, Node{
				ID:             tag.ID,
				Kind:           KindTag,
				DisplayTitle:   title,
				TruncatedLabel: Truncate(title, LabelBudget),
				Color:          colorTag,
				Radius:         RadiusTag,
				Source:         tag,
			})
		}
	}

	present := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		present[n.ID] = struct{}{}
	}

	for _, link := range snap.Links {
		if link.ID == "" || link.FromID == "" || link.ToID == "" {
			continue
		}
		if _, ok := present[link.FromID]; !ok {
			continue
		}
		if _, ok := present[link.ToID]; !ok {
			continue
		}
		g.Edges = append(g.Edges, Edge{
			ID:       link.ID,
			SourceID: link.FromID,
			TargetID: link.ToID,
			Weight:   substrate.FloatOr(link.Weight, defaultLinkWeight),
			Kind:     link.RelationshipType,
			Color:    RelationColor(link.RelationshipType),
		})
	}

	return g
}

// Truncate clips s to budget runes, appending an ellipsis when anything was
// cut. Truncating an already truncated string is a no-op.
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	// Re-truncation is stable: clipping the result drops only the appended
	// ellipsis and reproduces the same prefix.
	return string([]rune(s)[:budget]) + "…"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NodeByID returns the node with the given id, or nil.
func (g Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
