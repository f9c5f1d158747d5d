// Package selection implements the graph view's selection state machine:
// single-focus inspection and multi-select accumulation for bulk operations
// with a preview-then-confirm flow. The state is process local and never
// persisted; all mutations are delegated to the substrate backend.
package selection

import (
	"sort"

	"github.com/substratehq/graphview/pkg/graph"
	"github.com/substratehq/graphview/pkg/substrate"
)

// Mode selects between single-focus and multi-select behavior.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// State holds the current selection. It is not safe for concurrent use; the
// owning session serializes access.
//
// Every change to the selected set bumps an internal version. Preview
// results are tagged with the version they were computed against and are
// discarded as stale once the selection moves on.
type State struct {
	mode     Mode
	selected map[string]graph.Node
	version  uint64

	preview        *Impact
	previewVersion uint64
}

// New returns an empty single-mode state.
func New() *State {
	return &State{
		mode:     ModeSingle,
		selected: make(map[string]graph.Node),
	}
}

// Mode reports the current interaction mode.
func (s *State) Mode() Mode {
	return s.mode
}

// Version identifies the current selection contents. It changes on every
// mutation of the selected set.
func (s *State) Version() uint64 {
	return s.version
}

// SetMode switches interaction modes. Any selection and pending preview are
// cleared, even when the mode does not actually change.
func (s *State) SetMode(m Mode) {
	s.mode = m
	s.Clear()
}

// Clear empties the selection and drops any preview.
func (s *State) Clear() {
	if len(s.selected) > 0 {
		s.version++
	}
	s.selected = make(map[string]graph.Node)
	s.preview = nil
}

// Click applies a pointer click that resolved to the given node (nil for a
// click on empty canvas).
//
// Single mode: a node replaces the focus, empty canvas clears it.
// Multi mode: a node toggles its membership, empty canvas is a no-op.
func (s *State) Click(node *graph.Node) {
	switch s.mode {
	case ModeMulti:
		if node == nil {
			return
		}
		if _, ok := s.selected[node.ID]; ok {
			delete(s.selected, node.ID)
		} else {
			s.selected[node.ID] = *node
		}
		s.bump()
	default:
		if node == nil {
			if len(s.selected) == 0 {
				return
			}
			s.selected = make(map[string]graph.Node)
			s.bump()
			return
		}
		s.selected = map[string]graph.Node{node.ID: *node}
		s.bump()
	}
}

func (s *State) bump() {
	s.version++
	s.preview = nil
}

// Focus returns the single-mode focus node, or nil when idle or in multi
// mode.
func (s *State) Focus() *graph.Node {
	if s.mode != ModeSingle || len(s.selected) != 1 {
		return nil
	}
	for _, n := range s.selected {
		return &n
	}
	return nil
}

// Selected returns the selected nodes ordered by id. Insertion order carries
// no meaning; sorting keeps responses and submissions stable.
func (s *State) Selected() []graph.Node {
	nodes := make([]graph.Node, 0, len(s.selected))
	for _, n := range s.selected {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// IsSelected reports membership of a node id in the selection.
func (s *State) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// Len returns the number of selected nodes.
func (s *State) Len() int {
	return len(s.selected)
}

// Preview returns the cached preview for the current selection, or nil when
// none was computed or the selection changed since.
func (s *State) Preview() *Impact {
	if s.preview == nil || s.previewVersion != s.version {
		return nil
	}
	p := *s.preview
	return &p
}

// StorePreview caches an aggregate computed against the given selection
// version. Results for an outdated version are dropped.
func (s *State) StorePreview(agg Impact, version uint64) bool {
	if version != s.version {
		return false
	}
	s.preview = &agg
	s.previewVersion = version
	return true
}

// Operations maps the selected nodes onto work operations for a MANUAL_EDIT
// submission: fragments are archived, captures redacted, tags archived.
func Operations(nodes []graph.Node) []substrate.Operation {
	ops := make([]substrate.Operation, 0, len(nodes))
	for _, n := range nodes {
		switch n.Kind {
		case graph.KindFragment:
			ops = append(ops, substrate.Operation{
				Type: substrate.OpArchiveBlock,
				Data: map[string]any{"blockId": n.ID},
			})
		case graph.KindCapture:
			ops = append(ops, substrate.Operation{
				Type: substrate.OpRedactDump,
				Data: map[string]any{"dumpId": n.ID},
			})
		case graph.KindTag:
			ops = append(ops, substrate.Operation{
				Type: substrate.OpArchiveContextItem,
				Data: map[string]any{"contextItemId": n.ID},
			})
		}
	}
	return ops
}
