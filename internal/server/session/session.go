// Package session hosts graph view sessions: the server-side owner of the
// per-view selection state machine, viewport, and cached frame. A session is
// the rendition of a mounted graph view — in-memory only, discarded on
// expiry, with all durable mutations delegated to the substrate backend.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/substratehq/graphview/pkg/graph"
	"github.com/substratehq/graphview/pkg/layout"
	"github.com/substratehq/graphview/pkg/logger"
	"github.com/substratehq/graphview/pkg/render"
	"github.com/substratehq/graphview/pkg/selection"
	"github.com/substratehq/graphview/pkg/substrate"
)

var (
	ErrEmptySelection = errors.New("session: selection is empty")
	ErrNotMultiMode   = errors.New("session: bulk actions require multi mode")
	ErrStalePreview   = errors.New("session: selection changed during preview")
	ErrBusy           = errors.New("session: a submission is already in flight")
)

// PreviewClient performs per-entity impact previews against the backend.
type PreviewClient interface {
	PreviewImpact(ctx context.Context, basketID, entityKind, entityID string) (substrate.ImpactCounts, error)
}

// WorkClient submits combined mutation requests to the backend.
type WorkClient interface {
	SubmitWork(ctx context.Context, req substrate.WorkRequest) (substrate.WorkResult, error)
}

const (
	frameWidth  = 800
	frameHeight = 600

	previewDeadline = 15 * time.Second
	// How often an in-flight preview checks whether the selection moved on.
	staleCheckInterval = 50 * time.Millisecond
)

// Session owns one graph view: the basket snapshot, the normalized and
// positioned graph, the viewport, and the selection state. All access is
// serialized through its mutex; the session is the single exclusive owner of
// its state and drawing surface.
type Session struct {
	ID       string
	BasketID string

	mu sync.Mutex

	snapshot   substrate.Snapshot
	visibility graph.Visibility
	algorithm  layout.Algorithm
	positioned graph.Graph

	zoom        float64
	showLabels  bool
	showWeights bool

	sel  *selection.State
	busy bool

	frame       []byte
	renderScale float64
	sched       *render.Scheduler

	lastAccess time.Time
}

func newSession(id string, snap substrate.Snapshot, renderScale float64) *Session {
	s := &Session{
		ID:          id,
		BasketID:    snap.BasketID,
		snapshot:    snap,
		visibility:  graph.AllVisible(),
		algorithm:   layout.Circular,
		zoom:        1.0,
		showLabels:  true,
		showWeights: false,
		sel:         selection.New(),
		renderScale: renderScale,
		lastAccess:  time.Now(),
	}
	s.rebuildLocked()
	s.sched = render.NewScheduler(s.paint)
	s.sched.Invalidate()
	return s
}

// rebuildLocked re-normalizes and re-lays-out the graph from the snapshot.
// Callers hold the mutex.
func (s *Session) rebuildLocked() {
	g := graph.Build(s.snapshot, s.visibility)
	s.positioned = layout.Apply(g, s.algorithm)
}

// frameLocked snapshots the paint inputs. Callers hold the mutex.
func (s *Session) frameLocked() render.Frame {
	f := render.Frame{
		Graph:       s.positioned,
		Zoom:        s.zoom,
		ShowLabels:  s.showLabels,
		ShowWeights: s.showWeights,
	}
	if focus := s.sel.Focus(); focus != nil {
		f.FocusID = focus.ID
	}
	return f
}

// paint renders the current frame into the session cache. It runs on the
// scheduler goroutine; rendering happens outside the lock.
func (s *Session) paint() {
	s.mu.Lock()
	f := s.frameLocked()
	scale := s.renderScale
	s.mu.Unlock()

	data, err := render.RenderPNG(f, frameWidth, frameHeight, scale)
	if err != nil {
		logger.Error("[Session] Paint failed", "session_id", s.ID, "err", err)
		return
	}

	s.mu.Lock()
	s.frame = data
	s.mu.Unlock()
}

// PNG returns the cached frame, painting synchronously when no frame has
// been produced yet.
func (s *Session) PNG() ([]byte, error) {
	s.mu.Lock()
	if s.frame != nil {
		data := s.frame
		s.mu.Unlock()
		return data, nil
	}
	f := s.frameLocked()
	scale := s.renderScale
	s.mu.Unlock()

	data, err := render.RenderPNG(f, frameWidth, frameHeight, scale)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.frame = data
	s.mu.Unlock()
	return data, nil
}

// Click resolves a pointer click in client (zoomed) coordinates against the
// node geometry and applies the selection transition.
func (s *Session) Click(x, y float64) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	hit := render.HitTest(s.positioned, x, y, s.zoom)
	s.sel.Click(hit)
	s.sched.Invalidate()
	return s.viewLocked()
}

// SetMode switches between single and multi selection, clearing any
// selection and pending preview.
func (s *Session) SetMode(m selection.Mode) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.SetMode(m)
	s.sched.Invalidate()
	return s.viewLocked()
}

// ZoomIn steps the zoom up by one increment, bounded at 2.0.
func (s *Session) ZoomIn() View { return s.adjustZoom(render.ZoomStep) }

// ZoomOut steps the zoom down by one increment, bounded at 0.5.
func (s *Session) ZoomOut() View { return s.adjustZoom(-render.ZoomStep) }

func (s *Session) adjustZoom(delta float64) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.zoom = render.ClampZoom(s.zoom + delta)
	s.sched.Invalidate()
	return s.viewLocked()
}

// SetAlgorithm switches the layout algorithm and re-runs placement.
func (s *Session) SetAlgorithm(alg layout.Algorithm) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.algorithm = alg
	s.positioned = layout.Apply(s.positioned, alg)
	s.sched.Invalidate()
	return s.viewLocked()
}

// SetVisibility replaces the kind toggles and rebuilds the graph; edges
// touching hidden nodes disappear with them.
func (s *Session) SetVisibility(vis graph.Visibility) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visibility = vis
	s.rebuildLocked()
	s.sched.Invalidate()
	return s.viewLocked()
}

// SetFlags updates the label/weight display toggles. Nil leaves a flag
// unchanged.
func (s *Session) SetFlags(showLabels, showWeights *bool) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if showLabels != nil {
		s.showLabels = *showLabels
	}
	if showWeights != nil {
		s.showWeights = *showWeights
	}
	s.sched.Invalidate()
	return s.viewLocked()
}

// ResetView restores zoom to 1.0 and re-runs the current layout.
func (s *Session) ResetView() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.zoom = 1.0
	s.rebuildLocked()
	s.sched.Invalidate()
	return s.viewLocked()
}

// Reload replaces the snapshot with fresh collections from the source. The
// graph never mutates optimistically after a submission; callers reload to
// observe the result.
func (s *Session) Reload(ctx context.Context, source substrate.Source) (View, error) {
	snap, err := source.LoadSnapshot(ctx, s.BasketID)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.rebuildLocked()
	s.sched.Invalidate()
	return s.viewLocked(), nil
}

// Preview fans out one impact request per selected node and caches the sum.
// The computation is cancelled when the selection changes mid-flight, and a
// result computed against an outdated selection is discarded as stale.
// Individual request failures contribute zero and are reported in the
// returned failure count.
func (s *Session) Preview(ctx context.Context, client PreviewClient) (selection.Impact, int, error) {
	s.mu.Lock()
	if s.sel.Mode() != selection.ModeMulti {
		s.mu.Unlock()
		return selection.Impact{}, 0, ErrNotMultiMode
	}
	nodes := s.sel.Selected()
	if len(nodes) == 0 {
		s.mu.Unlock()
		return selection.Impact{}, 0, ErrEmptySelection
	}
	version := s.sel.Version()
	basketID := s.BasketID
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, previewDeadline)
	defer cancel()
	go s.cancelWhenStale(ctx, cancel, version)

	agg, failed := selection.AggregatePreview(ctx, nodes, func(ctx context.Context, n graph.Node) (selection.Impact, error) {
		counts, err := client.PreviewImpact(ctx, basketID, string(n.Kind), n.ID)
		if err != nil {
			return selection.Impact{}, err
		}
		return selection.Impact{
			RefsDetached:        counts.RefsDetachedCount,
			RelationshipsPruned: counts.RelationshipsPrunedCount,
			AffectedDocuments:   counts.AffectedDocumentsCount,
		}, nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sel.StorePreview(agg, version) {
		return selection.Impact{}, failed, ErrStalePreview
	}
	return agg, failed, nil
}

// cancelWhenStale cancels an in-flight preview once the selection version
// moves past the one it was computed for.
func (s *Session) cancelWhenStale(ctx context.Context, cancel context.CancelFunc, version uint64) {
	ticker := time.NewTicker(staleCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			stale := s.sel.Version() != version
			s.mu.Unlock()
			if stale {
				cancel()
				return
			}
		}
	}
}

// Submit sends one combined MANUAL_EDIT request covering every selected
// node. On success the selection and preview are cleared; on failure the
// state is left intact so the user can retry without re-selecting.
// Concurrent submissions are rejected while one is in flight.
func (s *Session) Submit(ctx context.Context, client WorkClient) (substrate.WorkResult, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return substrate.WorkResult{}, ErrBusy
	}
	nodes := s.sel.Selected()
	if len(nodes) == 0 {
		s.mu.Unlock()
		return substrate.WorkResult{}, ErrEmptySelection
	}
	req := substrate.WorkRequest{
		WorkType: "MANUAL_EDIT",
		Payload: substrate.WorkPayload{
			Operations: selection.Operations(nodes),
			BasketID:   s.BasketID,
		},
		Priority: "normal",
	}
	s.busy = true
	s.mu.Unlock()

	result, err := client.SubmitWork(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return substrate.WorkResult{}, err
	}

	s.sel.Clear()
	s.sched.Invalidate()
	logger.Info("[Session] Work submitted", "session_id", s.ID, "basket_id", s.BasketID, "operations", len(req.Payload.Operations))
	return result, nil
}

// Visibility returns a copy of the current kind toggles.
func (s *Session) Visibility() graph.Visibility {
	s.mu.Lock()
	defer s.mu.Unlock()
	vis := make(graph.Visibility, len(s.visibility))
	for k, v := range s.visibility {
		vis[k] = v
	}
	return vis
}

// Graph returns the current positioned graph.
func (s *Session) Graph() graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positioned
}

// View returns the externally visible session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func (s *Session) close() {
	s.sched.Close()
}

// View is the wire representation of a session's interaction state.
type View struct {
	SessionID   string            `json:"sessionId"`
	BasketID    string            `json:"basketId"`
	Mode        selection.Mode    `json:"mode"`
	SelectedIDs []string          `json:"selectedIds"`
	FocusID     string            `json:"focusId,omitempty"`
	Preview     *selection.Impact `json:"preview,omitempty"`
	Zoom        float64           `json:"zoom"`
	Algorithm   layout.Algorithm  `json:"algorithm"`
	ShowLabels  bool              `json:"showLabels"`
	ShowWeights bool              `json:"showWeights"`
	NodeCount   int               `json:"nodeCount"`
	EdgeCount   int               `json:"edgeCount"`
}

func (s *Session) viewLocked() View {
	v := View{
		SessionID:   s.ID,
		BasketID:    s.BasketID,
		Mode:        s.sel.Mode(),
		Zoom:        s.zoom,
		Algorithm:   s.algorithm,
		ShowLabels:  s.showLabels,
		ShowWeights: s.showWeights,
		NodeCount:   len(s.positioned.Nodes),
		EdgeCount:   len(s.positioned.Edges),
		Preview:     s.sel.Preview(),
	}
	for _, n := range s.sel.Selected() {
		v.SelectedIDs = append(v.SelectedIDs, n.ID)
	}
	if focus := s.sel.Focus(); focus != nil {
		v.FocusID = focus.ID
	}
	return v
}
