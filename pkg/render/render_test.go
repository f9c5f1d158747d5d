package render

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/substratehq/graphview/pkg/graph"
)

func positioned(id string, kind graph.Kind, x, y, radius float64) graph.Node {
	return graph.Node{
		ID:       id,
		Kind:     kind,
		Color:    "#3b82f6",
		Radius:   radius,
		Position: &graph.Position{X: x, Y: y},
	}
}

func testGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			positioned("a", graph.KindFragment, 100, 100, 18),
			positioned("b", graph.KindTag, 300, 200, 10),
		},
		Edges: []graph.Edge{
			{ID: "e1", SourceID: "a", TargetID: "b", Weight: 0.7, Color: "#6b7280"},
		},
	}
}

func TestRender_ProducesImage(t *testing.T) {
	f := Frame{
		Graph:       testGraph(),
		Zoom:        1.0,
		ShowLabels:  true,
		ShowWeights: true,
		FocusID:     "a",
	}
	img, err := Render(f, 800, 600, 1.0)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 800 || bounds.Dy() != 600 {
		t.Fatalf("unexpected surface size: %v", bounds)
	}
}

func TestRender_ScaleGrowsBackingImage(t *testing.T) {
	img, err := Render(Frame{Graph: testGraph(), Zoom: 1}, 400, 300, 2.0)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Fatalf("scale 2 must double the backing image, got %v", img.Bounds())
	}
}

func TestRender_ZeroSurfaceSkipped(t *testing.T) {
	if _, err := Render(Frame{Graph: testGraph(), Zoom: 1}, 0, 600, 1.0); err != ErrNoSurface {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
	if _, err := Render(Frame{Graph: testGraph(), Zoom: 1}, 800, 600, 0); err != ErrNoSurface {
		t.Fatalf("expected ErrNoSurface for zero scale, got %v", err)
	}
}

func TestRenderPNG_NonEmpty(t *testing.T) {
	data, err := RenderPNG(Frame{Graph: testGraph(), Zoom: 1, ShowLabels: true}, 800, 600, 1.0)
	if err != nil {
		t.Fatalf("render png failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty png")
	}
}

func TestClampZoom(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.1, 0.5},
		{0.5, 0.5},
		{1.3, 1.3},
		{2.0, 2.0},
		{3.5, 2.0},
	}
	for _, tt := range tests {
		if got := ClampZoom(tt.in); got != tt.want {
			t.Fatalf("ClampZoom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHitTest(t *testing.T) {
	g := testGraph()

	tests := []struct {
		name   string
		x, y   float64
		zoom   float64
		wantID string
	}{
		{name: "dead center", x: 100, y: 100, zoom: 1, wantID: "a"},
		{name: "inside radius", x: 110, y: 110, zoom: 1, wantID: "a"},
		{name: "just outside", x: 100, y: 125, zoom: 1, wantID: ""},
		{name: "empty canvas", x: 700, y: 500, zoom: 1, wantID: ""},
		{name: "zoomed client coords", x: 200, y: 200, zoom: 2, wantID: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := HitTest(g, tt.x, tt.y, tt.zoom)
			switch {
			case tt.wantID == "" && n != nil:
				t.Fatalf("expected miss, hit %q", n.ID)
			case tt.wantID != "" && n == nil:
				t.Fatalf("expected to hit %q, missed", tt.wantID)
			case tt.wantID != "" && n.ID != tt.wantID:
				t.Fatalf("hit %q, want %q", n.ID, tt.wantID)
			}
		})
	}
}

func TestScheduler_CoalescesBursts(t *testing.T) {
	var paints atomic.Int64
	gate := make(chan struct{})
	var once sync.Once

	s := NewScheduler(func() {
		paints.Add(1)
		once.Do(func() { <-gate })
	})
	defer s.Close()

	// First invalidation starts a paint that blocks on the gate; the burst
	// behind it must collapse into at most one further paint.
	s.Invalidate()
	time.Sleep(10 * time.Millisecond)
	for i := 0; i < 50; i++ {
		s.Invalidate()
	}
	close(gate)

	deadline := time.After(2 * time.Second)
	for paints.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected coalesced repaint, got %d paints", paints.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	time.Sleep(20 * time.Millisecond)
	if got := paints.Load(); got > 3 {
		t.Fatalf("burst of 50 invalidations painted %d times", got)
	}
}
