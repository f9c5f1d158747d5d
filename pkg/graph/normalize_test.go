package graph

import (
	"testing"

	"github.com/substratehq/graphview/pkg/substrate"
)

func fptr(v float64) *float64 { return &v }

func TestBuild_TitleFallback(t *testing.T) {
	tests := []struct {
		name     string
		fragment substrate.Fragment
		want     string
	}{
		{
			name:     "explicit title wins",
			fragment: substrate.Fragment{ID: "f1", Title: "Quarterly Plan", SemanticType: "goal"},
			want:     "Quarterly Plan",
		},
		{
			name:     "semantic type when title missing",
			fragment: substrate.Fragment{ID: "f1", SemanticType: "goal"},
			want:     "goal",
		},
		{
			name:     "kind name when nothing usable",
			fragment: substrate.Fragment{ID: "f1"},
			want:     "Fragment",
		},
		{
			name:     "non-string title coerces instead of raising",
			fragment: substrate.Fragment{ID: "f1", Title: float64(42)},
			want:     "42",
		},
		{
			name:     "whitespace title falls through",
			fragment: substrate.Fragment{ID: "f1", Title: "   ", SemanticType: "insight"},
			want:     "insight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(substrate.Snapshot{Fragments: []substrate.Fragment{tt.fragment}}, AllVisible())
			if len(g.Nodes) != 1 {
				t.Fatalf("expected 1 node, got %d", len(g.Nodes))
			}
			if g.Nodes[0].DisplayTitle != tt.want {
				t.Fatalf("unexpected display title: got %q, want %q", g.Nodes[0].DisplayTitle, tt.want)
			}
		})
	}
}

func TestBuild_UntitledFragmentStillGetsConfidenceColor(t *testing.T) {
	snap := substrate.Snapshot{
		Fragments: []substrate.Fragment{{ID: "f1", ConfidenceScore: fptr(0.85)}},
	}
	g := Build(snap, AllVisible())
	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(g.Nodes))
	}
	if g.Nodes[0].Color != ConfidenceColor(0.85) {
		t.Fatalf("expected strong bucket color, got %q", g.Nodes[0].Color)
	}
	if g.Nodes[0].Color != colorConfidenceStrong {
		t.Fatalf("0.85 must land in the strong bucket, got %q", g.Nodes[0].Color)
	}
}

func TestConfidenceColor_BucketBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.8, colorConfidenceStrong},
		{0.79, colorConfidenceNeutral},
		{0.6, colorConfidenceNeutral},
		{0.59, colorConfidenceCaution},
		{0.4, colorConfidenceCaution},
		{0.39, colorConfidenceLow},
		{0.0, colorConfidenceLow},
	}

	for _, tt := range tests {
		if got := ConfidenceColor(tt.score); got != tt.want {
			t.Fatalf("score %v: got %q, want %q", tt.score, got, tt.want)
		}
	}

	distinct := map[string]struct{}{
		ConfidenceColor(0.8): {},
		ConfidenceColor(0.6): {},
		ConfidenceColor(0.4): {},
		ConfidenceColor(0.0): {},
	}
	if len(distinct) != 4 {
		t.Fatalf("expected 4 distinct bucket colors, got %d", len(distinct))
	}
}

func TestRelationColor_UnknownFallsBackToGray(t *testing.T) {
	if got := RelationColor("made_up_kind"); got != colorRelationDefault {
		t.Fatalf("expected gray fallback, got %q", got)
	}
	if got := RelationColor("causal_relationship"); got == colorRelationDefault {
		t.Fatal("known kind must not use the fallback color")
	}
}

func TestTruncate_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"short",
		"exactly fifteen",
		"a considerably longer label that must be clipped",
		"ünïcodé länge Bëschriftung mit Umlauten",
	}
	for _, s := range inputs {
		once := Truncate(s, LabelBudget)
		twice := Truncate(once, LabelBudget)
		if once != twice {
			t.Fatalf("truncate not idempotent for %q: %q != %q", s, once, twice)
		}
	}
	if got := Truncate("abcdefghijklmnopqrst", 15); got != "abcdefghijklmno…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestBuild_EdgePruning(t *testing.T) {
	snap := substrate.Snapshot{
		Fragments: []substrate.Fragment{{ID: "A"}},
		Tags:      []substrate.SemanticTag{{ID: "B"}},
		Links: []substrate.TypedLink{
			{ID: "l1", FromID: "A", ToID: "B"},
			{ID: "l2", FromID: "A", ToID: "C"}, // C does not exist
		},
	}

	g := Build(snap, AllVisible())
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	for _, e := range g.Edges {
		if e.SourceID == "C" || e.TargetID == "C" {
			t.Fatalf("edge references missing node C: %+v", e)
		}
	}

	// Hiding fragments removes node A and every edge touching it.
	vis := AllVisible()
	vis[KindFragment] = false
	g = Build(snap, vis)
	if len(g.Edges) != 0 {
		t.Fatalf("expected no edges with fragments hidden, got %d", len(g.Edges))
	}
	for _, n := range g.Nodes {
		if n.Kind == KindFragment {
			t.Fatalf("hidden kind still produced node %q", n.ID)
		}
	}
}

func TestBuild_SkipsMalformedRecords(t *testing.T) {
	snap := substrate.Snapshot{
		Fragments: []substrate.Fragment{{ID: ""}, {ID: "ok"}},
		Captures:  []substrate.Capture{{ID: ""}},
		Tags:      []substrate.SemanticTag{{ID: ""}},
		Links:     []substrate.TypedLink{{ID: "", FromID: "ok", ToID: "ok"}},
	}
	g := Build(snap, AllVisible())
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "ok" {
		t.Fatalf("expected only the well-formed fragment, got %+v", g.Nodes)
	}
	if len(g.Edges) != 0 {
		t.Fatalf("malformed link must be skipped, got %d edges", len(g.Edges))
	}
}

func TestBuild_EdgeDefaults(t *testing.T) {
	snap := substrate.Snapshot{
		Fragments: []substrate.Fragment{{ID: "A"}, {ID: "B"}},
		Links:     []substrate.TypedLink{{ID: "l1", FromID: "A", ToID: "B"}},
	}
	g := Build(snap, AllVisible())
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	e := g.Edges[0]
	if e.Weight != 0.7 {
		t.Fatalf("expected default weight 0.7, got %v", e.Weight)
	}
	if e.Color != colorRelationDefault {
		t.Fatalf("expected gray for unset relationship kind, got %q", e.Color)
	}
	if e.StrokeWidth() != e.Weight*3 {
		t.Fatalf("unexpected stroke width %v", e.StrokeWidth())
	}
}

func TestEdge_StrokeWidthFloor(t *testing.T) {
	e := Edge{Weight: 0.1}
	if e.StrokeWidth() != 1 {
		t.Fatalf("stroke width must not drop below 1, got %v", e.StrokeWidth())
	}
}
