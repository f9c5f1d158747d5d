package substrate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/substratehq/graphview/pkg/substrate"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(NewClientParams{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, srv
}

func TestLoadSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/baskets/b1/fragments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]substrate.Fragment{{ID: "f1", Title: "Insight"}})
	})
	mux.HandleFunc("/api/baskets/b1/captures", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]substrate.Capture{{ID: "d1"}})
	})
	mux.HandleFunc("/api/baskets/b1/tags", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]substrate.SemanticTag{{ID: "t1"}})
	})
	mux.HandleFunc("/api/baskets/b1/links", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]substrate.TypedLink{{ID: "l1", FromID: "f1", ToID: "t1"}})
	})

	client, _ := newTestClient(t, mux)
	snap, err := client.LoadSnapshot(context.Background(), "b1")
	if err != nil {
		t.Fatalf("load snapshot failed: %v", err)
	}
	if snap.BasketID != "b1" {
		t.Fatalf("unexpected basket id %q", snap.BasketID)
	}
	if len(snap.Fragments) != 1 || len(snap.Captures) != 1 || len(snap.Tags) != 1 || len(snap.Links) != 1 {
		t.Fatalf("unexpected snapshot shape: %+v", snap)
	}
	if got := snap.Fragments[0].Title; got != "Insight" {
		t.Fatalf("unexpected fragment title: %v", got)
	}
}

func TestLoadSnapshot_RetriesTransientFailures(t *testing.T) {
	var fragmentCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/baskets/b1/fragments", func(w http.ResponseWriter, r *http.Request) {
		if fragmentCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]substrate.Fragment{{ID: "f1"}})
	})
	empty := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}
	mux.HandleFunc("/api/baskets/b1/captures", empty)
	mux.HandleFunc("/api/baskets/b1/tags", empty)
	mux.HandleFunc("/api/baskets/b1/links", empty)

	client, _ := newTestClient(t, mux)
	snap, err := client.LoadSnapshot(context.Background(), "b1")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(snap.Fragments) != 1 {
		t.Fatalf("expected 1 fragment after retry, got %d", len(snap.Fragments))
	}
	if fragmentCalls.Load() != 2 {
		t.Fatalf("expected 2 fragment calls, got %d", fragmentCalls.Load())
	}
}

func TestPreviewImpact(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/changes/preview", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode preview body: %v", err)
		}
		if body["basketId"] != "b1" || body["entityKind"] != "fragment" || body["entityId"] != "f1" {
			t.Errorf("unexpected preview body: %v", body)
		}
		json.NewEncoder(w).Encode(substrate.ImpactCounts{
			RefsDetachedCount:        2,
			RelationshipsPrunedCount: 1,
			AffectedDocumentsCount:   3,
		})
	})

	client, _ := newTestClient(t, mux)
	counts, err := client.PreviewImpact(context.Background(), "b1", "fragment", "f1")
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if counts.RefsDetachedCount != 2 || counts.RelationshipsPrunedCount != 1 || counts.AffectedDocumentsCount != 3 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestSubmitWork_DoesNotRetry(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/work", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, _ := newTestClient(t, mux)
	_, err := client.SubmitWork(context.Background(), substrate.WorkRequest{
		WorkType: "MANUAL_EDIT",
		Payload: substrate.WorkPayload{
			BasketID:   "b1",
			Operations: []substrate.Operation{{Type: substrate.OpArchiveBlock, Data: map[string]any{"blockId": "f1"}}},
		},
		Priority: "normal",
	})
	if err == nil {
		t.Fatal("expected submission error")
	}
	if calls.Load() != 1 {
		t.Fatalf("mutations must not be retried, got %d calls", calls.Load())
	}
}

func TestSubmitWork_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/work", func(w http.ResponseWriter, r *http.Request) {
		var req substrate.WorkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode work request: %v", err)
		}
		if req.WorkType != "MANUAL_EDIT" || req.Payload.BasketID != "b1" {
			t.Errorf("unexpected work request: %+v", req)
		}
		json.NewEncoder(w).Encode(substrate.WorkResult{WorkID: "w1", Status: "completed"})
	})

	client, _ := newTestClient(t, mux)
	result, err := client.SubmitWork(context.Background(), substrate.WorkRequest{
		WorkType: "MANUAL_EDIT",
		Payload:  substrate.WorkPayload{BasketID: "b1"},
		Priority: "normal",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.WorkID != "w1" || result.Status != "completed" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestNewClient_RejectsInvalidBaseURL(t *testing.T) {
	if _, err := NewClient(NewClientParams{BaseURL: "not a url"}); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}
