// Package substrate defines the boundary types exchanged with the substrate
// backend: the four entity collections of a basket, the impact-preview
// contract, and the MANUAL_EDIT work submission contract.
//
// Backend payloads are loosely typed. Text-bearing fields are declared as
// `any` and must only be read through the coercion helpers in this package,
// which never fail and supply documented defaults.
package substrate

import "context"

// Fragment is a structured, semantically typed unit of extracted knowledge.
type Fragment struct {
	ID              string   `json:"id"`
	Title           any      `json:"title,omitempty"`
	SemanticType    any      `json:"semanticType,omitempty"`
	ConfidenceScore *float64 `json:"confidenceScore,omitempty"`
}

// SourceMeta carries origin information for a capture.
type SourceMeta struct {
	SourceType any `json:"sourceType,omitempty"`
}

// Capture is a raw, unprocessed input record.
type Capture struct {
	ID         string      `json:"id"`
	SourceMeta *SourceMeta `json:"sourceMeta,omitempty"`
}

// SemanticTag is a named concept used to connect other entities.
type SemanticTag struct {
	ID              string `json:"id"`
	Title           any    `json:"title,omitempty"`
	NormalizedLabel any    `json:"normalizedLabel,omitempty"`
	Type            any    `json:"type,omitempty"`
}

// TypedLink is a directed, weighted relationship between two entities.
type TypedLink struct {
	ID               string   `json:"id"`
	FromID           string   `json:"fromId"`
	ToID             string   `json:"toId"`
	RelationshipType string   `json:"relationshipType,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
}

// Snapshot holds the four collections of one basket at one point in time.
type Snapshot struct {
	BasketID  string        `json:"basketId"`
	Fragments []Fragment    `json:"fragments"`
	Captures  []Capture     `json:"captures"`
	Tags      []SemanticTag `json:"tags"`
	Links     []TypedLink   `json:"links"`
}

// Source loads basket snapshots. Implemented by the HTTP client and the
// read-only Postgres source.
type Source interface {
	LoadSnapshot(ctx context.Context, basketID string) (Snapshot, error)
}

// ImpactCounts is the response of a single impact-preview call.
type ImpactCounts struct {
	RefsDetachedCount        int `json:"refsDetachedCount"`
	RelationshipsPrunedCount int `json:"relationshipsPrunedCount"`
	AffectedDocumentsCount   int `json:"affectedDocumentsCount"`
}

// Operation types accepted by the work endpoint.
const (
	OpArchiveBlock       = "ArchiveBlock"
	OpRedactDump         = "RedactDump"
	OpArchiveContextItem = "ArchiveContextItem"
)

// Operation describes one per-entity mutation inside a work request.
type Operation struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// WorkPayload groups the operations of one submission.
type WorkPayload struct {
	Operations []Operation `json:"operations"`
	BasketID   string      `json:"basketId"`
}

// WorkRequest is a MANUAL_EDIT submission to the substrate work endpoint.
type WorkRequest struct {
	WorkType string      `json:"workType"`
	Payload  WorkPayload `json:"payload"`
	Priority string      `json:"priority"`
}

// WorkResult reports synchronous execution or rejection of a work request.
type WorkResult struct {
	WorkID  string `json:"workId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
