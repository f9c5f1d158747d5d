package graph

// Node radii per kind. Fragments are the primary semantic unit and render
// largest.
const (
	RadiusFragment = 18.0
	RadiusCapture  = 14.0
	RadiusTag      = 10.0
)

// LabelBudget is the character budget for on-canvas labels.
const LabelBudget = 15

// Confidence bucket colors for fragments. The bucket boundaries use strict
// >= comparisons; 0.79 falls in the neutral bucket, not the strong one.
const (
	colorConfidenceStrong  = "#22c55e"
	colorConfidenceNeutral = "#3b82f6"
	colorConfidenceCaution = "#f59e0b"
	colorConfidenceLow     = "#ef4444"
)

// Fixed palette entries for non-fragment kinds.
const (
	colorCapture = "#8b5cf6"
	colorTag     = "#06b6d4"
)

// relationColors maps the four named relationship kinds to their colors.
// Unknown kinds fall back to gray.
var relationColors = map[string]string{
	"semantic_similarity": "#6366f1",
	"causal_relationship": "#dc2626",
	"thematic_connection": "#0891b2",
	"temporal_sequence":   "#ca8a04",
}

const colorRelationDefault = "#6b7280"

// ConfidenceColor maps a fragment confidence score onto the fixed four
// bucket scale.
func ConfidenceColor(score float64) string {
	switch {
	case score >= 0.8:
		return colorConfidenceStrong
	case score >= 0.6:
		return colorConfidenceNeutral
	case score >= 0.4:
		return colorConfidenceCaution
	default:
		return colorConfidenceLow
	}
}

// RelationColor maps a relationship kind to its palette color.
func RelationColor(kind string) string {
	if c, ok := relationColors[kind]; ok {
		return c
	}
	return colorRelationDefault
}
