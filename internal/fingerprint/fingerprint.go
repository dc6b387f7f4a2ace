// Package fingerprint aggregates per-sample style metrics into one durable
// VoicePrint: the numeric baseline of a writer's voice, with confidence and
// consistency semantics and per-metric threshold bands.
//
// Aggregation is deterministic: the same sample set produces the same
// VoicePrint regardless of the order samples arrive in. The profile ID is a
// digest of the aggregated values, not a random identifier.
package fingerprint

import (
	"time"

	"voiceprint/internal/analysis"
)

// MinSamples is the minimum number of valid samples for a profile.
const MinSamples = 3

// Status is the lifecycle state of a VoicePrint.
type Status string

const (
	// StatusComputing marks a freshly aggregated profile the store has
	// not yet activated.
	StatusComputing Status = "computing"
	// StatusActive marks a usable profile built from enough samples.
	StatusActive Status = "active"
	// StatusStale marks a profile awaiting re-analysis.
	StatusStale Status = "stale"
)

// Dimension names one of the four signature groups.
type Dimension string

const (
	DimensionLexical   Dimension = "lexical"
	DimensionSyntactic Dimension = "syntactic"
	DimensionSemantic  Dimension = "semantic"
	DimensionStylistic Dimension = "stylistic"
)

// ThresholdBand is the acceptable range around a metric's optimal value.
// Min <= Optimal <= Max holds for every band the aggregator produces.
type ThresholdBand struct {
	Metric  string  `json:"metric_name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Optimal float64 `json:"optimal"`
}

// VoicePrint is the aggregated representation of a writer's voice.
type VoicePrint struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Lexical   analysis.LexicalSignature   `json:"lexical"`
	Syntactic analysis.SyntacticSignature `json:"syntactic"`
	Semantic  analysis.SemanticSignature  `json:"semantic"`
	Stylistic analysis.StylisticSignature `json:"stylistic"`

	ConfidenceScore  float64 `json:"confidence_score"`
	ConsistencyScore float64 `json:"consistency_score"`

	Thresholds []ThresholdBand `json:"thresholds"`

	Status       Status    `json:"status"`
	Version      int       `json:"version"`
	SampleCount  int       `json:"sample_count"`
	LastAnalyzed time.Time `json:"last_analyzed"`
}

// Band returns the threshold band for a metric name, or false when the
// metric is not tracked.
func (vp *VoicePrint) Band(metric string) (ThresholdBand, bool) {
	for _, b := range vp.Thresholds {
		if b.Metric == metric {
			return b, true
		}
	}
	return ThresholdBand{}, false
}
