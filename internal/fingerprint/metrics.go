package fingerprint

import (
	"math"

	"voiceprint/internal/analysis"
)

// MetricDef describes one tracked metric: how to read it from a sample and
// from an aggregated profile, and which dimension it belongs to. The
// registry is the single schema shared by the aggregator and the drift
// detector.
type MetricDef struct {
	Name      string
	Dimension Dimension
	Sample    func(analysis.SampleMetrics) float64
	Profile   func(*VoicePrint) float64

	// Scale is the fixed denominator used to normalize this metric's
	// weighted standard deviation for consistency scoring, sized to the
	// metric's plausible spread. The denominator must not depend on the
	// samples themselves: with a fixed scale, adding a sample within one
	// observed standard deviation of the weighted mean can only shrink
	// the normalized deviation, so confidence never drops.
	Scale float64
}

// TrackedMetrics is the fixed registry of metrics that participate in
// consistency scoring, threshold bands, and drift detection.
var TrackedMetrics = []MetricDef{
	{
		Name:      "vocabulary_richness",
		Dimension: DimensionLexical,
		Sample:    func(m analysis.SampleMetrics) float64 { return m.Lexical.VocabularyRichness },
		Profile:   func(vp *VoicePrint) float64 { return vp.Lexical.VocabularyRichness },
		Scale:     1.0,
	},
	{
		Name:      "avg_word_length",
		Dimension: DimensionLexical,
		Sample:    func(m analysis.SampleMetrics) float64 { return m.Lexical.AvgWordLength },
		Profile:   func(vp *VoicePrint) float64 { return vp.Lexical.AvgWordLength },
		Scale:     5.0,
	},
	{
		Name:      "sentence_complexity",
		Dimension: DimensionSyntactic,
		Sample:    func(m analysis.SampleMetrics) float64 { return m.Syntactic.SentenceComplexity },
		Profile:   func(vp *VoicePrint) float64 { return vp.Syntactic.SentenceComplexity },
		Scale:     20.0,
	},
	{
		Name:      "comma_rate",
		Dimension: DimensionSyntactic,
		Sample:    func(m analysis.SampleMetrics) float64 { return m.Syntactic.Punctuation.Commas },
		Profile:   func(vp *VoicePrint) float64 { return vp.Syntactic.Punctuation.Commas },
		Scale:     1.0,
	},
	{
		Name:      "formality_level",
		Dimension: DimensionSemantic,
		Sample:    func(m analysis.SampleMetrics) float64 { return m.Semantic.FormalityLevel },
		Profile:   func(vp *VoicePrint) float64 { return vp.Semantic.FormalityLevel },
		Scale:     1.0,
	},
	{
		Name:      "contraction_usage",
		Dimension: DimensionStylistic,
		Sample:    func(m analysis.SampleMetrics) float64 { return m.Stylistic.ContractionUsage },
		Profile:   func(vp *VoicePrint) float64 { return vp.Stylistic.ContractionUsage },
		Scale:     0.1,
	},
	{
		Name:      "hedge_frequency",
		Dimension: DimensionStylistic,
		Sample:    func(m analysis.SampleMetrics) float64 { return m.Stylistic.HedgeFrequency },
		Profile:   func(vp *VoicePrint) float64 { return vp.Stylistic.HedgeFrequency },
		Scale:     0.05,
	},
	{
		Name:      "idiom_usage",
		Dimension: DimensionStylistic,
		Sample:    func(m analysis.SampleMetrics) float64 { return m.Stylistic.IdiomUsage },
		Profile:   func(vp *VoicePrint) float64 { return vp.Stylistic.IdiomUsage },
		Scale:     0.05,
	},
}

// MetricByName looks up a tracked metric definition.
func MetricByName(name string) (MetricDef, bool) {
	for _, def := range TrackedMetrics {
		if def.Name == name {
			return def, true
		}
	}
	return MetricDef{}, false
}

// weightedMean computes the word-count-weighted mean of values. weights and
// values have equal length; total weight must be positive.
func weightedMean(values, weights []float64) float64 {
	var sum, wsum float64
	for i, v := range values {
		sum += v * weights[i]
		wsum += weights[i]
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

// weightedStdDev computes the weighted population standard deviation around
// the weighted mean.
func weightedStdDev(values, weights []float64, mean float64) float64 {
	var sum, wsum float64
	for i, v := range values {
		d := v - mean
		sum += weights[i] * d * d
		wsum += weights[i]
	}
	if wsum == 0 {
		return 0
	}
	return math.Sqrt(sum / wsum)
}
