package drift

import (
	"math"
	"reflect"
	"testing"
	"time"

	"voiceprint/internal/analysis"
	"voiceprint/internal/fingerprint"
)

func baseline(t *testing.T) *fingerprint.VoicePrint {
	t.Helper()
	s := analysis.SampleMetrics{
		Lexical:   analysis.LexicalSignature{VocabularyRichness: 0.6, AvgWordLength: 4.5},
		Syntactic: analysis.SyntacticSignature{SentenceComplexity: 15, Punctuation: analysis.PunctuationStyle{Periods: 1, Commas: 0.8}},
		Semantic:  analysis.SemanticSignature{FormalityLevel: 0.5, TonalProfile: analysis.ToneNeutral},
		Stylistic: analysis.StylisticSignature{ContractionUsage: 0.03, HedgeFrequency: 0.01, IdiomUsage: 0.1},
		WordCount: 150,
	}
	vp, err := fingerprint.Aggregate(fingerprint.Input{
		UserID:     "user-1",
		Samples:    []analysis.SampleMetrics{s, s, s},
		AnalyzedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Version:    1,
	}, fingerprint.DefaultCoefficients())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	return vp
}

func sampleLike(vp *fingerprint.VoicePrint) analysis.SampleMetrics {
	return analysis.SampleMetrics{
		Lexical: analysis.LexicalSignature{
			VocabularyRichness: vp.Lexical.VocabularyRichness,
			AvgWordLength:      vp.Lexical.AvgWordLength,
		},
		Syntactic: analysis.SyntacticSignature{
			SentenceComplexity: vp.Syntactic.SentenceComplexity,
			Punctuation:        vp.Syntactic.Punctuation,
		},
		Semantic: analysis.SemanticSignature{
			FormalityLevel: vp.Semantic.FormalityLevel,
			TonalProfile:   vp.Semantic.TonalProfile,
		},
		Stylistic: analysis.StylisticSignature{
			ContractionUsage: vp.Stylistic.ContractionUsage,
			HedgeFrequency:   vp.Stylistic.HedgeFrequency,
			IdiomUsage:       vp.Stylistic.IdiomUsage,
		},
		WordCount: 150,
	}
}

func TestNoDriftForMatchingSample(t *testing.T) {
	vp := baseline(t)
	events := Detect(sampleLike(vp), vp, time.Now())
	if len(events) != 0 {
		t.Errorf("Detect() = %d events, want 0 for a matching sample: %+v", len(events), events)
	}
}

func TestMajorDriftOnSentenceComplexity(t *testing.T) {
	// A sample 40% above the stored optimal complexity yields exactly one
	// major event for the syntactic dimension and none for the others.
	vp := baseline(t)
	m := sampleLike(vp)
	m.Syntactic.SentenceComplexity = vp.Syntactic.SentenceComplexity * 1.4

	events := Detect(m, vp, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	if len(events) != 1 {
		t.Fatalf("Detect() = %d events, want exactly 1: %+v", len(events), events)
	}
	e := events[0]
	if e.Metric != "sentence_complexity" {
		t.Errorf("Metric = %q, want sentence_complexity", e.Metric)
	}
	if e.Dimension != fingerprint.DimensionSyntactic {
		t.Errorf("Dimension = %q, want syntactic", e.Dimension)
	}
	if e.Severity != SeverityMajor {
		t.Errorf("Severity = %q, want major at 40%% change", e.Severity)
	}
	if math.Abs(e.ChangePercent-40.0) > 0.5 {
		t.Errorf("ChangePercent = %v, want ~40", e.ChangePercent)
	}
}

func TestDriftBelowBand(t *testing.T) {
	vp := baseline(t)
	m := sampleLike(vp)
	m.Lexical.VocabularyRichness = vp.Lexical.VocabularyRichness * 0.5

	events := Detect(m, vp, time.Now())
	if len(events) != 1 {
		t.Fatalf("Detect() = %d events, want 1: %+v", len(events), events)
	}
	if events[0].Severity != SeverityMajor {
		t.Errorf("Severity = %q, want major at 50%% drop", events[0].Severity)
	}
}

func TestDriftInsideBandIsSilent(t *testing.T) {
	// A small wobble inside the band must not fire even though the
	// relative change is nonzero.
	vp := baseline(t)
	band, ok := vp.Band("vocabulary_richness")
	if !ok {
		t.Fatal("no band for vocabulary_richness")
	}
	m := sampleLike(vp)
	m.Lexical.VocabularyRichness = (band.Optimal + band.Max) / 2

	for _, e := range Detect(m, vp, time.Now()) {
		if e.Metric == "vocabulary_richness" {
			t.Errorf("unexpected event inside band: %+v", e)
		}
	}
}

func TestDetectIdempotent(t *testing.T) {
	// Identical (sample, profile) inputs produce identical event lists.
	vp := baseline(t)
	m := sampleLike(vp)
	m.Syntactic.SentenceComplexity *= 1.4
	m.Stylistic.ContractionUsage = 0

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	first := Detect(m, vp, at)
	second := Detect(m, vp, at)
	if !reflect.DeepEqual(first, second) {
		t.Error("Detect() not idempotent for identical inputs")
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		change float64
		want   Severity
	}{
		{0, SeverityMinor},
		{5, SeverityMinor},
		{9.99, SeverityMinor},
		{10, SeverityModerate},
		{15, SeverityModerate},
		{20, SeverityModerate},
		{20.01, SeverityMajor},
		{80, SeverityMajor},
	}
	for _, tt := range tests {
		if got := SeverityFor(tt.change); got != tt.want {
			t.Errorf("SeverityFor(%v) = %q, want %q", tt.change, got, tt.want)
		}
	}
}

func TestRelativeChangePercent(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		optimal float64
		want    float64
	}{
		{name: "forty percent up", value: 1.4, optimal: 1.0, want: 40},
		{name: "half down", value: 0.5, optimal: 1.0, want: 50},
		{name: "no change", value: 2.0, optimal: 2.0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeChangePercent(tt.value, tt.optimal)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RelativeChangePercent(%v, %v) = %v, want %v", tt.value, tt.optimal, got, tt.want)
			}
		})
	}
	// Zero optimal does not divide by zero.
	if got := RelativeChangePercent(0.5, 0); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("RelativeChangePercent(0.5, 0) = %v, want finite", got)
	}
}
