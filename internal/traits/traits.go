// Package traits renders a numeric VoicePrint into human-readable traits,
// pitfalls, and a narrative summary. Every rule is a named, declarative
// entry so thresholds can be unit-tested independently of the rendering.
package traits

import (
	"fmt"

	"voiceprint/internal/fingerprint"
)

// Bucket classifies a headline metric as low, medium, or high.
type Bucket string

const (
	BucketLow    Bucket = "low"
	BucketMedium Bucket = "medium"
	BucketHigh   Bucket = "high"
)

// Bucket boundaries for the headline metrics used by traits and the
// narrative summary.
const (
	RichnessLowCut    = 0.45
	RichnessHighCut   = 0.65
	ComplexityLowCut  = 12.0
	ComplexityHighCut = 22.0
	FormalityLowCut   = 0.35
	FormalityHighCut  = 0.65
)

// Pitfall rule thresholds.
const (
	LimitedVocabularyCut   = 0.5
	OverlyComplexCut       = 25.0
	OverlyFormalCut        = 0.01
	HedgingHabitCut        = 0.025
	MonotonePunctuationCut = 0.02 // comma rate below this reads staccato
)

// Trait is one positive, derived description of the voice.
type Trait struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Strength    float64               `json:"strength"` // in [0,1]
	Category    fingerprint.Dimension `json:"category"`
}

// PitfallSeverity grades how much a pitfall hurts the writing.
type PitfallSeverity string

const (
	PitfallLow    PitfallSeverity = "low"
	PitfallMedium PitfallSeverity = "medium"
	PitfallHigh   PitfallSeverity = "high"
)

// Pitfall is one derived weakness with a suggestion.
type Pitfall struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Severity   PitfallSeverity       `json:"severity"`
	Suggestion string                `json:"suggestion"`
	Category   fingerprint.Dimension `json:"category"`
}

// TraitDef is a named trait builder.
type TraitDef struct {
	ID       string
	Name     string
	Category fingerprint.Dimension
	Build    func(*fingerprint.VoicePrint) (strength float64, description string)
}

// TraitDefs is the fixed trait registry: at minimum vocabulary, sentence
// complexity, tone, and formality, plus stylistic extras.
var TraitDefs = []TraitDef{
	{
		ID:       "vocabulary",
		Name:     "Vocabulary Range",
		Category: fingerprint.DimensionLexical,
		Build: func(vp *fingerprint.VoicePrint) (float64, string) {
			r := vp.Lexical.VocabularyRichness
			switch BucketFor(r, RichnessLowCut, RichnessHighCut) {
			case BucketHigh:
				return clamp01(r), "Draws on a wide, varied vocabulary with little repetition."
			case BucketMedium:
				return clamp01(r), "Uses a solid working vocabulary with some favorite words."
			default:
				return clamp01(r), "Leans on a compact set of familiar words."
			}
		},
	},
	{
		ID:       "sentence_complexity",
		Name:     "Sentence Construction",
		Category: fingerprint.DimensionSyntactic,
		Build: func(vp *fingerprint.VoicePrint) (float64, string) {
			c := vp.Syntactic.SentenceComplexity
			strength := clamp01(c / 40)
			switch BucketFor(c, ComplexityLowCut, ComplexityHighCut) {
			case BucketHigh:
				return strength, "Builds long, layered sentences with subordinate clauses."
			case BucketMedium:
				return strength, "Mixes short and medium sentences with occasional subclauses."
			default:
				return strength, "Prefers short, direct sentences."
			}
		},
	},
	{
		ID:       "tone",
		Name:     "Dominant Tone",
		Category: fingerprint.DimensionSemantic,
		Build: func(vp *fingerprint.VoicePrint) (float64, string) {
			tone := vp.Semantic.TonalProfile
			strength := vp.ConsistencyScore
			return clamp01(strength), fmt.Sprintf("Writes with a predominantly %s tone.", tone)
		},
	},
	{
		ID:       "formality",
		Name:     "Register",
		Category: fingerprint.DimensionSemantic,
		Build: func(vp *fingerprint.VoicePrint) (float64, string) {
			f := vp.Semantic.FormalityLevel
			switch BucketFor(f, FormalityLowCut, FormalityHighCut) {
			case BucketHigh:
				return clamp01(f), "Keeps a formal, polished register."
			case BucketMedium:
				return clamp01(f), "Moves comfortably between formal and casual registers."
			default:
				return clamp01(1 - f), "Keeps a relaxed, conversational register."
			}
		},
	},
	{
		ID:       "contractions",
		Name:     "Conversational Markers",
		Category: fingerprint.DimensionStylistic,
		Build: func(vp *fingerprint.VoicePrint) (float64, string) {
			rate := vp.Stylistic.ContractionUsage
			if vp.Stylistic.Voice.UsesContractions {
				return clamp01(rate * 10), "Uses contractions naturally, which keeps prose approachable."
			}
			return clamp01(1 - rate*10), "Avoids contractions, favoring full verb forms."
		},
	},
}

// PitfallRule is a named, declarative pitfall trigger.
type PitfallRule struct {
	ID         string
	Name       string
	Severity   PitfallSeverity
	Category   fingerprint.Dimension
	Suggestion string
	Triggered  func(*fingerprint.VoicePrint) bool
}

// PitfallRules is the fixed pitfall registry.
var PitfallRules = []PitfallRule{
	{
		ID:         "limited_vocabulary",
		Name:       "Limited Vocabulary",
		Severity:   PitfallMedium,
		Category:   fingerprint.DimensionLexical,
		Suggestion: "Vary word choice; swap repeated words for close synonyms where natural.",
		Triggered: func(vp *fingerprint.VoicePrint) bool {
			return vp.Lexical.VocabularyRichness < LimitedVocabularyCut
		},
	},
	{
		ID:         "overly_complex_sentences",
		Name:       "Overly Complex Sentences",
		Severity:   PitfallHigh,
		Category:   fingerprint.DimensionSyntactic,
		Suggestion: "Split sentences above two clauses; one idea per sentence reads faster.",
		Triggered: func(vp *fingerprint.VoicePrint) bool {
			return vp.Syntactic.SentenceComplexity > OverlyComplexCut
		},
	},
	{
		ID:         "overly_formal",
		Name:       "Overly Formal",
		Severity:   PitfallLow,
		Category:   fingerprint.DimensionStylistic,
		Suggestion: "A few contractions make the voice warmer without losing precision.",
		Triggered: func(vp *fingerprint.VoicePrint) bool {
			return vp.Stylistic.ContractionUsage < OverlyFormalCut
		},
	},
	{
		ID:         "hedging_habit",
		Name:       "Hedging Habit",
		Severity:   PitfallMedium,
		Category:   fingerprint.DimensionStylistic,
		Suggestion: "Cut qualifiers like \"perhaps\" and \"somewhat\" unless the uncertainty is the point.",
		Triggered: func(vp *fingerprint.VoicePrint) bool {
			return vp.Stylistic.HedgeFrequency > HedgingHabitCut
		},
	},
	{
		ID:         "staccato_punctuation",
		Name:       "Staccato Punctuation",
		Severity:   PitfallLow,
		Category:   fingerprint.DimensionSyntactic,
		Suggestion: "An occasional comma-joined clause smooths the rhythm of short sentences.",
		Triggered: func(vp *fingerprint.VoicePrint) bool {
			return vp.Syntactic.Punctuation.Commas < MonotonePunctuationCut
		},
	},
}

// Derive builds the trait list for a profile.
func Derive(vp *fingerprint.VoicePrint) []Trait {
	traits := make([]Trait, 0, len(TraitDefs))
	for _, def := range TraitDefs {
		strength, description := def.Build(vp)
		traits = append(traits, Trait{
			ID:          def.ID,
			Name:        def.Name,
			Description: description,
			Strength:    strength,
			Category:    def.Category,
		})
	}
	return traits
}

// Pitfalls evaluates every rule against the profile.
func Pitfalls(vp *fingerprint.VoicePrint) []Pitfall {
	var pitfalls []Pitfall
	for _, rule := range PitfallRules {
		if !rule.Triggered(vp) {
			continue
		}
		pitfalls = append(pitfalls, Pitfall{
			ID:         rule.ID,
			Name:       rule.Name,
			Severity:   rule.Severity,
			Suggestion: rule.Suggestion,
			Category:   rule.Category,
		})
	}
	return pitfalls
}

// BucketFor classifies a value against low/high cutoffs.
func BucketFor(value, lowCut, highCut float64) Bucket {
	switch {
	case value >= highCut:
		return BucketHigh
	case value >= lowCut:
		return BucketMedium
	default:
		return BucketLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
