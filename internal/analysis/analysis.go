// Package analysis extracts the four per-sample style signatures from
// segmented text: lexical, syntactic, semantic, and stylistic.
//
// Every analyzer is a pure function of the textseg.Document; identical input
// always yields identical output. All tunable coefficients are named
// package-level values, not inline constants.
package analysis

import (
	"voiceprint/internal/textseg"
)

// Tone labels a sample's dominant register.
type Tone string

const (
	ToneAnalytical Tone = "analytical"
	ToneWarm       Tone = "warm"
	ToneAssertive  Tone = "assertive"
	ToneNeutral    Tone = "neutral"
	TonePlayful    Tone = "playful"
)

// TonePriority is the fixed tie-break order for tonal scoring: when two
// buckets score equally, the earlier entry wins. Neutral is the fallback
// when no bucket scores at all.
var TonePriority = []Tone{ToneAnalytical, ToneWarm, ToneAssertive, TonePlayful, ToneNeutral}

// LexicalSignature captures vocabulary habits.
type LexicalSignature struct {
	VocabularyRichness float64  `json:"vocabulary_richness"` // type-token ratio in [0,1]
	AvgWordLength      float64  `json:"avg_word_length"`
	PreferredWords     []string `json:"preferred_words"` // at most MaxPreferredWords
	PhrasePatterns     []string `json:"phrase_patterns"` // at most MaxPhrasePatterns
}

// PunctuationStyle holds per-sentence rates for the four tracked symbols,
// each clamped to [0,1]. The four rates are independent; they do not sum
// to 1.
type PunctuationStyle struct {
	Periods      float64 `json:"periods"`
	Commas       float64 `json:"commas"`
	Semicolons   float64 `json:"semicolons"`
	Exclamations float64 `json:"exclamations"`
}

// SyntacticSignature captures sentence construction habits.
type SyntacticSignature struct {
	SentenceComplexity float64          `json:"sentence_complexity"`
	Punctuation        PunctuationStyle `json:"punctuation_style"`
}

// SemanticSignature captures register and subject matter.
type SemanticSignature struct {
	FormalityLevel   float64  `json:"formality_level"` // in [0,1]
	TonalProfile     Tone     `json:"tonal_profile"`
	TopicalInterests []string `json:"topical_interests"` // at most MaxTopicalInterests
}

// VoiceCharacteristics are per-sample stylistic flags consumed by the trait
// summarizer and drift detector.
type VoiceCharacteristics struct {
	UsesContractions bool `json:"uses_contractions"`
	HedgesOften      bool `json:"hedges_often"`
	UsesIdioms       bool `json:"uses_idioms"`
	ExclamationHeavy bool `json:"exclamation_heavy"`
	AsksQuestions    bool `json:"asks_questions"`
}

// StylisticSignature captures surface-level voice markers. All rates are
// in [0,1].
type StylisticSignature struct {
	ContractionUsage float64              `json:"contraction_usage"`
	HedgeFrequency   float64              `json:"hedge_frequency"`
	IdiomUsage       float64              `json:"idiom_usage"`
	Voice            VoiceCharacteristics `json:"voice_characteristics"`
}

// SampleMetrics is the complete per-sample numeric bundle. Computed once
// per sample and never mutated afterward.
type SampleMetrics struct {
	Lexical   LexicalSignature   `json:"lexical"`
	Syntactic SyntacticSignature `json:"syntactic"`
	Semantic  SemanticSignature  `json:"semantic"`
	Stylistic StylisticSignature `json:"stylistic"`
	WordCount int                `json:"word_count"`
}

// Analyze runs all four analyzers over a segmented document.
func Analyze(doc *textseg.Document, weights ComplexityWeights) SampleMetrics {
	return SampleMetrics{
		Lexical:   AnalyzeLexical(doc),
		Syntactic: AnalyzeSyntactic(doc, weights),
		Semantic:  AnalyzeSemantic(doc),
		Stylistic: AnalyzeStylistic(doc),
		WordCount: doc.WordCount(),
	}
}

// countPhrase counts non-overlapping occurrences of phrase in words.
func countPhrase(words []string, phrase []string) int {
	if len(phrase) == 0 || len(words) < len(phrase) {
		return 0
	}
	count := 0
	for i := 0; i+len(phrase) <= len(words); i++ {
		match := true
		for j, p := range phrase {
			if words[i+j] != p {
				match = false
				break
			}
		}
		if match {
			count++
			i += len(phrase) - 1
		}
	}
	return count
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
