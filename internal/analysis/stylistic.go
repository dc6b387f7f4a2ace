package analysis

import (
	"strings"

	"voiceprint/internal/textseg"
)

// Voice-characteristic flag thresholds, applied to the per-sample rates.
const (
	ContractionFlagThreshold = 0.01
	HedgeFlagThreshold       = 0.015
	ExclamationFlagThreshold = 0.2
	QuestionFlagThreshold    = 0.15
)

// contractionSuffixes are the apostrophe endings recognized as contractions.
// The "'s" form is ambiguous with possessives, so it is only accepted for
// the pronoun contractions in sContractions.
var contractionSuffixes = []string{"'t", "'re", "'ve", "'ll", "'d", "'m"}

var sContractions = map[string]bool{
	"it's": true, "that's": true, "what's": true, "there's": true,
	"he's": true, "she's": true, "who's": true, "let's": true,
	"here's": true, "where's": true,
}

// AnalyzeStylistic computes contraction, hedge, and idiom rates plus the
// voice-characteristic flags.
func AnalyzeStylistic(doc *textseg.Document) StylisticSignature {
	n := float64(len(doc.LowerWords))
	if n == 0 {
		return StylisticSignature{}
	}

	contractions := 0
	hedges := 0
	for _, w := range doc.LowerWords {
		if isContraction(w) {
			contractions++
		}
		if Hedges[w] {
			hedges++
		}
	}
	for _, phrase := range HedgePhrases {
		hedges += countPhrase(doc.LowerWords, phrase)
	}

	idioms := 0
	for _, phrase := range Idioms {
		idioms += countPhrase(doc.LowerWords, phrase)
	}

	sentences := float64(len(doc.Sentences))
	idiomRate := 0.0
	exclamationRate := 0.0
	questionRate := 0.0
	if sentences > 0 {
		idiomRate = clamp01(float64(idioms) / sentences)
		exclamationRate = float64(doc.Punct.Exclamations) / sentences
		questionRate = float64(doc.Punct.Questions) / sentences
	}

	sig := StylisticSignature{
		ContractionUsage: clamp01(float64(contractions) / n),
		HedgeFrequency:   clamp01(float64(hedges) / n),
		IdiomUsage:       idiomRate,
	}
	sig.Voice = VoiceCharacteristics{
		UsesContractions: sig.ContractionUsage > ContractionFlagThreshold,
		HedgesOften:      sig.HedgeFrequency > HedgeFlagThreshold,
		UsesIdioms:       idioms > 0,
		ExclamationHeavy: exclamationRate > ExclamationFlagThreshold,
		AsksQuestions:    questionRate > QuestionFlagThreshold,
	}
	return sig
}

// isContraction reports whether a lowercase word is a contraction: an
// apostrophe form with a recognized suffix, or an irregular contraction
// like "gonna".
func isContraction(w string) bool {
	if IrregularContractions[w] {
		return true
	}
	apo := strings.IndexAny(w, "'’")
	if apo <= 0 || apo == len(w)-1 {
		return false
	}
	normalized := strings.ReplaceAll(w, "’", "'")
	if sContractions[normalized] {
		return true
	}
	for _, suffix := range contractionSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			return true
		}
	}
	return false
}
