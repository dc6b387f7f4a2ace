package analysis

import (
	"voiceprint/internal/textseg"
)

// ComplexityWeights parameterizes the sentence-complexity score. The score
// for one sentence is:
//
//	len(words) + CommaBonus*commas + MarkerBonus*subordinateMarkers
//
// and SentenceComplexity is the mean over sentences. Exposing the weights
// keeps the formula adjustable without touching call sites.
type ComplexityWeights struct {
	CommaBonus  float64
	MarkerBonus float64
}

// DefaultComplexityWeights are the production coefficients.
var DefaultComplexityWeights = ComplexityWeights{
	CommaBonus:  1.5,
	MarkerBonus: 2.0,
}

// AnalyzeSyntactic computes sentence complexity and the punctuation-style
// distribution.
func AnalyzeSyntactic(doc *textseg.Document, weights ComplexityWeights) SyntacticSignature {
	sentences := len(doc.Sentences)
	if sentences == 0 {
		return SyntacticSignature{}
	}

	var scoreSum float64
	for _, s := range doc.Sentences {
		scoreSum += SentenceScore(s, weights)
	}

	return SyntacticSignature{
		SentenceComplexity: scoreSum / float64(sentences),
		Punctuation:        punctuationStyle(doc),
	}
}

// SentenceScore is the named complexity scoring function for one sentence.
func SentenceScore(s textseg.Sentence, weights ComplexityWeights) float64 {
	markers := 0
	for _, w := range s.Words {
		if SubordinateMarkers[lower(w)] {
			markers++
		}
	}
	return float64(len(s.Words)) +
		weights.CommaBonus*float64(s.Commas) +
		weights.MarkerBonus*float64(markers)
}

// punctuationStyle computes per-sentence rates for the four tracked symbols,
// each clamped to [0,1]. A comma rate of 1.0 means one or more commas per
// sentence on average.
func punctuationStyle(doc *textseg.Document) PunctuationStyle {
	n := float64(len(doc.Sentences))
	if n == 0 {
		return PunctuationStyle{}
	}
	return PunctuationStyle{
		Periods:      clamp01(float64(doc.Punct.Periods) / n),
		Commas:       clamp01(float64(doc.Punct.Commas) / n),
		Semicolons:   clamp01(float64(doc.Punct.Semicolons) / n),
		Exclamations: clamp01(float64(doc.Punct.Exclamations) / n),
	}
}

// lower is a cheap ASCII-biased lowercase for marker lookups; marker words
// are all ASCII.
func lower(w string) string {
	b := []byte(w)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
			changed = true
		}
	}
	if !changed {
		return w
	}
	return string(b)
}
