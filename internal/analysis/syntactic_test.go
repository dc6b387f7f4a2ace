package analysis

import (
	"math"
	"strings"
	"testing"

	"voiceprint/internal/textseg"
)

func TestSentenceScore(t *testing.T) {
	weights := ComplexityWeights{CommaBonus: 1.5, MarkerBonus: 2.0}
	tests := []struct {
		name     string
		sentence textseg.Sentence
		want     float64
	}{
		{
			name:     "plain five words",
			sentence: textseg.Sentence{Words: []string{"the", "dog", "ran", "very", "fast"}},
			want:     5.0,
		},
		{
			name: "two commas add bonus",
			sentence: textseg.Sentence{
				Words:  []string{"one", "two", "three", "four"},
				Commas: 2,
			},
			want: 4.0 + 2*1.5,
		},
		{
			name: "subordinate marker adds bonus",
			sentence: textseg.Sentence{
				Words: []string{"the", "idea", "that", "stuck"},
			},
			want: 4.0 + 2.0,
		},
		{
			name: "marker is case insensitive",
			sentence: textseg.Sentence{
				Words: []string{"Because", "it", "rained"},
			},
			want: 3.0 + 2.0,
		},
		{
			name: "commas and markers combine",
			sentence: textseg.Sentence{
				Words:  []string{"we", "stayed", "because", "it", "rained", "which", "was", "fine"},
				Commas: 1,
			},
			want: 8.0 + 1.5 + 2*2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SentenceScore(tt.sentence, weights)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SentenceScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentenceComplexityIsAverage(t *testing.T) {
	// Ten identical eight-word sentences with one comma each.
	text := strings.Repeat("alpha beta gamma delta, epsilon zeta eta theta. ", 10)
	sig := AnalyzeSyntactic(mustSegment(t, text), DefaultComplexityWeights)
	want := 8.0 + DefaultComplexityWeights.CommaBonus
	if math.Abs(sig.SentenceComplexity-want) > 1e-9 {
		t.Errorf("SentenceComplexity = %v, want %v", sig.SentenceComplexity, want)
	}
}

func TestComplexityWeightsAreAdjustable(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta, epsilon zeta eta theta. ", 10)
	doc := mustSegment(t, text)
	flat := AnalyzeSyntactic(doc, ComplexityWeights{})
	if math.Abs(flat.SentenceComplexity-8.0) > 1e-9 {
		t.Errorf("zero weights: SentenceComplexity = %v, want 8.0", flat.SentenceComplexity)
	}
	heavy := AnalyzeSyntactic(doc, ComplexityWeights{CommaBonus: 10})
	if heavy.SentenceComplexity <= flat.SentenceComplexity {
		t.Error("raising CommaBonus did not raise complexity")
	}
}

func TestPunctuationStyleRates(t *testing.T) {
	// Ten sentences: 10 periods, 5 commas, 2 semicolons, 0 exclamations.
	var b strings.Builder
	for i := 0; i < 10; i++ {
		if i < 5 {
			b.WriteString("First clause, second clause follows here now. ")
		} else if i < 7 {
			b.WriteString("First clause; second clause follows here now. ")
		} else {
			b.WriteString("A plain sentence with no marks inside it. ")
		}
	}
	sig := AnalyzeSyntactic(mustSegment(t, b.String()), DefaultComplexityWeights)

	p := sig.Punctuation
	if math.Abs(p.Periods-1.0) > 1e-9 {
		t.Errorf("Periods = %v, want 1.0", p.Periods)
	}
	if math.Abs(p.Commas-0.5) > 1e-9 {
		t.Errorf("Commas = %v, want 0.5", p.Commas)
	}
	if math.Abs(p.Semicolons-0.2) > 1e-9 {
		t.Errorf("Semicolons = %v, want 0.2", p.Semicolons)
	}
	if p.Exclamations != 0 {
		t.Errorf("Exclamations = %v, want 0", p.Exclamations)
	}
}

func TestPunctuationStyleClampedToOne(t *testing.T) {
	// Three commas per sentence: rate clamps at 1.0.
	text := strings.Repeat("one, two, three, four and five and six and seven. ", 8)
	sig := AnalyzeSyntactic(mustSegment(t, text), DefaultComplexityWeights)
	if sig.Punctuation.Commas != 1.0 {
		t.Errorf("Commas = %v, want clamp at 1.0", sig.Punctuation.Commas)
	}
}

func TestPunctuationRatesIndependent(t *testing.T) {
	// Rates are per-symbol; nothing forces them to sum to 1.
	text := strings.Repeat("Really, truly great! ", 30)
	sig := AnalyzeSyntactic(mustSegment(t, text), DefaultComplexityWeights)
	sum := sig.Punctuation.Periods + sig.Punctuation.Commas +
		sig.Punctuation.Semicolons + sig.Punctuation.Exclamations
	if sum <= 1.0 {
		t.Errorf("rate sum = %v, expected > 1.0 for comma+exclamation heavy text", sum)
	}
}
