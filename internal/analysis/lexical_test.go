package analysis

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"voiceprint/internal/textseg"
)

func mustSegment(t *testing.T, text string) *textseg.Document {
	t.Helper()
	doc, err := textseg.Segment(text)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	return doc
}

func TestVocabularyRichnessApproachesZeroForRepeatedWord(t *testing.T) {
	// One word repeated N times drives the type-token ratio toward zero
	// as N grows.
	prev := 1.0
	for _, n := range []int{50, 200, 1000, 5000} {
		doc := mustSegment(t, strings.Repeat("echo ", n))
		sig := AnalyzeLexical(doc)
		want := 1.0 / float64(n)
		if math.Abs(sig.VocabularyRichness-want) > 1e-9 {
			t.Errorf("n=%d: VocabularyRichness = %v, want %v", n, sig.VocabularyRichness, want)
		}
		if sig.VocabularyRichness >= prev {
			t.Errorf("n=%d: richness %v did not decrease from %v", n, sig.VocabularyRichness, prev)
		}
		prev = sig.VocabularyRichness
	}
}

func TestVocabularyRichnessAllUnique(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("w")
		b.WriteString(strings.Repeat("x", i+1)) // w, wx, wxx, ... all distinct
		b.WriteString(" ")
	}
	sig := AnalyzeLexical(mustSegment(t, b.String()))
	if sig.VocabularyRichness != 1.0 {
		t.Errorf("VocabularyRichness = %v, want 1.0 for all-unique words", sig.VocabularyRichness)
	}
}

func TestAvgWordLength(t *testing.T) {
	// 50 four-letter words and 50 six-letter words average to 5.0.
	text := strings.Repeat("four ", 50) + strings.Repeat("sixsix ", 50)
	sig := AnalyzeLexical(mustSegment(t, text))
	if math.Abs(sig.AvgWordLength-5.0) > 1e-9 {
		t.Errorf("AvgWordLength = %v, want 5.0", sig.AvgWordLength)
	}
}

func TestAvgWordLengthIgnoresApostrophes(t *testing.T) {
	// "don't" counts 4 letters, not 5 runes.
	sig := AnalyzeLexical(mustSegment(t, strings.Repeat("don't ", 60)))
	if math.Abs(sig.AvgWordLength-4.0) > 1e-9 {
		t.Errorf("AvgWordLength = %v, want 4.0", sig.AvgWordLength)
	}
}

func TestPreferredWordsExcludeStopwords(t *testing.T) {
	text := strings.Repeat("the cat chased the garden mouse through the garden ", 10)
	sig := AnalyzeLexical(mustSegment(t, text))
	for _, w := range sig.PreferredWords {
		if Stopwords[w] {
			t.Errorf("preferred word %q is a stopword", w)
		}
	}
	if len(sig.PreferredWords) == 0 || sig.PreferredWords[0] != "garden" {
		t.Errorf("PreferredWords = %v, want %q first", sig.PreferredWords, "garden")
	}
}

func TestPreferredWordsTieBreakAlphabetical(t *testing.T) {
	// "zebra" and "apple" both occur 10 times; apple must sort first.
	text := strings.Repeat("zebra apple fence fence fence ", 10) + strings.Repeat("filler-word ", 25)
	sig := AnalyzeLexical(mustSegment(t, text))
	posApple, posZebra := -1, -1
	for i, w := range sig.PreferredWords {
		switch w {
		case "apple":
			posApple = i
		case "zebra":
			posZebra = i
		}
	}
	if posApple == -1 || posZebra == -1 {
		t.Fatalf("PreferredWords = %v, want both apple and zebra", sig.PreferredWords)
	}
	if posApple > posZebra {
		t.Errorf("apple at %d after zebra at %d; ties must break alphabetically", posApple, posZebra)
	}
}

func TestPreferredWordsCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		word := "topic" + string(rune('a'+i))
		b.WriteString(strings.Repeat(word+" ", 3))
	}
	sig := AnalyzeLexical(mustSegment(t, b.String()))
	if len(sig.PreferredWords) > MaxPreferredWords {
		t.Errorf("len(PreferredWords) = %d, want <= %d", len(sig.PreferredWords), MaxPreferredWords)
	}
}

func TestPhrasePatterns(t *testing.T) {
	text := strings.Repeat("deep learning models need data. ", 12) + strings.Repeat("unrelated filler sentence follows here. ", 3)
	sig := AnalyzeLexical(mustSegment(t, text))
	if len(sig.PhrasePatterns) == 0 {
		t.Fatal("PhrasePatterns empty, want recurring bigrams")
	}
	if len(sig.PhrasePatterns) > MaxPhrasePatterns {
		t.Errorf("len(PhrasePatterns) = %d, want <= %d", len(sig.PhrasePatterns), MaxPhrasePatterns)
	}
	found := false
	for _, p := range sig.PhrasePatterns {
		if p == "deep learning" || p == "deep learning models" {
			found = true
		}
	}
	if !found {
		t.Errorf("PhrasePatterns = %v, want %q present", sig.PhrasePatterns, "deep learning")
	}
}

func TestPhrasePatternsRequireMinimumFrequency(t *testing.T) {
	// Every bigram occurs exactly once: no patterns qualify.
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("unique")
		b.WriteString(strings.Repeat("z", i+1))
		b.WriteString(" ")
	}
	sig := AnalyzeLexical(mustSegment(t, b.String()))
	if len(sig.PhrasePatterns) != 0 {
		t.Errorf("PhrasePatterns = %v, want empty for all-unique bigrams", sig.PhrasePatterns)
	}
}

func TestAnalyzeLexicalDeterministic(t *testing.T) {
	text := strings.Repeat("style is a repeated habit of mind and hand. ", 8)
	doc := mustSegment(t, text)
	a := AnalyzeLexical(doc)
	b := AnalyzeLexical(doc)
	if !reflect.DeepEqual(a, b) {
		t.Error("AnalyzeLexical() is not deterministic")
	}
}
