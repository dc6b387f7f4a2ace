package analysis

import (
	"sort"
	"strings"
	"unicode"

	"voiceprint/internal/textseg"
)

const (
	// MaxPreferredWords caps the preferred-word list.
	MaxPreferredWords = 10

	// MaxPhrasePatterns caps the recurring-phrase list.
	MaxPhrasePatterns = 5

	// MinPhraseFrequency is the minimum occurrence count for a bigram or
	// trigram to count as a recurring phrase.
	MinPhraseFrequency = 2
)

// AnalyzeLexical computes the lexical signature: vocabulary richness
// (type-token ratio), mean word length, preferred words, and recurring
// phrase patterns.
func AnalyzeLexical(doc *textseg.Document) LexicalSignature {
	total := len(doc.LowerWords)
	if total == 0 {
		return LexicalSignature{}
	}

	unique := make(map[string]int, total)
	var lengthSum int
	for i, w := range doc.LowerWords {
		unique[w]++
		lengthSum += letterLength(doc.Words[i])
	}

	return LexicalSignature{
		VocabularyRichness: float64(len(unique)) / float64(total),
		AvgWordLength:      float64(lengthSum) / float64(total),
		PreferredWords:     preferredWords(unique),
		PhrasePatterns:     phrasePatterns(doc.LowerWords),
	}
}

// letterLength counts letters and digits only, so embedded apostrophes do
// not inflate word length.
func letterLength(w string) int {
	n := 0
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// preferredWords returns the top MaxPreferredWords non-stopword tokens by
// frequency, ties broken alphabetically.
func preferredWords(freq map[string]int) []string {
	type entry struct {
		word  string
		count int
	}
	var entries []entry
	for w, c := range freq {
		if Stopwords[w] || len(w) < 2 {
			continue
		}
		entries = append(entries, entry{word: w, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].word < entries[j].word
	})

	n := len(entries)
	if n > MaxPreferredWords {
		n = MaxPreferredWords
	}
	words := make([]string, 0, n)
	for _, e := range entries[:n] {
		words = append(words, e.word)
	}
	return words
}

// phrasePatterns returns the top MaxPhrasePatterns bigrams and trigrams
// occurring at least MinPhraseFrequency times, ties broken alphabetically.
func phrasePatterns(words []string) []string {
	freq := make(map[string]int)
	for i := 0; i+1 < len(words); i++ {
		freq[words[i]+" "+words[i+1]]++
		if i+2 < len(words) {
			freq[words[i]+" "+words[i+1]+" "+words[i+2]]++
		}
	}

	type entry struct {
		phrase string
		count  int
	}
	var entries []entry
	for p, c := range freq {
		if c < MinPhraseFrequency {
			continue
		}
		// Skip phrases made of stopwords only; they reflect the language,
		// not the writer.
		if allStopwords(p) {
			continue
		}
		entries = append(entries, entry{phrase: p, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].phrase < entries[j].phrase
	})

	n := len(entries)
	if n > MaxPhrasePatterns {
		n = MaxPhrasePatterns
	}
	phrases := make([]string, 0, n)
	for _, e := range entries[:n] {
		phrases = append(phrases, e.phrase)
	}
	return phrases
}

func allStopwords(phrase string) bool {
	for _, w := range strings.Fields(phrase) {
		if !Stopwords[w] {
			return false
		}
	}
	return true
}
