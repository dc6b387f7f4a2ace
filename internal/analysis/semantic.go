package analysis

import (
	"sort"
	"strings"

	"voiceprint/internal/textseg"
)

// Formality scoring coefficients. The score starts at FormalityBase and
// moves by per-word marker rates; the result is clamped to [0,1]. The
// penalties only ever subtract, so adding informal markers to otherwise
// fixed text can never raise the score.
const (
	FormalityBase            = 0.5
	ContractionPenaltyWeight = 3.0
	InformalPenaltyWeight    = 2.5
	FormalBonusWeight        = 4.0
	PassiveBonusWeight       = 0.15
)

// MaxTopicalInterests caps the topical-interest list.
const MaxTopicalInterests = 5

// MinTopicFrequency is the minimum occurrence count for a word to qualify
// as a topical interest.
const MinTopicFrequency = 2

// MinTopicLength filters short function-ish words out of topic candidates.
const MinTopicLength = 4

// AnalyzeSemantic computes formality, tonal profile, and topical interests.
func AnalyzeSemantic(doc *textseg.Document) SemanticSignature {
	if len(doc.LowerWords) == 0 {
		return SemanticSignature{TonalProfile: ToneNeutral}
	}
	return SemanticSignature{
		FormalityLevel:   FormalityScore(doc),
		TonalProfile:     TonalScore(doc.LowerWords),
		TopicalInterests: topicalInterests(doc.LowerWords),
	}
}

// FormalityScore is the bounded formality heuristic: penalties for
// contractions and informal address, bonuses for formal connectives and
// passive constructions.
func FormalityScore(doc *textseg.Document) float64 {
	words := doc.LowerWords
	n := float64(len(words))
	if n == 0 {
		return FormalityBase
	}

	var contractions, informal, formal int
	for _, w := range words {
		if isContraction(w) {
			contractions++
		}
		if InformalMarkers[w] {
			informal++
		}
		if FormalConnectives[w] {
			formal++
		}
	}

	passiveRate := 0.0
	if len(doc.Sentences) > 0 {
		passiveRate = clamp01(float64(passiveCount(words)) / float64(len(doc.Sentences)))
	}

	score := FormalityBase -
		ContractionPenaltyWeight*float64(contractions)/n -
		InformalPenaltyWeight*float64(informal)/n +
		FormalBonusWeight*float64(formal)/n +
		PassiveBonusWeight*passiveRate
	return clamp01(score)
}

// passiveCount counts be-verb + past-participle pairs.
func passiveCount(words []string) int {
	count := 0
	for i := 0; i+1 < len(words); i++ {
		if !BeVerbs[words[i]] {
			continue
		}
		next := words[i+1]
		if strings.HasSuffix(next, "ed") || IrregularParticiples[next] {
			count++
		}
	}
	return count
}

// TonalScore picks the single highest-scoring tone bucket. Ties resolve by
// TonePriority; neutral wins only when no bucket matches at all.
func TonalScore(words []string) Tone {
	best := ToneNeutral
	bestScore := 0
	for _, tone := range TonePriority {
		lex, ok := toneLexicons[tone]
		if !ok {
			continue
		}
		score := 0
		for _, w := range words {
			if lex[w] {
				score++
			}
		}
		if score > bestScore {
			best = tone
			bestScore = score
		}
	}
	return best
}

// topicalInterests returns the top content nouns by frequency. Candidates
// are non-stopword words of at least MinTopicLength letters that are not
// style markers themselves; the adverb-ish "ly" suffix is excluded.
func topicalInterests(words []string) []string {
	freq := make(map[string]int)
	for _, w := range words {
		if Stopwords[w] || len(w) < MinTopicLength {
			continue
		}
		if Hedges[w] || InformalMarkers[w] || FormalConnectives[w] || isContraction(w) {
			continue
		}
		if strings.HasSuffix(w, "ly") {
			continue
		}
		freq[w]++
	}

	type entry struct {
		word  string
		count int
	}
	var entries []entry
	for w, c := range freq {
		if c < MinTopicFrequency {
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
	if n > MaxTopicalInterests {
		n = MaxTopicalInterests
	}
	topics := make([]string, 0, n)
	for _, e := range entries[:n] {
		topics = append(topics, e.word)
	}
	return topics
}
