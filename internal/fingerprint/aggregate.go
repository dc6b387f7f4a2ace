package fingerprint

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"

	"voiceprint/internal/analysis"
)

// ErrInsufficientSamples is returned when fewer than MinSamples valid
// samples are supplied for aggregation.
var ErrInsufficientSamples = errors.New("insufficient samples for voice profile")

// Input carries everything the aggregator needs. AnalyzedAt and Version are
// supplied by the caller so the aggregation itself stays a pure function.
type Input struct {
	UserID string
	// Samples are the validated per-sample metric bundles, in any order.
	Samples []analysis.SampleMetrics
	// Substituted counts analyzer dimensions that were replaced with
	// neutral defaults; each one penalizes confidence.
	Substituted int
	// AnalyzedAt is the caller-supplied analysis timestamp.
	AnalyzedAt time.Time
	// Version is the profile version assigned by the persistence layer.
	Version int
}

// Aggregate combines per-sample metrics into one VoicePrint. Numeric
// metrics are averaged weighted by sample word count; ranked lists are
// merged by weighted rank; the tonal profile is a weighted vote with the
// fixed priority tie-break. The result is identical for any ordering of
// the same sample set. The returned profile is in the computing state;
// the persistence layer activates it when it assigns a version.
func Aggregate(in Input, coeffs Coefficients) (*VoicePrint, error) {
	if len(in.Samples) < MinSamples {
		return nil, fmt.Errorf("%w: got %d, need at least %d",
			ErrInsufficientSamples, len(in.Samples), MinSamples)
	}

	samples, digests := canonicalOrder(in.Samples)

	weights := make([]float64, len(samples))
	for i, s := range samples {
		w := float64(s.WordCount)
		if w < 1 {
			w = 1
		}
		weights[i] = w
	}

	// Per-metric weighted means and normalized deviations. The deviation
	// denominator is the metric's fixed registry scale, never a function of
	// the samples: a shifting denominator would let an in-variance sample
	// lower the consistency score.
	optimals := make(map[string]float64, len(TrackedMetrics))
	deviations := make([]float64, 0, len(TrackedMetrics))
	for _, def := range TrackedMetrics {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = def.Sample(s)
		}
		mean := weightedMean(values, weights)
		sd := weightedStdDev(values, weights, mean)
		optimals[def.Name] = mean
		deviations = append(deviations, sd/def.Scale)
	}

	consistency := coeffs.ConsistencyScore(deviations)
	confidence := coeffs.ConfidenceScore(len(samples), consistency, in.Substituted)

	vp := &VoicePrint{
		ID:               profileID(in.UserID, digests),
		UserID:           in.UserID,
		ConfidenceScore:  confidence,
		ConsistencyScore: consistency,
		Status:           StatusComputing,
		Version:          in.Version,
		SampleCount:      len(samples),
		LastAnalyzed:     in.AnalyzedAt,
	}

	vp.Lexical = analysis.LexicalSignature{
		VocabularyRichness: optimals["vocabulary_richness"],
		AvgWordLength:      optimals["avg_word_length"],
		PreferredWords:     mergeRanked(samples, weights, analysis.MaxPreferredWords, func(s analysis.SampleMetrics) []string { return s.Lexical.PreferredWords }),
		PhrasePatterns:     mergeRanked(samples, weights, analysis.MaxPhrasePatterns, func(s analysis.SampleMetrics) []string { return s.Lexical.PhrasePatterns }),
	}
	vp.Syntactic = analysis.SyntacticSignature{
		SentenceComplexity: optimals["sentence_complexity"],
		Punctuation:        aggregatePunctuation(samples, weights),
	}
	vp.Semantic = analysis.SemanticSignature{
		FormalityLevel:   optimals["formality_level"],
		TonalProfile:     voteTone(samples, weights),
		TopicalInterests: mergeRanked(samples, weights, analysis.MaxTopicalInterests, func(s analysis.SampleMetrics) []string { return s.Semantic.TopicalInterests }),
	}
	vp.Stylistic = analysis.StylisticSignature{
		ContractionUsage: optimals["contraction_usage"],
		HedgeFrequency:   optimals["hedge_frequency"],
		IdiomUsage:       optimals["idiom_usage"],
		Voice:            voteVoice(samples, weights),
	}

	vp.Thresholds = make([]ThresholdBand, 0, len(TrackedMetrics))
	for _, def := range TrackedMetrics {
		vp.Thresholds = append(vp.Thresholds,
			coeffs.ThresholdBandFor(def.Name, optimals[def.Name], confidence))
	}

	return vp, nil
}

// canonicalOrder sorts samples by the digest of their canonical encoding.
// Weighted sums then accumulate in a fixed order, which keeps floating
// point results identical for any input ordering of the same set.
func canonicalOrder(samples []analysis.SampleMetrics) ([]analysis.SampleMetrics, [][]byte) {
	type keyed struct {
		sample analysis.SampleMetrics
		digest []byte
	}
	keyedSamples := make([]keyed, len(samples))
	for i, s := range samples {
		keyedSamples[i] = keyed{sample: s, digest: sampleDigest(s)}
	}
	sort.Slice(keyedSamples, func(i, j int) bool {
		return bytes.Compare(keyedSamples[i].digest, keyedSamples[j].digest) < 0
	})

	sorted := make([]analysis.SampleMetrics, len(samples))
	digests := make([][]byte, len(samples))
	for i, k := range keyedSamples {
		sorted[i] = k.sample
		digests[i] = k.digest
	}
	return sorted, digests
}

// sampleDigest hashes the canonical JSON encoding of one sample's metrics.
func sampleDigest(s analysis.SampleMetrics) []byte {
	data, err := json.Marshal(s)
	if err != nil {
		// SampleMetrics contains only marshalable types; this cannot fail.
		panic(fmt.Sprintf("marshal sample metrics: %v", err))
	}
	sum := blake2b.Sum256(data)
	return sum[:]
}

// profileID derives the deterministic VoicePrint ID from the user and the
// sorted sample digests.
func profileID(userID string, digests [][]byte) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("blake2b: %v", err))
	}
	h.Write([]byte(userID))
	for _, d := range digests {
		h.Write(d)
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// mergeRanked merges per-sample ranked lists into one list of at most limit
// entries. An entry scores by its rank position weighted by sample word
// count; ties break alphabetically.
func mergeRanked(samples []analysis.SampleMetrics, weights []float64, limit int, pick func(analysis.SampleMetrics) []string) []string {
	scores := make(map[string]float64)
	for i, s := range samples {
		list := pick(s)
		for rank, entry := range list {
			scores[entry] += weights[i] * float64(len(list)-rank)
		}
	}
	if len(scores) == 0 {
		return nil
	}

	type entry struct {
		value string
		score float64
	}
	entries := make([]entry, 0, len(scores))
	for v, s := range scores {
		entries = append(entries, entry{value: v, score: s})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].value < entries[j].value
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	merged := make([]string, 0, len(entries))
	for _, e := range entries {
		merged = append(merged, e.value)
	}
	return merged
}

// aggregatePunctuation takes the weighted mean of each punctuation rate.
func aggregatePunctuation(samples []analysis.SampleMetrics, weights []float64) analysis.PunctuationStyle {
	pick := func(f func(analysis.PunctuationStyle) float64) float64 {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = f(s.Syntactic.Punctuation)
		}
		return weightedMean(values, weights)
	}
	return analysis.PunctuationStyle{
		Periods:      pick(func(p analysis.PunctuationStyle) float64 { return p.Periods }),
		Commas:       pick(func(p analysis.PunctuationStyle) float64 { return p.Commas }),
		Semicolons:   pick(func(p analysis.PunctuationStyle) float64 { return p.Semicolons }),
		Exclamations: pick(func(p analysis.PunctuationStyle) float64 { return p.Exclamations }),
	}
}

// voteTone picks the dominant tone by word-count-weighted vote; ties
// resolve by analysis.TonePriority.
func voteTone(samples []analysis.SampleMetrics, weights []float64) analysis.Tone {
	votes := make(map[analysis.Tone]float64)
	for i, s := range samples {
		votes[s.Semantic.TonalProfile] += weights[i]
	}
	best := analysis.ToneNeutral
	bestVotes := -1.0
	for _, tone := range analysis.TonePriority {
		if v, ok := votes[tone]; ok && v > bestVotes {
			best = tone
			bestVotes = v
		}
	}
	return best
}

// voteVoice sets each voice flag when at least half the sample weight
// carries it.
func voteVoice(samples []analysis.SampleMetrics, weights []float64) analysis.VoiceCharacteristics {
	var total float64
	for _, w := range weights {
		total += w
	}
	share := func(f func(analysis.VoiceCharacteristics) bool) bool {
		var sum float64
		for i, s := range samples {
			if f(s.Stylistic.Voice) {
				sum += weights[i]
			}
		}
		return sum >= total/2
	}
	return analysis.VoiceCharacteristics{
		UsesContractions: share(func(v analysis.VoiceCharacteristics) bool { return v.UsesContractions }),
		HedgesOften:      share(func(v analysis.VoiceCharacteristics) bool { return v.HedgesOften }),
		UsesIdioms:       share(func(v analysis.VoiceCharacteristics) bool { return v.UsesIdioms }),
		ExclamationHeavy: share(func(v analysis.VoiceCharacteristics) bool { return v.ExclamationHeavy }),
		AsksQuestions:    share(func(v analysis.VoiceCharacteristics) bool { return v.AsksQuestions }),
	}
}
