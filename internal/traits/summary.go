package traits

import (
	"fmt"
	"strings"

	"voiceprint/internal/fingerprint"
)

// Narrative fragments per bucket. Kept as named tables so the templated
// summary stays independently testable.

var richnessPhrases = map[Bucket]string{
	BucketLow:    "a compact, familiar vocabulary",
	BucketMedium: "a steady working vocabulary",
	BucketHigh:   "a wide, varied vocabulary",
}

var complexityPhrases = map[Bucket]string{
	BucketLow:    "short, direct sentences",
	BucketMedium: "a balanced mix of sentence lengths",
	BucketHigh:   "long, layered sentences",
}

var formalityPhrases = map[Bucket]string{
	BucketLow:    "a relaxed, conversational register",
	BucketMedium: "a flexible register between formal and casual",
	BucketHigh:   "a formal, polished register",
}

// Summary builds the templated narrative for a profile by bucketing each
// headline metric.
func Summary(vp *fingerprint.VoicePrint) string {
	richness := BucketFor(vp.Lexical.VocabularyRichness, RichnessLowCut, RichnessHighCut)
	complexity := BucketFor(vp.Syntactic.SentenceComplexity, ComplexityLowCut, ComplexityHighCut)
	formality := BucketFor(vp.Semantic.FormalityLevel, FormalityLowCut, FormalityHighCut)

	var b strings.Builder
	fmt.Fprintf(&b, "This voice pairs %s with %s, carried in %s.",
		richnessPhrases[richness], complexityPhrases[complexity], formalityPhrases[formality])

	if vp.Semantic.TonalProfile != "" {
		fmt.Fprintf(&b, " The dominant tone is %s.", vp.Semantic.TonalProfile)
	}

	if len(vp.Lexical.PreferredWords) > 0 {
		n := len(vp.Lexical.PreferredWords)
		if n > 3 {
			n = 3
		}
		fmt.Fprintf(&b, " Signature words include %s.",
			strings.Join(vp.Lexical.PreferredWords[:n], ", "))
	}

	fmt.Fprintf(&b, " Profile confidence is %.0f%% across %d samples.",
		vp.ConfidenceScore*100, vp.SampleCount)
	return b.String()
}
