package traits

import (
	"fmt"
	"io"
	"strings"
	"time"

	"voiceprint/internal/fingerprint"
)

// PrintReport writes a formatted voice-profile report to w.
func PrintReport(w io.Writer, vp *fingerprint.VoicePrint) {
	if vp == nil {
		fmt.Fprintln(w, "No voice profile available")
		return
	}

	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "                        VOICE PROFILE REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Profile:        %s (v%d, %s)\n", vp.ID, vp.Version, vp.Status)
	fmt.Fprintf(w, "Samples:        %d\n", vp.SampleCount)
	if !vp.LastAnalyzed.IsZero() {
		fmt.Fprintf(w, "Last Analyzed:  %s\n", vp.LastAnalyzed.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Confidence:     %.3f  %s\n", vp.ConfidenceScore, FormatMetricBar(vp.ConfidenceScore, 0, 1, 20))
	fmt.Fprintf(w, "Consistency:    %.3f  %s\n", vp.ConsistencyScore, FormatMetricBar(vp.ConsistencyScore, 0, 1, 20))
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintln(w, "SIGNATURE METRICS")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Vocabulary Richness:      %.3f  %s\n",
		vp.Lexical.VocabularyRichness, FormatMetricBar(vp.Lexical.VocabularyRichness, 0, 1, 20))
	fmt.Fprintf(w, "  -> %s\n\n", interpretRichness(vp.Lexical.VocabularyRichness))

	fmt.Fprintf(w, "Avg Word Length:          %.2f\n\n", vp.Lexical.AvgWordLength)

	fmt.Fprintf(w, "Sentence Complexity:      %.2f  %s\n",
		vp.Syntactic.SentenceComplexity, FormatMetricBar(vp.Syntactic.SentenceComplexity, 0, 40, 20))
	fmt.Fprintf(w, "  -> %s\n\n", interpretComplexity(vp.Syntactic.SentenceComplexity))

	fmt.Fprintf(w, "Formality Level:          %.3f  %s\n",
		vp.Semantic.FormalityLevel, FormatMetricBar(vp.Semantic.FormalityLevel, 0, 1, 20))
	fmt.Fprintf(w, "  -> %s\n\n", interpretFormality(vp.Semantic.FormalityLevel))

	fmt.Fprintf(w, "Tonal Profile:            %s\n", vp.Semantic.TonalProfile)
	fmt.Fprintf(w, "Contraction Usage:        %.3f\n", vp.Stylistic.ContractionUsage)
	fmt.Fprintf(w, "Hedge Frequency:          %.3f\n", vp.Stylistic.HedgeFrequency)
	if len(vp.Lexical.PreferredWords) > 0 {
		fmt.Fprintf(w, "Preferred Words:          %s\n", strings.Join(vp.Lexical.PreferredWords, ", "))
	}
	if len(vp.Lexical.PhrasePatterns) > 0 {
		fmt.Fprintf(w, "Recurring Phrases:        %s\n", strings.Join(vp.Lexical.PhrasePatterns, "; "))
	}
	if len(vp.Semantic.TopicalInterests) > 0 {
		fmt.Fprintf(w, "Topical Interests:        %s\n", strings.Join(vp.Semantic.TopicalInterests, ", "))
	}
	fmt.Fprintln(w)

	// Traits
	traits := Derive(vp)
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintln(w, "TRAITS")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintln(w)
	for _, tr := range traits {
		fmt.Fprintf(w, "%-24s %.2f  %s\n", tr.Name, tr.Strength, tr.Description)
	}
	fmt.Fprintln(w)

	// Pitfalls
	pitfalls := Pitfalls(vp)
	if len(pitfalls) > 0 {
		fmt.Fprintln(w, strings.Repeat("-", 72))
		fmt.Fprintln(w, "PITFALLS")
		fmt.Fprintln(w, strings.Repeat("-", 72))
		fmt.Fprintln(w)
		for i, p := range pitfalls {
			fmt.Fprintf(w, "%d. [%s] %s: %s\n", i+1, severityMarker(p.Severity), p.Name, p.Suggestion)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "SUMMARY: %s\n", Summary(vp))
	fmt.Fprintln(w, strings.Repeat("=", 72))
}

// FormatMetricBar produces an ASCII bar for metric visualization.
func FormatMetricBar(value, min, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	if max <= min {
		return strings.Repeat("-", width)
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	filled := int(normalized * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func interpretRichness(r float64) string {
	switch {
	case r >= RichnessHighCut:
		return "High: varied word choice, little repetition"
	case r >= RichnessLowCut:
		return "Moderate: typical working vocabulary"
	default:
		return "Low: heavy reuse of a small word set"
	}
}

func interpretComplexity(c float64) string {
	switch {
	case c > OverlyComplexCut:
		return "Very high: sentences may be hard to follow"
	case c >= ComplexityHighCut:
		return "High: long, clause-heavy sentences"
	case c >= ComplexityLowCut:
		return "Moderate: balanced sentence lengths"
	default:
		return "Low: short, punchy sentences"
	}
}

func interpretFormality(f float64) string {
	switch {
	case f >= FormalityHighCut:
		return "Formal: polished, connective-heavy register"
	case f >= FormalityLowCut:
		return "Mixed: moves between registers"
	default:
		return "Casual: conversational register"
	}
}

func severityMarker(s PitfallSeverity) string {
	switch s {
	case PitfallHigh:
		return "!!!"
	case PitfallMedium:
		return " ! "
	default:
		return " i "
	}
}
