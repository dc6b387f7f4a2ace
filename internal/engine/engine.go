// Package engine orchestrates the full pipeline: structural validation,
// per-sample analysis across a bounded worker pool, aggregation into a
// VoicePrint, and drift detection against a stored profile. An Engine is a
// stateless value; all tunables arrive through Config, so it is safe for
// concurrent use.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
	"unicode/utf8"

	"voiceprint/internal/analysis"
	"voiceprint/internal/drift"
	"voiceprint/internal/fingerprint"
	"voiceprint/internal/textseg"
)

// Common errors
var (
	ErrInsufficientSamples = errors.New("not enough samples to build a profile")
	ErrSampleTooShort      = errors.New("sample below minimum word count")
	ErrSampleTooLong       = errors.New("sample exceeds maximum word count")
	ErrDegenerateText      = errors.New("sample text is degenerate")
	ErrEncoding            = errors.New("sample is not valid UTF-8")
)

// Default caps.
const (
	DefaultMaxSampleWords = 5000
	DefaultMaxTotalWords  = 100000

	// Samples whose type-token ratio falls below this are treated as
	// degenerate (a single word repeated, pasted filler).
	DegenerateRichnessCut = 0.05
)

// Config carries every engine tunable. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// MaxSampleWords rejects any single sample longer than this.
	MaxSampleWords int

	// MaxTotalWords bounds the combined size of a profile build.
	MaxTotalWords int

	// Workers bounds the analysis fan-out. Zero means GOMAXPROCS.
	Workers int

	Coefficients fingerprint.Coefficients
	Complexity   analysis.ComplexityWeights
	Drift        drift.Thresholds
}

// DefaultConfig returns the shipped tunables.
func DefaultConfig() Config {
	return Config{
		MaxSampleWords: DefaultMaxSampleWords,
		MaxTotalWords:  DefaultMaxTotalWords,
		Workers:        0,
		Coefficients:   fingerprint.DefaultCoefficients(),
		Complexity:     analysis.DefaultComplexityWeights,
		Drift:          drift.DefaultThresholds(),
	}
}

// Sample is one raw writing sample submitted for analysis.
type Sample struct {
	ID   string
	Text string
}

// Engine runs the analysis pipeline.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// New builds an Engine from cfg. A nil logger falls back to slog.Default.
func New(cfg Config, log *slog.Logger) *Engine {
	if cfg.MaxSampleWords <= 0 {
		cfg.MaxSampleWords = DefaultMaxSampleWords
	}
	if cfg.MaxTotalWords <= 0 {
		cfg.MaxTotalWords = DefaultMaxTotalWords
	}
	if cfg.Drift == (drift.Thresholds{}) {
		cfg.Drift = drift.DefaultThresholds()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{cfg: cfg, log: log.With("component", "engine")}
}

// AnalyzeSample validates and analyzes a single sample. Unlike BuildProfile,
// a degenerate sample is an error here: there is no aggregate to absorb a
// neutral substitute.
func (e *Engine) AnalyzeSample(sample Sample) (analysis.SampleMetrics, error) {
	doc, err := e.validate(sample)
	if err != nil {
		return analysis.SampleMetrics{}, err
	}
	m := analysis.Analyze(doc, e.cfg.Complexity)
	if m.Lexical.VocabularyRichness < DegenerateRichnessCut {
		return analysis.SampleMetrics{}, fmt.Errorf("sample %q: %w", sample.ID, ErrDegenerateText)
	}
	return m, nil
}

// BuildProfile runs AnalyzeAll over the samples and aggregates the joined
// results into a VoicePrint.
func (e *Engine) BuildProfile(ctx context.Context, userID string, samples []Sample, at time.Time) (*fingerprint.VoicePrint, error) {
	if len(samples) < fingerprint.MinSamples {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientSamples, len(samples), fingerprint.MinSamples)
	}

	metrics, substituted, err := e.AnalyzeAll(ctx, samples)
	if err != nil {
		return nil, err
	}

	vp, err := fingerprint.Aggregate(fingerprint.Input{
		UserID:      userID,
		Samples:     metrics,
		Substituted: substituted,
		AnalyzedAt:  at,
	}, e.cfg.Coefficients)
	if err != nil {
		return nil, err
	}

	e.log.Info("voice profile built",
		"user", userID,
		"profile", vp.ID,
		"samples", vp.SampleCount,
		"substituted", substituted,
		"confidence", vp.ConfidenceScore)
	return vp, nil
}

// AnalyzeAll validates every sample structurally, fails fast on the first
// violation, then fans per-sample analysis out across a bounded worker pool.
// Metrics come back in input order. The join is all-or-nothing: if ctx is
// cancelled before every sample finishes, no metrics are returned.
//
// Degenerate samples discovered during analysis do not abort the batch.
// Their lexical dimension is replaced with a neutral default; the returned
// count of substitutions is charged against profile confidence by the
// aggregator.
func (e *Engine) AnalyzeAll(ctx context.Context, samples []Sample) ([]analysis.SampleMetrics, int, error) {
	// Structural validation pass. Cheap, sequential, fail fast: no analysis
	// work starts until every sample has passed.
	docs := make([]*textseg.Document, len(samples))
	total := 0
	for i, s := range samples {
		doc, err := e.validate(s)
		if err != nil {
			return nil, 0, err
		}
		total += len(doc.Words)
		if total > e.cfg.MaxTotalWords {
			return nil, 0, fmt.Errorf("sample %q: combined input exceeds %d words: %w",
				s.ID, e.cfg.MaxTotalWords, ErrSampleTooLong)
		}
		docs[i] = doc
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	metrics := make([]analysis.SampleMetrics, len(docs))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				metrics[i] = analysis.Analyze(docs[i], e.cfg.Complexity)
			}
		}()
	}

feed:
	for i := range docs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	substituted := 0
	for i := range metrics {
		if metrics[i].Lexical.VocabularyRichness < DegenerateRichnessCut {
			e.log.Debug("substituting neutral lexical signature for degenerate sample",
				"sample", samples[i].ID,
				"richness", metrics[i].Lexical.VocabularyRichness)
			metrics[i].Lexical = neutralLexical()
			substituted++
		}
	}

	return metrics, substituted, nil
}

// DetectDrift analyzes a new sample and compares it against a stored
// profile. It returns the drift events alongside the sample's metrics so
// callers can persist both.
func (e *Engine) DetectDrift(sample Sample, vp *fingerprint.VoicePrint, at time.Time) ([]drift.Event, analysis.SampleMetrics, error) {
	if vp == nil {
		return nil, analysis.SampleMetrics{}, errors.New("no voice profile to compare against")
	}
	m, err := e.AnalyzeSample(sample)
	if err != nil {
		return nil, analysis.SampleMetrics{}, err
	}
	return drift.DetectWith(m, vp, at, e.cfg.Drift), m, nil
}

// validate runs the structural checks shared by every entry point:
// encoding, minimum content, and the per-sample word cap.
func (e *Engine) validate(sample Sample) (*textseg.Document, error) {
	if !utf8.ValidString(sample.Text) {
		return nil, fmt.Errorf("sample %q: %w", sample.ID, ErrEncoding)
	}
	doc, err := textseg.Segment(sample.Text)
	if err != nil {
		if errors.Is(err, textseg.ErrInsufficientContent) {
			return nil, fmt.Errorf("sample %q: %w", sample.ID, ErrSampleTooShort)
		}
		return nil, fmt.Errorf("sample %q: %w", sample.ID, err)
	}
	if n := len(doc.Words); n > e.cfg.MaxSampleWords {
		return nil, fmt.Errorf("sample %q: %d words, cap %d: %w",
			sample.ID, n, e.cfg.MaxSampleWords, ErrSampleTooLong)
	}
	return doc, nil
}

// neutralLexical is the documented stand-in for a sample whose lexical
// dimension could not be measured.
func neutralLexical() analysis.LexicalSignature {
	return analysis.LexicalSignature{
		VocabularyRichness: 0.5,
		AvgWordLength:      4.7,
	}
}
