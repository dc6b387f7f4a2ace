//go:build integration

package integration

import (
	"testing"
	"time"

	"voiceprint/internal/drift"
	"voiceprint/internal/engine"
	"voiceprint/internal/fingerprint"
	"voiceprint/internal/traits"
)

// TestProfilePipeline exercises the full lifecycle: ingest samples,
// aggregate a profile, fold in another sample as a new version, and run
// drift detection against the active profile.
func TestProfilePipeline(t *testing.T) {
	env := NewTestEnv(t)
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var profileV1 *fingerprint.VoicePrint

	t.Run("ingest_and_build", func(t *testing.T) {
		env.IngestSample("morning.txt", sampleMorning, t0)
		env.IngestSample("market.txt", sampleMarket, t0.Add(time.Hour))
		env.IngestSample("rain.txt", sampleRain, t0.Add(2*time.Hour))
		env.IngestSample("library.txt", sampleLibrary, t0.Add(3*time.Hour))

		profileV1 = env.RebuildProfile(t0.Add(3 * time.Hour))

		if profileV1.Version != 1 {
			t.Fatalf("first profile version = %d, want 1", profileV1.Version)
		}
		if profileV1.SampleCount != 4 {
			t.Errorf("SampleCount = %d, want 4", profileV1.SampleCount)
		}
		if profileV1.ConfidenceScore <= 0 || profileV1.ConfidenceScore > 0.95 {
			t.Errorf("ConfidenceScore = %v, want within (0, 0.95]", profileV1.ConfidenceScore)
		}
		if len(profileV1.Thresholds) != len(fingerprint.TrackedMetrics) {
			t.Errorf("got %d threshold bands, want %d",
				len(profileV1.Thresholds), len(fingerprint.TrackedMetrics))
		}
	})

	t.Run("rebuild_is_new_version", func(t *testing.T) {
		env.IngestSample("winter.txt", sampleWinter, t0.Add(24*time.Hour))
		profileV2 := env.RebuildProfile(t0.Add(24 * time.Hour))

		if profileV2.Version != 2 {
			t.Fatalf("second profile version = %d, want 2", profileV2.Version)
		}
		if profileV2.SampleCount != 5 {
			t.Errorf("SampleCount = %d, want 5", profileV2.SampleCount)
		}

		active, err := env.Store.ActiveVoicePrint(env.UserID)
		if err != nil {
			t.Fatalf("ActiveVoicePrint: %v", err)
		}
		if active == nil || active.Version != 2 {
			t.Fatalf("active = %+v, want version 2", active)
		}

		history, err := env.Store.ProfileHistory(env.UserID)
		if err != nil {
			t.Fatalf("ProfileHistory: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("history length = %d, want 2", len(history))
		}
		if history[1].Status != string(fingerprint.StatusStale) {
			t.Errorf("previous version status = %q, want stale", history[1].Status)
		}
	})

	t.Run("drift_on_consistent_sample", func(t *testing.T) {
		active, err := env.Store.ActiveVoicePrint(env.UserID)
		if err != nil || active == nil {
			t.Fatalf("ActiveVoicePrint: %v (%v)", active, err)
		}

		// Another sample in the same voice should pass cleanly.
		events, metrics, err := env.Engine.DetectDrift(
			engine.Sample{ID: "check.txt", Text: sampleMorning}, active, t0.Add(48*time.Hour))
		if err != nil {
			t.Fatalf("DetectDrift: %v", err)
		}
		if metrics.WordCount == 0 {
			t.Error("drift check returned empty metrics")
		}
		for _, ev := range events {
			if ev.Severity == drift.SeverityMajor {
				t.Errorf("unexpected major drift on a source sample: %+v", ev)
			}
		}
	})

	t.Run("drift_events_persist", func(t *testing.T) {
		active, err := env.Store.ActiveVoicePrint(env.UserID)
		if err != nil || active == nil {
			t.Fatalf("ActiveVoicePrint: %v (%v)", active, err)
		}

		// Push one metric far outside its band to force a major event.
		records, err := env.Store.SamplesForUser(env.UserID)
		if err != nil {
			t.Fatalf("SamplesForUser: %v", err)
		}
		shifted := records[0].Metrics
		shifted.Syntactic.SentenceComplexity = active.Syntactic.SentenceComplexity * 1.6

		at := t0.Add(72 * time.Hour)
		events := drift.DetectWith(shifted, active, at, env.Cfg.EngineSettings().Drift)
		if len(events) == 0 {
			t.Fatal("expected at least one drift event for a 60% complexity shift")
		}

		var complexityEvent *drift.Event
		for i := range events {
			if events[i].Metric == "sentence_complexity" {
				complexityEvent = &events[i]
			}
		}
		if complexityEvent == nil {
			t.Fatalf("no sentence_complexity event in %+v", events)
		}
		if complexityEvent.Severity != drift.SeverityMajor {
			t.Errorf("Severity = %q, want major", complexityEvent.Severity)
		}

		if err := env.Store.AppendDriftEvents(env.UserID, active.ID, events); err != nil {
			t.Fatalf("AppendDriftEvents: %v", err)
		}
		stored, err := env.Store.DriftHistory(env.UserID, time.Time{})
		if err != nil {
			t.Fatalf("DriftHistory: %v", err)
		}
		if len(stored) != len(events) {
			t.Errorf("stored %d events, want %d", len(stored), len(events))
		}
	})

	t.Run("report_renders", func(t *testing.T) {
		active, err := env.Store.ActiveVoicePrint(env.UserID)
		if err != nil || active == nil {
			t.Fatalf("ActiveVoicePrint: %v (%v)", active, err)
		}
		summary := traits.Summary(active)
		if summary == "" {
			t.Error("empty summary for active profile")
		}
	})
}

// TestProfileDeterminism rebuilds from the same stored samples twice and
// expects identical profile identity and scores.
func TestProfileDeterminism(t *testing.T) {
	env := NewTestEnv(t)
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	env.IngestSample("a.txt", sampleMorning, t0)
	env.IngestSample("b.txt", sampleMarket, t0)
	env.IngestSample("c.txt", sampleRain, t0)

	first := env.RebuildProfile(t0)
	second := env.RebuildProfile(t0)

	if first.ID != second.ID {
		t.Errorf("profile IDs differ: %s vs %s", first.ID, second.ID)
	}
	if first.ConfidenceScore != second.ConfidenceScore {
		t.Errorf("confidence differs: %v vs %v", first.ConfidenceScore, second.ConfidenceScore)
	}
	if second.Version != first.Version+1 {
		t.Errorf("versions = %d then %d, want consecutive", first.Version, second.Version)
	}
}
