//go:build integration

// Package integration provides end-to-end integration tests for voiceprint.
//
// These tests verify the complete flow from sample ingestion through
// profile aggregation, persistence, and drift detection.
//
// Run with: go test -tags=integration ./tests/integration/...
package integration

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/blake2b"

	"voiceprint/internal/analysis"
	"voiceprint/internal/config"
	"voiceprint/internal/engine"
	"voiceprint/internal/fingerprint"
	"voiceprint/internal/store"
)

// TestEnv holds the components wired together for integration testing.
type TestEnv struct {
	T       *testing.T
	TempDir string
	Cfg     *config.Config
	Store   *store.Store
	Engine  *engine.Engine
	UserID  string
}

func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(tmpDir, "voiceprint.db")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	s, err := store.OpenWith(cfg.Storage.Path, cfg.Storage.MaxConnections, cfg.Storage.BusyTimeoutMs)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &TestEnv{
		T:       t,
		TempDir: tmpDir,
		Cfg:     cfg,
		Store:   s,
		Engine:  engine.New(cfg.EngineSettings(), log),
		UserID:  "writer-1",
	}
}

// WriteSample writes a sample file into the environment's temp directory.
func (env *TestEnv) WriteSample(name, text string) string {
	env.T.Helper()
	path := filepath.Join(env.TempDir, name)
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		env.T.Fatalf("write sample %s: %v", name, err)
	}
	return path
}

// IngestSample analyzes a sample text and persists it for the test user.
func (env *TestEnv) IngestSample(id, text string, at time.Time) analysis.SampleMetrics {
	env.T.Helper()

	metrics, err := env.Engine.AnalyzeSample(engine.Sample{ID: id, Text: text})
	if err != nil {
		env.T.Fatalf("analyze %s: %v", id, err)
	}

	hash := blake2b.Sum256([]byte(text))
	if _, err := env.Store.SaveSample(env.UserID, id, hash[:], metrics, at); err != nil {
		env.T.Fatalf("store %s: %v", id, err)
	}
	return metrics
}

// RebuildProfile aggregates all stored samples and persists a new version.
func (env *TestEnv) RebuildProfile(at time.Time) *fingerprint.VoicePrint {
	env.T.Helper()

	records, err := env.Store.SamplesForUser(env.UserID)
	if err != nil {
		env.T.Fatalf("load samples: %v", err)
	}
	samples := make([]analysis.SampleMetrics, len(records))
	for i, r := range records {
		samples[i] = r.Metrics
	}

	vp, err := fingerprint.Aggregate(fingerprint.Input{
		UserID:     env.UserID,
		Samples:    samples,
		AnalyzedAt: at,
	}, env.Cfg.EngineSettings().Coefficients)
	if err != nil {
		env.T.Fatalf("aggregate: %v", err)
	}

	if _, err := env.Store.SaveVoicePrint(vp, at); err != nil {
		env.T.Fatalf("save profile: %v", err)
	}
	return vp
}

// Writing samples with a consistent casual voice, each long enough to
// clear the minimum word count.

const sampleMorning = `I started the garden journal because I kept forgetting
what worked. Last spring the tomatoes came up weak, and I couldn't remember
whether I'd watered too much or too little. Now I jot a few lines every
morning with coffee. It's a small habit, but it's already saved me from
repeating two mistakes I would have happily made again this year.`

const sampleMarket = `The farmers market on Fifth is smaller than it used to
be, but the people who stayed are the good ones. I talked with the honey
vendor for twenty minutes about hive losses, and he didn't sugarcoat any of
it. It's hard work and thin margins. Still, I left with two jars and a
standing invitation to see the hives in June.`

const sampleRain = `It rained for three days straight, and the back fence
finally gave up. I spent Saturday digging out the old posts, which were more
rot than wood at this point. My neighbor lent me a post digger and an extra
pair of hands. We didn't finish, but we got far enough that the rest is just
patience and concrete. I'll take that trade.`

const sampleLibrary = `The library added evening hours on Thursdays, which
changes everything for me. I can drop the kids at practice, get a quiet
ninety minutes with the local history shelf, and still make pickup. This
week I found a bound set of town records from the forties. Somebody's
handwriting in the margins told a better story than the records themselves.`

const sampleWinter = `Winter projects are the honest ones. There's no
weather to blame and no season to wait for, just the workbench and whatever
I said I'd fix in October. This year it's the kitchen chairs, all four of
them wobbling in different directions. I glued and clamped two already.
They're drying in the hall, and the house smells like wood glue and
progress.`
