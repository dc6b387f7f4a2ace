//go:build integration

package integration

import (
	"errors"
	"testing"
	"time"

	"voiceprint/internal/engine"
	"voiceprint/internal/store"
	"voiceprint/internal/watcher"
)

// TestWatchIngestion runs the file watcher against a sample directory and
// feeds its events through the analyze-and-store path, the same flow the
// watch command uses.
func TestWatchIngestion(t *testing.T) {
	env := NewTestEnv(t)

	w, err := watcher.New(watcher.Options{
		Paths:           []string{env.TempDir},
		IncludePatterns: []string{"*.txt"},
		Debounce:        200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("create watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Stop()

	env.WriteSample("morning.txt", sampleMorning)

	var ev watcher.Event
	select {
	case ev = <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for watcher event")
	}

	metrics, err := env.Engine.AnalyzeSample(engine.Sample{ID: "morning.txt", Text: sampleMorning})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := env.Store.SaveSample(env.UserID, "morning.txt", ev.Hash[:], metrics, ev.Timestamp); err != nil {
		t.Fatalf("store: %v", err)
	}

	records, err := env.Store.SamplesForUser(env.UserID)
	if err != nil {
		t.Fatalf("SamplesForUser: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("stored %d samples, want 1", len(records))
	}

	// Re-saving the same content hash is rejected, which is what keeps a
	// re-emitted watch event from double counting a sample.
	if _, err := env.Store.SaveSample(env.UserID, "morning-copy.txt", ev.Hash[:], metrics, ev.Timestamp); !errors.Is(err, store.ErrDuplicateSample) {
		t.Errorf("duplicate save error = %v, want ErrDuplicateSample", err)
	}
}
