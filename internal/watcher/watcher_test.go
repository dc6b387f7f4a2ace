package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHashFile(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	content := []byte("a writing sample for hashing")

	if err := os.WriteFile(testFile, content, 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	hash1, size1, err := HashFile(testFile)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}

	if size1 != int64(len(content)) {
		t.Errorf("expected size %d, got %d", len(content), size1)
	}

	// Hashing the same content again produces the same digest.
	hash2, _, err := HashFile(testFile)
	if err != nil {
		t.Fatalf("second HashFile failed: %v", err)
	}
	if hash1 != hash2 {
		t.Error("same file should produce same hash")
	}

	if err := os.WriteFile(testFile, []byte("different content"), 0600); err != nil {
		t.Fatalf("failed to modify test file: %v", err)
	}
	hash3, _, err := HashFile(testFile)
	if err != nil {
		t.Fatalf("third HashFile failed: %v", err)
	}
	if hash1 == hash3 {
		t.Error("different content should produce different hash")
	}
}

func TestHashFileNotFound(t *testing.T) {
	_, _, err := HashFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestAccepts(t *testing.T) {
	w, err := New(Options{
		IncludePatterns: []string{"*.txt", "*.md"},
		ExcludePatterns: []string{".*", "*~"},
	})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.fsWatcher.Close()

	tests := []struct {
		path string
		want bool
	}{
		{"/samples/essay.txt", true},
		{"/samples/notes.md", true},
		{"/samples/draft.docx", false},
		{"/samples/.hidden.txt", false},
		{"/samples/essay.txt~", false},
	}
	for _, tt := range tests {
		if got := w.accepts(tt.path); got != tt.want {
			t.Errorf("accepts(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestAcceptsEverythingWithoutIncludes(t *testing.T) {
	w, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer w.fsWatcher.Close()

	if !w.accepts("/samples/anything.xyz") {
		t.Error("empty include list should accept all files")
	}
}

func TestWatcherStartStop(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "initial.txt")
	if err := os.WriteFile(testFile, []byte("initial"), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	w, err := New(Options{Paths: []string{tmpDir}, Debounce: time.Second})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if w.TrackedFiles() != 1 {
		t.Errorf("expected 1 tracked file, got %d", w.TrackedFiles())
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("failed to stop watcher: %v", err)
	}
}

func TestWatcherEvents(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(Options{Paths: []string{tmpDir}, Debounce: 300 * time.Millisecond})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	testFile := filepath.Join(tmpDir, "sample.txt")
	if err := os.WriteFile(testFile, []byte("test content"), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Path != testFile {
			t.Errorf("expected path %s, got %s", testFile, event.Path)
		}
		if event.Size != 12 {
			t.Errorf("expected size 12, got %d", event.Size)
		}
	case <-time.After(3 * time.Second):
		t.Error("timeout waiting for event")
	}
}

func TestWatcherSkipsExcludedFiles(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(Options{
		Paths:           []string{tmpDir},
		IncludePatterns: []string{"*.txt"},
		Debounce:        200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(tmpDir, "ignore.bin"), []byte("binary"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("unexpected event for excluded file: %+v", event)
	case <-time.After(time.Second):
	}
}

func TestWatcherDebounce(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(Options{Paths: []string{tmpDir}, Debounce: 2 * time.Second})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	testFile := filepath.Join(tmpDir, "debounce.txt")

	// Write multiple times quickly.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(testFile, []byte("v"+string(rune('0'+i))), 0600); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	eventCount := 0
	timeout := time.After(5 * time.Second)

	for {
		select {
		case <-w.Events():
			eventCount++
			if eventCount > 1 {
				t.Error("expected only one event due to debouncing")
				return
			}
		case <-timeout:
			if eventCount != 1 {
				t.Errorf("expected 1 event, got %d", eventCount)
			}
			return
		}
	}
}
