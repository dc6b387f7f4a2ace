// Package watcher monitors sample directories for new or changed writing
// samples and emits events once a file has been stable for the debounce
// interval.
package watcher

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/crypto/blake2b"
)

// Event represents a sample file that is stable and ready for analysis.
type Event struct {
	Path      string
	Hash      [32]byte
	Size      int64
	Timestamp time.Time
}

// Options configures a Watcher.
type Options struct {
	// Paths are the directories (or single files) to monitor.
	Paths []string

	// IncludePatterns are glob patterns matched against base names. Empty
	// means everything is included.
	IncludePatterns []string

	// ExcludePatterns are glob patterns matched against base names.
	ExcludePatterns []string

	// Debounce is how long a file must stay unchanged before an event is
	// emitted.
	Debounce time.Duration

	// MaxFileSize skips files larger than this, in bytes. Zero means no
	// limit.
	MaxFileSize int64
}

// Watcher monitors sample files and directories for changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	opts      Options

	// State tracking: path -> last modification time
	state   map[string]time.Time
	stateMu sync.RWMutex

	events chan Event
	errors chan error

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a new sample watcher.
func New(opts Options) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		opts:      opts,
		state:     make(map[string]time.Time),
		events:    make(chan Event, 100),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}

	return w, nil
}

// Events returns the channel of stable-sample events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start begins watching all configured paths.
func (w *Watcher) Start() error {
	for _, path := range w.opts.Paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if err := w.fsWatcher.Add(absPath); err != nil {
				return err
			}

			// Pick up samples that were already there.
			entries, err := os.ReadDir(absPath)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if !entry.IsDir() {
					filePath := filepath.Join(absPath, entry.Name())
					if w.accepts(filePath) {
						w.trackFile(filePath)
					}
				}
			}
		} else {
			dir := filepath.Dir(absPath)
			if err := w.fsWatcher.Add(dir); err != nil {
				return err
			}
			w.trackFile(absPath)
		}
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()

	return nil
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsWatcher.Close()
}

// accepts applies the include and exclude patterns to a path.
func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)

	for _, pattern := range w.opts.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return false
		}
	}

	if len(w.opts.IncludePatterns) == 0 {
		return true
	}
	for _, pattern := range w.opts.IncludePatterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// trackFile adds a file to state tracking.
func (w *Watcher) trackFile(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if w.opts.MaxFileSize > 0 && info.Size() > w.opts.MaxFileSize {
		return
	}

	w.stateMu.Lock()
	w.state[path] = info.ModTime()
	w.stateMu.Unlock()
}

// eventLoop handles fsnotify events.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.accepts(event.Name) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}
			if w.opts.MaxFileSize > 0 && info.Size() > w.opts.MaxFileSize {
				continue
			}

			w.stateMu.Lock()
			w.state[event.Name] = time.Now()
			w.stateMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// debounceLoop checks for stable files and emits events.
func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	tick := w.opts.Debounce / 2
	if tick < 50*time.Millisecond {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case now := <-ticker.C:
			w.checkStableFiles(now)
		}
	}
}

// stableFile represents a file ready for hashing.
type stableFile struct {
	path    string
	lastMod time.Time
}

// checkStableFiles finds files that haven't changed for the debounce
// interval. The lock is released during file I/O so eventLoop is never
// blocked on hashing.
func (w *Watcher) checkStableFiles(now time.Time) {
	threshold := now.Add(-w.opts.Debounce)

	var stableFiles []stableFile
	w.stateMu.RLock()
	for path, lastMod := range w.state {
		if lastMod.Before(threshold) {
			stableFiles = append(stableFiles, stableFile{path: path, lastMod: lastMod})
		}
	}
	w.stateMu.RUnlock()

	if len(stableFiles) == 0 {
		return
	}

	type hashResult struct {
		path    string
		lastMod time.Time
		hash    [32]byte
		size    int64
		err     error
	}
	results := make([]hashResult, len(stableFiles))

	for i, sf := range stableFiles {
		hash, size, err := HashFile(sf.path)
		results[i] = hashResult{
			path:    sf.path,
			lastMod: sf.lastMod,
			hash:    hash,
			size:    size,
			err:     err,
		}
	}

	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	for _, r := range results {
		if r.err != nil {
			select {
			case w.errors <- r.err:
			default:
			}
			continue
		}

		currentLastMod, exists := w.state[r.path]
		if !exists {
			continue
		}
		if currentLastMod != r.lastMod {
			// Modified during hashing, let it stabilize again.
			continue
		}

		event := Event{
			Path:      r.path,
			Hash:      r.hash,
			Size:      r.size,
			Timestamp: now,
		}

		select {
		case w.events <- event:
			// Remove from state to prevent re-analysis until the next
			// modification.
			delete(w.state, r.path)
		default:
			// Event channel full, try again later.
		}
	}
}

// HashFile computes the BLAKE2b-256 hash of a file using streaming, so
// large samples never load fully into memory.
func HashFile(path string) ([32]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, 0, err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, 0, err
	}
	size, err := io.Copy(h, f)
	if err != nil {
		return [32]byte{}, 0, err
	}

	var hash [32]byte
	copy(hash[:], h.Sum(nil))
	return hash, size, nil
}

// WatchedPaths returns the list of paths being watched.
func (w *Watcher) WatchedPaths() []string {
	return w.opts.Paths
}

// TrackedFiles returns the current number of tracked files.
func (w *Watcher) TrackedFiles() int {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return len(w.state)
}
