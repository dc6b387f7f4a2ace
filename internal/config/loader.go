// Package config handles configuration loading and validation for voiceprint.
package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading, watching, and hot-reloading.
type Loader struct {
	path     string
	config   *Config
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	onChange []func(*Config)
	ctx      context.Context
	cancel   context.CancelFunc
	errChan  chan error
}

// NewLoader creates a new configuration loader.
func NewLoader(path string) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		path:    path,
		errChan: make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Load reads and parses the configuration file.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg, err := Load(l.path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	l.config = cfg
	return cfg, nil
}

// Config returns the current configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Watch starts watching the configuration file for changes. When changes
// are detected, the configuration is reloaded and registered callbacks are
// invoked.
func (l *Loader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	l.watcher = watcher

	// Watch the directory containing the config file; editors often replace
	// the file instead of writing it in place.
	dir := filepath.Dir(l.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go l.watchLoop()

	return nil
}

func (l *Loader) watchLoop() {
	var debounceTimer *time.Timer
	debounceDelay := 100 * time.Millisecond

	for {
		select {
		case <-l.ctx.Done():
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(l.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				l.reload()
			})

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			select {
			case l.errChan <- err:
			default:
			}
		}
	}
}

// reload attempts to reload the configuration. A config that fails to parse
// or validate is reported on the error channel and the previous config
// stays in effect.
func (l *Loader) reload() {
	newCfg, err := Load(l.path)
	if err != nil {
		select {
		case l.errChan <- fmt.Errorf("reload config: %w", err):
		default:
		}
		return
	}

	if err := newCfg.Validate(); err != nil {
		select {
		case l.errChan <- fmt.Errorf("validate new config: %w", err):
		default:
		}
		return
	}

	l.mu.Lock()
	l.config = newCfg
	l.mu.Unlock()

	for _, cb := range l.onChange {
		cb(newCfg)
	}
}

// OnChange registers a callback invoked when the configuration changes.
func (l *Loader) OnChange(cb func(*Config)) {
	l.onChange = append(l.onChange, cb)
}

// Errors returns a channel for receiving errors that occur during watching.
func (l *Loader) Errors() <-chan error {
	return l.errChan
}

// Close stops the watcher and releases resources.
func (l *Loader) Close() error {
	l.cancel()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}

// LoadOrCreate loads the configuration file, writing the defaults to disk
// first if no file exists. The second return value reports whether a new
// file was created.
func LoadOrCreate(path string) (*Config, bool, error) {
	if path == "" {
		path = ConfigPath()
	}

	created := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, false, fmt.Errorf("create config directory: %w", err)
		}
		data, err := DefaultConfig().EncodeTOML()
		if err != nil {
			return nil, false, err
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return nil, false, fmt.Errorf("write default config: %w", err)
		}
		created = true
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, created, err
	}
	return cfg, created, nil
}

// EncodeTOML serializes the configuration as TOML.
func (c *Config) EncodeTOML() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeYAML serializes the configuration as YAML, for export and
// inspection tooling.
func (c *Config) EncodeYAML() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return data, nil
}

func decodeJSON(data []byte, cfg *Config) error {
	return json.Unmarshal(data, cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	return yaml.Unmarshal(data, cfg)
}
