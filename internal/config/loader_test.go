package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoaderHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfigFile(t, path, `
[engine]
max_sample_words = 4000
`)

	l := NewLoader(path)
	defer l.Close()

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Engine.MaxSampleWords)

	var reloaded atomic.Int32
	var gotWords atomic.Int32
	l.OnChange(func(c *Config) {
		gotWords.Store(int32(c.Engine.MaxSampleWords))
		reloaded.Add(1)
	})

	require.NoError(t, l.Watch())

	writeConfigFile(t, path, `
[engine]
max_sample_words = 6000
`)

	require.Eventually(t, func() bool {
		return reloaded.Load() > 0
	}, 3*time.Second, 50*time.Millisecond, "config change never observed")

	assert.Equal(t, int32(6000), gotWords.Load())
	assert.Equal(t, 6000, l.Config().Engine.MaxSampleWords)
}

func TestLoaderKeepsOldConfigOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfigFile(t, path, `
[engine]
max_sample_words = 4000
`)

	l := NewLoader(path)
	defer l.Close()

	_, err := l.Load()
	require.NoError(t, err)
	require.NoError(t, l.Watch())

	// A config that fails validation is reported and never applied.
	writeConfigFile(t, path, `
[engine]
max_sample_words = -1
`)

	select {
	case err := <-l.Errors():
		assert.ErrorContains(t, err, "max_sample_words")
	case <-time.After(3 * time.Second):
		t.Fatal("no error reported for invalid reload")
	}

	assert.Equal(t, 4000, l.Config().Engine.MaxSampleWords)
}

func TestLoaderIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeConfigFile(t, path, `
[engine]
max_sample_words = 4000
`)

	l := NewLoader(path)
	defer l.Close()

	_, err := l.Load()
	require.NoError(t, err)

	var reloaded atomic.Int32
	l.OnChange(func(*Config) { reloaded.Add(1) })
	require.NoError(t, l.Watch())

	writeConfigFile(t, filepath.Join(dir, "notes.txt"), "not a config")

	time.Sleep(500 * time.Millisecond)
	assert.Zero(t, reloaded.Load(), "sibling file write triggered a reload")
}
