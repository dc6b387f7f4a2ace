// Package config handles configuration loading, validation, and management
// for voiceprint.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"voiceprint/internal/analysis"
	"voiceprint/internal/drift"
	"voiceprint/internal/engine"
	"voiceprint/internal/fingerprint"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete voiceprint configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Engine configuration: caps, concurrency, and scoring coefficients.
	Engine EngineConfig `toml:"engine" json:"engine" yaml:"engine"`

	// Drift configuration for severity cutoffs.
	Drift DriftConfig `toml:"drift" json:"drift" yaml:"drift"`

	// Storage configuration for persistence.
	Storage StorageConfig `toml:"storage" json:"storage" yaml:"storage"`

	// Watch configuration for sample-directory monitoring.
	Watch WatchConfig `toml:"watch" json:"watch" yaml:"watch"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// mu protects concurrent access to the config.
	mu sync.RWMutex `toml:"-" json:"-" yaml:"-"`
}

// EngineConfig holds analysis-pipeline configuration.
type EngineConfig struct {
	// MaxSampleWords rejects any single sample longer than this.
	MaxSampleWords int `toml:"max_sample_words" json:"max_sample_words" yaml:"max_sample_words"`

	// MaxTotalWords bounds the combined size of a profile build.
	MaxTotalWords int `toml:"max_total_words" json:"max_total_words" yaml:"max_total_words"`

	// Workers bounds the analysis fan-out. Zero means one worker per CPU.
	Workers int `toml:"workers" json:"workers" yaml:"workers"`

	// Scoring holds the aggregation coefficients.
	Scoring ScoringConfig `toml:"scoring" json:"scoring" yaml:"scoring"`

	// Complexity holds the sentence-complexity weights.
	Complexity ComplexityConfig `toml:"complexity" json:"complexity" yaml:"complexity"`
}

// ScoringConfig mirrors fingerprint.Coefficients as named TOML fields.
type ScoringConfig struct {
	// Confidence ceilings by sample count.
	CeilingAt3 float64 `toml:"ceiling_at_3" json:"ceiling_at_3" yaml:"ceiling_at_3"`
	CeilingAt5 float64 `toml:"ceiling_at_5" json:"ceiling_at_5" yaml:"ceiling_at_5"`
	CeilingAt7 float64 `toml:"ceiling_at_7" json:"ceiling_at_7" yaml:"ceiling_at_7"`

	// ConfidenceBase is the consistency-independent share of confidence.
	ConfidenceBase float64 `toml:"confidence_base" json:"confidence_base" yaml:"confidence_base"`

	// SubstitutionPenalty is subtracted once per neutral-substituted sample.
	SubstitutionPenalty float64 `toml:"substitution_penalty" json:"substitution_penalty" yaml:"substitution_penalty"`

	// MinConfidence is the floor after penalties.
	MinConfidence float64 `toml:"min_confidence" json:"min_confidence" yaml:"min_confidence"`

	// Threshold-band half-width fractions at zero and full confidence.
	BandWidthMax float64 `toml:"band_width_max" json:"band_width_max" yaml:"band_width_max"`
	BandWidthMin float64 `toml:"band_width_min" json:"band_width_min" yaml:"band_width_min"`

	// BandFloor keeps zero-valued metrics inside a usable band.
	BandFloor float64 `toml:"band_floor" json:"band_floor" yaml:"band_floor"`
}

// ComplexityConfig holds the subordinate-structure weights applied when
// scoring sentence complexity.
type ComplexityConfig struct {
	CommaBonus  float64 `toml:"comma_bonus" json:"comma_bonus" yaml:"comma_bonus"`
	MarkerBonus float64 `toml:"marker_bonus" json:"marker_bonus" yaml:"marker_bonus"`
}

// DriftConfig holds the drift severity cutoffs, in percent relative change.
type DriftConfig struct {
	ModeratePercent float64 `toml:"moderate_percent" json:"moderate_percent" yaml:"moderate_percent"`
	MajorPercent    float64 `toml:"major_percent" json:"major_percent" yaml:"major_percent"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	// Path is the path to the SQLite database file.
	Path string `toml:"path" json:"path" yaml:"path"`

	// MaxConnections is the maximum number of database connections.
	MaxConnections int `toml:"max_connections" json:"max_connections" yaml:"max_connections"`

	// BusyTimeoutMs is the SQLite busy timeout in milliseconds.
	BusyTimeoutMs int `toml:"busy_timeout_ms" json:"busy_timeout_ms" yaml:"busy_timeout_ms"`
}

// WatchConfig holds sample-directory watching configuration.
type WatchConfig struct {
	// Paths is a list of directories to monitor for new samples.
	Paths []string `toml:"paths" json:"paths" yaml:"paths"`

	// IncludePatterns are glob patterns for files to include.
	// If empty, all files are included.
	IncludePatterns []string `toml:"include_patterns" json:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns are glob patterns for files to exclude.
	ExcludePatterns []string `toml:"exclude_patterns" json:"exclude_patterns" yaml:"exclude_patterns"`

	// DebounceMs is the debounce interval in milliseconds. Files must be
	// stable for this duration before re-analysis.
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`

	// MaxFileSize is the maximum file size to process in bytes.
	MaxFileSize int64 `toml:"max_file_size" json:"max_file_size" yaml:"max_file_size"`

	// Recursive determines whether to watch subdirectories.
	Recursive bool `toml:"recursive" json:"recursive" yaml:"recursive"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log destination: "stderr", "stdout", or "file".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file path when Output is "file".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dir := VoiceprintDir()
	scoring := fingerprint.DefaultCoefficients()
	return &Config{
		Version: Version,
		Engine: EngineConfig{
			MaxSampleWords: engine.DefaultMaxSampleWords,
			MaxTotalWords:  engine.DefaultMaxTotalWords,
			Workers:        0,
			Scoring: ScoringConfig{
				CeilingAt3:          scoring.CeilingAt3,
				CeilingAt5:          scoring.CeilingAt5,
				CeilingAt7:          scoring.CeilingAt7,
				ConfidenceBase:      scoring.ConfidenceBase,
				SubstitutionPenalty: scoring.SubstitutionPenalty,
				MinConfidence:       scoring.MinConfidence,
				BandWidthMax:        scoring.BandWidthMax,
				BandWidthMin:        scoring.BandWidthMin,
				BandFloor:           scoring.BandFloor,
			},
			Complexity: ComplexityConfig{
				CommaBonus:  analysis.DefaultComplexityWeights.CommaBonus,
				MarkerBonus: analysis.DefaultComplexityWeights.MarkerBonus,
			},
		},
		Drift: DriftConfig{
			ModeratePercent: drift.ModerateChangePercent,
			MajorPercent:    drift.MajorChangePercent,
		},
		Storage: StorageConfig{
			Path:           filepath.Join(dir, "voiceprint.db"),
			MaxConnections: 5,
			BusyTimeoutMs:  5000,
		},
		Watch: WatchConfig{
			Paths:           []string{},
			IncludePatterns: []string{"*.txt", "*.md"},
			ExcludePatterns: []string{".*", "*~", "*.tmp"},
			DebounceMs:      500,
			MaxFileSize:     10 * 1024 * 1024,
			Recursive:       true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stderr",
			FilePath: filepath.Join(PlatformLogDir(), "voiceprint.log"),
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// Load reads configuration from the specified path. If the file doesn't
// exist, returns default configuration. Supports TOML, JSON, and YAML
// formats based on file extension.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := decodeJSON(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := decodeYAML(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode config (unknown format): %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates all directories the configuration points at.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Storage.Path),
	}
	if c.Logging.Output == "file" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// VoiceprintDir returns the base voiceprint data directory. Uses
// platform-specific paths or the VOICEPRINT_DATA_DIR environment override.
func VoiceprintDir() string {
	if envDir := os.Getenv("VOICEPRINT_DATA_DIR"); envDir != "" {
		return envDir
	}
	return PlatformDataDir()
}

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Variables are prefixed with VOICEPRINT_.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v := os.Getenv("VOICEPRINT_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("VOICEPRINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VOICEPRINT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("VOICEPRINT_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
		c.Logging.Output = "file"
	}
}

// EngineSettings converts the configured values into the engine's own
// config type.
func (c *Config) EngineSettings() engine.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return engine.Config{
		MaxSampleWords: c.Engine.MaxSampleWords,
		MaxTotalWords:  c.Engine.MaxTotalWords,
		Workers:        c.Engine.Workers,
		Coefficients: fingerprint.Coefficients{
			CeilingAt3:          c.Engine.Scoring.CeilingAt3,
			CeilingAt5:          c.Engine.Scoring.CeilingAt5,
			CeilingAt7:          c.Engine.Scoring.CeilingAt7,
			ConfidenceBase:      c.Engine.Scoring.ConfidenceBase,
			SubstitutionPenalty: c.Engine.Scoring.SubstitutionPenalty,
			MinConfidence:       c.Engine.Scoring.MinConfidence,
			BandWidthMax:        c.Engine.Scoring.BandWidthMax,
			BandWidthMin:        c.Engine.Scoring.BandWidthMin,
			BandFloor:           c.Engine.Scoring.BandFloor,
		},
		Complexity: analysis.ComplexityWeights{
			CommaBonus:  c.Engine.Complexity.CommaBonus,
			MarkerBonus: c.Engine.Complexity.MarkerBonus,
		},
		Drift: drift.Thresholds{
			ModeratePercent: c.Drift.ModeratePercent,
			MajorPercent:    c.Drift.MajorPercent,
		},
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := Config{
		Version: c.Version,
		Engine:  c.Engine,
		Drift:   c.Drift,
		Storage: c.Storage,
		Watch:   c.Watch,
		Logging: c.Logging,
	}
	clone.Watch.Paths = append([]string{}, c.Watch.Paths...)
	clone.Watch.IncludePatterns = append([]string{}, c.Watch.IncludePatterns...)
	clone.Watch.ExcludePatterns = append([]string{}, c.Watch.ExcludePatterns...)
	return &clone
}
