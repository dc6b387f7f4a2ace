// Package config handles configuration loading and validation for voiceprint.
package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateEngine(&c.Engine)...)
	errs = append(errs, validateDrift(&c.Drift)...)
	errs = append(errs, validateStorage(&c.Storage)...)
	errs = append(errs, validateWatch(&c.Watch)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateEngine(e *EngineConfig) ValidationErrors {
	var errs ValidationErrors

	if e.MaxSampleWords <= 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.max_sample_words",
			Message: "must be positive",
		})
	}
	if e.MaxTotalWords < e.MaxSampleWords {
		errs = append(errs, ValidationError{
			Field:   "engine.max_total_words",
			Message: "must be at least max_sample_words",
		})
	}
	if e.Workers < 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.workers",
			Message: "cannot be negative",
		})
	}

	s := &e.Scoring
	ceilings := []struct {
		field string
		value float64
	}{
		{"engine.scoring.ceiling_at_3", s.CeilingAt3},
		{"engine.scoring.ceiling_at_5", s.CeilingAt5},
		{"engine.scoring.ceiling_at_7", s.CeilingAt7},
	}
	for _, c := range ceilings {
		if c.value <= 0 || c.value > 1 {
			errs = append(errs, ValidationError{
				Field:   c.field,
				Message: "must be in (0, 1]",
			})
		}
	}
	if s.CeilingAt3 > s.CeilingAt5 || s.CeilingAt5 > s.CeilingAt7 {
		errs = append(errs, ValidationError{
			Field:   "engine.scoring",
			Message: "ceilings must not decrease with sample count",
		})
	}
	if s.CeilingAt3 >= 1 {
		errs = append(errs, ValidationError{
			Field:   "engine.scoring.ceiling_at_3",
			Message: "must stay below 1.0 so few samples cannot buy full confidence",
		})
	}
	if s.ConfidenceBase < 0 || s.ConfidenceBase >= 1 {
		errs = append(errs, ValidationError{
			Field:   "engine.scoring.confidence_base",
			Message: "must be in [0, 1)",
		})
	}
	if s.SubstitutionPenalty < 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.scoring.substitution_penalty",
			Message: "cannot be negative",
		})
	}
	if s.MinConfidence < 0 || s.MinConfidence > s.CeilingAt3 {
		errs = append(errs, ValidationError{
			Field:   "engine.scoring.min_confidence",
			Message: "must be in [0, ceiling_at_3]",
		})
	}
	if s.BandWidthMin <= 0 || s.BandWidthMax < s.BandWidthMin {
		errs = append(errs, ValidationError{
			Field:   "engine.scoring.band_width",
			Message: "band_width_max must be >= band_width_min > 0",
		})
	}
	if s.BandFloor < 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.scoring.band_floor",
			Message: "cannot be negative",
		})
	}

	if e.Complexity.CommaBonus < 0 || e.Complexity.MarkerBonus < 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.complexity",
			Message: "bonuses cannot be negative",
		})
	}

	return errs
}

func validateDrift(d *DriftConfig) ValidationErrors {
	var errs ValidationErrors

	if d.ModeratePercent <= 0 {
		errs = append(errs, ValidationError{
			Field:   "drift.moderate_percent",
			Message: "must be positive",
		})
	}
	if d.MajorPercent <= d.ModeratePercent {
		errs = append(errs, ValidationError{
			Field:   "drift.major_percent",
			Message: "must be greater than moderate_percent",
		})
	}
	return errs
}

func validateStorage(s *StorageConfig) ValidationErrors {
	var errs ValidationErrors

	if s.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.path",
			Message: "path cannot be empty",
		})
	}
	if s.MaxConnections < 1 {
		errs = append(errs, ValidationError{
			Field:   "storage.max_connections",
			Message: "must be at least 1",
		})
	}
	if s.BusyTimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.busy_timeout_ms",
			Message: "cannot be negative",
		})
	}
	return errs
}

func validateWatch(w *WatchConfig) ValidationErrors {
	var errs ValidationErrors

	for i, path := range w.Paths {
		if path == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("watch.paths[%d]", i),
				Message: "path cannot be empty",
			})
		}
	}
	if w.DebounceMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: "cannot be negative",
		})
	}
	if w.MaxFileSize < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.max_file_size",
			Message: "cannot be negative",
		})
	}
	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q (debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q (text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stderr", "stdout":
	case "file":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: "required when output is \"file\"",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("unknown output %q (stderr, stdout, file)", l.Output),
		})
	}

	return errs
}
