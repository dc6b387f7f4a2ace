// Package store persists samples, voice profile versions, and drift events
// in SQLite. Profile versions and drift events are append-only: a rebuild
// adds a new version and marks the previous one stale, it never rewrites
// history.
package store

import (
	"errors"
	"time"

	"voiceprint/internal/analysis"
)

// Common errors
var (
	ErrDuplicateSample = errors.New("sample already stored for this user")
)

// SampleRecord is one stored writing sample with its computed metrics.
type SampleRecord struct {
	ID          int64
	UserID      string
	SampleID    string
	ContentHash []byte
	WordCount   int
	Metrics     analysis.SampleMetrics
	AddedAt     time.Time
}

// ProfileRecord summarizes one stored voice profile version.
type ProfileRecord struct {
	ProfileID   string
	UserID      string
	Version     int
	Status      string
	SampleCount int
	Confidence  float64
	Consistency float64
	AnalyzedAt  time.Time
	CreatedAt   time.Time
}
