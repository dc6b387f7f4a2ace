package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"voiceprint/internal/analysis"
	"voiceprint/internal/drift"
	"voiceprint/internal/fingerprint"
)

// Schema for the voiceprint store.
const schema = `
CREATE TABLE IF NOT EXISTS samples (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       TEXT NOT NULL,
    sample_id     TEXT NOT NULL,
    content_hash  BLOB NOT NULL,
    word_count    INTEGER NOT NULL,
    metrics       TEXT NOT NULL,
    added_at      INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_samples_user_hash ON samples(user_id, content_hash);
CREATE INDEX IF NOT EXISTS idx_samples_user ON samples(user_id, added_at);

CREATE TABLE IF NOT EXISTS voiceprints (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    profile_id    TEXT NOT NULL,
    user_id       TEXT NOT NULL,
    version       INTEGER NOT NULL,
    status        TEXT NOT NULL,
    sample_count  INTEGER NOT NULL,
    confidence    REAL NOT NULL,
    consistency   REAL NOT NULL,
    payload       TEXT NOT NULL,
    analyzed_at   INTEGER NOT NULL,
    created_at    INTEGER NOT NULL,
    UNIQUE(user_id, version)
);

CREATE INDEX IF NOT EXISTS idx_voiceprints_user ON voiceprints(user_id, version);

CREATE TABLE IF NOT EXISTS drift_events (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id        TEXT NOT NULL,
    profile_id     TEXT NOT NULL,
    metric         TEXT NOT NULL,
    dimension      TEXT NOT NULL,
    value          REAL NOT NULL,
    optimal        REAL NOT NULL,
    change_percent REAL NOT NULL,
    severity       TEXT NOT NULL,
    description    TEXT NOT NULL,
    detected_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_drift_user ON drift_events(user_id, detected_at);
`

// Store represents the SQLite voiceprint store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path with default
// connection settings.
func Open(path string) (*Store, error) {
	return OpenWith(path, 5, 5000)
}

// OpenWith opens or creates the SQLite database with explicit connection
// limits and busy timeout.
func OpenWith(path string, maxConns, busyTimeoutMs int) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d", path, busyTimeoutMs)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxConns)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSample stores one analyzed sample. The (user, content hash) pair is
// unique: resubmitting the same text returns ErrDuplicateSample.
func (s *Store) SaveSample(userID, sampleID string, contentHash []byte, m analysis.SampleMetrics, at time.Time) (int64, error) {
	metricsJSON, err := json.Marshal(m)
	if err != nil {
		return 0, fmt.Errorf("marshal metrics: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT OR IGNORE INTO samples (user_id, sample_id, content_hash, word_count, metrics, added_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, sampleID, contentHash, m.WordCount, string(metricsJSON), at.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert sample: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrDuplicateSample
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// SamplesForUser retrieves all stored samples for a user, oldest first.
func (s *Store) SamplesForUser(userID string) ([]SampleRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, sample_id, content_hash, word_count, metrics, added_at
		FROM samples
		WHERE user_id = ?
		ORDER BY added_at ASC, id ASC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var records []SampleRecord
	for rows.Next() {
		var r SampleRecord
		var metricsJSON string
		var addedNs int64
		if err := rows.Scan(&r.ID, &r.UserID, &r.SampleID, &r.ContentHash, &r.WordCount, &metricsJSON, &addedNs); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if err := json.Unmarshal([]byte(metricsJSON), &r.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
		r.AddedAt = time.Unix(0, addedNs)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return records, nil
}

// SaveVoicePrint appends a new profile version for the user and marks any
// previous active version stale. The aggregator hands over profiles in the
// computing state; the assigned version and active status are written back
// into vp before it is serialized.
func (s *Store) SaveVoicePrint(vp *fingerprint.VoicePrint, at time.Time) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxVersion int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(version), 0) FROM voiceprints WHERE user_id = ?`,
		vp.UserID,
	).Scan(&maxVersion)
	if err != nil {
		return 0, fmt.Errorf("query max version: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE voiceprints SET status = ? WHERE user_id = ? AND status = ?`,
		string(fingerprint.StatusStale), vp.UserID, string(fingerprint.StatusActive),
	); err != nil {
		return 0, fmt.Errorf("mark previous versions stale: %w", err)
	}

	version := maxVersion + 1
	vp.Version = version
	vp.Status = fingerprint.StatusActive

	payload, err := json.Marshal(vp)
	if err != nil {
		return 0, fmt.Errorf("marshal voiceprint: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO voiceprints (profile_id, user_id, version, status, sample_count, confidence, consistency, payload, analyzed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vp.ID, vp.UserID, version, string(vp.Status), vp.SampleCount,
		vp.ConfidenceScore, vp.ConsistencyScore, string(payload),
		vp.LastAnalyzed.UnixNano(), at.UnixNano(),
	); err != nil {
		return 0, fmt.Errorf("insert voiceprint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return version, nil
}

// ActiveVoicePrint retrieves the user's active profile, or nil if the user
// has no active profile.
func (s *Store) ActiveVoicePrint(userID string) (*fingerprint.VoicePrint, error) {
	return s.voicePrintWhere(`user_id = ? AND status = ? ORDER BY version DESC LIMIT 1`,
		userID, string(fingerprint.StatusActive))
}

// VoicePrintVersion retrieves a specific stored profile version, or nil if
// it does not exist.
func (s *Store) VoicePrintVersion(userID string, version int) (*fingerprint.VoicePrint, error) {
	return s.voicePrintWhere(`user_id = ? AND version = ?`, userID, version)
}

func (s *Store) voicePrintWhere(where string, args ...any) (*fingerprint.VoicePrint, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM voiceprints WHERE `+where, args...).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voiceprint: %w", err)
	}

	var vp fingerprint.VoicePrint
	if err := json.Unmarshal([]byte(payload), &vp); err != nil {
		return nil, fmt.Errorf("unmarshal voiceprint: %w", err)
	}
	return &vp, nil
}

// MarkStale marks the user's active profile stale without replacing it,
// for when accumulated drift invalidates the baseline.
func (s *Store) MarkStale(userID string) error {
	result, err := s.db.Exec(`
		UPDATE voiceprints SET status = ? WHERE user_id = ? AND status = ?`,
		string(fingerprint.StatusStale), userID, string(fingerprint.StatusActive),
	)
	if err != nil {
		return fmt.Errorf("mark stale: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no active profile for user %s", userID)
	}
	return nil
}

// ProfileHistory retrieves all stored profile versions for a user, newest
// first.
func (s *Store) ProfileHistory(userID string) ([]ProfileRecord, error) {
	rows, err := s.db.Query(`
		SELECT profile_id, user_id, version, status, sample_count, confidence, consistency, analyzed_at, created_at
		FROM voiceprints
		WHERE user_id = ?
		ORDER BY version DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query profile history: %w", err)
	}
	defer rows.Close()

	var records []ProfileRecord
	for rows.Next() {
		var r ProfileRecord
		var analyzedNs, createdNs int64
		if err := rows.Scan(&r.ProfileID, &r.UserID, &r.Version, &r.Status, &r.SampleCount,
			&r.Confidence, &r.Consistency, &analyzedNs, &createdNs); err != nil {
			return nil, fmt.Errorf("scan profile record: %w", err)
		}
		r.AnalyzedAt = time.Unix(0, analyzedNs)
		r.CreatedAt = time.Unix(0, createdNs)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile history: %w", err)
	}
	return records, nil
}

// AppendDriftEvents stores a batch of drift events against a profile.
func (s *Store) AppendDriftEvents(userID, profileID string, events []drift.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO drift_events (user_id, profile_id, metric, dimension, value, optimal, change_percent, severity, description, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(userID, profileID, e.Metric, string(e.Dimension),
			e.Value, e.Optimal, e.ChangePercent, string(e.Severity),
			e.Description, e.Timestamp.UnixNano()); err != nil {
			return fmt.Errorf("insert drift event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// DriftHistory retrieves drift events for a user recorded at or after
// since, oldest first.
func (s *Store) DriftHistory(userID string, since time.Time) ([]drift.Event, error) {
	rows, err := s.db.Query(`
		SELECT metric, dimension, value, optimal, change_percent, severity, description, detected_at
		FROM drift_events
		WHERE user_id = ? AND detected_at >= ?
		ORDER BY detected_at ASC, id ASC`, userID, since.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("query drift history: %w", err)
	}
	defer rows.Close()

	var events []drift.Event
	for rows.Next() {
		var e drift.Event
		var dimension, severity string
		var detectedNs int64
		if err := rows.Scan(&e.Metric, &dimension, &e.Value, &e.Optimal,
			&e.ChangePercent, &severity, &e.Description, &detectedNs); err != nil {
			return nil, fmt.Errorf("scan drift event: %w", err)
		}
		e.Dimension = fingerprint.Dimension(dimension)
		e.Severity = drift.Severity(severity)
		e.Timestamp = time.Unix(0, detectedNs)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drift events: %w", err)
	}
	return events, nil
}
