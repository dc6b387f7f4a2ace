// Package drift compares new writing against a stored VoicePrint and emits
// drift events for metrics that leave their threshold bands.
//
// Detection is pure and idempotent: the same (sample, profile) pair always
// yields the same event list. The event timestamp is supplied by the
// caller, never read from the clock here.
package drift

import (
	"fmt"
	"time"

	"voiceprint/internal/analysis"
	"voiceprint/internal/fingerprint"
)

// Severity tiers a drift event by relative change from the optimal value.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// Relative-change cutoffs for severity tiers, in percent.
const (
	ModerateChangePercent = 10.0
	MajorChangePercent    = 20.0
)

// Thresholds carries the severity cutoffs so deployments can tune them
// through configuration.
type Thresholds struct {
	ModeratePercent float64
	MajorPercent    float64
}

// DefaultThresholds returns the shipped cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ModeratePercent: ModerateChangePercent,
		MajorPercent:    MajorChangePercent,
	}
}

// Severity maps a relative change percentage onto a severity tier.
func (t Thresholds) Severity(changePercent float64) Severity {
	switch {
	case changePercent > t.MajorPercent:
		return SeverityMajor
	case changePercent >= t.ModeratePercent:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// relativeChangeEpsilon guards the percent computation when the optimal
// value is zero.
const relativeChangeEpsilon = 1e-6

// Event is one detected deviation from the baseline. Append-only: events
// are never mutated after creation.
type Event struct {
	Metric        string                `json:"metric_name"`
	Dimension     fingerprint.Dimension `json:"dimension"`
	Value         float64               `json:"value"`
	Optimal       float64               `json:"optimal"`
	ChangePercent float64               `json:"change_percent"`
	Severity      Severity              `json:"severity"`
	Description   string                `json:"description"`
	Timestamp     time.Time             `json:"timestamp"`
}

// Detect compares one sample's metrics against an active VoicePrint and
// returns one event per tracked metric whose value falls outside its
// threshold band. Metrics inside their bands produce no event. The at
// timestamp is stamped onto every event unchanged.
func Detect(m analysis.SampleMetrics, vp *fingerprint.VoicePrint, at time.Time) []Event {
	return DetectWith(m, vp, at, DefaultThresholds())
}

// DetectWith is Detect with caller-supplied severity cutoffs.
func DetectWith(m analysis.SampleMetrics, vp *fingerprint.VoicePrint, at time.Time, th Thresholds) []Event {
	var events []Event
	for _, def := range fingerprint.TrackedMetrics {
		band, ok := vp.Band(def.Name)
		if !ok {
			continue
		}
		value := def.Sample(m)
		if value >= band.Min && value <= band.Max {
			continue
		}

		change := RelativeChangePercent(value, band.Optimal)
		events = append(events, Event{
			Metric:        def.Name,
			Dimension:     def.Dimension,
			Value:         value,
			Optimal:       band.Optimal,
			ChangePercent: change,
			Severity:      th.Severity(change),
			Description:   describe(def.Name, value, band),
			Timestamp:     at,
		})
	}
	return events
}

// RelativeChangePercent is the absolute relative deviation from optimal,
// in percent.
func RelativeChangePercent(value, optimal float64) float64 {
	base := optimal
	if base < 0 {
		base = -base
	}
	if base < relativeChangeEpsilon {
		base = relativeChangeEpsilon
	}
	diff := value - optimal
	if diff < 0 {
		diff = -diff
	}
	return diff / base * 100
}

// SeverityFor maps a relative change percentage onto a severity tier using
// the default cutoffs.
func SeverityFor(changePercent float64) Severity {
	return DefaultThresholds().Severity(changePercent)
}

func describe(metric string, value float64, band fingerprint.ThresholdBand) string {
	direction := "above"
	if value < band.Min {
		direction = "below"
	}
	return fmt.Sprintf("%s moved %s its usual range: %.3f vs optimal %.3f (band %.3f-%.3f)",
		metric, direction, value, band.Optimal, band.Min, band.Max)
}
