package fingerprint

// Coefficients holds every tunable constant of the aggregation scoring.
// All call sites read from here so the numbers can be adjusted (and
// regression-tested) in one place.
type Coefficients struct {
	// Confidence ceilings by sample count. Confidence can never exceed
	// the ceiling for the given count; the ceiling below five samples is
	// strictly under 1.0.
	CeilingAt3 float64 // applied at 3-4 samples
	CeilingAt5 float64 // applied at 5-6 samples
	CeilingAt7 float64 // applied at 7 or more samples

	// ConfidenceBase is the consistency-independent share of confidence:
	// confidence = ceiling * (base + (1-base)*consistency).
	ConfidenceBase float64

	// SubstitutionPenalty is subtracted from confidence once per analyzer
	// dimension that was replaced with a neutral default.
	SubstitutionPenalty float64

	// MinConfidence is the floor after penalties.
	MinConfidence float64

	// BandWidthMax and BandWidthMin bound the threshold-band half-width as
	// a fraction of the optimal value: max at zero confidence, min at full
	// confidence.
	BandWidthMax float64
	BandWidthMin float64

	// BandFloor is added to the optimal value before the width fraction is
	// applied, so zero-valued metrics still get a usable band.
	BandFloor float64
}

// DefaultCoefficients returns the production scoring constants.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		CeilingAt3:          0.95,
		CeilingAt5:          0.98,
		CeilingAt7:          1.0,
		ConfidenceBase:      0.5,
		SubstitutionPenalty: 0.05,
		MinConfidence:       0.1,
		BandWidthMax:        0.35,
		BandWidthMin:        0.12,
		BandFloor:           0.05,
	}
}

// SampleCeiling returns the confidence ceiling for a sample count. The
// ceiling is monotonically non-decreasing in count and stays below 1.0
// under five samples: count alone cannot buy full confidence.
func (c Coefficients) SampleCeiling(count int) float64 {
	switch {
	case count >= 7:
		return c.CeilingAt7
	case count >= 5:
		return c.CeilingAt5
	default:
		return c.CeilingAt3
	}
}

// ConsistencyScore converts per-metric normalized deviations into one score
// in [0,1]. Identical samples (all deviations zero) score exactly 1.0.
func (c Coefficients) ConsistencyScore(normalizedDeviations []float64) float64 {
	if len(normalizedDeviations) == 0 {
		return 0
	}
	var sum float64
	for _, d := range normalizedDeviations {
		if d > 1 {
			d = 1
		}
		if d < 0 {
			d = 0
		}
		sum += d
	}
	return clamp01(1 - sum/float64(len(normalizedDeviations)))
}

// ConfidenceScore combines sample count and consistency. It is monotone
// non-decreasing in both, bounded by SampleCeiling, and reduced by
// SubstitutionPenalty for each dimension that fell back to a neutral
// default.
func (c Coefficients) ConfidenceScore(sampleCount int, consistency float64, substitutions int) float64 {
	ceiling := c.SampleCeiling(sampleCount)
	conf := ceiling * (c.ConfidenceBase + (1-c.ConfidenceBase)*clamp01(consistency))
	conf -= c.SubstitutionPenalty * float64(substitutions)
	if conf < c.MinConfidence {
		conf = c.MinConfidence
	}
	if conf > ceiling {
		conf = ceiling
	}
	return conf
}

// BandWidthFraction is the threshold-band half-width fraction for a given
// confidence: wide bands for uncertain profiles, tight bands for confident
// ones.
func (c Coefficients) BandWidthFraction(confidence float64) float64 {
	return c.BandWidthMax - (c.BandWidthMax-c.BandWidthMin)*clamp01(confidence)
}

// ThresholdBandFor builds the band around an aggregated optimal value.
// The half-width is always non-negative, so Min <= Optimal <= Max holds
// unconditionally; Min is additionally floored at zero because every
// tracked metric is non-negative.
func (c Coefficients) ThresholdBandFor(metric string, optimal, confidence float64) ThresholdBand {
	delta := c.BandWidthFraction(confidence) * (abs(optimal) + c.BandFloor)
	min := optimal - delta
	if min < 0 {
		min = 0
	}
	if min > optimal {
		min = optimal
	}
	return ThresholdBand{
		Metric:  metric,
		Min:     min,
		Max:     optimal + delta,
		Optimal: optimal,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
