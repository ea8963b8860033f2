// Package prediction maps logistics requests onto trained models and shapes
// their output into bounded results.
package prediction

// Policy constants. None of these come from a model.
const (
	// FreshnessTrustedMaxDays is the upper end of the storage-age band the
	// freshness model was trained on.
	FreshnessTrustedMaxDays         = 20
	FreshnessConfidenceTrusted      = 0.95
	FreshnessConfidenceExtrapolated = 0.8

	FreshnessMin = 0.0
	FreshnessMax = 100.0

	PriorityMin        = 0.0
	PriorityMax        = 10.0
	PriorityConfidence = 0.89

	// A linear approximation from raw delay hours to the multiplicative
	// delay factor the spoilage model expects.
	DelayFactorBase    = 1.0
	DelayFactorPerHour = 0.2

	HighDemandThreshold   = 80.0
	ShortDistanceKm       = 50.0
	HighSpoilageRiskLevel = "High"
)

// DateLayout is the expected form of request dates.
const DateLayout = "2006-01-02"
