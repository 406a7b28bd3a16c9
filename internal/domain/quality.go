package domain

import "fmt"

// DataQualityReport carries the per-run data-quality ingredients supplied by
// the external metrics collaborator. Ratios are in [0,1]; the stability
// measure is a non-negative standard deviation of rolling correlations.
type DataQualityReport struct {
	MissingRatio      float64        `json:"missing_ratio"`
	HistoryDays       map[string]int `json:"history_days"` // per-instrument return history length
	ValidPairs        int            `json:"valid_pairs"`  // pairs with sufficient overlapping history
	TotalPairs        int            `json:"total_pairs"`
	RollingCorrStdDev float64        `json:"rolling_corr_std_dev"`
}

// Validate enforces the report invariants.
func (r DataQualityReport) Validate() error {
	if r.MissingRatio < 0 || r.MissingRatio > 1 {
		return fmt.Errorf("missing ratio %.4f outside [0,1]", r.MissingRatio)
	}
	if r.RollingCorrStdDev < 0 {
		return fmt.Errorf("rolling correlation std dev %.4f is negative", r.RollingCorrStdDev)
	}
	if r.ValidPairs < 0 || r.TotalPairs < 0 || r.ValidPairs > r.TotalPairs {
		return fmt.Errorf("invalid pair counts: %d valid of %d total", r.ValidPairs, r.TotalPairs)
	}
	return nil
}

// ShortestHistoryDays returns the shortest per-instrument history in the
// report, or zero when no histories are present.
func (r DataQualityReport) ShortestHistoryDays() int {
	shortest := 0
	first := true
	for _, days := range r.HistoryDays {
		if first || days < shortest {
			shortest = days
			first = false
		}
	}
	return shortest
}

// ConfidenceLevel is the discrete trust level derived from the aggregate
// confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh         ConfidenceLevel = "HIGH"
	ConfidenceMedium       ConfidenceLevel = "MEDIUM"
	ConfidenceLow          ConfidenceLevel = "LOW"
	ConfidenceInsufficient ConfidenceLevel = "INSUFFICIENT"
)

// LevelForScore maps an aggregate score in [0,100] onto its discrete level.
// The mapping is a fixed step function and is never adjusted post hoc.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 80:
		return ConfidenceHigh
	case score >= 60:
		return ConfidenceMedium
	case score >= 40:
		return ConfidenceLow
	default:
		return ConfidenceInsufficient
	}
}

// ConfidenceAssessment is the scored trustworthiness of a run's input data.
type ConfidenceAssessment struct {
	Coverage         float64         `json:"coverage"`
	PairwiseCoverage float64         `json:"pairwise_coverage"`
	Stability        float64         `json:"stability"`
	History          float64         `json:"history"`
	Aggregate        float64         `json:"aggregate"`
	Level            ConfidenceLevel `json:"level"`
}
