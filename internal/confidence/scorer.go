// Package confidence scores the trustworthiness of a run's input data.
// The aggregate score gates which claims downstream components may make.
package confidence

import (
	"fmt"
	"math"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// Config contains the component weights and coverage targets for the scorer.
type Config struct {
	// Component weights; must sum to 1.0.
	CoverageWeight  float64 `yaml:"coverage_weight"`
	PairwiseWeight  float64 `yaml:"pairwise_weight"`
	StabilityWeight float64 `yaml:"stability_weight"`
	HistoryWeight   float64 `yaml:"history_weight"`

	// HistoryTargetDays is the history length that earns a full history
	// score (1260 trading days ≈ 5 years).
	HistoryTargetDays int `yaml:"history_target_days"`

	// PairwiseTargetDays is the overlap needed for a pair to count as valid
	// (252 trading days ≈ 1 year). Enforced by the metrics collaborator when
	// it counts valid pairs; recorded here so the threshold is auditable.
	PairwiseTargetDays int `yaml:"pairwise_target_days"`
}

// Validate rejects weights that do not sum to 1.0 and non-positive targets.
func (c Config) Validate() error {
	sum := c.CoverageWeight + c.PairwiseWeight + c.StabilityWeight + c.HistoryWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("confidence weights sum to %.4f, expected 1.0", sum)
	}
	if c.HistoryTargetDays <= 0 {
		return fmt.Errorf("history target %d days must be positive", c.HistoryTargetDays)
	}
	if c.PairwiseTargetDays <= 0 {
		return fmt.Errorf("pairwise target %d days must be positive", c.PairwiseTargetDays)
	}
	return nil
}

// DefaultConfig returns the production scoring configuration.
func DefaultConfig() Config {
	return Config{
		CoverageWeight:     0.30,
		PairwiseWeight:     0.30,
		StabilityWeight:    0.20,
		HistoryWeight:      0.20,
		HistoryTargetDays:  1260,
		PairwiseTargetDays: 252,
	}
}

// Scorer combines four data-quality signals into one confidence level.
type Scorer struct {
	config Config
}

// NewScorer creates a scorer; a zero config falls back to defaults.
func NewScorer(config Config) *Scorer {
	if config.HistoryTargetDays == 0 {
		config = DefaultConfig()
	}
	return &Scorer{config: config}
}

// Score derives a ConfidenceAssessment from a quality report. It is a pure
// function and always succeeds on well-formed input: degenerate input (zero
// pairs) yields a zero pairwise component, not a fault.
func (s *Scorer) Score(report domain.DataQualityReport) domain.ConfidenceAssessment {
	coverage := 100 * (1 - report.MissingRatio)

	pairwise := 0.0
	if report.TotalPairs > 0 {
		pairwise = 100 * float64(report.ValidPairs) / float64(report.TotalPairs)
	}

	stability := math.Max(0, 100-200*report.RollingCorrStdDev)

	history := math.Min(100, 100*float64(report.ShortestHistoryDays())/float64(s.config.HistoryTargetDays))

	aggregate := s.config.CoverageWeight*coverage +
		s.config.PairwiseWeight*pairwise +
		s.config.StabilityWeight*stability +
		s.config.HistoryWeight*history

	return domain.ConfidenceAssessment{
		Coverage:         coverage,
		PairwiseCoverage: pairwise,
		Stability:        stability,
		History:          history,
		Aggregate:        aggregate,
		Level:            domain.LevelForScore(aggregate),
	}
}
