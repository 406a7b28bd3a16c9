package gates

import (
	"fmt"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// IntegrityConfig contains the missing-data ceilings for the data integrity gate.
type IntegrityConfig struct {
	WarnCeiling float64 `yaml:"warn_ceiling"` // WARN above this
	HardCeiling float64 `yaml:"hard_ceiling"` // HARD_FAIL above this
}

// DefaultIntegrityConfig returns the production integrity ceilings.
func DefaultIntegrityConfig() IntegrityConfig {
	return IntegrityConfig{
		WarnCeiling: 0.10,
		HardCeiling: 0.20,
	}
}

// Validate rejects inverted or out-of-range ceilings.
func (c IntegrityConfig) Validate() error {
	if c.WarnCeiling <= 0 || c.WarnCeiling >= 1 {
		return fmt.Errorf("warn ceiling %.2f outside (0,1)", c.WarnCeiling)
	}
	if c.HardCeiling <= c.WarnCeiling || c.HardCeiling >= 1 {
		return fmt.Errorf("hard ceiling %.2f must be in (%.2f,1)", c.HardCeiling, c.WarnCeiling)
	}
	return nil
}

// IntentThresholds is the threshold triple for one declared risk intent:
// hard-fail floor, minimum acceptable beta, and the target range.
type IntentThresholds struct {
	HardFailBelow     float64 `yaml:"hard_fail_below"`
	MinimumAcceptable float64 `yaml:"minimum_acceptable"`
	TargetLow         float64 `yaml:"target_low"`
	TargetHigh        float64 `yaml:"target_high"`
}

// Validate enforces threshold ordering.
func (t IntentThresholds) Validate() error {
	if t.HardFailBelow > t.MinimumAcceptable {
		return fmt.Errorf("hard fail floor %.2f above minimum acceptable %.2f", t.HardFailBelow, t.MinimumAcceptable)
	}
	if t.TargetLow > t.TargetHigh {
		return fmt.Errorf("target range [%.2f,%.2f] is inverted", t.TargetLow, t.TargetHigh)
	}
	if t.MinimumAcceptable > t.TargetLow {
		return fmt.Errorf("minimum acceptable %.2f above target low %.2f", t.MinimumAcceptable, t.TargetLow)
	}
	return nil
}

// IntentConfig holds per-intent threshold triples and the minimum estimation
// window below which beta-based verdicts are suspended.
type IntentConfig struct {
	MinWindowYears float64                                     `yaml:"min_window_years"`
	Thresholds     map[domain.RiskIntentLevel]IntentThresholds `yaml:"thresholds"`
}

// DefaultIntentConfig returns the documented threshold table for all six
// declared intent levels.
func DefaultIntentConfig() IntentConfig {
	return IntentConfig{
		MinWindowYears: 3.0,
		Thresholds: map[domain.RiskIntentLevel]IntentThresholds{
			domain.IntentConservative:      {HardFailBelow: 0.0, MinimumAcceptable: 0.1, TargetLow: 0.3, TargetHigh: 0.5},
			domain.IntentModerate:          {HardFailBelow: 0.2, MinimumAcceptable: 0.3, TargetLow: 0.5, TargetHigh: 0.8},
			domain.IntentGrowth:            {HardFailBelow: 0.4, MinimumAcceptable: 0.6, TargetLow: 0.8, TargetHigh: 1.0},
			domain.IntentGrowthDiversified: {HardFailBelow: 0.25, MinimumAcceptable: 0.35, TargetLow: 0.45, TargetHigh: 0.75},
			domain.IntentAggressive:        {HardFailBelow: 0.6, MinimumAcceptable: 0.9, TargetLow: 1.0, TargetHigh: 1.3},
			domain.IntentHighBeta:          {HardFailBelow: 0.8, MinimumAcceptable: 1.1, TargetLow: 1.3, TargetHigh: 2.0},
		},
	}
}

// Validate checks every triple and the window minimum.
func (c IntentConfig) Validate() error {
	if c.MinWindowYears <= 0 {
		return fmt.Errorf("minimum beta window %.1fy must be positive", c.MinWindowYears)
	}
	if len(c.Thresholds) == 0 {
		return fmt.Errorf("no intent thresholds configured")
	}
	for level, t := range c.Thresholds {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("intent %s: %w", level, err)
		}
	}
	return nil
}

// StructuralConfig contains the necessary-but-insufficient watch signals and
// the evidence floors for the four causal fragility conditions.
type StructuralConfig struct {
	// Watch signals. Elevated values raise WATCHLIST, never FAIL.
	ConcentrationWatch float64 `yaml:"concentration_watch"` // top holding weight
	CorrelationWatch   float64 `yaml:"correlation_watch"`   // mean pairwise correlation
	DrawdownWatch      float64 `yaml:"drawdown_watch"`      // max drawdown magnitude

	// Evidence floors.
	SingleDriverShare float64 `yaml:"single_driver_share"` // risk contribution of one driver
	MinCrisisEpisodes int     `yaml:"min_crisis_episodes"` // repeated, multi-crisis evidence
	CollapseCorrFloor float64 `yaml:"collapse_corr_floor"` // stress correlation convergence level
}

// DefaultStructuralConfig returns the production structural rule thresholds.
func DefaultStructuralConfig() StructuralConfig {
	return StructuralConfig{
		ConcentrationWatch: 0.25,
		CorrelationWatch:   0.70,
		DrawdownWatch:      0.35,
		SingleDriverShare:  0.50,
		MinCrisisEpisodes:  2,
		CollapseCorrFloor:  0.90,
	}
}

// BenchmarkConfig holds the hard rule for same-category benchmark comparisons.
type BenchmarkConfig struct {
	DefensiveCeiling float64 `yaml:"defensive_ceiling"` // same-category only at or below this
}

// DefaultBenchmarkConfig returns the documented 5% defensive ceiling.
func DefaultBenchmarkConfig() BenchmarkConfig {
	return BenchmarkConfig{DefensiveCeiling: 0.05}
}

// Validate rejects a missing or out-of-range ceiling.
func (c BenchmarkConfig) Validate() error {
	if c.DefensiveCeiling <= 0 || c.DefensiveCeiling >= 1 {
		return fmt.Errorf("defensive ceiling %.2f outside (0,1)", c.DefensiveCeiling)
	}
	return nil
}
