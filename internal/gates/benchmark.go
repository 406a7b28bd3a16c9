package gates

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// BenchmarkCategory classifies how a comparison benchmark may be used.
type BenchmarkCategory string

const (
	SameCategory    BenchmarkCategory = "SAME_CATEGORY"
	OpportunityCost BenchmarkCategory = "OPPORTUNITY_COST"
)

// ErrMissingCategorizerInput is returned when a required categorizer input
// was not explicitly supplied. Implicit zero/false defaults silently
// bypassed the rule in an earlier version of this system, so the inputs are
// pointers and nil is a configuration error.
var ErrMissingCategorizerInput = errors.New("benchmark categorizer input not supplied")

// BenchmarkInputs are the required categorizer inputs. Both fields must be
// set explicitly by the caller.
type BenchmarkInputs struct {
	BenchmarkName     string   `json:"benchmark_name"`
	DefensiveFraction *float64 `json:"defensive_fraction"`
	HasSectorTilts    *bool    `json:"has_sector_tilts"`
}

// BenchmarkCategorizer applies the hard same-category rule: defensive
// allocation at or under the ceiling AND no sector tilts. Anything else is
// recategorized as opportunity-cost with a reason, never silently coerced.
type BenchmarkCategorizer struct {
	config BenchmarkConfig
}

// NewBenchmarkCategorizer creates the categorizer; a zero config falls back
// to defaults.
func NewBenchmarkCategorizer(config BenchmarkConfig) *BenchmarkCategorizer {
	if config.DefensiveCeiling == 0 {
		config = DefaultBenchmarkConfig()
	}
	return &BenchmarkCategorizer{config: config}
}

// Categorize classifies the comparison, or fails with a configuration error
// when a required input is missing.
func (c *BenchmarkCategorizer) Categorize(inputs BenchmarkInputs) (*domain.GateOutcome, error) {
	if inputs.DefensiveFraction == nil {
		return nil, fmt.Errorf("%w: defensive_fraction", ErrMissingCategorizerInput)
	}
	if inputs.HasSectorTilts == nil {
		return nil, fmt.Errorf("%w: has_sector_tilts", ErrMissingCategorizerInput)
	}

	defensive := *inputs.DefensiveFraction
	tilts := *inputs.HasSectorTilts

	category := SameCategory
	reason := fmt.Sprintf("defensive %.1f%% ≤ %.1f%% ceiling and no sector tilts",
		100*defensive, 100*c.config.DefensiveCeiling)
	switch {
	case defensive > c.config.DefensiveCeiling:
		category = OpportunityCost
		reason = fmt.Sprintf("defensive allocation %.1f%% above %.1f%% ceiling",
			100*defensive, 100*c.config.DefensiveCeiling)
	case tilts:
		category = OpportunityCost
		reason = "sector tilts present"
	}

	outcome := &domain.GateOutcome{
		Gate:   domain.GateBenchmark,
		Status: domain.StatusPass,
		Message: fmt.Sprintf("benchmark %s categorized %s: %s",
			inputs.BenchmarkName, category, reason),
		Details: map[string]any{
			"benchmark":          inputs.BenchmarkName,
			"category":           string(category),
			"reason":             reason,
			"defensive_fraction": defensive,
			"defensive_ceiling":  c.config.DefensiveCeiling,
			"has_sector_tilts":   tilts,
		},
	}

	log.Debug().
		Str("gate", outcome.Gate).
		Str("benchmark", inputs.BenchmarkName).
		Str("category", string(category)).
		Msg("benchmark categorized")
	recordGateEvaluation(outcome)
	return outcome, nil
}

// CategoryOf extracts the categorization from a benchmark outcome.
func CategoryOf(outcome *domain.GateOutcome) BenchmarkCategory {
	if outcome == nil || outcome.Details == nil {
		return OpportunityCost
	}
	if cat, ok := outcome.Details["category"].(string); ok {
		return BenchmarkCategory(cat)
	}
	return OpportunityCost
}
