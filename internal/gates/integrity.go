package gates

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// IntegrityGate checks missing-value ratios against the configured ceilings.
// It is a deterministic, total function of (missingRatio, thresholds).
type IntegrityGate struct {
	config IntegrityConfig
}

// NewIntegrityGate creates the gate; a zero config falls back to defaults.
func NewIntegrityGate(config IntegrityConfig) *IntegrityGate {
	if config.HardCeiling == 0 {
		config = DefaultIntegrityConfig()
	}
	return &IntegrityGate{config: config}
}

// Evaluate maps the report's missing-value ratio onto PASS, WARN or
// HARD_FAIL. A HARD_FAIL always carries a CRITICAL action whose remediation
// names history extension and instrument removal, and which blocks the
// structural verdict and benchmark comparison capabilities.
func (g *IntegrityGate) Evaluate(report domain.DataQualityReport) *domain.GateOutcome {
	details := map[string]any{
		"missing_ratio": report.MissingRatio,
		"warn_ceiling":  g.config.WarnCeiling,
		"hard_ceiling":  g.config.HardCeiling,
	}

	var outcome *domain.GateOutcome
	switch {
	case report.MissingRatio > g.config.HardCeiling:
		outcome = &domain.GateOutcome{
			Gate:   domain.GateDataIntegrity,
			Status: domain.StatusHardFail,
			Message: fmt.Sprintf("missing ratio %.1f%% above hard ceiling %.1f%%",
				100*report.MissingRatio, 100*g.config.HardCeiling),
			Details: details,
			Actions: []domain.PrescriptiveAction{{
				IssueCode:  "DATA_INTEGRITY_FAIL",
				Priority:   domain.PriorityCritical,
				Confidence: 1.0,
				Description: fmt.Sprintf("Return series has %.1f%% missing values; correlation-based analysis is unreliable",
					100*report.MissingRatio),
				Steps: []string{
					"Extend history: collect more return data for sparse instruments",
					"Remove offending instrument: drop holdings whose history causes the gaps",
					"Use alternative correlation estimation (shrinkage, factor models)",
				},
				Blocks: []string{"structural verdict", "benchmark comparison"},
			}},
		}
	case report.MissingRatio > g.config.WarnCeiling:
		outcome = &domain.GateOutcome{
			Gate:   domain.GateDataIntegrity,
			Status: domain.StatusWarn,
			Message: fmt.Sprintf("missing ratio %.1f%% above warn ceiling %.1f%%, below hard ceiling",
				100*report.MissingRatio, 100*g.config.WarnCeiling),
			Details: details,
			Actions: []domain.PrescriptiveAction{{
				IssueCode:   "DATA_INTEGRITY_WARN",
				Priority:    domain.PriorityMedium,
				Confidence:  0.9,
				Description: "Missing-value ratio elevated; downstream claims carry reduced confidence",
				Steps: []string{
					"Extend history for instruments with short or gapped series",
				},
			}},
		}
	default:
		outcome = &domain.GateOutcome{
			Gate:   domain.GateDataIntegrity,
			Status: domain.StatusPass,
			Message: fmt.Sprintf("missing ratio %.1f%% within %.1f%% warn ceiling",
				100*report.MissingRatio, 100*g.config.WarnCeiling),
			Details: details,
		}
	}

	log.Debug().
		Str("gate", outcome.Gate).
		Str("status", string(outcome.Status)).
		Float64("missing_ratio", report.MissingRatio).
		Msg("data integrity gate evaluated")
	recordGateEvaluation(outcome)
	return outcome
}
