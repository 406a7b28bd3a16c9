package gates

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// IntentGate compares an observed beta against the declared risk intent's
// threshold triple. Three fail tiers keep "wrong label" distinct from
// "wrong structure": SOFT_FAIL means the portfolio was built for a
// lower-risk intent, HARD_FAIL means it cannot satisfy even a lowered bar.
type IntentGate struct {
	config IntentConfig
}

// NewIntentGate creates the gate; a zero config falls back to defaults.
func NewIntentGate(config IntentConfig) *IntentGate {
	if len(config.Thresholds) == 0 {
		config = DefaultIntentConfig()
	}
	return &IntentGate{config: config}
}

// Evaluate produces PASS, SOFT_FAIL, HARD_FAIL or INCONCLUSIVE. When the
// beta estimation window is below the reliability minimum, beta-based
// verdicts are suspended regardless of the numeric beta value. The outcome
// details always echo the full threshold triple so callers can render
// "this is the fail gate, not the target" messaging.
func (g *IntentGate) Evaluate(beta float64, intent domain.RiskIntentLevel, windowYears float64) (*domain.GateOutcome, error) {
	thresholds, ok := g.config.Thresholds[intent]
	if !ok {
		return nil, fmt.Errorf("no thresholds configured for risk intent %q", intent)
	}

	details := map[string]any{
		"beta":                beta,
		"risk_intent":         string(intent),
		"hard_fail_below":     thresholds.HardFailBelow,
		"minimum_acceptable":  thresholds.MinimumAcceptable,
		"target_low":          thresholds.TargetLow,
		"target_high":         thresholds.TargetHigh,
		"window_years":        windowYears,
		"min_window_years":    g.config.MinWindowYears,
		"within_target_range": beta >= thresholds.TargetLow && beta <= thresholds.TargetHigh,
	}

	var outcome *domain.GateOutcome
	switch {
	case windowYears < g.config.MinWindowYears:
		outcome = &domain.GateOutcome{
			Gate:   domain.GateRiskIntent,
			Status: domain.StatusInconclusive,
			Message: fmt.Sprintf("beta window %.1fy below %.1fy minimum; beta-based verdicts suspended",
				windowYears, g.config.MinWindowYears),
			Details: details,
			Actions: []domain.PrescriptiveAction{{
				IssueCode:  "BETA_WINDOW_INSUFFICIENT",
				Priority:   domain.PriorityHigh,
				Confidence: 1.0,
				Description: fmt.Sprintf("Beta window %.1fy < %.1fy required for reliable estimation",
					windowYears, g.config.MinWindowYears),
				Steps: []string{
					"Wait for more historical data to accumulate",
					"Use a longer backtest period if available",
					"Use a proxy benchmark beta for intent validation",
				},
				Blocks: []string{"intent verdict", "structural recommendations"},
			}},
		}
	case beta < thresholds.HardFailBelow:
		recommended := g.recommendIntent(beta)
		outcome = &domain.GateOutcome{
			Gate:   domain.GateRiskIntent,
			Status: domain.StatusHardFail,
			Message: fmt.Sprintf("beta %.2f below hard-fail floor %.2f for %s over %.1fy; intent mismatch is certain",
				beta, thresholds.HardFailBelow, intent, windowYears),
			Details: details,
			Actions: []domain.PrescriptiveAction{{
				IssueCode:  "INTENT_MISMATCH_HARD",
				Priority:   domain.PriorityCritical,
				Confidence: 0.95,
				Description: fmt.Sprintf("Portfolio beta %.2f is incompatible with %s (requires ≥%.2f)",
					beta, intent, thresholds.MinimumAcceptable),
				Steps: []string{
					fmt.Sprintf("Relabel: change declared risk intent to %s (matches beta %.2f)", recommended, beta),
					fmt.Sprintf("Raise beta by %.2f: add high-beta equity, remove low-beta positions", thresholds.MinimumAcceptable-beta),
				},
				Blocks: []string{"structural recommendations", "benchmark comparison", "diversification recommendations"},
			}},
		}
	case beta < thresholds.MinimumAcceptable:
		recommended := g.recommendIntent(beta)
		outcome = &domain.GateOutcome{
			Gate:   domain.GateRiskIntent,
			Status: domain.StatusSoftFail,
			Message: fmt.Sprintf("beta %.2f below minimum %.2f for %s; structure coherent but label misaligned",
				beta, thresholds.MinimumAcceptable, intent),
			Details: details,
			Actions: []domain.PrescriptiveAction{{
				IssueCode:  "INTENT_MISMATCH_SOFT",
				Priority:   domain.PriorityMedium,
				Confidence: 0.85,
				Description: fmt.Sprintf("Portfolio beta %.2f below minimum %.2f for %s",
					beta, thresholds.MinimumAcceptable, intent),
				Steps: []string{
					fmt.Sprintf("Consider downgrading declared risk intent to %s", recommended),
					fmt.Sprintf("Or raise beta by %.2f via a modest high-beta tilt", thresholds.MinimumAcceptable-beta),
				},
				Blocks: []string{"structural fragile verdict"},
			}},
		}
	default:
		outcome = &domain.GateOutcome{
			Gate:   domain.GateRiskIntent,
			Status: domain.StatusPass,
			Message: fmt.Sprintf("beta %.2f ≥ %.2f minimum for %s (target [%.2f,%.2f])",
				beta, thresholds.MinimumAcceptable, intent, thresholds.TargetLow, thresholds.TargetHigh),
			Details: details,
		}
	}

	log.Debug().
		Str("gate", outcome.Gate).
		Str("status", string(outcome.Status)).
		Float64("beta", beta).
		Float64("window_years", windowYears).
		Msg("risk intent gate evaluated")
	recordGateEvaluation(outcome)
	return outcome, nil
}

// recommendIntent picks the configured intent whose target range best fits
// the observed beta, preferring the lowest-risk match.
func (g *IntentGate) recommendIntent(beta float64) domain.RiskIntentLevel {
	order := []domain.RiskIntentLevel{
		domain.IntentConservative,
		domain.IntentModerate,
		domain.IntentGrowthDiversified,
		domain.IntentGrowth,
		domain.IntentAggressive,
		domain.IntentHighBeta,
	}
	for _, level := range order {
		t, ok := g.config.Thresholds[level]
		if !ok {
			continue
		}
		if beta <= t.TargetHigh {
			return level
		}
	}
	return domain.IntentHighBeta
}
