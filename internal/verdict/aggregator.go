// Package verdict combines the four gate outcomes into one final verdict
// through a fixed precedence order, and models inconclusive results as a
// blocking variant rather than a usable result.
package verdict

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// Aggregator is the finite-state combiner over the four gate outcomes.
type Aggregator struct{}

// NewAggregator creates the combiner.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate applies the documented precedence policy: a data-reliability
// inconclusive outranks everything (untrustworthy data permits no judgment),
// and a structural FAIL outranks an intent mismatch (a broken portfolio is
// worse than a mislabeled one). Verdict confidence is taken from the
// confidence assessment regardless of which rule fired.
func (a *Aggregator) Aggregate(runID string, gates domain.GateOutcomes, assessment domain.ConfidenceAssessment) domain.FinalVerdict {
	verdictType, rationale := a.combine(gates)

	actions := collectActions(gates)
	domain.SortActions(actions)

	verdict := domain.FinalVerdict{
		RunID:       runID,
		Type:        verdictType,
		Confidence:  assessment.Aggregate,
		Rationale:   rationale,
		Actions:     actions,
		Gates:       gates,
		GeneratedAt: time.Now().UTC(),
	}

	log.Info().
		Str("run_id", runID).
		Str("verdict", string(verdictType)).
		Float64("confidence", assessment.Aggregate).
		Bool("blocking", verdictType.Blocking()).
		Msg("final verdict aggregated")
	recordVerdict(verdictType)
	return verdict
}

func (a *Aggregator) combine(gates domain.GateOutcomes) (domain.VerdictType, string) {
	intentFailed := gates.RiskIntent.Status == domain.StatusSoftFail ||
		gates.RiskIntent.Status == domain.StatusHardFail

	if gates.DataIntegrity.Status == domain.StatusHardFail {
		if intentFailed {
			// The intent verdict is certain despite the data failure; only
			// the structural judgment is suspended.
			return domain.VerdictIntentFailStructInconc,
				"Intent mismatch is certain (sufficient beta window), but structure cannot be " +
					"evaluated on failed correlation data. Intent correction is permitted; " +
					"structural restructuring is not."
		}
		return domain.VerdictInconclusiveDataFail,
			"Data integrity failed: the return series is too sparse to support any structural " +
				"or diversification judgment. No portfolio-action recommendation is permitted."
	}

	if gates.RiskIntent.Status == domain.StatusInconclusive {
		return domain.VerdictInconclusiveIntentData,
			"The beta estimation window is below the reliability minimum, so the declared risk " +
				"intent cannot be judged. Beta-based verdicts are suspended regardless of the value."
	}

	if gates.Structural.Status == domain.StatusFail {
		return domain.VerdictStructurallyFragile,
			"Causal structural fragility is demonstrated. A structural FAIL outranks any intent " +
				"result: a broken portfolio is worse than a mislabeled one. Score- and " +
				"ranking-based output is suppressed."
	}

	if intentFailed {
		// WATCHLIST counts as PASS for aggregation; the watch signals stay
		// visible through the structural outcome's actions.
		return domain.VerdictIntentMisalignedStructOK,
			"The portfolio is structurally coherent, but the declared risk intent does not match " +
				"the observed exposure. This is a labeling problem, not a structural one: relabel " +
				"the intent or raise the exposure."
	}

	return domain.VerdictCoherentIntentMatch,
		"All gates passed: data integrity is acceptable, the observed exposure matches the " +
			"declared intent, and no causal fragility is demonstrated."
}

func collectActions(gates domain.GateOutcomes) []domain.PrescriptiveAction {
	var actions []domain.PrescriptiveAction
	for _, outcome := range []*domain.GateOutcome{gates.DataIntegrity, gates.RiskIntent, gates.Structural, gates.Benchmark} {
		if outcome != nil {
			actions = append(actions, outcome.Actions...)
		}
	}
	return actions
}
