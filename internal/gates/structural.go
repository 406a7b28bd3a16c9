package gates

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// EvidenceKind tags the closed list of causal fragility conditions. The gate
// is a rule evaluator over these variants, not a scoring function: no
// weighted sum of symptoms can produce a FAIL.
type EvidenceKind string

const (
	EvidenceSingleDriver        EvidenceKind = "SINGLE_DRIVER_DEPENDENCY"
	EvidenceHiddenLeverage      EvidenceKind = "HIDDEN_LEVERAGE"
	EvidenceCorrelationCollapse EvidenceKind = "CORRELATION_COLLAPSE"
	EvidenceConstraintViolation EvidenceKind = "CONSTRAINT_VIOLATION"
)

// CausalEvidence is one demonstrated fragility claim. Only the fields of its
// kind are read; the rest are ignored.
type CausalEvidence struct {
	Kind        EvidenceKind `json:"kind"`
	Description string       `json:"description"`

	// SINGLE_DRIVER_DEPENDENCY
	Driver                 string  `json:"driver,omitempty"`
	RiskShare              float64 `json:"risk_share,omitempty"`
	CollapsesWithoutDriver bool    `json:"collapses_without_driver,omitempty"`

	// HIDDEN_LEVERAGE
	StressLossExponent float64 `json:"stress_loss_exponent,omitempty"` // >1 means super-linear losses
	RiskDiscontinuity  bool    `json:"risk_discontinuity,omitempty"`

	// CORRELATION_COLLAPSE
	CrisisEpisodes    int     `json:"crisis_episodes,omitempty"`
	StressCorrelation float64 `json:"stress_correlation,omitempty"`

	// CONSTRAINT_VIOLATION
	Constraint string  `json:"constraint,omitempty"`
	Limit      float64 `json:"limit,omitempty"`
	Observed   float64 `json:"observed,omitempty"`
}

// StructuralSignals are the symptomatic observations for a run. They are
// necessary-but-insufficient: they can raise WATCHLIST, never FAIL.
type StructuralSignals struct {
	TopHoldingWeight float64 `json:"top_holding_weight"`
	MeanCorrelation  float64 `json:"mean_correlation"`
	MaxDrawdown      float64 `json:"max_drawdown"` // magnitude, e.g. 0.40 for -40%
}

// StructuralGate evaluates the closed four-cause fragility rule set.
type StructuralGate struct {
	config StructuralConfig
}

// NewStructuralGate creates the gate; a zero config falls back to defaults.
func NewStructuralGate(config StructuralConfig) *StructuralGate {
	if config.SingleDriverShare == 0 {
		config = DefaultStructuralConfig()
	}
	return &StructuralGate{config: config}
}

// demonstrated reports whether one evidence claim meets its kind's floor.
func (g *StructuralGate) demonstrated(ev CausalEvidence) bool {
	switch ev.Kind {
	case EvidenceSingleDriver:
		return ev.RiskShare >= g.config.SingleDriverShare && ev.CollapsesWithoutDriver
	case EvidenceHiddenLeverage:
		return ev.StressLossExponent > 1.0 || ev.RiskDiscontinuity
	case EvidenceCorrelationCollapse:
		// Repeated, multi-crisis convergence; a single episode is not proof.
		return ev.CrisisEpisodes >= g.config.MinCrisisEpisodes && ev.StressCorrelation >= g.config.CollapseCorrFloor
	case EvidenceConstraintViolation:
		return ev.Constraint != "" && ev.Observed > ev.Limit
	default:
		return false
	}
}

// Evaluate applies the governance invariant: absence of causal proof yields
// PASS (or WATCHLIST on elevated symptoms), never FAIL. A FAIL is terminal
// for the run and suppresses score- or ranking-based output downstream.
func (g *StructuralGate) Evaluate(signals StructuralSignals, evidence []CausalEvidence) *domain.GateOutcome {
	proven := make([]CausalEvidence, 0, len(evidence))
	for _, ev := range evidence {
		if g.demonstrated(ev) {
			proven = append(proven, ev)
		}
	}

	watch := g.watchReasons(signals)
	details := map[string]any{
		"top_holding_weight": signals.TopHoldingWeight,
		"mean_correlation":   signals.MeanCorrelation,
		"max_drawdown":       signals.MaxDrawdown,
		"evidence_submitted": len(evidence),
		"evidence_proven":    len(proven),
		"watch_reasons":      watch,
	}

	var outcome *domain.GateOutcome
	switch {
	case len(proven) > 0:
		kinds := make([]string, 0, len(proven))
		actions := make([]domain.PrescriptiveAction, 0, len(proven))
		for _, ev := range proven {
			kinds = append(kinds, string(ev.Kind))
			actions = append(actions, fragilityAction(ev))
		}
		details["proven_evidence"] = proven
		outcome = &domain.GateOutcome{
			Gate:    domain.GateStructural,
			Status:  domain.StatusFail,
			Message: fmt.Sprintf("causal fragility demonstrated: %s", strings.Join(kinds, ", ")),
			Details: details,
			Actions: actions,
		}
	case len(watch) > 0:
		outcome = &domain.GateOutcome{
			Gate:    domain.GateStructural,
			Status:  domain.StatusWatchlist,
			Message: fmt.Sprintf("elevated symptoms without causal proof: %s", strings.Join(watch, "; ")),
			Details: details,
			Actions: []domain.PrescriptiveAction{{
				IssueCode:   "STRUCTURE_WATCHLIST",
				Priority:    domain.PriorityMedium,
				Confidence:  0.7,
				Description: "Concentration/correlation/drawdown signals elevated; monitoring required, no fail without causal evidence",
				Steps: []string{
					"Monitor the elevated signals across the next review cycles",
					"Collect crisis-window correlation data to test for repeated collapse",
				},
			}},
		}
	default:
		outcome = &domain.GateOutcome{
			Gate:    domain.GateStructural,
			Status:  domain.StatusPass,
			Message: "no causal fragility demonstrated and no elevated symptoms",
			Details: details,
		}
	}

	log.Debug().
		Str("gate", outcome.Gate).
		Str("status", string(outcome.Status)).
		Int("evidence_proven", len(proven)).
		Strs("watch_reasons", watch).
		Msg("structural gate evaluated")
	recordGateEvaluation(outcome)
	return outcome
}

func (g *StructuralGate) watchReasons(signals StructuralSignals) []string {
	var reasons []string
	if signals.TopHoldingWeight >= g.config.ConcentrationWatch {
		reasons = append(reasons, fmt.Sprintf("top holding %.0f%% ≥ %.0f%% concentration watch",
			100*signals.TopHoldingWeight, 100*g.config.ConcentrationWatch))
	}
	if signals.MeanCorrelation >= g.config.CorrelationWatch {
		reasons = append(reasons, fmt.Sprintf("mean correlation %.2f ≥ %.2f watch", signals.MeanCorrelation, g.config.CorrelationWatch))
	}
	if signals.MaxDrawdown >= g.config.DrawdownWatch {
		reasons = append(reasons, fmt.Sprintf("max drawdown %.0f%% ≥ %.0f%% watch",
			100*signals.MaxDrawdown, 100*g.config.DrawdownWatch))
	}
	return reasons
}

func fragilityAction(ev CausalEvidence) domain.PrescriptiveAction {
	action := domain.PrescriptiveAction{
		IssueCode:   "STRUCTURAL_FRAGILITY_" + string(ev.Kind),
		Priority:    domain.PriorityCritical,
		Confidence:  0.9,
		Description: ev.Description,
		Blocks:      []string{"score-based output", "ranking-based output"},
	}
	switch ev.Kind {
	case EvidenceSingleDriver:
		action.Steps = []string{
			fmt.Sprintf("Reduce exposure to driver %s (%.0f%% of total risk)", ev.Driver, 100*ev.RiskShare),
			"Add instruments with independent economic drivers",
		}
	case EvidenceHiddenLeverage:
		action.Steps = []string{
			"Identify and unwind positions with embedded leverage or convexity",
			"Stress-test replacement positions for linear loss scaling",
		}
	case EvidenceCorrelationCollapse:
		action.Steps = []string{
			"Replace instruments whose diversification disappears under stress",
			"Add defensive assets with demonstrated crisis decorrelation",
		}
	case EvidenceConstraintViolation:
		action.Steps = []string{
			fmt.Sprintf("Restore declared constraint %q (limit %.2f, observed %.2f)", ev.Constraint, ev.Limit, ev.Observed),
		}
	}
	return action
}
