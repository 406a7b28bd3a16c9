// Package engine wires the decision core: confidence scoring, the four
// gates, verdict aggregation and the override protocol, in fixed order.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NicXVII/analisiPortafoglio/internal/confidence"
	"github.com/NicXVII/analisiPortafoglio/internal/config"
	"github.com/NicXVII/analisiPortafoglio/internal/data"
	"github.com/NicXVII/analisiPortafoglio/internal/domain"
	"github.com/NicXVII/analisiPortafoglio/internal/gates"
	"github.com/NicXVII/analisiPortafoglio/internal/override"
	"github.com/NicXVII/analisiPortafoglio/internal/verdict"
)

// Engine evaluates portfolio snapshots end to end. It is safe for concurrent
// use: all members are stateless after construction except the audit store,
// which serializes its own writes.
type Engine struct {
	scorer      *confidence.Scorer
	integrity   *gates.IntegrityGate
	intent      *gates.IntentGate
	structural  *gates.StructuralGate
	categorizer *gates.BenchmarkCategorizer
	aggregator  *verdict.Aggregator
	protocol    *override.Protocol
	provider    data.MetricsProvider
}

// New builds an engine from a validated configuration.
func New(cfg config.Config, provider data.MetricsProvider, store override.Store) *Engine {
	return &Engine{
		scorer:      confidence.NewScorer(cfg.Confidence),
		integrity:   gates.NewIntegrityGate(cfg.Gates.Integrity),
		intent:      gates.NewIntentGate(cfg.Gates.Intent),
		structural:  gates.NewStructuralGate(cfg.Gates.Structural),
		categorizer: gates.NewBenchmarkCategorizer(cfg.Gates.Benchmark),
		aggregator:  verdict.NewAggregator(),
		protocol:    override.NewProtocol(store),
		provider:    provider,
	}
}

// Evaluate collects inputs for the portfolio and runs the pipeline.
func (e *Engine) Evaluate(ctx context.Context, portfolioID string) (verdict.Outcome, error) {
	inputs, err := e.provider.Collect(ctx, portfolioID)
	if err != nil {
		return verdict.Outcome{}, fmt.Errorf("collecting run inputs: %w", err)
	}
	return e.EvaluateInputs(ctx, *inputs)
}

// EvaluateInputs runs the pipeline on already-collected inputs. A blocked
// outcome is a legitimate result, not an error; errors are reserved for
// malformed inputs and configuration problems.
func (e *Engine) EvaluateInputs(ctx context.Context, inputs data.RunInputs) (verdict.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return verdict.Outcome{}, err
	}
	if err := inputs.Snapshot.Validate(); err != nil {
		return verdict.Outcome{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	if err := inputs.Quality.Validate(); err != nil {
		return verdict.Outcome{}, fmt.Errorf("invalid quality report: %w", err)
	}

	runID := inputs.Snapshot.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	assessment := e.scorer.Score(inputs.Quality)
	outcomes := domain.GateOutcomes{
		DataIntegrity: e.integrity.Evaluate(inputs.Quality),
	}

	intentOutcome, err := e.intent.Evaluate(inputs.Beta, inputs.Snapshot.Intent, inputs.BetaWindowYears)
	if err != nil {
		return verdict.Outcome{}, fmt.Errorf("risk intent gate: %w", err)
	}
	outcomes.RiskIntent = intentOutcome

	// A failed data gate suspends the gates that read the same series. The
	// intent gate above still runs: its window check is independent and its
	// mismatch verdict stays certain even on degraded data.
	if outcomes.DataIntegrity.Status == domain.StatusHardFail {
		outcomes.Structural = blockedOutcome(domain.GateStructural, "data integrity hard fail suspends structural evaluation")
		outcomes.Benchmark = blockedOutcome(domain.GateBenchmark, "data integrity hard fail suspends benchmark comparison")
	} else {
		outcomes.Structural = e.structural.Evaluate(inputs.Signals, inputs.Evidence)
		benchmarkOutcome, err := e.categorizer.Categorize(inputs.Benchmark)
		if err != nil {
			return verdict.Outcome{}, fmt.Errorf("benchmark categorizer: %w", err)
		}
		outcomes.Benchmark = benchmarkOutcome
	}

	final := e.aggregator.Aggregate(runID, outcomes, assessment)
	outcome := verdict.Resolve(final)

	log.Info().
		Str("run_id", runID).
		Str("verdict", string(final.Type)).
		Str("confidence_level", string(assessment.Level)).
		Bool("blocked", outcome.Blocked()).
		Msg("evaluation complete")
	return outcome, nil
}

// Override applies an acknowledgment to a blocked verdict and returns the
// re-marked verdict. The underlying gate outcomes and confidence are kept
// intact so the resumed caller sees exactly what was degraded.
func (e *Engine) Override(ctx context.Context, blocked domain.FinalVerdict, req override.Request) (domain.FinalVerdict, error) {
	return e.protocol.Apply(ctx, blocked, req)
}

// OverrideHistory exposes the audit trail, optionally filtered by authorizer.
func (e *Engine) OverrideHistory(ctx context.Context, authorizer string) ([]domain.OverrideRecord, error) {
	return e.protocol.History(ctx, authorizer)
}

func blockedOutcome(gate, reason string) *domain.GateOutcome {
	return &domain.GateOutcome{
		Gate:    gate,
		Status:  domain.StatusBlocked,
		Message: reason,
	}
}
