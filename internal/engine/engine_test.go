package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicXVII/analisiPortafoglio/internal/config"
	"github.com/NicXVII/analisiPortafoglio/internal/data"
	"github.com/NicXVII/analisiPortafoglio/internal/domain"
	"github.com/NicXVII/analisiPortafoglio/internal/gates"
	"github.com/NicXVII/analisiPortafoglio/internal/override"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func nominalInputs() data.RunInputs {
	return data.RunInputs{
		Snapshot: domain.PortfolioSnapshot{
			RunID:  "run-nominal",
			Intent: domain.IntentAggressive,
			Holdings: []domain.Holding{
				{Ticker: "VWCE", Weight: 0.55},
				{Ticker: "QQQ", Weight: 0.30},
				{Ticker: "EIMI", Weight: 0.15},
			},
		},
		Quality: domain.DataQualityReport{
			MissingRatio:      0.02,
			ValidPairs:        3,
			TotalPairs:        3,
			RollingCorrStdDev: 0.05,
			HistoryDays:       map[string]int{"VWCE": 2000, "QQQ": 2200, "EIMI": 1800},
		},
		Beta:            1.10,
		BetaWindowYears: 7.0,
		Signals:         gates.StructuralSignals{TopHoldingWeight: 0.20, MeanCorrelation: 0.55, MaxDrawdown: 0.22},
		Benchmark: gates.BenchmarkInputs{
			BenchmarkName:     "VT",
			DefensiveFraction: floatPtr(0.03),
			HasSectorTilts:    boolPtr(false),
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := override.NewFileStore(filepath.Join(t.TempDir(), "overrides.jsonl"))
	require.NoError(t, err)
	return New(config.Default(), &data.StaticProvider{}, store)
}

func TestEvaluateNominalRunIsCoherent(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.EvaluateInputs(context.Background(), nominalInputs())
	require.NoError(t, err)

	assert.False(t, outcome.Blocked())
	assert.Equal(t, domain.VerdictCoherentIntentMatch, outcome.Verdict.Type)
	assert.Equal(t, domain.StatusPass, outcome.Verdict.Gates.DataIntegrity.Status)
	assert.Equal(t, gates.SameCategory, gates.CategoryOf(outcome.Verdict.Gates.Benchmark))
}

func TestEvaluateSparseDataBlocksAndOverrideUnblocks(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	inputs := nominalInputs()
	inputs.Quality.MissingRatio = 0.25

	outcome, err := engine.EvaluateInputs(ctx, inputs)
	require.NoError(t, err)

	require.True(t, outcome.Blocked())
	assert.Equal(t, domain.VerdictInconclusiveDataFail, outcome.Verdict.Type)
	assert.Equal(t, domain.GateDataIntegrity, outcome.Block.Gate)
	// Downstream gates are suspended, not evaluated on bad data.
	assert.Equal(t, domain.StatusBlocked, outcome.Verdict.Gates.Structural.Status)
	assert.Equal(t, domain.StatusBlocked, outcome.Verdict.Gates.Benchmark.Status)

	marked, err := engine.Override(ctx, outcome.Verdict, override.Request{
		VerdictType:   domain.VerdictInconclusiveDataFail,
		Authorizer:    "analyst.rossi",
		Justification: "Vendor gap confirmed and reconciled against custodian records.",
	})
	require.NoError(t, err)
	assert.True(t, marked.OverrideApplied)
	assert.Equal(t, domain.VerdictInconclusiveDataFail, marked.Type)

	history, err := engine.OverrideHistory(ctx, "analyst.rossi")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestEvaluateIntentHardFailOnCoherentStructure(t *testing.T) {
	engine := newTestEngine(t)

	inputs := nominalInputs()
	inputs.Beta = 0.50

	outcome, err := engine.EvaluateInputs(context.Background(), inputs)
	require.NoError(t, err)

	assert.False(t, outcome.Blocked())
	assert.Equal(t, domain.VerdictIntentMisalignedStructOK, outcome.Verdict.Type)

	var codes []string
	for _, a := range outcome.Verdict.Actions {
		codes = append(codes, a.IssueCode)
	}
	assert.Contains(t, codes, "INTENT_MISMATCH_HARD")
}

func TestEvaluateShortWindowSuspendsIntentVerdict(t *testing.T) {
	engine := newTestEngine(t)

	inputs := nominalInputs()
	inputs.BetaWindowYears = 1.5

	outcome, err := engine.EvaluateInputs(context.Background(), inputs)
	require.NoError(t, err)

	require.True(t, outcome.Blocked())
	assert.Equal(t, domain.VerdictInconclusiveIntentData, outcome.Verdict.Type)
	assert.Equal(t, domain.GateRiskIntent, outcome.Block.Gate)
}

func TestEvaluateDataFailOutranksStructuralEvidence(t *testing.T) {
	engine := newTestEngine(t)

	inputs := nominalInputs()
	inputs.Quality.MissingRatio = 0.30
	inputs.Evidence = []gates.CausalEvidence{{
		Kind: gates.EvidenceSingleDriver, Driver: "single theme",
		RiskShare: 0.70, CollapsesWithoutDriver: true,
	}}

	outcome, err := engine.EvaluateInputs(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictInconclusiveDataFail, outcome.Verdict.Type)
}

func TestEvaluateInputErrors(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	bad := nominalInputs()
	bad.Snapshot.Holdings[0].Weight = 0.90
	_, err := engine.EvaluateInputs(ctx, bad)
	assert.Error(t, err)

	missing := nominalInputs()
	missing.Benchmark.DefensiveFraction = nil
	_, err = engine.EvaluateInputs(ctx, missing)
	assert.ErrorIs(t, err, gates.ErrMissingCategorizerInput)
}

func TestEvaluateCollectsThroughProvider(t *testing.T) {
	store, err := override.NewFileStore(filepath.Join(t.TempDir(), "overrides.jsonl"))
	require.NoError(t, err)
	provider := &data.StaticProvider{Inputs: nominalInputs()}
	engine := New(config.Default(), provider, store)

	outcome, err := engine.Evaluate(context.Background(), "portfolio-1")
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictCoherentIntentMatch, outcome.Verdict.Type)
}
