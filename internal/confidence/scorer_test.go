package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

func fullHistory(days int, tickers ...string) map[string]int {
	out := make(map[string]int, len(tickers))
	for _, t := range tickers {
		out[t] = days
	}
	return out
}

func TestScoreNominalInput(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	assessment := scorer.Score(domain.DataQualityReport{
		MissingRatio:      0.0,
		HistoryDays:       fullHistory(1260, "VT", "BND", "GLD"),
		ValidPairs:        3,
		TotalPairs:        3,
		RollingCorrStdDev: 0.0,
	})

	assert.InDelta(t, 100.0, assessment.Aggregate, 1e-9)
	assert.Equal(t, domain.ConfidenceHigh, assessment.Level)
}

func TestScoreComponentFormulas(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	assessment := scorer.Score(domain.DataQualityReport{
		MissingRatio:      0.10,
		HistoryDays:       fullHistory(630, "VT", "QQQ"), // half the 1260d target
		ValidPairs:        1,
		TotalPairs:        2,
		RollingCorrStdDev: 0.15,
	})

	assert.InDelta(t, 90.0, assessment.Coverage, 1e-9)
	assert.InDelta(t, 50.0, assessment.PairwiseCoverage, 1e-9)
	assert.InDelta(t, 70.0, assessment.Stability, 1e-9) // 100 - 200*0.15
	assert.InDelta(t, 50.0, assessment.History, 1e-9)
	// 0.30*90 + 0.30*50 + 0.20*70 + 0.20*50 = 66
	assert.InDelta(t, 66.0, assessment.Aggregate, 1e-9)
	assert.Equal(t, domain.ConfidenceMedium, assessment.Level)
}

func TestScoreStabilityFlooredAtZero(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	assessment := scorer.Score(domain.DataQualityReport{
		RollingCorrStdDev: 0.9, // 100 - 200*0.9 would be negative
		HistoryDays:       fullHistory(1260, "VT"),
	})

	assert.Equal(t, 0.0, assessment.Stability)
}

func TestScoreZeroPairsIsNotAFault(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	assessment := scorer.Score(domain.DataQualityReport{
		MissingRatio: 0.05,
		HistoryDays:  fullHistory(1260, "VT"),
		ValidPairs:   0,
		TotalPairs:   0,
	})

	assert.Equal(t, 0.0, assessment.PairwiseCoverage)
	assert.Equal(t, domain.ConfidenceMedium, assessment.Level)
}

func TestLevelIsMonotonicStepFunction(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	rank := map[domain.ConfidenceLevel]int{
		domain.ConfidenceInsufficient: 0,
		domain.ConfidenceLow:          1,
		domain.ConfidenceMedium:       2,
		domain.ConfidenceHigh:         3,
	}

	// Increasing any component score must never decrease the level.
	base := domain.DataQualityReport{
		MissingRatio:      0.50,
		HistoryDays:       fullHistory(200, "VT", "BND"),
		ValidPairs:        0,
		TotalPairs:        4,
		RollingCorrStdDev: 0.40,
	}
	prev := rank[scorer.Score(base).Level]

	for ratio := 0.50; ratio >= 0; ratio -= 0.05 {
		report := base
		report.MissingRatio = ratio
		level := rank[scorer.Score(report).Level]
		require.GreaterOrEqual(t, level, prev, "level dropped while coverage improved (ratio=%.2f)", ratio)
		prev = level
	}

	for pairs := 0; pairs <= 4; pairs++ {
		report := base
		report.MissingRatio = 0
		report.ValidPairs = pairs
		level := rank[scorer.Score(report).Level]
		require.GreaterOrEqual(t, level, prev, "level dropped while pairwise coverage improved (pairs=%d)", pairs)
		prev = level
	}
}

func TestLevelBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  domain.ConfidenceLevel
	}{
		{100, domain.ConfidenceHigh},
		{80, domain.ConfidenceHigh},
		{79.9, domain.ConfidenceMedium},
		{60, domain.ConfidenceMedium},
		{59.9, domain.ConfidenceLow},
		{40, domain.ConfidenceLow},
		{39.9, domain.ConfidenceInsufficient},
		{0, domain.ConfidenceInsufficient},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.LevelForScore(tc.score), "score %.1f", tc.score)
	}
}
