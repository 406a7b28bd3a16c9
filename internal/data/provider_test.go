package data

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

func TestFileProviderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.json")
	doc := `{
		"snapshot": {
			"run_id": "r1",
			"risk_intent": "AGGRESSIVE",
			"holdings": [{"ticker": "VWCE", "weight": 0.6}, {"ticker": "QQQ", "weight": 0.4}]
		},
		"quality": {"missing_ratio": 0.02, "valid_pairs": 1, "total_pairs": 1,
			"rolling_corr_std_dev": 0.08, "history_days": {"VWCE": 1500, "QQQ": 2000}},
		"beta": 1.1,
		"beta_window_years": 6.0,
		"signals": {"top_holding_weight": 0.6, "mean_correlation": 0.8, "max_drawdown": 0.3}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	inputs, err := NewFileProvider(path).Collect(context.Background(), "ignored")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentAggressive, inputs.Snapshot.Intent)
	assert.Equal(t, 1.1, inputs.Beta)
	assert.Equal(t, 0.6, inputs.Signals.TopHoldingWeight)
	assert.Equal(t, 1500, inputs.Quality.HistoryDays["VWCE"])
}

func TestFileProviderErrors(t *testing.T) {
	_, err := NewFileProvider("/nonexistent/inputs.json").Collect(context.Background(), "x")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = NewFileProvider(path).Collect(context.Background(), "x")
	assert.Error(t, err)
}

func TestBreakerProviderOpensAfterConsecutiveFailures(t *testing.T) {
	backendDown := errors.New("backend down")
	provider := NewBreakerProvider("test", &StaticProvider{Err: backendDown})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := provider.Collect(ctx, "p")
		assert.ErrorIs(t, err, backendDown)
	}

	// Breaker is now open; calls fail fast without reaching the backend.
	_, err := provider.Collect(ctx, "p")
	require.Error(t, err)
	assert.NotErrorIs(t, err, backendDown)
}

func TestThrottledProviderHonorsContextCancel(t *testing.T) {
	provider := NewThrottledProvider(&StaticProvider{}, 0.001, 1)
	ctx := context.Background()

	// First call consumes the burst token.
	_, err := provider.Collect(ctx, "p")
	require.NoError(t, err)

	cancelCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = provider.Collect(cancelCtx, "p")
	assert.Error(t, err)
}
