package domain

import (
	"fmt"
	"math"
	"time"
)

// WeightSumTolerance is the allowed deviation of the holding weight sum from 1.0.
const WeightSumTolerance = 0.005

// RiskIntentLevel is the declared target risk profile of a portfolio.
// It is declared ex-ante by the owner, never derived from the data.
type RiskIntentLevel string

const (
	IntentConservative      RiskIntentLevel = "CONSERVATIVE"
	IntentModerate          RiskIntentLevel = "MODERATE"
	IntentGrowth            RiskIntentLevel = "GROWTH"
	IntentGrowthDiversified RiskIntentLevel = "GROWTH_DIVERSIFIED"
	IntentAggressive        RiskIntentLevel = "AGGRESSIVE"
	IntentHighBeta          RiskIntentLevel = "HIGH_BETA"
)

// Holding is one (instrument, weight) pair of a snapshot.
type Holding struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

// TimeWindow describes the observation window behind a snapshot.
type TimeWindow struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TradingDays int       `json:"trading_days"`
}

// PortfolioSnapshot is the immutable input of one analysis run. It is created
// once by the caller and never mutated by the decision core.
type PortfolioSnapshot struct {
	RunID    string          `json:"run_id"`
	Holdings []Holding       `json:"holdings"`
	Intent   RiskIntentLevel `json:"risk_intent"`
	Window   TimeWindow      `json:"window"`
}

// Validate checks structural well-formedness: non-empty holdings, positive
// weights, and a weight sum of 1.0 within tolerance.
func (s PortfolioSnapshot) Validate() error {
	if len(s.Holdings) == 0 {
		return fmt.Errorf("snapshot %s has no holdings", s.RunID)
	}
	if s.Intent == "" {
		return fmt.Errorf("snapshot %s has no declared risk intent", s.RunID)
	}
	sum := 0.0
	for _, h := range s.Holdings {
		if h.Ticker == "" {
			return fmt.Errorf("snapshot %s contains a holding without a ticker", s.RunID)
		}
		if h.Weight < 0 {
			return fmt.Errorf("holding %s has negative weight %.4f", h.Ticker, h.Weight)
		}
		sum += h.Weight
	}
	if math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("holding weights sum to %.4f, expected 1.0 ±%.3f", sum, WeightSumTolerance)
	}
	return nil
}
