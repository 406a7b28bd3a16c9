package data

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// BreakerProvider wraps a provider in a circuit breaker so a failing
// measurement backend trips fast instead of stalling every run.
type BreakerProvider struct {
	inner   MetricsProvider
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerProvider decorates inner with a circuit breaker. The breaker
// opens after five consecutive failures and probes again after 30s.
func NewBreakerProvider(name string, inner MetricsProvider) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("metrics provider breaker state change")
		},
	}
	return &BreakerProvider{inner: inner, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (p *BreakerProvider) Collect(ctx context.Context, portfolioID string) (*RunInputs, error) {
	result, err := p.breaker.Execute(func() (any, error) {
		return p.inner.Collect(ctx, portfolioID)
	})
	if err != nil {
		return nil, fmt.Errorf("metrics provider %s: %w", p.breaker.Name(), err)
	}
	return result.(*RunInputs), nil
}

// ThrottledProvider rate-limits calls to a shared measurement backend.
type ThrottledProvider struct {
	inner   MetricsProvider
	limiter *rate.Limiter
}

// NewThrottledProvider decorates inner with a token bucket of the given
// rate and burst.
func NewThrottledProvider(inner MetricsProvider, perSecond float64, burst int) *ThrottledProvider {
	return &ThrottledProvider{inner: inner, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (p *ThrottledProvider) Collect(ctx context.Context, portfolioID string) (*RunInputs, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("metrics provider throttle: %w", err)
	}
	return p.inner.Collect(ctx, portfolioID)
}
