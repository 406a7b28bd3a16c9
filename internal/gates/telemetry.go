package gates

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

var gateEvaluations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "gates",
		Name:      "evaluations_total",
		Help:      "Gate evaluations by gate name and resulting status.",
	},
	[]string{"gate", "status"},
)

func recordGateEvaluation(outcome *domain.GateOutcome) {
	gateEvaluations.WithLabelValues(outcome.Gate, string(outcome.Status)).Inc()
}
