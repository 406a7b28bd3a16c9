package verdict

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

var verdictsIssued = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "verdicts",
		Name:      "issued_total",
		Help:      "Final verdicts by type and blocking flag.",
	},
	[]string{"type", "blocking"},
)

func recordVerdict(t domain.VerdictType) {
	blocking := "false"
	if t.Blocking() {
		blocking = "true"
	}
	verdictsIssued.WithLabelValues(string(t), blocking).Inc()
}
