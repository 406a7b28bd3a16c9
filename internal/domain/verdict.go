package domain

import (
	"strings"
	"time"
)

// VerdictType is the terminal classification of a run.
type VerdictType string

const (
	VerdictCoherentIntentMatch      VerdictType = "STRUCTURALLY_COHERENT_INTENT_MATCH"
	VerdictIntentMisalignedStructOK VerdictType = "INTENT_MISALIGNED_STRUCTURE_OK"
	VerdictStructurallyFragile      VerdictType = "STRUCTURALLY_FRAGILE"
	VerdictInconclusiveDataFail     VerdictType = "INCONCLUSIVE_DATA_FAIL"
	VerdictInconclusiveIntentData   VerdictType = "INCONCLUSIVE_INTENT_DATA"
	VerdictIntentFailStructInconc   VerdictType = "INTENT_FAIL_STRUCTURE_INCONCLUSIVE"
)

// Blocking reports whether the verdict must block the caller until an
// explicit override is supplied. Covers the INCONCLUSIVE_* family and
// INTENT_FAIL_STRUCTURE_INCONCLUSIVE.
func (v VerdictType) Blocking() bool {
	return strings.HasPrefix(string(v), "INCONCLUSIVE_") || v == VerdictIntentFailStructInconc
}

// GateOutcomes references the four outcomes a verdict was built from.
type GateOutcomes struct {
	DataIntegrity *GateOutcome `json:"data_integrity"`
	RiskIntent    *GateOutcome `json:"risk_intent"`
	Structural    *GateOutcome `json:"structural"`
	Benchmark     *GateOutcome `json:"benchmark"`
}

// FinalVerdict is the terminal record of a run. It is created once by the
// aggregator, intercepted by the override protocol, and never mutated
// afterwards except through WithOverride, which returns a re-marked copy.
type FinalVerdict struct {
	RunID           string               `json:"run_id"`
	Type            VerdictType          `json:"type"`
	Confidence      float64              `json:"confidence"` // aggregate confidence score, [0,100]
	Rationale       string               `json:"rationale"`
	Actions         []PrescriptiveAction `json:"actions"`
	Gates           GateOutcomes         `json:"gates"`
	GeneratedAt     time.Time            `json:"generated_at"`
	OverrideApplied bool                 `json:"override_applied"`
	Override        *OverrideRecord      `json:"override,omitempty"`
}

// WithOverride returns a copy of the verdict re-marked as override-applied,
// with the accepted override embedded. The original verdict is untouched.
func (v FinalVerdict) WithOverride(rec OverrideRecord) FinalVerdict {
	out := v
	out.OverrideApplied = true
	out.Override = &rec
	return out
}
