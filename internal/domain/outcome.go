package domain

import (
	"fmt"
	"sort"
)

// GateStatus is a closed state tag; each gate draws from its own subset.
type GateStatus string

const (
	StatusPass         GateStatus = "PASS"
	StatusWarn         GateStatus = "WARN"
	StatusSoftFail     GateStatus = "SOFT_FAIL"
	StatusHardFail     GateStatus = "HARD_FAIL"
	StatusInconclusive GateStatus = "INCONCLUSIVE"
	StatusWatchlist    GateStatus = "WATCHLIST"
	StatusFail         GateStatus = "FAIL"
	StatusBlocked      GateStatus = "BLOCKED"
)

// Gate names used in outcomes and telemetry.
const (
	GateDataIntegrity = "data_integrity"
	GateRiskIntent    = "risk_intent"
	GateStructural    = "structural"
	GateBenchmark     = "benchmark"
)

// ActionPriority orders prescriptive actions.
type ActionPriority string

const (
	PriorityCritical ActionPriority = "CRITICAL"
	PriorityHigh     ActionPriority = "HIGH"
	PriorityMedium   ActionPriority = "MEDIUM"
	PriorityLow      ActionPriority = "LOW"
	PriorityInfo     ActionPriority = "INFO"
)

var priorityRank = map[ActionPriority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
	PriorityInfo:     4,
}

// Rank returns the sort rank of the priority; unknown priorities sort last.
func (p ActionPriority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// PrescriptiveAction is a remediation a gate attaches to its outcome.
type PrescriptiveAction struct {
	IssueCode   string         `json:"issue_code"`
	Priority    ActionPriority `json:"priority"`
	Confidence  float64        `json:"confidence"` // [0,1]
	Description string         `json:"description"`
	Steps       []string       `json:"steps"`
	Blocks      []string       `json:"blocks,omitempty"` // downstream capabilities blocked if unaddressed
}

// SortActions orders actions by priority, ties broken by confidence descending.
func SortActions(actions []PrescriptiveAction) {
	sort.SliceStable(actions, func(i, j int) bool {
		ri, rj := actions[i].Priority.Rank(), actions[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return actions[i].Confidence > actions[j].Confidence
	})
}

// GateOutcome is one gate's result: status tag, human-readable message, the
// numbers behind the decision, and zero or more prescriptive actions.
// Outcomes are created fresh each run and never mutated after construction.
type GateOutcome struct {
	Gate    string               `json:"gate"`
	Status  GateStatus           `json:"status"`
	Message string               `json:"message"`
	Details map[string]any       `json:"details,omitempty"`
	Actions []PrescriptiveAction `json:"actions,omitempty"`
}

// Summary renders a one-line status summary.
func (o *GateOutcome) Summary() string {
	return fmt.Sprintf("%s [%s] %s", o.Gate, o.Status, o.Message)
}
