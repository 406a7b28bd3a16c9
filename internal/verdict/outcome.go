package verdict

import (
	"fmt"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// Outcome is the caller-facing result of a run. Exactly one of the two
// shapes is active: a usable verdict, or a blocked state that withholds the
// verdict until an override is supplied. A blocked run is a legitimate
// terminal state, not an error.
type Outcome struct {
	Verdict domain.FinalVerdict `json:"verdict"`
	Block   *BlockedState       `json:"block,omitempty"`
}

// Blocked reports whether the run is withheld pending an override.
func (o Outcome) Blocked() bool {
	return o.Block != nil
}

// BlockedState carries what a blocked caller needs to proceed: which gate
// caused the block and the remediation options available.
type BlockedState struct {
	Gate        string   `json:"gate"`
	Reason      string   `json:"reason"`
	Remediation []string `json:"remediation"`
}

// Resolve wraps a verdict into its outcome shape. Blocking verdict types get
// a populated block state naming the gate that caused the suspension.
func Resolve(verdict domain.FinalVerdict) Outcome {
	if !verdict.Type.Blocking() {
		return Outcome{Verdict: verdict}
	}
	return Outcome{
		Verdict: verdict,
		Block:   blockStateFor(verdict),
	}
}

func blockStateFor(verdict domain.FinalVerdict) *BlockedState {
	state := &BlockedState{
		Reason: verdict.Rationale,
		Remediation: []string{
			"Fix the underlying data problem and re-run the evaluation",
			fmt.Sprintf("Record an explicit override for verdict type %s", verdict.Type),
		},
	}
	switch verdict.Type {
	case domain.VerdictInconclusiveDataFail:
		state.Gate = domain.GateDataIntegrity
	case domain.VerdictInconclusiveIntentData:
		state.Gate = domain.GateRiskIntent
	case domain.VerdictIntentFailStructInconc:
		state.Gate = domain.GateStructural
	default:
		state.Gate = domain.GateDataIntegrity
	}
	return state
}
