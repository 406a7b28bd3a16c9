// Package report renders evaluation outcomes for machine and human readers.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
	"github.com/NicXVII/analisiPortafoglio/internal/verdict"
)

// RenderJSON serializes an outcome for downstream tooling. The document
// round-trips losslessly through ParseJSON.
func RenderJSON(outcome verdict.Outcome) ([]byte, error) {
	raw, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding outcome: %w", err)
	}
	return raw, nil
}

// ParseJSON decodes a previously rendered outcome.
func ParseJSON(raw []byte) (verdict.Outcome, error) {
	var outcome verdict.Outcome
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return verdict.Outcome{}, fmt.Errorf("decoding outcome: %w", err)
	}
	return outcome, nil
}

// RenderText builds the human-readable report: verdict, confidence, a
// per-gate summary table, and prescriptive actions in priority order.
func RenderText(outcome verdict.Outcome) string {
	v := outcome.Verdict
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", v.RunID)
	fmt.Fprintf(&b, "Verdict: %s (confidence %.1f)\n", v.Type, v.Confidence)
	if outcome.Blocked() {
		fmt.Fprintf(&b, "BLOCKED by %s gate: result withheld pending explicit override\n", outcome.Block.Gate)
	}
	if v.OverrideApplied && v.Override != nil {
		fmt.Fprintf(&b, "Override applied by %s at %s\n",
			v.Override.Authorizer, v.Override.Timestamp.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "\n%s\n", v.Rationale)

	b.WriteString("\nGates:\n")
	for _, g := range []*domain.GateOutcome{v.Gates.DataIntegrity, v.Gates.RiskIntent, v.Gates.Structural, v.Gates.Benchmark} {
		if g == nil {
			continue
		}
		fmt.Fprintf(&b, "  %s\n", g.Summary())
	}

	if len(v.Actions) > 0 {
		b.WriteString("\nActions:\n")
		for i, a := range v.Actions {
			fmt.Fprintf(&b, "  %d. [%s] %s (%s, confidence %.2f)\n",
				i+1, a.Priority, a.Description, a.IssueCode, a.Confidence)
			for _, step := range a.Steps {
				fmt.Fprintf(&b, "     - %s\n", step)
			}
			if len(a.Blocks) > 0 {
				fmt.Fprintf(&b, "     blocks: %s\n", strings.Join(a.Blocks, ", "))
			}
		}
	}

	if outcome.Blocked() {
		b.WriteString("\nRemediation:\n")
		for _, r := range outcome.Block.Remediation {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	return b.String()
}
