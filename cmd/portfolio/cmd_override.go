package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NicXVII/analisiPortafoglio/internal/override"
	"github.com/NicXVII/analisiPortafoglio/internal/report"
	"github.com/NicXVII/analisiPortafoglio/internal/verdict"
)

// overrideCmd records an acknowledgment for a blocked verdict
var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Record an override for a blocked verdict",
	Long: `Validate and record an explicit acknowledgment for a blocked verdict
previously written with 'analyze --format json --out'. The re-marked verdict
is printed; the acknowledgment is appended to the audit trail.

Example:
  portfolio override --verdict verdict.json \
      --authorizer analyst.rossi --approval SENIOR \
      --justification "Vendor gap reconciled against custodian records"`,
	RunE: runOverride,
}

var (
	overrideVerdictPath  string
	overrideAuthorizer   string
	overrideJustify      string
	overrideApproval     string
	overrideValidFor     time.Duration
)

func init() {
	rootCmd.AddCommand(overrideCmd)

	overrideCmd.Flags().StringVar(&overrideVerdictPath, "verdict", "", "Path to the blocked verdict JSON (required)")
	overrideCmd.Flags().StringVar(&overrideAuthorizer, "authorizer", "", "Identity of the authorizer (required)")
	overrideCmd.Flags().StringVar(&overrideJustify, "justification", "", "Justification, at least 20 characters (required)")
	overrideCmd.Flags().StringVar(&overrideApproval, "approval", "", "Approval level: ANALYST, SENIOR, CIO")
	overrideCmd.Flags().DurationVar(&overrideValidFor, "valid-for", 0, "Optional validity window, e.g. 72h")
	overrideCmd.MarkFlagRequired("verdict")
	overrideCmd.MarkFlagRequired("authorizer")
	overrideCmd.MarkFlagRequired("justification")
}

func runOverride(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(overrideVerdictPath)
	if err != nil {
		return fmt.Errorf("reading verdict: %w", err)
	}
	outcome, err := report.ParseJSON(raw)
	if err != nil {
		return err
	}

	eng, _, err := buildEngine(cmd.Context(), "")
	if err != nil {
		return err
	}

	req := override.Request{
		VerdictType:   outcome.Verdict.Type,
		Authorizer:    overrideAuthorizer,
		Justification: overrideJustify,
		ApprovalLevel: overrideApproval,
	}
	if overrideValidFor > 0 {
		expires := time.Now().Add(overrideValidFor)
		req.ExpiresAt = &expires
	}

	marked, err := eng.Override(cmd.Context(), outcome.Verdict, req)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(verdict.Outcome{Verdict: marked}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
