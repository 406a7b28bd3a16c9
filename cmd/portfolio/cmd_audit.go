package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// auditCmd lists the override audit trail
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recorded overrides",
	Long: `List the append-only override audit trail, optionally filtered to one
authorizer.

Examples:
  portfolio audit
  portfolio audit --authorizer analyst.rossi
  portfolio audit --format json`,
	RunE: runAudit,
}

var (
	auditAuthorizer string
	auditFormat     string
)

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditAuthorizer, "authorizer", "", "Filter by authorizer")
	auditCmd.Flags().StringVar(&auditFormat, "format", "table", "Output format: table, json")
}

func runAudit(cmd *cobra.Command, args []string) error {
	eng, _, err := buildEngine(cmd.Context(), "")
	if err != nil {
		return err
	}

	records, err := eng.OverrideHistory(cmd.Context(), auditAuthorizer)
	if err != nil {
		return err
	}

	if auditFormat == "json" {
		encoded, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tVERDICT\tAUTHORIZER\tAPPROVAL\tJUSTIFICATION")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp.Format("2006-01-02 15:04"), rec.VerdictType,
			rec.Authorizer, rec.ApprovalLevel, rec.Justification)
	}
	return w.Flush()
}
