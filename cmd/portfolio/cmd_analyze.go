package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NicXVII/analisiPortafoglio/internal/report"
)

// analyzeCmd runs one evaluation from a run-inputs file
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate a portfolio snapshot",
	Long: `Run the full evaluation pipeline on a run-inputs JSON document.

Examples:
  portfolio analyze --inputs run.json
  portfolio analyze --inputs run.json --format json
  portfolio analyze --inputs run.json --out verdict.json`,
	RunE: runAnalyze,
}

var (
	analyzeInputs string
	analyzeFormat string
	analyzeOut    string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeInputs, "inputs", "", "Path to run inputs JSON (required)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Output format: text, json")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "Write output to file instead of stdout")
	analyzeCmd.MarkFlagRequired("inputs")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	eng, _, err := buildEngine(cmd.Context(), analyzeInputs)
	if err != nil {
		return err
	}

	outcome, err := eng.Evaluate(cmd.Context(), "")
	if err != nil {
		return err
	}

	var rendered []byte
	switch analyzeFormat {
	case "json":
		rendered, err = report.RenderJSON(outcome)
		if err != nil {
			return err
		}
	case "text":
		rendered = []byte(report.RenderText(outcome))
	default:
		return fmt.Errorf("unknown format %q (want text or json)", analyzeFormat)
	}

	if analyzeOut != "" {
		return os.WriteFile(analyzeOut, rendered, 0o644)
	}
	fmt.Println(string(rendered))

	if outcome.Blocked() {
		return fmt.Errorf("run blocked by %s gate; record an override to proceed", outcome.Block.Gate)
	}
	return nil
}
