package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/fevercs/internal/dataset"
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/score"
	"github.com/spf13/cobra"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <predictions> [gold]",
	Short: "Compute FEVER metrics for a predictions file",
	Long: `Score compares predicted labels and evidence with the gold data and reports
label accuracy, strict FEVER score, evidence precision, recall and F1.

Each prediction line carries "predicted_label" and "predicted_evidence", a list of
[page, line] pairs. When a line lacks the gold "label" or "evidence" (blind mode),
the gold file is required and is matched line by line.

Example:
  fevercs score predictions.jsonl
  fevercs score predictions.jsonl cs_test.jsonl --max-evidence 5 --json score.json`,
	Args: withUsage(cobra.RangeArgs(1, 2)),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Int("max-evidence", score.DefaultMaxEvidence, "predictions considered per instance (0 = all)")
	scoreCmd.Flags().String("json", "", "also write the report as JSON to this path")
}

func runScore(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd.Flags(), map[string]string{"max-evidence": "score.max_evidence"}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	predictions, err := dataset.ReadInstances(args[0])
	if err != nil {
		return fmt.Errorf("read predictions: %w", err)
	}

	var gold []model.Instance
	if len(args) > 1 {
		gold, err = dataset.ReadInstances(args[1])
		if err != nil {
			return fmt.Errorf("read gold data: %w", err)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scoring: %s (%d instances)\n", args[0], len(predictions))
		fmt.Fprintf(os.Stderr, "Max evidence: %d\n", cfg.Score.MaxEvidence)
		fmt.Fprintln(os.Stderr)
	}

	report, err := score.FeverScore(predictions, gold, cfg.Score.MaxEvidence)
	if err != nil {
		return fmt.Errorf("score failed: %w", err)
	}

	renderScore(report)

	if jsonPath, _ := cmd.Flags().GetString("json"); jsonPath != "" {
		if err := dataset.WriteJSON(jsonPath, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}
	return nil
}

func renderScore(r model.ScoreReport) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  FEVER score (%d instances, max evidence %d)\n", r.Instances, r.MaxEvidence)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Strict score:      %.4f\n", r.StrictScore)
	fmt.Printf("  Label accuracy:    %.4f\n", r.LabelAccuracy)
	fmt.Printf("  Precision:         %.4f\n", r.Precision)
	fmt.Printf("  Recall:            %.4f\n", r.Recall)
	fmt.Printf("  F1:                %.4f\n", r.F1)
	fmt.Printf("  Accurate evidence: %d/%d\n", r.AccurateEvidence, r.Instances)
}
