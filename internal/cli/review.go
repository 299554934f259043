package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/report"
)

var (
	reviewDecision  string
	reviewComments  string
	reviewReviewer  string
	reviewFactsPath string
	reviewStateDir  string
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review <documentId>",
	Short: "Resume a suspended verification with a reviewer decision",
	Long: `Review resumes a run suspended at the human-review checkpoint.

Decisions:
  approve  accept the findings as-is and complete the run
  revise   re-run validation and scoring, optionally with corrected
           facts supplied via --facts
  reject   mark the run as failed

Revise rebuilds every finding from scratch, so the corrected facts fully
replace the extracted ones rather than being merged.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewDecision, "decision", "d", "", "approve, revise, or reject (required)")
	reviewCmd.Flags().StringVarP(&reviewComments, "comments", "m", "", "reviewer comments")
	reviewCmd.Flags().StringVar(&reviewReviewer, "reviewer", "", "reviewer identifier")
	reviewCmd.Flags().StringVar(&reviewFactsPath, "facts", "", "JSON file with corrected facts (revise only)")
	reviewCmd.Flags().StringVar(&reviewStateDir, "state-dir", "", "directory for suspended run state")
	_ = reviewCmd.MarkFlagRequired("decision")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if reviewStateDir != "" {
		cfg.Output.StateDir = reviewStateDir
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	fb := model.HumanFeedback{
		Decision:   model.ReviewDecision(reviewDecision),
		Comments:   reviewComments,
		ReviewerID: reviewReviewer,
	}
	if reviewFactsPath != "" {
		data, err := os.ReadFile(reviewFactsPath)
		if err != nil {
			return fmt.Errorf("reading corrected facts: %w", err)
		}
		var facts model.RawFacts
		if err := json.Unmarshal(data, &facts); err != nil {
			return fmt.Errorf("parsing corrected facts: %w", err)
		}
		fb.CorrectedFacts = &facts
	}

	record, err := runner.Resume(cmd.Context(), args[0], fb)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	renderer.RenderSummary(os.Stdout, record)
	return nil
}
