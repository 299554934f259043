package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/report"
	"github.com/verilex/verilex/internal/worker"
)

var (
	batchType        string
	batchConcurrency int
	batchOutputDir   string
	batchExtractor   string
	batchStateDir    string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Verify every document in a directory",
	Long: `Batch runs the verification pipeline over all .txt, .text and .md
files in a directory, processing them concurrently. Each document gets
its own record; high-risk documents suspend for review individually.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchType, "type", "t", "", "document type hint applied to every file")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "", "write a JSON report per document into this directory")
	batchCmd.Flags().StringVarP(&batchExtractor, "extractor", "e", "", "extractor provider (heuristic, openai)")
	batchCmd.Flags().StringVar(&batchStateDir, "state-dir", "", "directory for suspended run state")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchExtractor != "" {
		cfg.Extractor.Provider = batchExtractor
	}
	if batchStateDir != "" {
		cfg.Output.StateDir = batchStateDir
	}
	if batchConcurrency > 0 {
		cfg.Concurrency.Workers = batchConcurrency
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(runner, cfg.Concurrency.Workers)
	docType := flagDocType(batchType)
	results, err := processor.ProcessDir(cmd.Context(), args[0], docType)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	if batchOutputDir != "" {
		if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	var completed, suspended, failed int
	for _, res := range results {
		switch {
		case res.Record == nil:
			failed++
			fmt.Printf("✗ %s: %v\n", res.Path, res.Error)
			continue
		case res.Record.PipelineStatus == model.StatusAwaitingReview:
			suspended++
			fmt.Printf("⏸ %s: score %.1f (%s), awaiting review\n",
				res.Path, res.Record.OverallRiskScore, res.Record.RiskLevel)
		case res.Record.PipelineStatus == model.StatusFailed:
			failed++
			fmt.Printf("✗ %s: %s\n", res.Path, res.Record.FailureReason)
		default:
			completed++
			fmt.Printf("✓ %s: score %.1f (%s)\n",
				res.Path, res.Record.OverallRiskScore, res.Record.RiskLevel)
		}

		if batchOutputDir != "" {
			out := filepath.Join(batchOutputDir, res.Record.DocumentID+".json")
			if err := renderer.RenderJSON(res.Record, out); err != nil {
				return err
			}
		}
	}

	fmt.Printf("\n%d completed, %d awaiting review, %d failed\n", completed, suspended, failed)
	return nil
}
