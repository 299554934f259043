package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/pipeline"
	"github.com/verilex/verilex/internal/report"
)

var (
	verifyType      string
	verifyID        string
	verifyJSONPath  string
	verifyMDPath    string
	verifyExtractor string
	verifyStateDir  string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Verify a single legal document",
	Long: `Verify runs the full pipeline on one document: classification,
fact extraction, compliance checking, risk scoring, and reporting.

High-risk documents suspend at the review checkpoint instead of
completing; resume them with 'verilex review <documentId>'.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyType, "type", "t", "", "document type hint (contract, license, service_agreement)")
	verifyCmd.Flags().StringVar(&verifyID, "id", "", "document ID (default: file name without extension)")
	verifyCmd.Flags().StringVar(&verifyJSONPath, "json", "", "write the JSON report to this path")
	verifyCmd.Flags().StringVar(&verifyMDPath, "md", "", "write the Markdown report to this path")
	verifyCmd.Flags().StringVarP(&verifyExtractor, "extractor", "e", "", "extractor provider (heuristic, openai)")
	verifyCmd.Flags().StringVar(&verifyStateDir, "state-dir", "", "directory for suspended run state")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyVerifyFlags(cfg)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document %s: %w", args[0], err)
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	id := verifyID
	if id == "" {
		base := filepath.Base(args[0])
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}

	record, err := runner.Start(cmd.Context(), pipeline.StartRequest{
		DocumentID:   id,
		DocumentType: flagDocType(verifyType),
		RawText:      string(data),
	})
	if record == nil {
		return err
	}

	return emitRecord(cfg, record, err)
}

func applyVerifyFlags(cfg *model.Config) {
	if verifyExtractor != "" {
		cfg.Extractor.Provider = verifyExtractor
	}
	if verifyStateDir != "" {
		cfg.Output.StateDir = verifyStateDir
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

// emitRecord renders the record to stdout and any requested report files,
// then surfaces the pipeline error (if any) so failed runs exit non-zero.
func emitRecord(cfg *model.Config, record *model.VerificationRecord, runErr error) error {
	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	renderer.RenderSummary(os.Stdout, record)

	if verifyJSONPath != "" {
		if err := renderer.RenderJSON(record, verifyJSONPath); err != nil {
			return err
		}
		fmt.Printf("JSON report written to %s\n", verifyJSONPath)
	}
	if verifyMDPath != "" {
		if err := renderer.RenderMarkdown(record, verifyMDPath); err != nil {
			return err
		}
		fmt.Printf("Markdown report written to %s\n", verifyMDPath)
	}

	if record.PipelineStatus == model.StatusAwaitingReview {
		fmt.Printf("\nRun 'verilex review %s --decision approve' after inspection.\n", record.DocumentID)
	}
	return runErr
}
