package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qezhu/medqc/internal/pipeline"
	"github.com/qezhu/medqc/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Check every document in a directory in parallel",
	Long: `Batch checks multiple documents concurrently:
- Load every .json/.yaml/.yml document in the input directory
- Check documents in parallel with a configurable worker count
- Write an individual JSON report per document
- Print a per-document score summary, sorted by file name

Example:
  medqc batch ./records
  medqc batch ./records --concurrency 16 --output-dir ./reports
  medqc batch ./records --knowledge ./knowledge --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: config value)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./medqc-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared flags
	batchCmd.Flags().StringVar(&knowledgeDir, "knowledge", "", "knowledge base directory (default: ./knowledge)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable verdict cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM remediation advice (never affects the score)")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.BatchWorkers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Medqc Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.BatchWorkers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, logger, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers)

	fmt.Fprintf(os.Stderr, "⚙️  Checking documents with %d workers...\n", cfg.Concurrency.BatchWorkers)
	fmt.Fprintf(os.Stderr, "\n")

	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("process directory: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0
	qualifiedCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		successCount++
		if result.Result.Verdict.IsQualified {
			qualifiedCount++
		}

		jsonPath := filepath.Join(outputDir, reportName(result.Path))
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Path, err)
			continue
		}

		verdict := "不合格"
		if result.Result.Verdict.IsQualified {
			verdict = "合格"
		}
		fmt.Fprintf(os.Stderr, "✓ %s (score: %.0f/100, %s)\n", result.Path, result.Result.Verdict.TotalScore, verdict)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Checked:    %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Qualified:  %d\n", qualifiedCount)
	fmt.Fprintf(os.Stderr, "  Failures:   %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportName derives the report file name from the document path.
func reportName(docPath string) string {
	base := filepath.Base(docPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".report.json"
}
