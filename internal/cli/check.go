package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/qezhu/medqc/internal/catalog"
	"github.com/qezhu/medqc/internal/logging"
	"github.com/qezhu/medqc/internal/metrics"
	"github.com/qezhu/medqc/internal/model"
	"github.com/qezhu/medqc/internal/pipeline"
	"github.com/qezhu/medqc/internal/worker"
)

var (
	knowledgeDir string
	outJSON      string
	outMD        string
	checkTimeout time.Duration
	noCache      bool
	noFooter     bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <document>",
	Short: "Check a single clinical document and generate a QC report",
	Long: `Check runs the quality control pipeline on one document file:
- Match symptom terms per section, with typo and synonym normalization
- Extract clinical indicators (vitals, labs) with values and units
- Validate indicator values against physiological ranges
- Evaluate document-type specific content rules
- Aggregate issues into a 0-100 score and qualification verdict

The document file is JSON or YAML with a document_type and a sections map.

Example:
  medqc check record.json
  medqc check record.yaml --knowledge ./knowledge --json report.json --md report.md
  medqc check record.json --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Knowledge base flags
	checkCmd.Flags().StringVar(&knowledgeDir, "knowledge", "", "knowledge base directory (default: ./knowledge)")

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Pipeline flags
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable verdict cache")

	// LLM flags
	checkCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM remediation advice (never affects the score)")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	doc, err := worker.LoadDocument(path)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s (%s)\n", path, doc.DocumentType)
		fmt.Fprintf(os.Stderr, "Knowledge: %s\n", cfg.Knowledge.Dir)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, logger, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := p.Check(ctx, doc)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Found %d issues\n", len(result.Verdict.Issues))
		fmt.Fprintf(os.Stderr, "✓ Score: %.0f/100\n", result.Verdict.TotalScore)
		if result.Advice != nil {
			fmt.Fprintf(os.Stderr, "✓ Generated advice using %s/%s\n", result.Advice.Provider, result.Advice.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render Markdown: %w", err)
		}
	}
	renderer.RenderSummary(result)

	return nil
}

// buildConfig assembles the runtime configuration from defaults, the viper
// config file, and CLI flags (highest priority).
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	// Config file / environment overrides
	if viper.IsSet("knowledge.dir") {
		cfg.Knowledge.Dir = viper.GetString("knowledge.dir")
	}
	if viper.IsSet("score.qualification_threshold") {
		cfg.Score.QualificationThreshold = viper.GetFloat64("score.qualification_threshold")
	}
	if viper.IsSet("log.level") {
		cfg.Log.Level = viper.GetString("log.level")
	}
	if viper.IsSet("log.format") {
		cfg.Log.Format = viper.GetString("log.format")
	}
	if viper.IsSet("llm.api_key") {
		cfg.LLM.APIKey = viper.GetString("llm.api_key")
	}
	if viper.IsSet("llm.base_url") {
		cfg.LLM.BaseURL = viper.GetString("llm.base_url")
	}

	if knowledgeDir != "" {
		cfg.Knowledge.Dir = knowledgeDir
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}

// buildPipeline loads the knowledge base and wires up the pipeline.
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, *zap.Logger, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	store := catalog.NewStore()
	snap, err := catalog.LoadIntoStore(store, cfg.Knowledge.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load knowledge base: %w", err)
	}
	logger.Info("knowledge base loaded",
		zap.String("dir", cfg.Knowledge.Dir),
		zap.Int("terms", snap.Catalog.Len()),
		zap.Int("rules", len(snap.Rules)),
		zap.Uint64("version", snap.Version))

	collector := metrics.NewCollector(prometheus.NewRegistry())

	p, err := pipeline.New(cfg, store, collector, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build pipeline: %w", err)
	}
	return p, logger, nil
}
