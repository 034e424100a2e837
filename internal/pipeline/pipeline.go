package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qezhu/medqc/internal/cache"
	"github.com/qezhu/medqc/internal/catalog"
	"github.com/qezhu/medqc/internal/extract"
	"github.com/qezhu/medqc/internal/llm"
	"github.com/qezhu/medqc/internal/metrics"
	"github.com/qezhu/medqc/internal/model"
	"github.com/qezhu/medqc/internal/rules"
	"github.com/qezhu/medqc/internal/score"
	"github.com/qezhu/medqc/internal/validate"
)

// Pipeline runs the complete QC pass over one document: symptom matching and
// indicator extraction per section, medical validation, content rule
// evaluation, and score aggregation. Each run reads one snapshot for its
// whole duration; concurrent runs and concurrent snapshot swaps never
// interfere.
type Pipeline struct {
	store      *catalog.Store
	extractor  *extract.IndicatorExtractor
	validator  *validate.MedicalValidator
	evaluator  *rules.Evaluator
	aggregator *score.Aggregator
	matcherCfg model.MatcherConfig

	cache    cache.Cache // nil when disabled
	cacheTTL time.Duration
	advisor  *llm.Advisor // nil when disabled

	collector *metrics.Collector
	logger    *zap.Logger
}

// New creates a pipeline over a snapshot store. A misconfigured LLM advisor
// is a warning, not a failure: QC never depends on the advice layer.
func New(cfg *model.Config, store *catalog.Store, collector *metrics.Collector, logger *zap.Logger) (*Pipeline, error) {
	aggregator, err := score.NewAggregator(cfg.Score)
	if err != nil {
		return nil, fmt.Errorf("score config: %w", err)
	}

	var verdictCache cache.Cache
	if cfg.Cache.Enabled {
		verdictCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}

	advisor, err := llm.NewAdvisor(cfg.LLM)
	if err != nil {
		logger.Warn("LLM advisor disabled", zap.Error(err))
		advisor = nil
	}

	return &Pipeline{
		store:      store,
		extractor:  extract.NewIndicatorExtractor(),
		validator:  validate.NewMedicalValidator(),
		evaluator:  rules.NewEvaluator(),
		aggregator: aggregator,
		matcherCfg: cfg.Matcher,
		cache:      verdictCache,
		cacheTTL:   cfg.Cache.TTL,
		advisor:    advisor,
		collector:  collector,
		logger:     logger,
	}, nil
}

// Result wraps one run's verdict with run metadata. The metadata lives here,
// outside QcVerdict, so the verdict itself stays a pure function of document
// and snapshot.
type Result struct {
	RunID           string                        `json:"run_id"`
	DocumentType    model.DocumentType            `json:"document_type"`
	EvaluatedAt     time.Time                     `json:"evaluated_at"`
	SnapshotVersion uint64                        `json:"snapshot_version"`
	Verdict         model.QcVerdict               `json:"verdict"`
	Report          model.MedicalValidationReport `json:"report"`
	RuleErrors      []string                      `json:"rule_errors,omitempty"`
	Advice          *llm.Advice                   `json:"advice,omitempty"`
	FromCache       bool                          `json:"from_cache,omitempty"`
}

// cachedRun is the deterministic portion of a result stored in the verdict
// cache.
type cachedRun struct {
	Verdict    model.QcVerdict               `json:"verdict"`
	Report     model.MedicalValidationReport `json:"report"`
	RuleErrors []string                      `json:"rule_errors,omitempty"`
}

// Check validates one document against the current snapshot.
func (p *Pipeline) Check(ctx context.Context, doc model.Document) (*Result, error) {
	snap := p.store.Snapshot()
	if snap == nil {
		return nil, fmt.Errorf("knowledge base not loaded")
	}

	result := &Result{
		RunID:           uuid.NewString(),
		DocumentType:    doc.DocumentType,
		EvaluatedAt:     time.Now().UTC(),
		SnapshotVersion: snap.Version,
	}

	key := ""
	if p.cache != nil {
		key = cache.VerdictKey(doc, snap.Version)
		if data, found := p.cache.Get(key); found {
			var cached cachedRun
			if err := json.Unmarshal(data, &cached); err == nil {
				p.collector.CacheHits.Inc()
				result.Verdict = cached.Verdict
				result.Report = cached.Report
				result.RuleErrors = cached.RuleErrors
				result.FromCache = true
				return p.withAdvice(ctx, result), nil
			}
			_ = p.cache.Delete(key)
		}
	}

	started := time.Now()

	// Symptom matching and indicator extraction are independent; both walk
	// sections in sorted-name order so output order is deterministic.
	matcher := extract.NewSymptomMatcher(snap.Catalog, p.matcherCfg)
	matches := make(map[string][]model.SymptomMatch, len(doc.Sections))
	var indicators []model.Indicator
	for _, section := range doc.SectionNames() {
		text := doc.Sections[section]
		matches[section] = matcher.Match(text)
		indicators = append(indicators, p.extractor.Extract(text)...)
	}

	medical := p.validator.Validate(indicators)

	ruleIssues, ruleErrs := p.evaluator.Evaluate(snap.Rules, doc, matches)
	for _, re := range ruleErrs {
		p.logger.Warn("rule evaluation error", zap.String("rule_id", re.RuleID), zap.Error(re.Err))
		result.RuleErrors = append(result.RuleErrors, re.Error())
	}
	p.collector.RuleErrors.Add(float64(len(ruleErrs)))

	// Validator issues first, rule issues second: a fixed combination order
	// keeps the verdict byte-identical across runs.
	combined := make([]model.ValidationIssue, 0, len(medical.ValidationErrors)+len(ruleIssues))
	combined = append(combined, medical.ValidationErrors...)
	combined = append(combined, ruleIssues...)

	result.Verdict = p.aggregator.Aggregate(combined)
	result.Report = validate.GenerateReport(medical)

	p.observe(doc, result, time.Since(started))

	if p.cache != nil && key != "" {
		if data, err := json.Marshal(cachedRun{
			Verdict:    result.Verdict,
			Report:     result.Report,
			RuleErrors: result.RuleErrors,
		}); err == nil {
			_ = p.cache.Set(key, data, p.cacheTTL)
		}
	}

	return p.withAdvice(ctx, result), nil
}

// withAdvice attaches LLM advice when an advisor is configured. Advice runs
// strictly after scoring; a failure only logs and never fails the run.
func (p *Pipeline) withAdvice(ctx context.Context, result *Result) *Result {
	if p.advisor == nil {
		return result
	}
	advice, err := p.advisor.Generate(ctx, result.DocumentType, result.Verdict)
	if err != nil {
		p.logger.Warn("advice generation failed", zap.Error(err))
		return result
	}
	result.Advice = advice
	return result
}

func (p *Pipeline) observe(doc model.Document, result *Result, elapsed time.Duration) {
	p.collector.DocumentsValidated.WithLabelValues(
		string(doc.DocumentType), fmt.Sprintf("%t", result.Verdict.IsQualified)).Inc()
	for _, issue := range result.Verdict.Issues {
		p.collector.IssuesReported.WithLabelValues(string(issue.Severity)).Inc()
	}
	p.collector.ValidationDuration.Observe(elapsed.Seconds())

	p.logger.Debug("document validated",
		zap.String("run_id", result.RunID),
		zap.String("document_type", string(doc.DocumentType)),
		zap.Float64("total_score", result.Verdict.TotalScore),
		zap.Bool("qualified", result.Verdict.IsQualified),
		zap.Int("issues", len(result.Verdict.Issues)),
		zap.Duration("elapsed", elapsed),
	)
}
