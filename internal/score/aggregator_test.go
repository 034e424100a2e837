package score

import (
	"testing"

	"github.com/qezhu/medqc/internal/model"
)

func defaultScoreConfig() model.ScoreConfig {
	return model.ScoreConfig{
		Weights:                model.SeverityWeights{Minor: 2, Major: 5, Critical: 10},
		QualificationThreshold: 80,
	}
}

func issuesOf(severities ...model.Severity) []model.ValidationIssue {
	issues := make([]model.ValidationIssue, len(severities))
	for i, s := range severities {
		issues[i] = model.ValidationIssue{Code: model.CodeRangeViolation, Severity: s}
	}
	return issues
}

func TestNewAggregator_RejectsNonMonotonicWeights(t *testing.T) {
	cfg := defaultScoreConfig()
	cfg.Weights = model.SeverityWeights{Minor: 5, Major: 5, Critical: 10}

	if _, err := NewAggregator(cfg); err == nil {
		t.Error("Expected error for major == minor")
	}
}

func TestNewAggregator_RejectsThresholdOutOfRange(t *testing.T) {
	cfg := defaultScoreConfig()
	cfg.QualificationThreshold = 101

	if _, err := NewAggregator(cfg); err == nil {
		t.Error("Expected error for threshold above 100")
	}
}

func TestAggregate_NoIssuesIsPerfectScore(t *testing.T) {
	agg, err := NewAggregator(defaultScoreConfig())
	if err != nil {
		t.Fatalf("NewAggregator failed: %v", err)
	}

	verdict := agg.Aggregate(nil)

	if verdict.TotalScore != 100 {
		t.Errorf("Expected score 100, got %g", verdict.TotalScore)
	}
	if !verdict.IsQualified {
		t.Error("Expected qualification")
	}
	if len(verdict.Issues) != 0 {
		t.Errorf("Expected no issues, got %d", len(verdict.Issues))
	}
}

func TestAggregate_ThresholdIsInclusive(t *testing.T) {
	agg, err := NewAggregator(defaultScoreConfig())
	if err != nil {
		t.Fatalf("NewAggregator failed: %v", err)
	}

	// Four majors deduct exactly 20: score 80, threshold 80
	verdict := agg.Aggregate(issuesOf(
		model.SeverityMajor, model.SeverityMajor, model.SeverityMajor, model.SeverityMajor))

	if verdict.TotalScore != 80 {
		t.Fatalf("Expected score 80, got %g", verdict.TotalScore)
	}
	if !verdict.IsQualified {
		t.Error("Expected score exactly at threshold to qualify")
	}

	// One more minor drops below threshold
	verdict = agg.Aggregate(issuesOf(
		model.SeverityMajor, model.SeverityMajor, model.SeverityMajor, model.SeverityMajor,
		model.SeverityMinor))

	if verdict.TotalScore != 78 {
		t.Fatalf("Expected score 78, got %g", verdict.TotalScore)
	}
	if verdict.IsQualified {
		t.Error("Expected score below threshold to fail")
	}
}

func TestAggregate_FloorsAtZero(t *testing.T) {
	agg, err := NewAggregator(defaultScoreConfig())
	if err != nil {
		t.Fatalf("NewAggregator failed: %v", err)
	}

	many := make([]model.Severity, 15)
	for i := range many {
		many[i] = model.SeverityCritical
	}

	verdict := agg.Aggregate(issuesOf(many...))

	if verdict.TotalScore != 0 {
		t.Errorf("Expected score floored at 0, got %g", verdict.TotalScore)
	}
	if verdict.IsQualified {
		t.Error("Expected disqualification at score 0")
	}
}

func TestAggregate_EscalatesCrossFieldAnomaly(t *testing.T) {
	agg, err := NewAggregator(defaultScoreConfig())
	if err != nil {
		t.Fatalf("NewAggregator failed: %v", err)
	}

	issues := []model.ValidationIssue{
		{Code: model.CodeCrossFieldAnomaly, Severity: model.SeverityMinor},
	}

	verdict := agg.Aggregate(issues)

	if verdict.Issues[0].Severity != model.SeverityCritical {
		t.Errorf("Expected anomaly escalated to critical, got %q", verdict.Issues[0].Severity)
	}
	if verdict.TotalScore != 90 {
		t.Errorf("Expected critical weight deducted (score 90), got %g", verdict.TotalScore)
	}
	// Caller's slice must not be mutated
	if issues[0].Severity != model.SeverityMinor {
		t.Error("Expected input issues to stay untouched")
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	agg, err := NewAggregator(defaultScoreConfig())
	if err != nil {
		t.Fatalf("NewAggregator failed: %v", err)
	}

	issues := issuesOf(model.SeverityMinor, model.SeverityCritical, model.SeverityMajor)

	first := agg.Aggregate(issues)
	second := agg.Aggregate(issues)

	if first.TotalScore != second.TotalScore || first.IsQualified != second.IsQualified {
		t.Error("Expected identical verdicts across repeated calls")
	}
	if first.TotalScore != 100-2-10-5 {
		t.Errorf("Expected score 83, got %g", first.TotalScore)
	}
}
