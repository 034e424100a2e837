package score

import (
	"fmt"

	"github.com/qezhu/medqc/internal/model"
)

// maxScore is the fixed starting score a document deducts from.
const maxScore = 100

// Aggregator turns the combined issue list of a validation run into a total
// score and qualification verdict. The verdict is a pure function of the
// issues and the configuration.
type Aggregator struct {
	weights   model.SeverityWeights
	threshold float64
}

// NewAggregator creates an aggregator. Weights must be monotonic
// (critical > major > minor > 0); anything else is a configuration error.
func NewAggregator(cfg model.ScoreConfig) (*Aggregator, error) {
	if !cfg.Weights.Monotonic() {
		return nil, fmt.Errorf("severity weights must satisfy critical > major > minor > 0, got critical=%g major=%g minor=%g",
			cfg.Weights.Critical, cfg.Weights.Major, cfg.Weights.Minor)
	}
	if cfg.QualificationThreshold < 0 || cfg.QualificationThreshold > maxScore {
		return nil, fmt.Errorf("qualification threshold %g outside [0, %d]", cfg.QualificationThreshold, maxScore)
	}
	return &Aggregator{
		weights:   cfg.Weights,
		threshold: cfg.QualificationThreshold,
	}, nil
}

// Aggregate deducts each issue's severity weight from the maximum score,
// flooring at 0. Qualification is inclusive: a score exactly at the
// threshold passes. Cross-field anomalies arrive at the validator's uniform
// severity and are escalated to critical here.
func (a *Aggregator) Aggregate(issues []model.ValidationIssue) model.QcVerdict {
	scored := make([]model.ValidationIssue, len(issues))
	copy(scored, issues)

	total := float64(maxScore)
	for i := range scored {
		if scored[i].Code == model.CodeCrossFieldAnomaly {
			scored[i].Severity = model.SeverityCritical
		}
		total -= a.weights.For(scored[i].Severity)
	}
	if total < 0 {
		total = 0
	}

	return model.QcVerdict{
		TotalScore:  total,
		IsQualified: total >= a.threshold,
		Issues:      scored,
	}
}

// Threshold returns the configured qualification threshold.
func (a *Aggregator) Threshold() float64 {
	return a.threshold
}
