package model

// QcVerdict is the terminal output of one pipeline execution. It is a pure
// function of the document, the snapshot, and the score configuration, so
// identical inputs always yield a byte-identical verdict. Run metadata
// (run ID, timestamps) deliberately lives outside the verdict.
type QcVerdict struct {
	TotalScore  float64           `json:"total_score"`
	IsQualified bool              `json:"is_qualified"`
	Issues      []ValidationIssue `json:"issues"`
}

// SeverityWeights holds the per-severity deduction weights. Weights must be
// monotonic: critical > major > minor > 0.
type SeverityWeights struct {
	Minor    float64 `json:"minor" yaml:"minor"`
	Major    float64 `json:"major" yaml:"major"`
	Critical float64 `json:"critical" yaml:"critical"`
}

// For returns the deduction weight for a severity.
func (w SeverityWeights) For(s Severity) float64 {
	switch s {
	case SeverityCritical:
		return w.Critical
	case SeverityMajor:
		return w.Major
	default:
		return w.Minor
	}
}

// Monotonic reports whether the weights respect critical > major > minor > 0.
func (w SeverityWeights) Monotonic() bool {
	return w.Critical > w.Major && w.Major > w.Minor && w.Minor > 0
}
