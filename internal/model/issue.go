package model

// Severity classifies how badly an issue hurts the document's score.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}

// IssueCode classifies the kind of defect an issue reports. Codes are stable
// identifiers for downstream consumers; messages are for humans.
type IssueCode string

const (
	CodeMissingField       IssueCode = "missing_field"
	CodeRangeViolation     IssueCode = "range_violation"
	CodeUnitMismatch       IssueCode = "unit_mismatch"
	CodeMalformedRefRange  IssueCode = "malformed_reference_range"
	CodeCrossFieldAnomaly  IssueCode = "cross_field_anomaly"
	CodeMissingEntity      IssueCode = "missing_entity"
	CodeMissingDuration    IssueCode = "missing_duration"
	CodeGenericContent     IssueCode = "generic_content"
	CodeSectionConflict    IssueCode = "section_conflict"
)

// ValidationIssue is the uniform defect record shared by the medical
// validator and the content rule evaluator. It is an immutable value object.
type ValidationIssue struct {
	Indicator  *Indicator `json:"indicator,omitempty"`
	RuleID     string     `json:"rule_id,omitempty"`
	Code       IssueCode  `json:"code"`
	Message    string     `json:"message"`
	Severity   Severity   `json:"severity"`
	Suggestion string     `json:"suggestion,omitempty"`
}
