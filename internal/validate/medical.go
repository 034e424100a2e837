package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/qezhu/medqc/internal/model"
)

// validatorSeverity is the uniform severity of every issue this validator
// emits. Escalation (e.g. of cross-field anomalies) is the score aggregator's
// job, not the validator's.
const validatorSeverity = model.SeverityMinor

var refRangeRe = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*-\s*([0-9]+(?:\.[0-9]+)?)$`)

// MedicalValidator checks extracted indicators for numeric plausibility,
// unit conformance, reference-range well-formedness and indicator-specific
// cross-field consistency. It never aborts on bad document content; every
// finding becomes a ValidationIssue.
type MedicalValidator struct{}

// NewMedicalValidator creates a validator.
func NewMedicalValidator() *MedicalValidator {
	return &MedicalValidator{}
}

// Validate runs all checks over the indicators, in input order, and computes
// the confidence score. Zero indicators yield confidence 0.
func (v *MedicalValidator) Validate(indicators []model.Indicator) model.MedicalValidationResult {
	issues := make([]model.ValidationIssue, 0)
	for i := range indicators {
		issues = append(issues, v.checkIndicator(&indicators[i])...)
	}

	confidence := 0.0
	if len(indicators) > 0 {
		confidence = 1 - float64(len(issues))/float64(len(indicators))
		if confidence < 0 {
			confidence = 0
		}
	}

	return model.MedicalValidationResult{
		Indicators:       indicators,
		TotalIndicators:  len(indicators),
		ValidationErrors: issues,
		Confidence:       confidence,
	}
}

func (v *MedicalValidator) checkIndicator(ind *model.Indicator) []model.ValidationIssue {
	var issues []model.ValidationIssue

	// 1. Presence. Without a name or value nothing else is checkable.
	if ind.Name == "" || ind.RawValue == "" {
		return append(issues, model.ValidationIssue{
			Indicator:  ind,
			Code:       model.CodeMissingField,
			Message:    fmt.Sprintf("指标缺少必要字段（名称：%q，数值：%q）", ind.Name, ind.RawValue),
			Severity:   validatorSeverity,
			Suggestion: "补全指标名称和数值",
		})
	}

	kind := ind.Kind()

	// 2. Range plausibility.
	if kind == model.IndicatorBloodPressure {
		issues = append(issues, v.checkBloodPressure(ind)...)
	} else if lim, ok := indicatorLimits[kind]; ok {
		// A hyphenated value like "4.0-6.1" reduces to its mean before the
		// band check. An unparseable value is skipped, not fatal.
		if value, ok := parseValue(ind.RawValue); ok && !lim.contains(value) {
			issues = append(issues, model.ValidationIssue{
				Indicator:  ind,
				Code:       model.CodeRangeViolation,
				Message:    fmt.Sprintf("%s数值 %s 超出合理范围 [%g, %g]", ind.Name, ind.RawValue, lim.min, lim.max),
				Severity:   validatorSeverity,
				Suggestion: "核对数值是否录入错误",
			})
		}
	}

	// 3. Unit conformance.
	if ind.Unit != "" && kind != model.IndicatorUnknown && !unitAccepted(kind, ind.Unit) {
		issues = append(issues, model.ValidationIssue{
			Indicator:  ind,
			Code:       model.CodeUnitMismatch,
			Message:    fmt.Sprintf("%s单位 %q 不在可接受单位集合内", ind.Name, ind.Unit),
			Severity:   validatorSeverity,
			Suggestion: fmt.Sprintf("使用标准单位，例如 %s", strings.Join(acceptedUnits[kind], "、")),
		})
	}

	// 4. Reference-range well-formedness.
	if ind.ReferenceRange != "" {
		if issue := v.checkReferenceRange(ind); issue != nil {
			issues = append(issues, *issue)
		}
	}

	return issues
}

// checkBloodPressure validates the compound systolic/diastolic value: each
// component against its own band, then the cross-field invariant that
// systolic >= diastolic.
func (v *MedicalValidator) checkBloodPressure(ind *model.Indicator) []model.ValidationIssue {
	parts := strings.SplitN(ind.RawValue, "/", 2)
	if len(parts) != 2 {
		return nil // not the compound shape; skipped, per local-recovery policy
	}
	systolic, errS := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	diastolic, errD := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errS != nil || errD != nil {
		return nil
	}

	var issues []model.ValidationIssue
	if !systolicLimits.contains(systolic) {
		issues = append(issues, model.ValidationIssue{
			Indicator:  ind,
			Code:       model.CodeRangeViolation,
			Message:    fmt.Sprintf("收缩压 %g 超出合理范围 [%g, %g]", systolic, systolicLimits.min, systolicLimits.max),
			Severity:   validatorSeverity,
			Suggestion: "核对血压数值是否录入错误",
		})
	}
	if !diastolicLimits.contains(diastolic) {
		issues = append(issues, model.ValidationIssue{
			Indicator:  ind,
			Code:       model.CodeRangeViolation,
			Message:    fmt.Sprintf("舒张压 %g 超出合理范围 [%g, %g]", diastolic, diastolicLimits.min, diastolicLimits.max),
			Severity:   validatorSeverity,
			Suggestion: "核对血压数值是否录入错误",
		})
	}
	if systolic < diastolic {
		issues = append(issues, model.ValidationIssue{
			Indicator:  ind,
			Code:       model.CodeCrossFieldAnomaly,
			Message:    fmt.Sprintf("血压 %s 收缩压低于舒张压，数值不可能成立", ind.RawValue),
			Severity:   validatorSeverity,
			Suggestion: "收缩压与舒张压可能被写反",
		})
	}
	return issues
}

func (v *MedicalValidator) checkReferenceRange(ind *model.Indicator) *model.ValidationIssue {
	issue := &model.ValidationIssue{
		Indicator:  ind,
		Code:       model.CodeMalformedRefRange,
		Severity:   validatorSeverity,
		Suggestion: "参考范围应写作“下限-上限”，且下限小于上限",
	}

	m := refRangeRe.FindStringSubmatch(strings.ReplaceAll(ind.ReferenceRange, " ", ""))
	if m == nil {
		issue.Message = fmt.Sprintf("%s参考范围 %q 格式不正确", ind.Name, ind.ReferenceRange)
		return issue
	}
	low, _ := strconv.ParseFloat(m[1], 64)
	high, _ := strconv.ParseFloat(m[2], 64)
	if low >= high {
		issue.Message = fmt.Sprintf("%s参考范围 %q 下限不小于上限", ind.Name, ind.ReferenceRange)
		return issue
	}
	return nil
}

// parseValue parses a plain decimal, or reduces a hyphenated range to its
// arithmetic mean. The second return is false for anything unparseable.
func parseValue(raw string) (float64, bool) {
	raw = strings.ReplaceAll(raw, " ", "")
	if m := refRangeRe.FindStringSubmatch(raw); m != nil {
		low, err1 := strconv.ParseFloat(m[1], 64)
		high, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return (low + high) / 2, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// GenerateReport projects a validation result into display-ready summary
// counts; it performs no new computation.
func GenerateReport(result model.MedicalValidationResult) model.MedicalValidationReport {
	withError := make(map[string]bool)
	for _, issue := range result.ValidationErrors {
		if issue.Indicator != nil {
			withError[issue.Indicator.Name] = true
		}
	}

	rate := 0.0
	if result.TotalIndicators > 0 {
		rate = float64(len(result.ValidationErrors)) / float64(result.TotalIndicators) * 100
	}

	return model.MedicalValidationReport{
		TotalIndicators:     result.TotalIndicators,
		IndicatorsWithError: len(withError),
		Confidence:          result.Confidence,
		Summary: fmt.Sprintf("共提取 %d 项指标，其中 %d 项存在问题，错误率 %.0f%%",
			result.TotalIndicators, len(withError), rate),
	}
}
