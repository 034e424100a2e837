package rules

import (
	"errors"
	"testing"

	"github.com/qezhu/medqc/internal/model"
)

func durationRule(id string) model.ContentRule {
	return model.ContentRule{
		ID:           id,
		DocumentType: model.DocumentAdmissionRecord,
		Section:      model.SectionChiefComplaint,
		CheckType:    model.CheckFormatCheck,
		ErrorMessage: "主诉缺少持续时间描述",
		Severity:     model.SeverityMajor,
		IsActive:     true,
		Condition:    model.MustContainDuration{},
	}
}

func symptomMatch(term string, negated bool) model.SymptomMatch {
	return model.SymptomMatch{TermName: term, Category: "symptom", MatchedAlias: term, Negated: negated}
}

func TestEvaluate_ChiefComplaintWithoutDuration(t *testing.T) {
	evaluator := NewEvaluator()
	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections:     map[string]string{model.SectionChiefComplaint: "患者胸痛"},
	}

	issues, errs := evaluator.Evaluate([]model.ContentRule{durationRule("AR-001")}, doc, nil)

	if len(errs) != 0 {
		t.Fatalf("Expected no rule errors, got %v", errs)
	}
	if len(issues) != 1 {
		t.Fatalf("Expected exactly 1 issue, got %d", len(issues))
	}
	if issues[0].Severity != model.SeverityMajor {
		t.Errorf("Expected major severity, got %q", issues[0].Severity)
	}
	if issues[0].Message != "主诉缺少持续时间描述" {
		t.Errorf("Expected the rule's error message, got %q", issues[0].Message)
	}
	if issues[0].RuleID != "AR-001" {
		t.Errorf("Expected rule ID AR-001, got %q", issues[0].RuleID)
	}
}

func TestEvaluate_ChiefComplaintWithDuration(t *testing.T) {
	evaluator := NewEvaluator()
	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections:     map[string]string{model.SectionChiefComplaint: "患者胸痛3天"},
	}

	issues, errs := evaluator.Evaluate([]model.ContentRule{durationRule("AR-001")}, doc, nil)

	if len(errs) != 0 {
		t.Fatalf("Expected no rule errors, got %v", errs)
	}
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %d: %v", len(issues), issues)
	}
}

func TestEvaluate_ChineseNumeralDuration(t *testing.T) {
	evaluator := NewEvaluator()
	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections:     map[string]string{model.SectionChiefComplaint: "反复咳嗽两个月"},
	}

	issues, _ := evaluator.Evaluate([]model.ContentRule{durationRule("AR-001")}, doc, nil)

	if len(issues) != 0 {
		t.Errorf("Expected 两个月 to count as a duration, got %d issues", len(issues))
	}
}

func TestEvaluate_MustContainEntity_NegatedDoesNotCount(t *testing.T) {
	evaluator := NewEvaluator()
	rule := model.ContentRule{
		ID:           "AR-002",
		DocumentType: model.DocumentAdmissionRecord,
		Section:      model.SectionChiefComplaint,
		CheckType:    model.CheckRequiredField,
		ErrorMessage: "主诉未描述症状",
		Severity:     model.SeverityMajor,
		IsActive:     true,
		Condition:    model.MustContainEntity{EntityType: "symptom", MinCount: 1},
	}
	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections:     map[string]string{model.SectionChiefComplaint: "无胸痛"},
	}
	matches := map[string][]model.SymptomMatch{
		model.SectionChiefComplaint: {symptomMatch("胸痛", true)},
	}

	issues, _ := evaluator.Evaluate([]model.ContentRule{rule}, doc, matches)

	if len(issues) != 1 {
		t.Fatalf("Expected negated match not to satisfy the rule, got %d issues", len(issues))
	}
	if issues[0].Code != model.CodeMissingEntity {
		t.Errorf("Expected missing entity, got %q", issues[0].Code)
	}
}

func TestEvaluate_MustNotBeGeneric(t *testing.T) {
	evaluator := NewEvaluator()
	rule := model.ContentRule{
		ID:           "AR-003",
		DocumentType: model.DocumentAdmissionRecord,
		Section:      model.SectionPresentIllness,
		CheckType:    model.CheckForbiddenContent,
		ErrorMessage: "现病史使用笼统表述",
		Severity:     model.SeverityMinor,
		IsActive:     true,
		Condition:    model.MustNotBeGeneric{GenericPhrases: []string{"无特殊", "同前"}},
	}
	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections:     map[string]string{model.SectionPresentIllness: "病情同前"},
	}

	issues, _ := evaluator.Evaluate([]model.ContentRule{rule}, doc, nil)

	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(issues))
	}
	if issues[0].Code != model.CodeGenericContent {
		t.Errorf("Expected generic content, got %q", issues[0].Code)
	}
	if issues[0].Suggestion == "" {
		t.Error("Expected suggestion naming the phrase")
	}
}

func TestEvaluate_CrossReferenceConflict(t *testing.T) {
	evaluator := NewEvaluator()
	rule := model.ContentRule{
		ID:           "AR-004",
		DocumentType: model.DocumentAdmissionRecord,
		Section:      model.SectionPresentIllness,
		CheckType:    model.CheckCrossReference,
		ErrorMessage: "主诉与现病史矛盾",
		Severity:     model.SeverityMajor,
		IsActive:     true,
		Condition: model.CrossReference{
			Sections:   []string{model.SectionChiefComplaint, model.SectionPresentIllness},
			EntityType: "symptom",
		},
	}
	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections: map[string]string{
			model.SectionChiefComplaint: "胸痛3天",
			model.SectionPresentIllness: "否认胸痛",
		},
	}
	matches := map[string][]model.SymptomMatch{
		model.SectionChiefComplaint: {symptomMatch("胸痛", false)},
		model.SectionPresentIllness: {symptomMatch("胸痛", true)},
	}

	issues, _ := evaluator.Evaluate([]model.ContentRule{rule}, doc, matches)

	if len(issues) != 1 {
		t.Fatalf("Expected 1 conflict issue, got %d", len(issues))
	}
	if issues[0].Code != model.CodeSectionConflict {
		t.Errorf("Expected section conflict, got %q", issues[0].Code)
	}
}

func TestEvaluate_CrossReferenceAgreementIsClean(t *testing.T) {
	evaluator := NewEvaluator()
	rule := model.ContentRule{
		ID:           "AR-004",
		DocumentType: model.DocumentAdmissionRecord,
		Section:      model.SectionPresentIllness,
		CheckType:    model.CheckCrossReference,
		ErrorMessage: "主诉与现病史矛盾",
		Severity:     model.SeverityMajor,
		IsActive:     true,
		Condition: model.CrossReference{
			Sections:   []string{model.SectionChiefComplaint, model.SectionPresentIllness},
			EntityType: "symptom",
		},
	}
	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections: map[string]string{
			model.SectionChiefComplaint: "胸痛3天",
			model.SectionPresentIllness: "胸痛加重",
		},
	}
	matches := map[string][]model.SymptomMatch{
		model.SectionChiefComplaint: {symptomMatch("胸痛", false)},
		model.SectionPresentIllness: {symptomMatch("胸痛", false)},
	}

	issues, _ := evaluator.Evaluate([]model.ContentRule{rule}, doc, matches)

	if len(issues) != 0 {
		t.Errorf("Expected no issues when sections agree, got %d", len(issues))
	}
}

func TestEvaluate_SkipsInactiveAndForeignRules(t *testing.T) {
	evaluator := NewEvaluator()
	inactive := durationRule("AR-001")
	inactive.IsActive = false
	foreign := durationRule("DS-001")
	foreign.DocumentType = model.DocumentDischargeSummary
	absent := durationRule("AR-009")
	absent.Section = model.SectionPastHistory

	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections:     map[string]string{model.SectionChiefComplaint: "患者胸痛"},
	}

	issues, errs := evaluator.Evaluate([]model.ContentRule{inactive, foreign, absent}, doc, nil)

	if len(issues) != 0 || len(errs) != 0 {
		t.Errorf("Expected skipped rules to produce nothing, got %d issues, %d errors", len(issues), len(errs))
	}
}

func TestEvaluate_UnsupportedConditionIsPerRuleError(t *testing.T) {
	evaluator := NewEvaluator()
	broken := model.ContentRule{
		ID:           "AR-008",
		DocumentType: model.DocumentAdmissionRecord,
		Section:      model.SectionChiefComplaint,
		ErrorMessage: "m",
		Severity:     model.SeverityMinor,
		IsActive:     true,
		Condition:    model.UnsupportedCondition{Type: "must_rhyme"},
	}
	working := durationRule("AR-001")

	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections:     map[string]string{model.SectionChiefComplaint: "患者胸痛"},
	}

	issues, errs := evaluator.Evaluate([]model.ContentRule{broken, working}, doc, nil)

	if len(errs) != 1 {
		t.Fatalf("Expected 1 rule error, got %d", len(errs))
	}
	if errs[0].RuleID != "AR-008" {
		t.Errorf("Expected rule ID AR-008 on the error, got %q", errs[0].RuleID)
	}
	var unsupported *model.UnsupportedConditionError
	if !errors.As(errs[0], &unsupported) {
		t.Error("Expected error to unwrap to UnsupportedConditionError")
	}
	// The working rule still evaluated
	if len(issues) != 1 {
		t.Errorf("Expected the remaining rule to keep evaluating, got %d issues", len(issues))
	}
}

func TestEvaluate_DeterministicIssueOrder(t *testing.T) {
	evaluator := NewEvaluator()
	ruleA := durationRule("AR-001")
	ruleB := model.ContentRule{
		ID:           "AR-002",
		DocumentType: model.DocumentAdmissionRecord,
		Section:      model.SectionChiefComplaint,
		ErrorMessage: "主诉未描述症状",
		Severity:     model.SeverityMajor,
		IsActive:     true,
		Condition:    model.MustContainEntity{EntityType: "symptom", MinCount: 1},
	}
	doc := model.Document{
		DocumentType: model.DocumentAdmissionRecord,
		Sections:     map[string]string{model.SectionChiefComplaint: "情况不详"},
	}

	issues, _ := evaluator.Evaluate([]model.ContentRule{ruleA, ruleB}, doc, nil)

	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %d", len(issues))
	}
	if issues[0].RuleID != "AR-001" || issues[1].RuleID != "AR-002" {
		t.Errorf("Expected rule-set order preserved, got %q then %q", issues[0].RuleID, issues[1].RuleID)
	}
}

func TestContainsDuration(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"胸痛3天", true},
		{"发热2.5小时", true},
		{"咳嗽两个月", true},
		{"头晕半年", true},
		{"间断腹痛10余天", true},
		{"患者胸痛", false},
		{"病史见前", false},
	}

	for _, tc := range cases {
		if got := containsDuration(tc.text); got != tc.want {
			t.Errorf("containsDuration(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
