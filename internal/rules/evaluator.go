package rules

import (
	"fmt"

	"github.com/qezhu/medqc/internal/model"
)

// RuleError reports a rule that could not be evaluated, keeping the rule ID
// attached so a misconfigured rule is always visible, never silently skipped.
type RuleError struct {
	RuleID string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.RuleID, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Evaluator interprets the content rule set against a segmented document and
// its per-section symptom matches. Rules must arrive in a stable order
// (snapshots sort by ascending ID) so the issue list is reproducible.
type Evaluator struct{}

// NewEvaluator creates an evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs every active rule whose document type matches and whose
// section is present in the document. A rule with an unsupported condition
// yields a RuleError and evaluation of the remaining rules continues.
func (e *Evaluator) Evaluate(
	ruleSet []model.ContentRule,
	doc model.Document,
	matches map[string][]model.SymptomMatch,
) ([]model.ValidationIssue, []*RuleError) {
	var issues []model.ValidationIssue
	var errs []*RuleError

	for _, rule := range ruleSet {
		if !rule.IsActive || rule.DocumentType != doc.DocumentType {
			continue
		}
		sectionText, present := doc.Sections[rule.Section]
		if !present {
			continue
		}

		issue, err := e.evaluateRule(rule, sectionText, doc, matches)
		if err != nil {
			errs = append(errs, &RuleError{RuleID: rule.ID, Err: err})
			continue
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
	}

	return issues, errs
}

func (e *Evaluator) evaluateRule(
	rule model.ContentRule,
	sectionText string,
	doc model.Document,
	matches map[string][]model.SymptomMatch,
) (*model.ValidationIssue, error) {
	switch cond := rule.Condition.(type) {
	case model.MustContainEntity:
		if countAffirmed(matches[rule.Section], cond.EntityType) < cond.MinCount {
			return ruleIssue(rule, model.CodeMissingEntity), nil
		}
		return nil, nil

	case model.MustContainDuration:
		section := cond.Section
		text := sectionText
		if section != "" && section != rule.Section {
			other, present := doc.Sections[section]
			if !present {
				return nil, nil
			}
			text = other
		}
		if !containsDuration(text) {
			return ruleIssue(rule, model.CodeMissingDuration), nil
		}
		return nil, nil

	case model.MustNotBeGeneric:
		if phrase := firstGenericPhrase(sectionText, cond.GenericPhrases); phrase != "" {
			issue := ruleIssue(rule, model.CodeGenericContent)
			issue.Suggestion = fmt.Sprintf("避免使用模板化表述 %q，补充具体病情描述", phrase)
			return issue, nil
		}
		return nil, nil

	case model.CrossReference:
		if conflictingTerm(cond, matches) != "" {
			return ruleIssue(rule, model.CodeSectionConflict), nil
		}
		return nil, nil

	case model.UnsupportedCondition:
		return nil, &model.UnsupportedConditionError{RuleID: rule.ID, Type: cond.Type}

	case nil:
		return nil, fmt.Errorf("condition not parsed")

	default:
		return nil, fmt.Errorf("unsupported condition %T", cond)
	}
}

// ruleIssue builds the issue a fired rule reports, carrying the rule's own
// message and severity.
func ruleIssue(rule model.ContentRule, code model.IssueCode) *model.ValidationIssue {
	return &model.ValidationIssue{
		RuleID:   rule.ID,
		Code:     code,
		Message:  rule.ErrorMessage,
		Severity: rule.Severity,
	}
}

// countAffirmed counts non-negated matches of a category. A negated symptom
// never satisfies a required-entity rule.
func countAffirmed(matches []model.SymptomMatch, category string) int {
	count := 0
	for _, m := range matches {
		if !m.Negated && m.Category == category {
			count++
		}
	}
	return count
}
