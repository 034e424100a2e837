package model

import (
	"encoding/json"
	"fmt"
)

// CheckType is the coarse rule category declared by the rule catalog.
type CheckType string

const (
	CheckRequiredField    CheckType = "required_field"
	CheckForbiddenContent CheckType = "forbidden_content"
	CheckFormatCheck      CheckType = "format_check"
	CheckCrossReference   CheckType = "cross_reference"
)

// Condition is the closed set of rule-condition variants. The rule catalog
// declares conditions as JSON; parsing turns them into exactly one of the
// types below. Unknown shapes become UnsupportedCondition rather than being
// silently dropped, so a rule that can never fire is always visible.
type Condition interface {
	conditionType() string
}

// MustContainEntity requires at least MinCount non-negated symptom matches of
// the given category inside the rule's section.
type MustContainEntity struct {
	EntityType string `json:"entityType"`
	MinCount   int    `json:"minCount"`
}

// MustContainDuration requires the section text to contain a duration
// expression (numeric value plus time-unit token).
type MustContainDuration struct {
	Section string `json:"section"`
}

// MustNotBeGeneric flags sections that contain known boilerplate phrases.
type MustNotBeGeneric struct {
	GenericPhrases []string `json:"genericPhrases"`
}

// CrossReference fires when a term of EntityType is affirmed in one of the
// two named sections and negated in the other.
type CrossReference struct {
	Sections   []string `json:"sections"`
	EntityType string   `json:"entityType"`
}

// UnsupportedCondition stands in for a condition whose type the parser does
// not recognize. Evaluating it yields a per-rule error, never a silent no-op.
type UnsupportedCondition struct {
	Type string
}

func (MustContainEntity) conditionType() string    { return "must_contain_entity" }
func (MustContainDuration) conditionType() string  { return "must_contain_duration" }
func (MustNotBeGeneric) conditionType() string     { return "must_not_be_generic" }
func (CrossReference) conditionType() string       { return "cross_reference" }
func (c UnsupportedCondition) conditionType() string { return c.Type }

// UnsupportedConditionError reports a rule whose condition shape is not part
// of the closed variant set.
type UnsupportedConditionError struct {
	RuleID string
	Type   string
}

func (e *UnsupportedConditionError) Error() string {
	return fmt.Sprintf("rule %s: unsupported condition type %q", e.RuleID, e.Type)
}

// ParseCondition decodes a JSON condition into its variant. A missing or
// unknown "type" yields UnsupportedCondition; malformed JSON or a variant
// that fails its own validation is a configuration error.
func ParseCondition(raw json.RawMessage) (Condition, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode condition: %w", err)
	}

	switch head.Type {
	case "must_contain_entity":
		var c MustContainEntity
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode must_contain_entity: %w", err)
		}
		if c.EntityType == "" {
			return nil, fmt.Errorf("must_contain_entity: missing entityType")
		}
		if c.MinCount <= 0 {
			c.MinCount = 1
		}
		return c, nil

	case "must_contain_duration":
		var c MustContainDuration
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode must_contain_duration: %w", err)
		}
		return c, nil

	case "must_not_be_generic":
		var c MustNotBeGeneric
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode must_not_be_generic: %w", err)
		}
		if len(c.GenericPhrases) == 0 {
			return nil, fmt.Errorf("must_not_be_generic: empty genericPhrases")
		}
		return c, nil

	case "cross_reference":
		var c CrossReference
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode cross_reference: %w", err)
		}
		if len(c.Sections) != 2 {
			return nil, fmt.Errorf("cross_reference: expected exactly 2 sections, got %d", len(c.Sections))
		}
		if c.EntityType == "" {
			return nil, fmt.Errorf("cross_reference: missing entityType")
		}
		return c, nil
	}

	return UnsupportedCondition{Type: head.Type}, nil
}

// ContentRule is one configured, section-scoped check. Rules are read-only
// for the lifetime of a snapshot; they change only via a catalog reload.
type ContentRule struct {
	ID           string          `json:"id"`
	DocumentType DocumentType    `json:"document_type"`
	Section      string          `json:"section"`
	CheckType    CheckType       `json:"check_type"`
	RawCondition json.RawMessage `json:"condition"`
	ErrorMessage string          `json:"error_message"`
	Severity     Severity        `json:"severity"`
	IsActive     bool            `json:"is_active"`

	// Condition is the parsed variant of RawCondition, populated at load time.
	Condition Condition `json:"-"`
}
