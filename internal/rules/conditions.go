package rules

import (
	"regexp"
	"strings"

	"github.com/qezhu/medqc/internal/model"
)

// durationRe matches a duration expression: a numeric value (Arabic or
// Chinese numerals) followed by a time-unit token, e.g. "3天", "2周",
// "两个月", "半年".
var durationRe = regexp.MustCompile(
	`(?:[0-9]+(?:\.[0-9]+)?|[一二两三四五六七八九十百半数]+)(?:多|余)?(?:个)?(?:天|日|周|星期|月|年|小时|时|分钟)`)

// containsDuration reports whether the text carries a duration expression.
func containsDuration(text string) bool {
	return durationRe.MatchString(text)
}

// firstGenericPhrase returns the first boilerplate phrase found in the text,
// or "" when the text contains none.
func firstGenericPhrase(text string, phrases []string) string {
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(text, phrase) {
			return phrase
		}
	}
	return ""
}

// conflictingTerm finds a term of the condition's category that is affirmed
// in one of the two referenced sections and negated in the other. Returns
// the term name, or "" when the sections agree.
func conflictingTerm(cond model.CrossReference, matches map[string][]model.SymptomMatch) string {
	if len(cond.Sections) != 2 {
		return ""
	}
	a, b := cond.Sections[0], cond.Sections[1]

	affirmedA, negatedA := termSets(matches[a], cond.EntityType)
	affirmedB, negatedB := termSets(matches[b], cond.EntityType)

	// Deterministic scan order: section A's matches first, in match order.
	for _, m := range matches[a] {
		if m.Category != cond.EntityType {
			continue
		}
		if affirmedA[m.TermName] && negatedB[m.TermName] {
			return m.TermName
		}
		if negatedA[m.TermName] && affirmedB[m.TermName] {
			return m.TermName
		}
	}
	return ""
}

func termSets(matches []model.SymptomMatch, category string) (affirmed, negated map[string]bool) {
	affirmed = make(map[string]bool)
	negated = make(map[string]bool)
	for _, m := range matches {
		if m.Category != category {
			continue
		}
		if m.Negated {
			negated[m.TermName] = true
		} else {
			affirmed[m.TermName] = true
		}
	}
	return affirmed, negated
}
