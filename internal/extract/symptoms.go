package extract

import (
	"sort"
	"strings"

	"github.com/qezhu/medqc/internal/catalog"
	"github.com/qezhu/medqc/internal/model"
)

// defaultNegationMarkers are the markers scanned for in the window
// immediately preceding a match. 否认 ("denies") is the charting idiom for an
// explicitly excluded symptom.
var defaultNegationMarkers = []string{"无", "未", "否认", "没有", "不伴"}

// SymptomMatcher scans text spans against a term catalog. Matching is a pure
// function of the text and the catalog snapshot: the same input always yields
// the same matches, in the same order.
type SymptomMatcher struct {
	catalog        *catalog.TermCatalog
	negationWindow int
	markers        []string
}

// NewSymptomMatcher creates a matcher over one catalog snapshot.
func NewSymptomMatcher(cat *catalog.TermCatalog, cfg model.MatcherConfig) *SymptomMatcher {
	window := cfg.NegationWindow
	if window <= 0 {
		window = 5
	}
	markers := cfg.NegationMarkers
	if len(markers) == 0 {
		markers = defaultNegationMarkers
	}
	return &SymptomMatcher{
		catalog:        cat,
		negationWindow: window,
		markers:        markers,
	}
}

// Match returns every catalog hit in the text, ordered by position. Aliases
// are tried longest first so a short alias never shadows a longer, more
// specific one; once a span is claimed, shorter aliases inside it are
// skipped. Matching is case-insensitive on ASCII and exact on everything
// else. Negated matches are still returned, flagged, for the consumer to
// judge.
func (m *SymptomMatcher) Match(text string) []model.SymptomMatch {
	runes := []rune(text)
	folded := []rune(model.FoldASCII(text))
	covered := make([]bool, len(runes))

	var matches []model.SymptomMatch
	for _, alias := range m.catalog.Aliases() {
		aliasRunes := []rune(alias)
		n := len(aliasRunes)
		if n == 0 || n > len(folded) {
			continue
		}
		entry, ok := m.catalog.AliasEntry(alias)
		if !ok {
			continue
		}

		for start := 0; start+n <= len(folded); start++ {
			if !runesEqual(folded[start:start+n], aliasRunes) {
				continue
			}
			if spanClaimed(covered, start, start+n) {
				continue
			}
			matches = append(matches, model.SymptomMatch{
				TermName:     entry.Name,
				Category:     entry.Category,
				MatchedAlias: string(runes[start : start+n]),
				SpanStart:    start,
				SpanEnd:      start + n,
				Negated:      m.negatedAt(runes, start),
			})
			claimSpan(covered, start, start+n)
			start += n - 1
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].SpanStart != matches[j].SpanStart {
			return matches[i].SpanStart < matches[j].SpanStart
		}
		return matches[i].SpanEnd < matches[j].SpanEnd
	})
	return matches
}

// negatedAt scans the fixed-size window before the match start for any
// negation marker.
func (m *SymptomMatcher) negatedAt(runes []rune, start int) bool {
	from := start - m.negationWindow
	if from < 0 {
		from = 0
	}
	window := string(runes[from:start])
	for _, marker := range m.markers {
		if marker != "" && strings.Contains(window, marker) {
			return true
		}
	}
	return false
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func spanClaimed(covered []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

func claimSpan(covered []bool, start, end int) {
	for i := start; i < end; i++ {
		covered[i] = true
	}
}
