package extract

import (
	"reflect"
	"testing"

	"github.com/qezhu/medqc/internal/catalog"
	"github.com/qezhu/medqc/internal/model"
)

func testCatalog(t *testing.T) *catalog.TermCatalog {
	t.Helper()
	entries := []model.TermEntry{
		{Name: "胸痛", Aliases: []string{"胸口痛", "持续性胸痛"}, Category: "symptom"},
		{Name: "发热", Aliases: []string{"发烧"}, Category: "symptom"},
		{Name: "咳嗽", Category: "symptom"},
	}
	cat, err := catalog.Build(entries, nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return cat
}

func newTestMatcher(t *testing.T) *SymptomMatcher {
	t.Helper()
	return NewSymptomMatcher(testCatalog(t), model.MatcherConfig{NegationWindow: 5})
}

func TestMatch_AliasReportedVerbatim(t *testing.T) {
	matcher := newTestMatcher(t)

	matches := matcher.Match("患者自述胸口痛")

	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].TermName != "胸痛" {
		t.Errorf("Expected canonical term 胸痛, got %q", matches[0].TermName)
	}
	if matches[0].MatchedAlias != "胸口痛" {
		t.Errorf("Expected verbatim alias 胸口痛, got %q", matches[0].MatchedAlias)
	}
	if matches[0].Negated {
		t.Error("Expected match not to be negated")
	}
}

func TestMatch_SpansAreRuneOffsets(t *testing.T) {
	matcher := newTestMatcher(t)

	matches := matcher.Match("患者自述胸口痛")

	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].SpanStart != 4 || matches[0].SpanEnd != 7 {
		t.Errorf("Expected rune span [4, 7), got [%d, %d)", matches[0].SpanStart, matches[0].SpanEnd)
	}
}

func TestMatch_NegationMarkers(t *testing.T) {
	matcher := newTestMatcher(t)

	cases := []struct {
		text    string
		negated bool
	}{
		{"患者无发热", true},
		{"否认胸痛", true},
		{"未诉咳嗽", true},
		{"患者发热3天", false},
	}

	for _, tc := range cases {
		matches := matcher.Match(tc.text)
		if len(matches) != 1 {
			t.Fatalf("%q: expected 1 match, got %d", tc.text, len(matches))
		}
		if matches[0].Negated != tc.negated {
			t.Errorf("%q: expected negated=%v, got %v", tc.text, tc.negated, matches[0].Negated)
		}
	}
}

func TestMatch_NegationWindowBounded(t *testing.T) {
	// Marker sits outside the 5-rune window before the match
	matcher := newTestMatcher(t)

	matches := matcher.Match("无明显诱因出现胸痛")

	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].Negated {
		t.Error("Expected marker outside window not to negate the match")
	}
}

func TestMatch_LongestAliasWins(t *testing.T) {
	matcher := newTestMatcher(t)

	matches := matcher.Match("持续性胸痛2小时")

	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].MatchedAlias != "持续性胸痛" {
		t.Errorf("Expected longest alias 持续性胸痛, got %q", matches[0].MatchedAlias)
	}
}

func TestMatch_OrderedByPosition(t *testing.T) {
	matcher := newTestMatcher(t)

	matches := matcher.Match("发热伴咳嗽，后出现胸痛")

	if len(matches) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].SpanStart > matches[i].SpanStart {
			t.Errorf("Matches out of order at %d", i)
		}
	}
}

func TestMatch_Deterministic(t *testing.T) {
	matcher := newTestMatcher(t)
	text := "患者发热3天，无咳嗽，持续性胸痛"

	first := matcher.Match(text)
	second := matcher.Match(text)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical matches across repeated calls")
	}
}

func TestMatch_EmptyText(t *testing.T) {
	matcher := newTestMatcher(t)

	if matches := matcher.Match(""); len(matches) != 0 {
		t.Errorf("Expected no matches on empty text, got %d", len(matches))
	}
}
