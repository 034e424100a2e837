package catalog

import (
	"testing"

	"github.com/qezhu/medqc/internal/model"
)

func testEntries() []model.TermEntry {
	return []model.TermEntry{
		{
			Name:     "胸痛",
			Aliases:  []string{"胸口痛", "持续性胸痛"},
			Category: "symptom",
		},
		{
			Name:     "头痛",
			Aliases:  []string{"偏头痛"},
			Category: "symptom",
		},
	}
}

func TestBuild_LookupByNameAndAlias(t *testing.T) {
	cat, err := Build(testEntries(), nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	entry, ok := cat.Lookup("胸痛")
	if !ok {
		t.Fatal("Expected name lookup to succeed")
	}
	if entry.Name != "胸痛" {
		t.Errorf("Expected 胸痛, got %q", entry.Name)
	}

	entry, ok = cat.Lookup("胸口痛")
	if !ok {
		t.Fatal("Expected alias lookup to succeed")
	}
	if entry.Name != "胸痛" {
		t.Errorf("Expected alias to resolve to 胸痛, got %q", entry.Name)
	}
}

func TestBuild_TypoAndSynonymChain(t *testing.T) {
	typos := map[string]string{"胸疼": "胸痛"}
	synonyms := map[string]string{"心口痛": "胸痛"}

	cat, err := Build(testEntries(), typos, synonyms)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, ok := cat.Lookup("胸疼"); !ok {
		t.Error("Expected typo correction to resolve")
	}
	if _, ok := cat.Lookup("心口痛"); !ok {
		t.Error("Expected synonym folding to resolve")
	}
	if _, ok := cat.Lookup("背痛"); ok {
		t.Error("Expected unknown phrase to miss")
	}
}

func TestBuild_DuplicateNameFails(t *testing.T) {
	entries := []model.TermEntry{
		{Name: "胸痛", Category: "symptom"},
		{Name: "胸痛", Category: "symptom"},
	}

	if _, err := Build(entries, nil, nil); err == nil {
		t.Error("Expected error for duplicate term name")
	}
}

func TestBuild_EmptyAliasFails(t *testing.T) {
	entries := []model.TermEntry{
		{Name: "胸痛", Aliases: []string{"  "}, Category: "symptom"},
	}

	if _, err := Build(entries, nil, nil); err == nil {
		t.Error("Expected error for empty alias")
	}
}

func TestBuild_AliasCollisionFirstRegisteredWins(t *testing.T) {
	entries := []model.TermEntry{
		{Name: "胸痛", Aliases: []string{"胸部不适"}, Category: "symptom"},
		{Name: "胸闷", Aliases: []string{"胸部不适"}, Category: "symptom"},
	}

	cat, err := Build(entries, nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	entry, ok := cat.Lookup("胸部不适")
	if !ok {
		t.Fatal("Expected shared alias to resolve")
	}
	if entry.Name != "胸痛" {
		t.Errorf("Expected first-registered entry 胸痛 to own the alias, got %q", entry.Name)
	}
}

func TestBuild_AliasesLongestFirst(t *testing.T) {
	cat, err := Build(testEntries(), nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	aliases := cat.Aliases()
	if len(aliases) == 0 {
		t.Fatal("Expected aliases")
	}
	if aliases[0] != "持续性胸痛" {
		t.Errorf("Expected longest alias 持续性胸痛 first, got %q", aliases[0])
	}
	for i := 1; i < len(aliases); i++ {
		if runeLen(aliases[i-1]) < runeLen(aliases[i]) {
			t.Errorf("Aliases not sorted longest first at %d: %q before %q", i, aliases[i-1], aliases[i])
		}
	}
}

func TestBuild_CaseInsensitiveASCII(t *testing.T) {
	entries := []model.TermEntry{
		{Name: "COPD", Aliases: []string{"慢阻肺"}, Category: "disease"},
	}

	cat, err := Build(entries, nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, ok := cat.Lookup("copd"); !ok {
		t.Error("Expected lowercase lookup of ASCII name to resolve")
	}
}

func runeLen(s string) int {
	return len([]rune(s))
}
