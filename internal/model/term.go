package model

// TermEntry is one canonical clinical term in the catalog, together with the
// alternate surface forms the matcher recognizes. Entries are immutable after
// the catalog is built.
type TermEntry struct {
	Name               string   `json:"name" yaml:"name"`
	Aliases            []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	BodyPart           string   `json:"body_part,omitempty" yaml:"body_part,omitempty"`
	Nature             string   `json:"nature,omitempty" yaml:"nature,omitempty"`
	Category           string   `json:"category" yaml:"category"`
	DurationRequired   bool     `json:"duration_required,omitempty" yaml:"duration_required,omitempty"`
	AssociatedSymptoms []string `json:"associated_symptoms,omitempty" yaml:"associated_symptoms,omitempty"`
	RelatedDiseases    []string `json:"related_diseases,omitempty" yaml:"related_diseases,omitempty"`
}

// SymptomMatch records one catalog hit inside a text span. MatchedAlias is the
// substring that actually fired, verbatim, not the canonical term name.
// Negated matches are still reported; consumers decide whether they count.
type SymptomMatch struct {
	TermName     string `json:"term_name"`
	Category     string `json:"category"`
	MatchedAlias string `json:"matched_alias"`
	SpanStart    int    `json:"span_start"` // rune offset, inclusive
	SpanEnd      int    `json:"span_end"`   // rune offset, exclusive
	Negated      bool   `json:"negated"`
}
