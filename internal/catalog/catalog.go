package catalog

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/qezhu/medqc/internal/model"
)

// TermCatalog is the in-memory index of clinical terms: exact name lookup,
// alias lookup (the name itself counts as an alias), typo corrections and
// terminology synonyms. All keys are case/whitespace-normalized. A built
// catalog is immutable and safe for concurrent readers.
type TermCatalog struct {
	byName   map[string]*model.TermEntry
	byAlias  map[string]*model.TermEntry
	typos    map[string]string
	synonyms map[string]string
	aliases  []string // normalized alias keys, longest first
}

// Build constructs a catalog from source entries plus optional typo and
// terminology-synonym mappings. It fails fast on a malformed entry; no
// partial catalog is ever returned. When two entries share an alias the
// first-registered entry wins, deterministically over input order.
func Build(entries []model.TermEntry, typos, synonyms map[string]string) (*TermCatalog, error) {
	c := &TermCatalog{
		byName:   make(map[string]*model.TermEntry, len(entries)),
		byAlias:  make(map[string]*model.TermEntry, len(entries)*2),
		typos:    make(map[string]string, len(typos)),
		synonyms: make(map[string]string, len(synonyms)),
	}

	for i := range entries {
		entry := entries[i]
		name := model.NormalizeTerm(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("term entry %d: missing name", i)
		}
		if _, exists := c.byName[name]; exists {
			return nil, fmt.Errorf("term entry %d: duplicate name %q", i, entry.Name)
		}
		c.byName[name] = &entry

		c.registerAlias(name, &entry)
		for _, alias := range entry.Aliases {
			normalized := model.NormalizeTerm(alias)
			if normalized == "" {
				return nil, fmt.Errorf("term %q: empty alias", entry.Name)
			}
			c.registerAlias(normalized, &entry)
		}
	}

	for typo, correct := range typos {
		c.typos[model.NormalizeTerm(typo)] = model.NormalizeTerm(correct)
	}
	for synonym, canonical := range synonyms {
		c.synonyms[model.NormalizeTerm(synonym)] = model.NormalizeTerm(canonical)
	}

	// Longest alias first so a short alias never shadows a more specific one.
	c.aliases = make([]string, 0, len(c.byAlias))
	for alias := range c.byAlias {
		c.aliases = append(c.aliases, alias)
	}
	sort.Slice(c.aliases, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(c.aliases[i]), utf8.RuneCountInString(c.aliases[j])
		if li != lj {
			return li > lj
		}
		return c.aliases[i] < c.aliases[j]
	})

	return c, nil
}

func (c *TermCatalog) registerAlias(alias string, entry *model.TermEntry) {
	if _, exists := c.byAlias[alias]; exists {
		return // first-registered wins
	}
	c.byAlias[alias] = entry
}

// Lookup resolves a phrase to its term entry via exact name or alias match,
// after applying typo corrections and terminology synonyms.
func (c *TermCatalog) Lookup(phrase string) (*model.TermEntry, bool) {
	key := model.NormalizeTerm(phrase)
	if corrected, ok := c.typos[key]; ok {
		key = corrected
	}
	if canonical, ok := c.synonyms[key]; ok {
		key = canonical
	}
	entry, ok := c.byAlias[key]
	return entry, ok
}

// AliasEntry returns the entry registered for an already-normalized alias.
func (c *TermCatalog) AliasEntry(alias string) (*model.TermEntry, bool) {
	entry, ok := c.byAlias[alias]
	return entry, ok
}

// Aliases returns all normalized alias keys, longest first. The returned
// slice is shared and must not be modified.
func (c *TermCatalog) Aliases() []string {
	return c.aliases
}

// Len returns the number of canonical terms in the catalog.
func (c *TermCatalog) Len() int {
	return len(c.byName)
}
