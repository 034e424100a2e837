package catalog

import (
	"sort"
	"sync/atomic"

	"github.com/qezhu/medqc/internal/model"
)

// Snapshot is one immutable, versioned view of the knowledge base: the term
// catalog plus the active rule set. In-flight validation runs keep using the
// snapshot they started with even while a newer one is published.
type Snapshot struct {
	Catalog *TermCatalog
	Rules   []model.ContentRule // ascending rule ID
	Version uint64
}

// RulesFor returns the active rules scoped to a document type, preserving
// the snapshot's ascending-ID order.
func (s *Snapshot) RulesFor(docType model.DocumentType) []model.ContentRule {
	var scoped []model.ContentRule
	for _, rule := range s.Rules {
		if rule.IsActive && rule.DocumentType == docType {
			scoped = append(scoped, rule)
		}
	}
	return scoped
}

// Store publishes snapshots with copy-and-swap semantics: a replacement is
// built fully off to the side and then swapped in atomically. Readers never
// block and never observe a partially built snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewStore returns an empty store. Snapshot returns nil until the first Swap.
func NewStore() *Store {
	return &Store{}
}

// Swap publishes a new snapshot built from the given catalog and rules and
// returns it. Rules are sorted by ascending ID so evaluation order, and
// therefore the issue list, is reproducible across runs.
func (s *Store) Swap(cat *TermCatalog, rules []model.ContentRule) *Snapshot {
	sorted := make([]model.ContentRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	snap := &Snapshot{
		Catalog: cat,
		Rules:   sorted,
		Version: s.version.Add(1),
	}
	s.current.Store(snap)
	return snap
}

// Snapshot returns the currently published snapshot, or nil before the first
// load.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}
