package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/qezhu/medqc/internal/model"
)

// Knowledge-base file names inside the knowledge directory. Terms, typos and
// synonyms are YAML; rules carry a JSON condition DSL and stay JSON.
const (
	termsFile    = "terms.yaml"
	typosFile    = "typos.yaml"
	synonymsFile = "synonyms.yaml"
	rulesFile    = "rules.json"
)

// Load reads the knowledge base from dir and builds the term catalog and the
// rule set. Loading is all-or-nothing: any malformed entry or rule fails the
// whole load and the caller keeps whatever snapshot it had before.
func Load(dir string) (*TermCatalog, []model.ContentRule, error) {
	entries, err := loadTerms(filepath.Join(dir, termsFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load terms: %w", err)
	}

	typos, err := loadStringMap(filepath.Join(dir, typosFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load typos: %w", err)
	}

	synonyms, err := loadStringMap(filepath.Join(dir, synonymsFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load synonyms: %w", err)
	}

	cat, err := Build(entries, typos, synonyms)
	if err != nil {
		return nil, nil, fmt.Errorf("build catalog: %w", err)
	}

	rules, err := loadRules(filepath.Join(dir, rulesFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load rules: %w", err)
	}

	return cat, rules, nil
}

// LoadIntoStore loads the knowledge base and publishes it as a new snapshot.
// On error the store is left untouched, so the prior snapshot stays active.
func LoadIntoStore(store *Store, dir string) (*Snapshot, error) {
	cat, rules, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return store.Swap(cat, rules), nil
}

func loadTerms(path string) ([]model.TermEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []model.TermEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// loadStringMap reads an optional YAML mapping file. A missing file is an
// empty mapping, not an error.
func loadStringMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// loadRules reads the optional rule catalog and parses every condition into
// its closed variant. Unknown condition types load as UnsupportedCondition
// and surface at evaluation time; structurally malformed rules fail the
// load outright.
func loadRules(path string) ([]model.ContentRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var rules []model.ContentRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	seen := make(map[string]bool, len(rules))
	for i := range rules {
		rule := &rules[i]
		if rule.ID == "" {
			return nil, fmt.Errorf("rule %d: missing id", i)
		}
		if seen[rule.ID] {
			return nil, fmt.Errorf("rule %s: duplicate id", rule.ID)
		}
		seen[rule.ID] = true
		if rule.DocumentType == "" {
			return nil, fmt.Errorf("rule %s: missing document_type", rule.ID)
		}
		if rule.Section == "" {
			return nil, fmt.Errorf("rule %s: missing section", rule.ID)
		}
		if rule.ErrorMessage == "" {
			return nil, fmt.Errorf("rule %s: missing error_message", rule.ID)
		}
		if !rule.Severity.Valid() {
			return nil, fmt.Errorf("rule %s: invalid severity %q", rule.ID, rule.Severity)
		}
		if len(rule.RawCondition) == 0 {
			return nil, fmt.Errorf("rule %s: missing condition", rule.ID)
		}

		cond, err := model.ParseCondition(rule.RawCondition)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		rule.Condition = cond
	}

	return rules, nil
}
