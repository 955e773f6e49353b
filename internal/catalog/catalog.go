// Package catalog holds the classification rule table: the single external
// data source of the engine. It is loaded once at process start and is
// read-only afterwards.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"pantry-service/internal/models"
)

//go:embed defaults.json
var defaultRules []byte

// Catalog is an immutable set of classification rules. Keys are kept ordered
// by descending length so that the longest substring match always wins; that
// ordering is part of the contract, not an optimization ("almond milk" must
// pre-empt "milk").
type Catalog struct {
	rules map[string]models.ClassificationRule
	keys  []string
}

type ruleEntry struct {
	Category         string `json:"category"`
	Unit             string `json:"unit"`
	ExpiryDays       int    `json:"expiry_days"`
	FrozenExpiryDays int    `json:"frozen_expiry_days,omitempty"`
}

// Load builds a catalog from the embedded defaults, or from the JSON file at
// path when one is configured.
func Load(path string) (*Catalog, error) {
	data := defaultRules
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		data = fileData
	}
	return Parse(data)
}

// Parse builds a catalog from raw JSON: a map of item key to rule.
func Parse(data []byte) (*Catalog, error) {
	var entries map[string]ruleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	rules := make(map[string]models.ClassificationRule, len(entries))
	for key, entry := range entries {
		canonical := strings.ToLower(strings.TrimSpace(key))
		if canonical == "" {
			return nil, fmt.Errorf("catalog contains an empty key")
		}
		if _, exists := rules[canonical]; exists {
			return nil, fmt.Errorf("duplicate catalog key: %q", canonical)
		}
		if entry.ExpiryDays <= 0 {
			return nil, fmt.Errorf("catalog key %q: expiry_days must be positive", canonical)
		}
		rules[canonical] = models.ClassificationRule{
			Key:              canonical,
			Category:         entry.Category,
			Unit:             entry.Unit,
			ExpiryDays:       entry.ExpiryDays,
			FrozenExpiryDays: entry.FrozenExpiryDays,
		}
	}

	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return &Catalog{rules: rules, keys: keys}, nil
}

// Lookup returns the rule whose key is the longest substring of name.
// Ties between equal-length keys resolve lexicographically.
func (c *Catalog) Lookup(name string) (models.ClassificationRule, bool) {
	for _, key := range c.keys {
		if strings.Contains(name, key) {
			return c.rules[key], true
		}
	}
	return models.ClassificationRule{}, false
}

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int {
	return len(c.rules)
}
