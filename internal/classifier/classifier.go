// Package classifier turns a free-text item name into a structured inventory
// descriptor. Classification is pure: no I/O, never fails, always returns a
// usable result.
package classifier

import (
	"fmt"
	"strings"

	"pantry-service/internal/catalog"
	"pantry-service/internal/models"
)

// FallbackExpiryDays is the conservative horizon for items matching no rule.
// Seven days biases unknown items toward review instead of letting them go
// stale undetected.
const FallbackExpiryDays = 7

// Classifier normalizes raw item names against an immutable rule catalog.
type Classifier struct {
	catalog *catalog.Catalog
}

// New creates a classifier over the given catalog.
func New(c *catalog.Catalog) *Classifier {
	return &Classifier{catalog: c}
}

// Classify normalizes a raw item name into a structured descriptor.
//
// Storage detection is lexical (the substring "frozen" anywhere in the name),
// but category semantics win: a Pantry/Canned/Dry rule forces pantry storage
// even when the raw name says "frozen". The frozen-specific shelf life is
// used only when the item actually ends up stored frozen.
func (c *Classifier) Classify(rawName string) models.NormalizedItem {
	name := strings.ToLower(strings.TrimSpace(rawName))

	storage := models.StorageFresh
	if strings.Contains(name, "frozen") {
		storage = models.StorageFrozen
	}

	rule, ok := c.catalog.Lookup(name)
	if !ok {
		return models.NormalizedItem{
			CleanName:  name,
			Category:   models.CategoryUnsorted,
			Unit:       "unit",
			Storage:    storage,
			ExpiryDays: FallbackExpiryDays,
			Reason:     "unknown item (safety default)",
		}
	}

	if models.IsPantryCategory(rule.Category) {
		storage = models.StoragePantry
	}

	var days int
	var reason string
	switch {
	case storage == models.StorageFrozen && rule.HasFrozenExpiry():
		days = rule.FrozenExpiryDays
		reason = fmt.Sprintf("matched '%s' + detected 'frozen'", rule.Key)
	case storage == models.StoragePantry:
		days = rule.ExpiryDays
		reason = fmt.Sprintf("matched '%s' (pantry item)", rule.Key)
	default:
		days = rule.ExpiryDays
		reason = fmt.Sprintf("matched '%s' (default fresh)", rule.Key)
	}

	return models.NormalizedItem{
		CleanName:  rule.Key,
		Category:   rule.Category,
		Unit:       rule.Unit,
		Storage:    storage,
		ExpiryDays: days,
		Reason:     reason,
	}
}
