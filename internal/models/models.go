package models

import "time"

// ClassificationRule maps a recognized item-name key to category, unit and
// shelf-life metadata. Keys are canonical lowercase substrings; matching is
// longest-key-first, so "almond milk" outranks "milk".
type ClassificationRule struct {
	Key              string `json:"key"`
	Category         string `json:"category"`
	Unit             string `json:"unit"`
	ExpiryDays       int    `json:"expiry_days"`
	FrozenExpiryDays int    `json:"frozen_expiry_days,omitempty"`
}

// HasFrozenExpiry reports whether the rule carries a frozen-specific shelf life.
func (r ClassificationRule) HasFrozenExpiry() bool {
	return r.FrozenExpiryDays > 0
}

// NormalizedItem is the result of classifying a raw item name.
type NormalizedItem struct {
	CleanName  string `json:"clean_name"`
	Category   string `json:"category"`
	Unit       string `json:"unit"`
	Storage    string `json:"storage"`
	ExpiryDays int    `json:"expiry_days"`
	Reason     string `json:"reason"`
}

// InventoryItem represents one owner-scoped acquisition. Two purchases of the
// same food produce two distinct rows; rows are never merged.
type InventoryItem struct {
	ID             int64     `db:"id" json:"id"`
	OwnerID        int64     `db:"owner_id" json:"owner_id"`
	RawName        string    `db:"raw_name" json:"raw_name"`
	CleanName      string    `db:"clean_name" json:"clean_name"`
	Category       string    `db:"category" json:"category"`
	Quantity       float64   `db:"quantity" json:"quantity"`
	Unit           string    `db:"unit" json:"unit"`
	Storage        string    `db:"storage" json:"storage"`
	DateAdded      time.Time `db:"date_added" json:"date_added"`
	ExpiryDate     time.Time `db:"expiry_date" json:"expiry_date"`
	Status         string    `db:"status" json:"status"`
	DecisionReason string    `db:"decision_reason" json:"decision_reason"`
	Price          float64   `db:"price" json:"price,omitempty"`
	Store          string    `db:"store" json:"store,omitempty"`
	Barcode        string    `db:"barcode" json:"barcode,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ShoppingListEntry represents an item the household still needs to buy.
type ShoppingListEntry struct {
	ID             int64   `db:"id" json:"id"`
	OwnerID        int64   `db:"owner_id" json:"owner_id"`
	ItemName       string  `db:"item_name" json:"item_name"`
	IsUrgent       bool    `db:"is_urgent" json:"is_urgent"`
	EstimatedPrice float64 `db:"estimated_price" json:"estimated_price,omitempty"`
	Barcode        string  `db:"barcode" json:"barcode,omitempty"`
}

// ConsumptionReport is the per-call audit of a consumption request. One
// outcome line per requested ingredient, plus the clean names of items whose
// last unit was just used up. It is returned to the caller, never persisted.
type ConsumptionReport struct {
	Lines         []string `json:"report"`
	DepletedItems []string `json:"depleted"`
}

// Item lifecycle. Consumed is terminal; there is no transition back to
// in-stock, a new purchase creates a new row.
const (
	ItemStatusInStock  = "IN_STOCK"
	ItemStatusConsumed = "CONSUMED"
)

// Storage locations.
const (
	StorageFresh  = "fresh"
	StorageFrozen = "frozen"
	StoragePantry = "pantry"
)

// Categories whose storage is pantry regardless of a lexical "frozen"
// modifier in the raw name.
const (
	CategoryPantry = "Pantry"
	CategoryCanned = "Canned"
	CategoryDry    = "Dry"
)

// CategoryUnsorted is the fallback for names matching no catalog rule.
const CategoryUnsorted = "Unsorted"

// IsPantryCategory reports whether the category forces pantry storage.
func IsPantryCategory(category string) bool {
	return category == CategoryPantry || category == CategoryCanned || category == CategoryDry
}
