package models

import "time"

// Event types
const (
	EventTypeItemAdded    = "ITEM_ADDED"
	EventTypeItemConsumed = "ITEM_CONSUMED"
	EventTypeItemDepleted = "ITEM_DEPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemAddedEvent published when a new inventory item is created
type ItemAddedEvent struct {
	BaseEvent
	ItemID     int64     `json:"item_id"`
	OwnerID    int64     `json:"owner_id"`
	CleanName  string    `json:"clean_name"`
	Category   string    `json:"category"`
	Storage    string    `json:"storage"`
	Quantity   float64   `json:"quantity"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// ItemConsumedEvent published when one unit of an item is used
type ItemConsumedEvent struct {
	BaseEvent
	ItemID    int64   `json:"item_id"`
	OwnerID   int64   `json:"owner_id"`
	CleanName string  `json:"clean_name"`
	Remaining float64 `json:"remaining"`
}

// ItemDepletedEvent published when the last unit of an item is used up.
// The replenishment worker reacts to this by putting the item back on the
// owner's shopping list.
type ItemDepletedEvent struct {
	BaseEvent
	ItemID    int64  `json:"item_id"`
	OwnerID   int64  `json:"owner_id"`
	CleanName string `json:"clean_name"`
}
