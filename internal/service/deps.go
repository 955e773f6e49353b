package service

import (
	"context"

	"pantry-service/internal/models"
)

// ItemStore is the persistence surface the services depend on. *store.Store
// satisfies it; tests substitute an in-memory implementation.
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	GetItemByID(ctx context.Context, id, ownerID int64) (*models.InventoryItem, error)
	GetInStock(ctx context.Context, ownerID int64) ([]models.InventoryItem, error)
	GetExpiringSoon(ctx context.Context, ownerID int64, withinDays int) ([]models.InventoryItem, error)
	FindConsumptionCandidate(ctx context.Context, ownerID int64, term string) (*models.InventoryItem, error)
	DecrementQuantity(ctx context.Context, id, ownerID int64, expectedQty float64) error
	MarkConsumed(ctx context.Context, id, ownerID int64, expectedQty float64) error
	DeleteItem(ctx context.Context, id, ownerID int64) error
	AddShoppingEntry(ctx context.Context, entry *models.ShoppingListEntry) error
	GetShoppingList(ctx context.Context, ownerID int64) ([]models.ShoppingListEntry, error)
	DeleteShoppingEntriesByName(ctx context.Context, ownerID int64, itemName string) error
}

// EventPublisher publishes inventory lifecycle events. *broker.EventPublisher
// satisfies it. Publish failures are logged, never surfaced to callers: the
// store write is the source of truth.
type EventPublisher interface {
	PublishItemAdded(ctx context.Context, event *models.ItemAddedEvent) error
	PublishItemConsumed(ctx context.Context, event *models.ItemConsumedEvent) error
	PublishItemDepleted(ctx context.Context, event *models.ItemDepletedEvent) error
}

// NameCache caches per-owner in-stock name lists. *redisclient.Client
// satisfies it.
type NameCache interface {
	GetInStockNames(ctx context.Context, ownerID int64) ([]string, bool, error)
	SetInStockNames(ctx context.Context, ownerID int64, names []string) error
	InvalidateNames(ctx context.Context, ownerID int64) error
}
