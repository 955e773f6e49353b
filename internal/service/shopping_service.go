package service

import (
	"context"
	"fmt"

	"pantry-service/internal/models"
	"pantry-service/internal/util"

	"go.uber.org/zap"
)

// PartialTransitionError reports that an item was created in inventory but
// its shopping-list entries could not be removed: the item now exists in
// both places and the caller should retry the removal.
type PartialTransitionError struct {
	Item *models.InventoryItem
	Err  error
}

func (e *PartialTransitionError) Error() string {
	return fmt.Sprintf("item %d created but shopping-list removal failed: %v", e.Item.ID, e.Err)
}

func (e *PartialTransitionError) Unwrap() error {
	return e.Err
}

// ShoppingService sequences the shopping-list side of the system. It adds no
// classification logic of its own; MoveToInventory delegates to the
// inventory write path and then clears the matching shopping entries.
type ShoppingService struct {
	store     ItemStore
	inventory *InventoryService
	logger    *zap.Logger
}

// NewShoppingService creates a new shopping service
func NewShoppingService(store ItemStore, inventory *InventoryService) *ShoppingService {
	return &ShoppingService{
		store:     store,
		inventory: inventory,
		logger:    util.GetLogger(),
	}
}

// AddEntryRequest represents a request to add a shopping-list entry
type AddEntryRequest struct {
	OwnerID        int64   `json:"owner_id" binding:"required"`
	ItemName       string  `json:"item_name" binding:"required"`
	IsUrgent       bool    `json:"is_urgent,omitempty"`
	EstimatedPrice float64 `json:"estimated_price,omitempty"`
	Barcode        string  `json:"barcode,omitempty"`
}

// AddToShoppingList adds an entry unless the owner already lists the name.
func (s *ShoppingService) AddToShoppingList(ctx context.Context, req *AddEntryRequest) (*models.ShoppingListEntry, error) {
	entry := &models.ShoppingListEntry{
		OwnerID:        req.OwnerID,
		ItemName:       req.ItemName,
		IsUrgent:       req.IsUrgent,
		EstimatedPrice: req.EstimatedPrice,
		Barcode:        req.Barcode,
	}
	if err := s.store.AddShoppingEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add shopping entry: %w", err)
	}
	return entry, nil
}

// GetShoppingList retrieves all entries for an owner.
func (s *ShoppingService) GetShoppingList(ctx context.Context, ownerID int64) ([]models.ShoppingListEntry, error) {
	return s.store.GetShoppingList(ctx, ownerID)
}

// PurchaseRequest represents a purchased shopping-list entry
type PurchaseRequest struct {
	OwnerID  int64   `json:"owner_id" binding:"required"`
	ItemName string  `json:"item_name" binding:"required"`
	Quantity float64 `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Store    string  `json:"store,omitempty"`
}

// MoveToInventory classifies and creates the item, then removes every
// shopping-list row with a matching name. A removal failure returns
// *PartialTransitionError carrying the created item so the caller can
// reconcile rather than silently holding the item in both lists.
func (s *ShoppingService) MoveToInventory(ctx context.Context, req *PurchaseRequest) (*models.InventoryItem, error) {
	ctx, span := util.StartSpan(ctx, "ShoppingService.MoveToInventory")
	defer span.End()

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	item, err := s.inventory.CreateItem(ctx, &CreateItemRequest{
		OwnerID:  req.OwnerID,
		RawName:  req.ItemName,
		Quantity: quantity,
		Price:    req.Price,
		Store:    req.Store,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteShoppingEntriesByName(ctx, req.OwnerID, req.ItemName); err != nil {
		util.ShoppingTransitionsPartialTotal.Inc()
		s.logger.Error("Shopping-list removal failed after item creation",
			zap.Int64("owner_id", req.OwnerID),
			zap.Int64("item_id", item.ID),
			zap.String("item_name", req.ItemName),
			zap.Error(err))
		return item, &PartialTransitionError{Item: item, Err: err}
	}

	util.ShoppingTransitionsTotal.Inc()
	s.logger.Info("Shopping entry moved to inventory",
		zap.Int64("owner_id", req.OwnerID),
		zap.Int64("item_id", item.ID),
		zap.String("clean_name", item.CleanName))

	return item, nil
}
