package service

import (
	"context"
	"fmt"
	"time"

	"pantry-service/internal/classifier"
	"pantry-service/internal/models"
	"pantry-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService owns the inventory write path: items are materialized only
// through the classifier, and status/quantity are never mutated by callers
// directly.
type InventoryService struct {
	store          ItemStore
	classifier     *classifier.Classifier
	cache          NameCache
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	store ItemStore,
	cls *classifier.Classifier,
	cache NameCache,
	eventPublisher EventPublisher,
) *InventoryService {
	return &InventoryService{
		store:          store,
		classifier:     cls,
		cache:          cache,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateItemRequest represents a request to add an inventory item
type CreateItemRequest struct {
	OwnerID  int64   `json:"owner_id" binding:"required"`
	RawName  string  `json:"raw_name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price,omitempty"`
	Store    string  `json:"store,omitempty"`
	Barcode  string  `json:"barcode,omitempty"`
}

// CreateItem classifies the raw name and persists a new in-stock row. Each
// acquisition is a distinct row even when the clean name already exists.
func (s *InventoryService) CreateItem(ctx context.Context, req *CreateItemRequest) (*models.InventoryItem, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.CreateItem")
	defer span.End()

	normalized := s.classifier.Classify(req.RawName)
	if normalized.Category == models.CategoryUnsorted {
		util.ItemsClassifiedTotal.WithLabelValues("fallback").Inc()
	} else {
		util.ItemsClassifiedTotal.WithLabelValues("matched").Inc()
	}

	today := time.Now().UTC()
	item := &models.InventoryItem{
		OwnerID:        req.OwnerID,
		RawName:        req.RawName,
		CleanName:      normalized.CleanName,
		Category:       normalized.Category,
		Quantity:       req.Quantity,
		Unit:           normalized.Unit,
		Storage:        normalized.Storage,
		DateAdded:      today,
		ExpiryDate:     today.AddDate(0, 0, normalized.ExpiryDays),
		Status:         models.ItemStatusInStock,
		DecisionReason: normalized.Reason,
		Price:          req.Price,
		Store:          req.Store,
		Barcode:        req.Barcode,
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	util.ItemsCreatedTotal.Inc()
	s.logger.Info("Item created",
		zap.Int64("item_id", item.ID),
		zap.String("clean_name", item.CleanName),
		zap.String("storage", item.Storage),
		zap.String("reason", item.DecisionReason))

	s.invalidateNames(ctx, req.OwnerID)

	event := &models.ItemAddedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeItemAdded,
			Timestamp: time.Now(),
		},
		ItemID:     item.ID,
		OwnerID:    item.OwnerID,
		CleanName:  item.CleanName,
		Category:   item.Category,
		Storage:    item.Storage,
		Quantity:   item.Quantity,
		ExpiryDate: item.ExpiryDate,
	}
	if err := s.eventPublisher.PublishItemAdded(ctx, event); err != nil {
		s.logger.Error("Failed to publish ItemAdded event", zap.Error(err))
	}

	return item, nil
}

// GetInStock retrieves all in-stock items for an owner, soonest expiry first.
func (s *InventoryService) GetInStock(ctx context.Context, ownerID int64) ([]models.InventoryItem, error) {
	return s.store.GetInStock(ctx, ownerID)
}

// GetExpiringSoon retrieves in-stock items expiring within the given horizon.
func (s *InventoryService) GetExpiringSoon(ctx context.Context, ownerID int64, withinDays int) ([]models.InventoryItem, error) {
	return s.store.GetExpiringSoon(ctx, ownerID, withinDays)
}

// GetInStockNames returns the clean names of an owner's in-stock items,
// served from the redis cache when possible. Meal-suggestion callers hit
// this on every prompt, so it is worth caching.
func (s *InventoryService) GetInStockNames(ctx context.Context, ownerID int64) ([]string, error) {
	names, hit, err := s.cache.GetInStockNames(ctx, ownerID)
	if err != nil {
		s.logger.Warn("Name cache read failed", zap.Int64("owner_id", ownerID), zap.Error(err))
	}
	if hit {
		return names, nil
	}

	items, err := s.store.GetInStock(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	names = make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.CleanName)
	}

	if err := s.cache.SetInStockNames(ctx, ownerID, names); err != nil {
		s.logger.Warn("Name cache write failed", zap.Int64("owner_id", ownerID), zap.Error(err))
	}

	return names, nil
}

// DeleteItem hard-removes an item, scoped to its owner.
func (s *InventoryService) DeleteItem(ctx context.Context, id, ownerID int64) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.DeleteItem")
	defer span.End()

	if err := s.store.DeleteItem(ctx, id, ownerID); err != nil {
		return err
	}

	util.ItemsDeletedTotal.Inc()
	s.invalidateNames(ctx, ownerID)
	return nil
}

func (s *InventoryService) invalidateNames(ctx context.Context, ownerID int64) {
	if err := s.cache.InvalidateNames(ctx, ownerID); err != nil {
		s.logger.Warn("Name cache invalidation failed", zap.Int64("owner_id", ownerID), zap.Error(err))
	}
}
