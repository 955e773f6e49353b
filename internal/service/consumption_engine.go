package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pantry-service/internal/models"
	"pantry-service/internal/store"
	"pantry-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// consumeMaxAttempts bounds the per-ingredient retry loop when a conditional
// update loses a race. Each retry re-reads the candidate.
const consumeMaxAttempts = 3

// ConsumptionEngine depletes stock against ingredient requests using a
// freshness-first policy: among matching in-stock rows, the one with the
// soonest expiry date is used up first, which is the whole point of tracking
// expiry at all.
type ConsumptionEngine struct {
	store          ItemStore
	cache          NameCache
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewConsumptionEngine creates a new consumption engine
func NewConsumptionEngine(store ItemStore, cache NameCache, eventPublisher EventPublisher) *ConsumptionEngine {
	return &ConsumptionEngine{
		store:          store,
		cache:          cache,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// ConsumeRequest represents a batch consumption request
type ConsumeRequest struct {
	OwnerID     int64    `json:"owner_id" binding:"required"`
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
}

// Consume resolves each requested ingredient independently: decrement one
// unit of the soonest-to-expire match, or transition the last unit to
// Consumed. A missing match is a report line, never an error; the rest of
// the batch proceeds.
func (e *ConsumptionEngine) Consume(ctx context.Context, req *ConsumeRequest) (*models.ConsumptionReport, error) {
	ctx, span := util.StartSpan(ctx, "ConsumptionEngine.Consume")
	defer span.End()

	util.ConsumeRequestsTotal.Inc()
	start := time.Now()
	defer func() {
		util.ConsumeLatency.Observe(time.Since(start).Seconds())
	}()

	report := &models.ConsumptionReport{
		Lines:         make([]string, 0, len(req.Ingredients)),
		DepletedItems: []string{},
	}

	mutated := false
	for _, ingredient := range req.Ingredients {
		line, depleted, changed := e.consumeOne(ctx, req.OwnerID, ingredient)
		report.Lines = append(report.Lines, line)
		if depleted != "" {
			report.DepletedItems = append(report.DepletedItems, depleted)
		}
		mutated = mutated || changed
	}

	if mutated {
		if err := e.cache.InvalidateNames(ctx, req.OwnerID); err != nil {
			e.logger.Warn("Name cache invalidation failed", zap.Int64("owner_id", req.OwnerID), zap.Error(err))
		}
	}

	return report, nil
}

// consumeOne resolves a single ingredient. It returns the report line, the
// clean name when the item was depleted, and whether anything was mutated.
func (e *ConsumptionEngine) consumeOne(ctx context.Context, ownerID int64, ingredient string) (line, depleted string, mutated bool) {
	term := NormalizeIngredient(ingredient)

	for attempt := 0; attempt < consumeMaxAttempts; attempt++ {
		item, err := e.store.FindConsumptionCandidate(ctx, ownerID, term)
		if errors.Is(err, store.ErrNotFound) {
			util.IngredientsNotFoundTotal.Inc()
			return fmt.Sprintf("'%s' not found", ingredient), "", false
		}
		if err != nil {
			e.logger.Error("Candidate lookup failed",
				zap.Int64("owner_id", ownerID),
				zap.String("ingredient", ingredient),
				zap.Error(err))
			return fmt.Sprintf("'%s' lookup failed", ingredient), "", false
		}

		if item.Quantity > 1 {
			err = e.store.DecrementQuantity(ctx, item.ID, ownerID, item.Quantity)
			if errors.Is(err, store.ErrConflict) {
				util.ConsumeConflictsTotal.Inc()
				continue
			}
			if err != nil {
				e.logger.Error("Quantity decrement failed", zap.Int64("item_id", item.ID), zap.Error(err))
				return fmt.Sprintf("'%s' update failed", ingredient), "", false
			}

			remaining := item.Quantity - 1
			e.publishConsumed(ctx, item, remaining)
			return fmt.Sprintf("Used 1 of '%s'. Remaining: %s", item.CleanName, formatQuantity(remaining)), "", true
		}

		// Last unit: flip to Consumed instead of decrementing to zero.
		err = e.store.MarkConsumed(ctx, item.ID, ownerID, item.Quantity)
		if errors.Is(err, store.ErrConflict) {
			util.ConsumeConflictsTotal.Inc()
			continue
		}
		if err != nil {
			e.logger.Error("Terminal transition failed", zap.Int64("item_id", item.ID), zap.Error(err))
			return fmt.Sprintf("'%s' update failed", ingredient), "", false
		}

		util.ItemsDepletedTotal.Inc()
		e.publishDepleted(ctx, item)
		return fmt.Sprintf("Finished '%s'", item.CleanName), item.CleanName, true
	}

	e.logger.Warn("Gave up after repeated conflicts",
		zap.Int64("owner_id", ownerID),
		zap.String("ingredient", ingredient))
	return fmt.Sprintf("'%s' skipped after concurrent update", ingredient), "", false
}

// NormalizeIngredient prepares a recipe ingredient for stock lookup. The
// literal "frozen" is stripped so a recipe asking for "frozen spinach" still
// matches a plain "spinach" row and vice versa.
func NormalizeIngredient(name string) string {
	term := strings.ToLower(name)
	term = strings.ReplaceAll(term, "frozen", "")
	return strings.TrimSpace(term)
}

func (e *ConsumptionEngine) publishConsumed(ctx context.Context, item *models.InventoryItem, remaining float64) {
	event := &models.ItemConsumedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeItemConsumed,
			Timestamp: time.Now(),
		},
		ItemID:    item.ID,
		OwnerID:   item.OwnerID,
		CleanName: item.CleanName,
		Remaining: remaining,
	}
	if err := e.eventPublisher.PublishItemConsumed(ctx, event); err != nil {
		e.logger.Error("Failed to publish ItemConsumed event", zap.Error(err))
	}
}

func (e *ConsumptionEngine) publishDepleted(ctx context.Context, item *models.InventoryItem) {
	event := &models.ItemDepletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeItemDepleted,
			Timestamp: time.Now(),
		},
		ItemID:    item.ID,
		OwnerID:   item.OwnerID,
		CleanName: item.CleanName,
	}
	if err := e.eventPublisher.PublishItemDepleted(ctx, event); err != nil {
		e.logger.Error("Failed to publish ItemDepleted event", zap.Error(err))
	}
}

// formatQuantity renders quantities without trailing zeros ("11", "0.5").
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
