package worker

import (
	"context"
	"log"

	"pantry-service/internal/broker"
	"pantry-service/internal/models"
	"pantry-service/internal/service"
	"pantry-service/internal/util"
)

// ReplenishmentWorker listens for depleted items and puts them back on the
// owner's shopping list so the household re-buys what it just ran out of.
type ReplenishmentWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	shopping     *service.ShoppingService
}

// NewReplenishmentWorker creates a new replenishment worker
func NewReplenishmentWorker(consumer *broker.Consumer, shopping *service.ShoppingService) *ReplenishmentWorker {
	eventHandler := broker.NewEventHandler()

	w := &ReplenishmentWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		shopping:     shopping,
	}
	eventHandler.OnItemDepleted(w.handleItemDepleted)

	return w
}

func (w *ReplenishmentWorker) handleItemDepleted(ctx context.Context, event *models.ItemDepletedEvent) error {
	_, err := w.shopping.AddToShoppingList(ctx, &service.AddEntryRequest{
		OwnerID:  event.OwnerID,
		ItemName: event.CleanName,
	})
	if err != nil {
		return err
	}

	util.ReplenishmentsTotal.Inc()
	log.Printf("Replenishment queued: owner=%d item=%s", event.OwnerID, event.CleanName)
	return nil
}

// Start starts the worker
func (w *ReplenishmentWorker) Start(ctx context.Context) error {
	log.Println("Starting replenishment worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReplenishmentWorker) Stop() error {
	log.Println("Stopping replenishment worker...")
	return w.consumer.Close()
}
