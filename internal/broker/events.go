package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pantry-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing inventory domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// Events for one item share a key so consumers see them in order.
func itemKey(itemID int64) string {
	return fmt.Sprintf("item-%d", itemID)
}

// PublishItemAdded publishes an ItemAdded event
func (ep *EventPublisher) PublishItemAdded(ctx context.Context, event *models.ItemAddedEvent) error {
	return ep.producer.PublishEvent(ctx, itemKey(event.ItemID), event)
}

// PublishItemConsumed publishes an ItemConsumed event
func (ep *EventPublisher) PublishItemConsumed(ctx context.Context, event *models.ItemConsumedEvent) error {
	return ep.producer.PublishEvent(ctx, itemKey(event.ItemID), event)
}

// PublishItemDepleted publishes an ItemDepleted event
func (ep *EventPublisher) PublishItemDepleted(ctx context.Context, event *models.ItemDepletedEvent) error {
	return ep.producer.PublishEvent(ctx, itemKey(event.ItemID), event)
}

// EventHandler routes incoming inventory events to registered callbacks
type EventHandler struct {
	onItemDepleted func(context.Context, *models.ItemDepletedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnItemDepleted registers a handler for ItemDepleted events
func (eh *EventHandler) OnItemDepleted(handler func(context.Context, *models.ItemDepletedEvent) error) {
	eh.onItemDepleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeItemDepleted:
		if eh.onItemDepleted != nil {
			var event models.ItemDepletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ItemDepleted event: %w", err)
			}
			return eh.onItemDepleted(ctx, &event)
		}

	case models.EventTypeItemAdded, models.EventTypeItemConsumed:
		// Published for external consumers; nothing to do in-process.

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
