// Package events turns domain events into bus messages.
package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/domain/shared"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// ToMessage serializes a domain event. The message type is the event name.
func ToMessage(event shared.DomainEvent) (outbound.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return outbound.Message{}, err
	}
	return outbound.Message{
		ID:        uuid.New().String(),
		Type:      event.EventName(),
		Payload:   payload,
		Metadata:  map[string]string{"source": "fridgeraider"},
		Timestamp: event.OccurredAt(),
	}, nil
}

// Publish sends every event to topic. Failures are logged, not returned;
// the state change they describe has already been committed.
func Publish(ctx context.Context, bus outbound.MessageBus, topic string, evts []shared.DomainEvent, logger *zap.Logger) {
	if bus == nil {
		return
	}
	for _, event := range evts {
		msg, err := ToMessage(event)
		if err == nil {
			err = bus.Publish(ctx, topic, msg)
		}
		if err != nil {
			logger.Error("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
}
