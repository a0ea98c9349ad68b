// Package messaging provides MessageBus implementations
package messaging

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// ErrBusClosed is returned after Close
var ErrBusClosed = errors.New("message bus closed")

// EventBus dispatches messages to in-process subscribers synchronously.
// A failing handler is logged and does not stop the others.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]outbound.MessageHandler
	closed   bool
	metrics  *monitoring.MetricsCollector
	log      *zap.Logger
}

var _ outbound.MessageBus = (*EventBus)(nil)

// NewEventBus creates a new in-process bus. metrics may be nil.
func NewEventBus(metrics *monitoring.MetricsCollector, log *zap.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]outbound.MessageHandler),
		metrics:  metrics,
		log:      log,
	}
}

// Publish dispatches a message to every handler of topic
func (b *EventBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	handlers := append([]outbound.MessageHandler(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	if b.metrics != nil {
		b.metrics.RecordEventPublished(topic, message.Type)
	}

	if len(handlers) == 0 {
		b.log.Debug("No handlers registered for topic", zap.String("topic", topic), zap.String("type", message.Type))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, message); err != nil {
			b.log.Error("Failed to handle event",
				zap.String("topic", topic),
				zap.String("type", message.Type),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Subscribe registers a handler for topic
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
	b.log.Debug("Registered event handler", zap.String("topic", topic))
	return nil
}

// Close drops all handlers
func (b *EventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = nil
	return nil
}
