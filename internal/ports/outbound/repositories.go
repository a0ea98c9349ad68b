// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces the application needs from the outside world
package outbound

import (
	"context"
	"errors"
	"time"
)

// Document keys of the persisted workspace state.
const (
	DocumentInventory   = "fridge_inventory"
	DocumentPreferences = "fridge_preferences"
)

// ErrDocumentNotFound is returned by Load when nothing was saved under the
// key. Callers treat it as a first run.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists opaque JSON documents by key
type DocumentStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MessageBus defines the interface for publishing messages
type MessageBus interface {
	Publish(ctx context.Context, topic string, message Message) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// Message represents a message to be published
type Message struct {
	ID        string
	Type      string
	Payload   []byte
	Metadata  map[string]string
	Timestamp time.Time
}

// MessageHandler handles incoming messages
type MessageHandler func(ctx context.Context, message Message) error
