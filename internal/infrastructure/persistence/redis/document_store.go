package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// DocumentStore implements outbound.DocumentStore with one Redis key per
// document. Documents never expire.
type DocumentStore struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

var _ outbound.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a Redis document store
func NewDocumentStore(client redis.UniversalClient, prefix string, logger *zap.Logger) *DocumentStore {
	return &DocumentStore{
		client: client,
		prefix: prefix + "doc:",
		logger: logger,
	}
}

func (s *DocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", key, err)
	}
	return data, nil
}

func (s *DocumentStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		s.logger.Error("Failed to save document", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("save document %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the client belongs to whoever opened it.
func (s *DocumentStore) Close() error {
	return nil
}
