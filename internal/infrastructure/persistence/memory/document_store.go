package memory

import (
	"context"
	"sync"

	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// DocumentStore keeps documents in process memory. State is lost on exit.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var _ outbound.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates an empty store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]byte)}
}

func (s *DocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[key]
	if !ok {
		return nil, outbound.ErrDocumentNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *DocumentStore) Save(ctx context.Context, key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = stored
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

func (s *DocumentStore) Close() error {
	return nil
}
