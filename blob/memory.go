package blob

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store, used in tests and throwaway setups.
type MemStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{docs: map[string][]byte{}}
}

func (s *MemStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.docs[key] = cp
	return nil
}
