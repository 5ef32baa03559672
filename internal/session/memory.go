package session

import (
	"context"
	"sync"
)

// MemoryStorage keeps values in process memory. Used directly it behaves as a
// single tab; wrapped with TabStorage it serves many clients.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (s *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", ErrNoValue
	}
	return v, nil
}

func (s *MemoryStorage) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

type tabStorage struct {
	backend Storage
	prefix  string
}

// TabStorage scopes every key of backend to one client tab.
func TabStorage(backend Storage, tabID string) Storage {
	return &tabStorage{backend: backend, prefix: "pah:tab:" + tabID + ":"}
}

func (s *tabStorage) Get(ctx context.Context, key string) (string, error) {
	return s.backend.Get(ctx, s.prefix+key)
}

func (s *tabStorage) Set(ctx context.Context, key string, value string) error {
	return s.backend.Set(ctx, s.prefix+key, value)
}

func (s *tabStorage) Remove(ctx context.Context, key string) error {
	return s.backend.Remove(ctx, s.prefix+key)
}
