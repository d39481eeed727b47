package session

import (
	"sync"
	"time"
)

// MemoryStorage is an in-process Storage for tests and single-node dev runs.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

type memoryEntry struct {
	val     []byte
	expires time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		delete(s.data, key)
		return nil, nil
	}
	return e.val, nil
}

func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{val: append([]byte(nil), val...)}
	if exp > 0 {
		e.expires = s.now().Add(exp)
	}
	s.data[key] = e
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
