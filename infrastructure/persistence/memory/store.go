// Package memory is an in-process Store with an optional byte quota,
// the same shape as a browser's per-origin storage.
package memory

import (
	"context"
	"fmt"
	"sync"

	"scanorder/infrastructure/persistence"
)

type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	quota  int
	used   int
	closed bool
}

// Option configures a Store
type Option func(*Store)

// WithQuota caps the total size of keys plus values in bytes. Zero means unlimited.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

func New(opts ...Option) *Store {
	s := &Store{data: make(map[string]string)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", persistence.ErrStoreClosed
	}
	value, ok := s.data[key]
	if !ok {
		return "", persistence.ErrKeyNotFound
	}
	return value, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return persistence.ErrStoreClosed
	}

	used := s.used
	if old, ok := s.data[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)
	if s.quota > 0 && used > s.quota {
		return fmt.Errorf("set %s (%d bytes, quota %d): %w", key, len(value), s.quota, persistence.ErrQuotaExceeded)
	}

	s.data[key] = value
	s.used = used
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return persistence.ErrStoreClosed
	}
	if old, ok := s.data[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.data, key)
	}
	return nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return persistence.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Used bytes currently held
func (s *Store) Used() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

// Keys currently held, in no particular order
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

var _ persistence.Store = (*Store)(nil)
