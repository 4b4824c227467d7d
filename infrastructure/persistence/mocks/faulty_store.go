package mocks

import (
	"context"
	"sync"

	"scanorder/infrastructure/persistence"
)

// FaultyStore wraps a Store and fails chosen operations on demand.
// Injected errors stay until cleared; FailNextSet fails exactly one write.
type FaultyStore struct {
	next persistence.Store

	mu        sync.Mutex
	getErr    map[string]error
	setErr    map[string]error
	deleteErr error
	pingErr   error
	failNext  []error
	sets      []string
}

func NewFaultyStore(next persistence.Store) *FaultyStore {
	return &FaultyStore{
		next:   next,
		getErr: make(map[string]error),
		setErr: make(map[string]error),
	}
}

// FailGet makes Get(key) return err
func (s *FaultyStore) FailGet(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr[key] = err
}

// FailSet makes Set(key, ...) return err. An empty key fails every write.
func (s *FaultyStore) FailSet(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr[key] = err
}

// FailNextSet queues err for the next write, whatever its key
func (s *FaultyStore) FailNextSet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = append(s.failNext, err)
}

func (s *FaultyStore) FailDelete(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteErr = err
}

func (s *FaultyStore) FailPing(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// Reset clears every injected failure
func (s *FaultyStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = make(map[string]error)
	s.setErr = make(map[string]error)
	s.deleteErr = nil
	s.pingErr = nil
	s.failNext = nil
}

// Sets keys of the successful writes, in order
func (s *FaultyStore) Sets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sets...)
}

func (s *FaultyStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	err := s.getErr[key]
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	return s.next.Get(ctx, key)
}

func (s *FaultyStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	if len(s.failNext) > 0 {
		err := s.failNext[0]
		s.failNext = s.failNext[1:]
		s.mu.Unlock()
		return err
	}
	err := s.setErr[key]
	if err == nil {
		err = s.setErr[""]
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.next.Set(ctx, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.sets = append(s.sets, key)
	s.mu.Unlock()
	return nil
}

func (s *FaultyStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	err := s.deleteErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.next.Delete(ctx, key)
}

func (s *FaultyStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	err := s.pingErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.next.Ping(ctx)
}

func (s *FaultyStore) Close() error {
	return s.next.Close()
}

var _ persistence.Store = (*FaultyStore)(nil)
