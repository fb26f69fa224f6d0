package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/btc-session-daemon/internal/core/ports"
)

type sessionStore struct {
	entries map[string]string
	lock    *sync.RWMutex
}

// NewSessionStore returns a session store that lives as long as the process.
func NewSessionStore() ports.SessionStore {
	return &sessionStore{
		entries: make(map[string]string),
		lock:    &sync.RWMutex{},
	}
}

func (s *sessionStore) Get(_ context.Context, key string) (string, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	value, ok := s.entries[key]
	return value, ok, nil
}

func (s *sessionStore) Set(_ context.Context, key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries[key] = value
	return nil
}

func (s *sessionStore) SetAll(_ context.Context, entries map[string]string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for key, value := range entries {
		s.entries[key] = value
	}
	return nil
}

func (s *sessionStore) Remove(_ context.Context, keys ...string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *sessionStore) Close() {}
