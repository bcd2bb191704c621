// Package storagetest provides an in-memory Storage for tests.
package storagetest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/barterup/barterupd/internal/storage"
)

// Storage keeps entries in a map. SetCalls counts writes so tests can
// assert that an operation touched nothing.
type Storage struct {
	mu       sync.Mutex
	values   map[storage.Scope]map[string]json.RawMessage
	SetCalls int
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{
		values: map[storage.Scope]map[string]json.RawMessage{
			storage.LocalScope:   {},
			storage.SessionScope: {},
		},
	}
}

// Ping ...
func (s *Storage) Ping(_ context.Context) error {
	return nil
}

// Get ...
func (s *Storage) Get(_ context.Context, scope storage.Scope, key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[scope][key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return v, nil
}

// Set ...
func (s *Storage) Set(_ context.Context, scope storage.Scope, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SetCalls++
	s.values[scope][key] = value

	return nil
}

// Delete ...
func (s *Storage) Delete(_ context.Context, scope storage.Scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values[scope], key)

	return nil
}

// ClearScope ...
func (s *Storage) ClearScope(_ context.Context, scope storage.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[scope] = map[string]json.RawMessage{}

	return nil
}
