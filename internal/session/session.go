// Package session persists the single active identity record. This is the
// only durable state in the system: one serialized User under one
// well-known key, read once at startup, written on login and signup,
// deleted on logout.
package session

import (
	"context"
	"sync"

	"fastfood/internal/models"
)

// Store is the durable identity slot.
type Store interface {
	// Load returns the persisted identity, or nil when the slot is empty.
	Load(ctx context.Context) (*models.User, error)
	// Save writes the public identity fields to the slot.
	Save(ctx context.Context, user models.User) error
	// Clear empties the slot.
	Clear(ctx context.Context) error
}

// MemoryStore keeps the slot in process memory. It exists for tests and
// redis-less development; it deliberately does not survive a restart.
type MemoryStore struct {
	mu   sync.Mutex
	user *models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	u := *s.user
	return &u, nil
}

func (s *MemoryStore) Save(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}
