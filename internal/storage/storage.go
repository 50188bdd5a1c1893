// Package storage provides the slot store abstraction the repositories
// persist into: named slots holding opaque byte values, with in-memory,
// Redis, and SQL-backed implementations.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrSlotNotFound is returned by Get when the slot has never been written.
var ErrSlotNotFound = errors.New("storage: slot not found")

// Well-known slot names. The donation and user collections are each one
// JSON array in a single slot; sessions are one slot per user.
const (
	SlotDonations     = "donations"
	SlotUsers         = "users"
	SlotClaimedIDs    = "claimed_donations"
	SlotSessionPrefix = "session:"
)

// Store is a key-value slot store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the slot contents, or ErrSlotNotFound if the slot
	// has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the slot contents.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the slot. Deleting a missing slot is a no-op.
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store used in tests and single-node
// development runs.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

// Get returns a copy of the slot contents.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value under key.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.slots[key] = v
	return nil
}

// Delete removes the slot.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}
