package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store is the persistence boundary for per-session ledgers.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, Redis).
type Store interface {
	// Load retrieves the ledger for a buyer session.
	// Returns ErrCartNotFound if no ledger exists for the session.
	Load(ctx context.Context, userID uuid.UUID) (*Ledger, error)

	// Save persists the ledger for a buyer session.
	Save(ctx context.Context, userID uuid.UUID, ledger *Ledger) error

	// Delete destroys the ledger for a buyer session.
	// Deleting an absent ledger is a no-op.
	Delete(ctx context.Context, userID uuid.UUID) error
}

// memoryStore implements Store using an in-memory map.
type memoryStore struct {
	mu      sync.RWMutex
	ledgers map[uuid.UUID]Snapshot
}

// NewMemoryStore creates an in-memory Store. Ledgers are stored as
// snapshots so callers never share mutable state with the store.
func NewMemoryStore() Store {
	return &memoryStore{
		ledgers: make(map[uuid.UUID]Snapshot),
	}
}

func (s *memoryStore) Load(_ context.Context, userID uuid.UUID) (*Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.ledgers[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return Restore(snap), nil
}

func (s *memoryStore) Save(_ context.Context, userID uuid.UUID, ledger *Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledgers[userID] = ledger.Snapshot()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.ledgers, userID)
	return nil
}
