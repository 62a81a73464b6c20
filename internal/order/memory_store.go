package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore implements Store using in-memory maps.
type memoryStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]Order
	items  map[uuid.UUID][]OrderItem // keyed by order ID
}

// NewMemoryStore creates a new in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		orders: make(map[uuid.UUID]Order),
		items:  make(map[uuid.UUID][]OrderItem),
	}
}

func (s *memoryStore) FindByID(_ context.Context, id uuid.UUID) (*Order, []OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, nil, ErrOrderNotFound
	}
	items := make([]OrderItem, len(s.items[id]))
	copy(items, s.items[id])
	return &o, items, nil
}

func (s *memoryStore) FindOrdersByUserID(_ context.Context, userID uuid.UUID, offset, limit int32) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	if offset >= int32(len(list)) {
		return []Order{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < int32(len(list)) {
		list = list[:limit]
	}
	return list, nil
}

func (s *memoryStore) CreateOrder(_ context.Context, o Order, items []OrderItem) (*Order, []OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = uuid.New()
	o.Version = 1
	o.CreatedAt = time.Now()
	if !o.Status.Valid() {
		o.Status = StatusPending
	}

	created := make([]OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.New()
		item.OrderID = o.ID
		item.CreatedAt = o.CreatedAt
		created = append(created, item)
	}
	s.orders[o.ID] = o
	s.items[o.ID] = created

	itemsCopy := make([]OrderItem, len(created))
	copy(itemsCopy, created)
	return &o, itemsCopy, nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status Status, version int32) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if o.Version != version {
		return nil, ErrOptimisticLock
	}
	o.Status = status
	o.Version++
	s.orders[id] = o
	return &o, nil
}

func (s *memoryStore) FindItemsByUserID(_ context.Context, userID uuid.UUID) ([]OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]OrderItem, 0)
	for orderID, o := range s.orders {
		if o.UserID == userID {
			list = append(list, s.items[orderID]...)
		}
	}
	return list, nil
}

func (s *memoryStore) FindItemsBySeller(_ context.Context, seller string) ([]OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]OrderItem, 0)
	for _, items := range s.items {
		for _, item := range items {
			if item.Seller == seller {
				list = append(list, item)
			}
		}
	}
	return list, nil
}
