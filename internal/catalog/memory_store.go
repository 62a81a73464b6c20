package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore implements Store using in-memory maps.
type memoryStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
	farmers  map[uuid.UUID]Farmer
	order    []uuid.UUID // product insertion order, for stable listings
	forder   []uuid.UUID
}

// NewMemoryStore creates a new in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		products: make(map[uuid.UUID]Product),
		farmers:  make(map[uuid.UUID]Farmer),
	}
}

func (s *memoryStore) FindProductByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// matches applies every filter dimension to one product.
func matches(p Product, f ProductFilter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.MinPrice > 0 && p.PricePerUnit < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.PricePerUnit > f.MaxPrice {
		return false
	}
	if f.InStockOnly && !p.InStock() {
		return false
	}
	return true
}

func (s *memoryStore) FindProducts(_ context.Context, filter ProductFilter) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.products[id]
		if matches(p, filter) {
			list = append(list, p)
		}
	}

	switch filter.Sort {
	case SortPriceAsc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].PricePerUnit < list[j].PricePerUnit })
	case SortPriceDesc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].PricePerUnit > list[j].PricePerUnit })
	}

	return paginate(list, filter.Offset, filter.Limit), nil
}

func paginate[T any](list []T, offset, limit int32) []T {
	if offset >= int32(len(list)) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < int32(len(list)) {
		list = list[:limit]
	}
	return list
}

func (s *memoryStore) CreateProduct(_ context.Context, p Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Version = 1
	p.CreatedAt = time.Now()
	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
	return &p, nil
}

func (s *memoryStore) UpdateProduct(_ context.Context, p Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[p.ID]
	if !ok {
		return nil, ErrProductNotFound
	}
	if current.Version != p.Version {
		return nil, ErrOptimisticLock
	}
	p.CreatedAt = current.CreatedAt
	p.Version = current.Version + 1
	s.products[p.ID] = p
	return &p, nil
}

func (s *memoryStore) FindFarmerByID(_ context.Context, id uuid.UUID) (*Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.farmers[id]
	if !ok {
		return nil, ErrFarmerNotFound
	}
	return &f, nil
}

func (s *memoryStore) FindFarmers(_ context.Context, offset, limit int32) ([]Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Farmer, 0, len(s.forder))
	for _, id := range s.forder {
		list = append(list, s.farmers[id])
	}
	return paginate(list, offset, limit), nil
}

func (s *memoryStore) CreateFarmer(_ context.Context, f Farmer) (*Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	s.farmers[f.ID] = f
	s.forder = append(s.forder, f.ID)
	return &f, nil
}
