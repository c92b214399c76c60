package catalog

import (
	"bytes"
	"context"
	"sync"

	"github.com/shoppingai/backend/internal/domain"
)

// MemoryStore is the session-only product list. It keeps insertion order and
// hands out copies so callers never share records with the store.
type MemoryStore struct {
	mutex    sync.RWMutex
	order    []string
	products map[string]domain.Product
}

// NewMemoryStore creates an empty product store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]domain.Product),
	}
}

// List returns all products in insertion order
func (s *MemoryStore) List(ctx context.Context) ([]domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.products[id]))
	}
	return out, nil
}

// Get returns a copy of one product
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p = clone(p)
	return &p, nil
}

// Save inserts a new product at the end of the list or replaces an existing one in place
func (s *MemoryStore) Save(ctx context.Context, product *domain.Product) error {
	if product == nil || product.ID == "" {
		return domain.ErrInvalidProduct
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		s.order = append(s.order, product.ID)
	}
	s.products[product.ID] = clone(*product)
	return nil
}

// clone copies the image bytes along with the record
func clone(p domain.Product) domain.Product {
	p.Image = bytes.Clone(p.Image)
	return p
}

// Delete removes a product
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
