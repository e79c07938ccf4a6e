package testutil

import (
	"context"
	"sync"

	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
)

// InMemoryProductStore implements product.Repository for tests.
type InMemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]*product.Product
	failWith error
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		products: make(map[string]*product.Product),
	}
}

func (r *InMemoryProductStore) Add(p *product.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *InMemoryProductStore) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

func (r *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	if p, exists := r.products[id]; exists {
		return p, nil
	}
	return nil, ierr.NewError("product not found").
		WithHintf("Product %s does not exist", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryProductStore) GetByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	result := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		if p, exists := r.products[id]; exists {
			result = append(result, p)
		}
	}
	return result, nil
}
