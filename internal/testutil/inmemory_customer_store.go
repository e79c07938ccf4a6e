package testutil

import (
	"context"
	"sync"

	"github.com/antoniodjones/price-and-promo/internal/domain/customer"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
)

// InMemoryCustomerStore implements customer.Repository for tests.
type InMemoryCustomerStore struct {
	mu        sync.RWMutex
	customers map[string]*customer.Customer
	failWith  error
}

func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		customers: make(map[string]*customer.Customer),
	}
}

func (r *InMemoryCustomerStore) Add(c *customer.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = c
}

func (r *InMemoryCustomerStore) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

func (r *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	if c, exists := r.customers[id]; exists {
		return c, nil
	}
	return nil, ierr.NewError("customer not found").
		WithHintf("Customer %s does not exist", id).
		Mark(ierr.ErrNotFound)
}
