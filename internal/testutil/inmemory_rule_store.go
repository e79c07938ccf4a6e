package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

// InMemoryRuleStore implements rule.Repository for tests. Set failWith to
// make every call fail the way a broken backing store would.
type InMemoryRuleStore struct {
	mu          sync.RWMutex
	rules       map[string]*rule.DiscountRule
	assignments map[string]*rule.TierAssignment
	failWith    error
}

func NewInMemoryRuleStore() *InMemoryRuleStore {
	return &InMemoryRuleStore{
		rules:       make(map[string]*rule.DiscountRule),
		assignments: make(map[string]*rule.TierAssignment),
	}
}

func (r *InMemoryRuleStore) AddRule(dr *rule.DiscountRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[dr.ID] = dr
}

func (r *InMemoryRuleStore) AddAssignment(a *rule.TierAssignment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[a.CustomerID+":"+a.RuleID] = a
}

// FailWith makes every subsequent call return err; nil restores normal
// behavior.
func (r *InMemoryRuleStore) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

func (r *InMemoryRuleStore) ListActive(ctx context.Context, asOf time.Time) ([]*rule.DiscountRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	var result []*rule.DiscountRule
	for _, dr := range r.rules {
		if dr.Status != types.StatusActive {
			continue
		}
		if !dr.InWindow(asOf) {
			continue
		}
		result = append(result, dr)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *InMemoryRuleStore) ListScheduled(ctx context.Context, asOf time.Time) ([]*rule.DiscountRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	var result []*rule.DiscountRule
	for _, dr := range r.rules {
		if dr.Status != types.StatusScheduled {
			continue
		}
		result = append(result, dr)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *InMemoryRuleStore) GetTierAssignment(ctx context.Context, customerID, ruleID string) (*rule.TierAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	if a, exists := r.assignments[customerID+":"+ruleID]; exists {
		return a, nil
	}
	return nil, nil
}

// DatabaseError builds the error shape the real store returns on a
// backend failure.
func DatabaseError(msg string) error {
	return ierr.NewError(msg).
		WithHint("The pricing store is unavailable").
		Mark(ierr.ErrDatabase)
}
