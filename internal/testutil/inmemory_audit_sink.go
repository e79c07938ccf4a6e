package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/antoniodjones/price-and-promo/internal/domain/audit"
)

// InMemoryAuditSink implements both audit.Sink and audit.Reader. Records
// arrive from fire-and-forget goroutines, so every access is guarded.
type InMemoryAuditSink struct {
	mu       sync.RWMutex
	records  []*audit.Record
	failWith error
}

func NewInMemoryAuditSink() *InMemoryAuditSink {
	return &InMemoryAuditSink{}
}

func (s *InMemoryAuditSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *InMemoryAuditSink) Append(ctx context.Context, record *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}
	s.records = append(s.records, record)
	return nil
}

// Records returns a snapshot of everything appended so far.
func (s *InMemoryAuditSink) Records() []*audit.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*audit.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *InMemoryAuditSink) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *InMemoryAuditSink) List(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	var result []*audit.Record
	for _, r := range s.records {
		if filter.CustomerID != "" && r.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ProductID != "" && r.ProductID != filter.ProductID {
			continue
		}
		if filter.EventType != "" && r.EventType != filter.EventType {
			continue
		}
		result = append(result, r)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func (s *InMemoryAuditSink) GetStats(ctx context.Context, customerID string) (*audit.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	stats := &audit.Stats{
		TotalDiscountAmount:       decimal.Zero,
		AverageDiscountPercentage: decimal.Zero,
		DiscountsByRule:           make(map[string]audit.RuleStatsEntry),
	}

	pctSum := decimal.Zero
	for _, r := range s.records {
		if r.EventType != audit.EventPricingCalculation {
			continue
		}
		if customerID != "" && r.CustomerID != customerID {
			continue
		}
		stats.TotalCalculations++
		stats.TotalDiscountAmount = stats.TotalDiscountAmount.Add(r.DiscountAmount)
		pctSum = pctSum.Add(r.DiscountPercentage)
		if r.WinningRuleID != "" {
			entry := stats.DiscountsByRule[r.WinningRuleID]
			entry.Count++
			entry.TotalSavings = entry.TotalSavings.Add(r.DiscountAmount)
			stats.DiscountsByRule[r.WinningRuleID] = entry
		}
	}
	if stats.TotalCalculations > 0 {
		pctSum = pctSum.Div(decimal.NewFromInt(int64(stats.TotalCalculations)))
		stats.AverageDiscountPercentage = pctSum
	}
	return stats, nil
}
