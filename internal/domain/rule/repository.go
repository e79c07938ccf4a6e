package rule

import (
	"context"
	"time"
)

// Repository defines read-only access to discount rules and customer tier
// assignments. Rule administration writes through its own path; the
// pricing core only reads.
type Repository interface {
	// ListActive returns every rule with status "active" whose window
	// contains asOf.
	ListActive(ctx context.Context, asOf time.Time) ([]*DiscountRule, error)

	// ListScheduled returns rules with status "scheduled", used only by
	// the upcoming/preview pass.
	ListScheduled(ctx context.Context, asOf time.Time) ([]*DiscountRule, error)

	// GetTierAssignment returns the customer's tier assignment under the
	// given rule, or (nil, nil) when the customer has none. Absence is a
	// normal state, not an error.
	GetTierAssignment(ctx context.Context, customerID, ruleID string) (*TierAssignment, error)
}
