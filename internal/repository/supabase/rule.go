package supabase

import (
	"context"
	"time"

	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

const (
	tableDiscountRules   = "discount_rules"
	tableTierAssignments = "tier_assignments"
)

type ruleRepository struct {
	client *Client
}

func NewRuleRepository(client *Client) rule.Repository {
	return &ruleRepository{client: client}
}

// discountRuleRow is the discount_rules table shape. Variant payloads
// live in jsonb columns, one per variant, exactly one populated.
type discountRuleRow struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	DiscountType string              `json:"discount_type"`
	Status       string              `json:"status"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      *time.Time          `json:"end_date"`
	Priority     int                 `json:"priority"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Customer     *rule.CustomerSpec  `json:"customer_spec"`
	Inventory    *rule.InventorySpec `json:"inventory_spec"`
	Volume       *rule.VolumeSpec    `json:"volume_spec"`
	Tiered       *rule.TieredSpec    `json:"tiered_spec"`
	Bogo         *rule.BogoSpec      `json:"bogo_spec"`
}

type tierAssignmentRow struct {
	ID         string    `json:"id"`
	RuleID     string    `json:"rule_id"`
	CustomerID string    `json:"customer_id"`
	Tier       string    `json:"tier"`
	AssignedAt time.Time `json:"assigned_at"`
}

func (row *discountRuleRow) toDomain() *rule.DiscountRule {
	return &rule.DiscountRule{
		ID:           row.ID,
		Name:         row.Name,
		DiscountType: types.DiscountType(row.DiscountType),
		Status:       types.Status(row.Status),
		StartDate:    row.StartDate,
		EndDate:      row.EndDate,
		Priority:     row.Priority,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Customer:     row.Customer,
		Inventory:    row.Inventory,
		Volume:       row.Volume,
		Tiered:       row.Tiered,
		Bogo:         row.Bogo,
	}
}

func (r *ruleRepository) listByStatus(ctx context.Context, status types.Status) ([]*rule.DiscountRule, error) {
	span, ctx := r.client.Sentry.StartRepositorySpan(ctx, "rule.list", map[string]interface{}{
		"status": string(status),
	})
	defer r.client.Sentry.FinishSpan(span)

	var rows []discountRuleRow
	err := r.client.Supabase.DB.From(tableDiscountRules).
		Select("*").
		Eq("status", string(status)).
		ExecuteWithContext(ctx, &rows)
	r.client.Sentry.SetSpanStatus(span, err)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load discount rules").
			Mark(ierr.ErrDatabase)
	}

	rules := make([]*rule.DiscountRule, 0, len(rows))
	for i := range rows {
		dr := rows[i].toDomain()
		if verr := dr.Validate(); verr != nil {
			// A malformed row must not take pricing down; skip it loudly.
			r.client.Logger.Warnw("skipping malformed discount rule",
				"rule_id", dr.ID,
				"error", verr)
			continue
		}
		rules = append(rules, dr)
	}
	return rules, nil
}

func (r *ruleRepository) ListActive(ctx context.Context, asOf time.Time) ([]*rule.DiscountRule, error) {
	rules, err := r.listByStatus(ctx, types.StatusActive)
	if err != nil {
		return nil, err
	}

	// The open-ended end_date makes window filtering awkward in
	// PostgREST; the set is small, so filter here.
	inWindow := make([]*rule.DiscountRule, 0, len(rules))
	for _, dr := range rules {
		if dr.InWindow(asOf) {
			inWindow = append(inWindow, dr)
		}
	}
	return inWindow, nil
}

func (r *ruleRepository) ListScheduled(ctx context.Context, asOf time.Time) ([]*rule.DiscountRule, error) {
	rules, err := r.listByStatus(ctx, types.StatusScheduled)
	if err != nil {
		return nil, err
	}

	upcoming := make([]*rule.DiscountRule, 0, len(rules))
	for _, dr := range rules {
		if dr.EndDate != nil && asOf.After(*dr.EndDate) {
			continue
		}
		upcoming = append(upcoming, dr)
	}
	return upcoming, nil
}

func (r *ruleRepository) GetTierAssignment(ctx context.Context, customerID, ruleID string) (*rule.TierAssignment, error) {
	span, ctx := r.client.Sentry.StartRepositorySpan(ctx, "rule.get_tier_assignment", map[string]interface{}{
		"customer_id": customerID,
		"rule_id":     ruleID,
	})
	defer r.client.Sentry.FinishSpan(span)

	var rows []tierAssignmentRow
	err := r.client.Supabase.DB.From(tableTierAssignments).
		Select("*").
		Eq("customer_id", customerID).
		Eq("rule_id", ruleID).
		ExecuteWithContext(ctx, &rows)
	r.client.Sentry.SetSpanStatus(span, err)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load tier assignment").
			Mark(ierr.ErrDatabase)
	}

	if len(rows) == 0 {
		// No assignment is a normal state, not an error.
		return nil, nil
	}

	row := rows[0]
	return &rule.TierAssignment{
		ID:         row.ID,
		RuleID:     row.RuleID,
		CustomerID: row.CustomerID,
		Tier:       types.CustomerTier(row.Tier),
		AssignedAt: row.AssignedAt,
	}, nil
}
