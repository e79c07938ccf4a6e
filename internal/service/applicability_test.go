package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

func testProduct() *product.Product {
	sub := "Indica"
	return &product.Product{
		ID:          "prod-1",
		SKU:         "SKU-BD-001",
		Name:        "Blue Dream 3.5g",
		Category:    "Flower",
		SubCategory: &sub,
		Brand:       "Premium Buds",
		BasePrice:   decimal.RequireFromString("30.00"),
	}
}

func customerRule(id string, scope rule.Scope, status types.Status, start time.Time, end *time.Time) *rule.DiscountRule {
	return &rule.DiscountRule{
		ID:           id,
		Name:         "rule " + id,
		DiscountType: types.DiscountTypeCustomer,
		Status:       status,
		StartDate:    start,
		EndDate:      end,
		CreatedAt:    start,
		Customer: &rule.CustomerSpec{
			Scope:     scope,
			Value:     decimal.NewFromInt(10),
			ValueType: types.ValueTypePercentage,
		},
	}
}

func TestScopeMatches(t *testing.T) {
	p := testProduct()

	tests := []struct {
		name  string
		scope rule.Scope
		want  bool
	}{
		{"item match", rule.Scope{Level: types.ScopeLevelItem, Target: "prod-1"}, true},
		{"item mismatch", rule.Scope{Level: types.ScopeLevelItem, Target: "prod-2"}, false},
		{"brand match", rule.Scope{Level: types.ScopeLevelBrand, Target: "Premium Buds"}, true},
		{"brand is case-sensitive", rule.Scope{Level: types.ScopeLevelBrand, Target: "premium buds"}, false},
		{"category match", rule.Scope{Level: types.ScopeLevelCategory, Target: "Flower"}, true},
		{"category is case-sensitive", rule.Scope{Level: types.ScopeLevelCategory, Target: "flower"}, false},
		{"subcategory match", rule.Scope{Level: types.ScopeLevelSubCategory, Target: "Indica"}, true},
		{"subcategory mismatch", rule.Scope{Level: types.ScopeLevelSubCategory, Target: "Sativa"}, false},
		{"unknown level never matches", rule.Scope{Level: "vendor", Target: "anything"}, false},
		{"empty level never matches", rule.Scope{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scopeMatches(tt.scope, p))
		})
	}
}

func TestScopeMatchesMissingSubCategory(t *testing.T) {
	p := testProduct()
	p.SubCategory = nil
	assert.False(t, scopeMatches(rule.Scope{Level: types.ScopeLevelSubCategory, Target: "Indica"}, p))
}

func TestScopeMatchesNilProduct(t *testing.T) {
	assert.False(t, scopeMatches(rule.Scope{Level: types.ScopeLevelItem, Target: "prod-1"}, nil))
}

func TestRuleAppliesStatusGate(t *testing.T) {
	p := testProduct()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	start := now.Add(-24 * time.Hour)
	scope := rule.Scope{Level: types.ScopeLevelBrand, Target: "Premium Buds"}

	active := customerRule("r-active", scope, types.StatusActive, start, nil)
	inactive := customerRule("r-inactive", scope, types.StatusInactive, start, nil)
	scheduled := customerRule("r-scheduled", scope, types.StatusScheduled, now.Add(48*time.Hour), nil)
	expired := customerRule("r-expired", scope, types.StatusExpired, start, nil)

	assert.True(t, ruleApplies(active, p, 1, now, passLive))
	assert.False(t, ruleApplies(inactive, p, 1, now, passLive))
	assert.False(t, ruleApplies(scheduled, p, 1, now, passLive))
	assert.False(t, ruleApplies(expired, p, 1, now, passLive))

	assert.True(t, ruleApplies(scheduled, p, 1, now, passPreview))
	assert.False(t, ruleApplies(active, p, 1, now, passPreview))
}

func TestRuleAppliesTemporalWindow(t *testing.T) {
	p := testProduct()
	scope := rule.Scope{Level: types.ScopeLevelCategory, Target: "Flower"}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	r := customerRule("r-window", scope, types.StatusActive, start, &end)

	assert.False(t, ruleApplies(r, p, 1, start.Add(-time.Second), passLive))
	assert.True(t, ruleApplies(r, p, 1, start, passLive), "window start is inclusive")
	assert.True(t, ruleApplies(r, p, 1, end, passLive), "window end is inclusive")
	assert.False(t, ruleApplies(r, p, 1, end.Add(time.Second), passLive))

	open := customerRule("r-open", scope, types.StatusActive, start, nil)
	assert.True(t, ruleApplies(open, p, 1, start.AddDate(10, 0, 0), passLive), "missing end date never closes")
}

func TestRuleAppliesBogoQuantityFloor(t *testing.T) {
	p := testProduct()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	bogo := &rule.DiscountRule{
		ID:           "r-bogo",
		Name:         "bogo",
		DiscountType: types.DiscountTypeBogo,
		Status:       types.StatusActive,
		StartDate:    now.Add(-time.Hour),
		Bogo: &rule.BogoSpec{
			TriggerLevel:  types.ScopeLevelBrand,
			TriggerTarget: "Premium Buds",
			RewardType:    types.BogoRewardFree,
		},
	}

	assert.False(t, ruleApplies(bogo, p, 0, now, passLive))
	assert.False(t, ruleApplies(bogo, p, 1, now, passLive))
	assert.True(t, ruleApplies(bogo, p, 2, now, passLive))
}

func TestRuleAppliesMalformedRule(t *testing.T) {
	p := testProduct()
	now := time.Now().UTC()

	// No variant payload at all: not applicable, no panic.
	empty := &rule.DiscountRule{
		ID:           "r-empty",
		Name:         "empty",
		DiscountType: types.DiscountTypeCustomer,
		Status:       types.StatusActive,
		StartDate:    now.Add(-time.Hour),
	}
	assert.False(t, ruleApplies(empty, p, 1, now, passLive))
	assert.False(t, ruleApplies(nil, p, 1, now, passLive))
}
