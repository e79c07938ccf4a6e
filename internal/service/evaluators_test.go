package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluateCustomerPercentage(t *testing.T) {
	r := &rule.DiscountRule{
		ID:           "r-cust",
		Name:         "loyalty",
		DiscountType: types.DiscountTypeCustomer,
		Customer: &rule.CustomerSpec{
			Scope:     rule.Scope{Level: types.ScopeLevelBrand, Target: "Premium Buds"},
			Value:     dec("8"),
			ValueType: types.ValueTypePercentage,
		},
	}

	ev, ok := evaluateCustomer(r, dec("80"), 3)
	require.True(t, ok)
	assert.True(t, dec("19.2").Equal(ev.DiscountAmount), "got %s", ev.DiscountAmount)
}

func TestEvaluateCustomerDollarPerUnit(t *testing.T) {
	r := &rule.DiscountRule{
		ID:           "r-cust",
		Name:         "flat",
		DiscountType: types.DiscountTypeCustomer,
		Customer: &rule.CustomerSpec{
			Scope:     rule.Scope{Level: types.ScopeLevelItem, Target: "prod-1"},
			Value:     dec("2.50"),
			ValueType: types.ValueTypeDollar,
		},
	}

	ev, ok := evaluateCustomer(r, dec("30"), 4)
	require.True(t, ok)
	assert.True(t, dec("10").Equal(ev.DiscountAmount), "got %s", ev.DiscountAmount)
}

// A 10% rule and a $10-per-unit rule produce the same amount on a $100
// unit, whatever the quantity.
func TestPercentageDollarEquivalence(t *testing.T) {
	base := dec("100")
	for _, qty := range []int{1, 3, 7} {
		pct := discountOverUnits(base, qty, types.ValueTypePercentage, dec("10"))
		dollar := discountOverUnits(base, qty, types.ValueTypeDollar, dec("10"))
		assert.True(t, pct.Equal(dollar), "qty %d: %s vs %s", qty, pct, dollar)
	}
}

func TestEvaluateInventoryExpiration(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mkRule := func(days int) *rule.DiscountRule {
		return &rule.DiscountRule{
			ID:           "r-exp",
			Name:         "expiring soon",
			DiscountType: types.DiscountTypeInventory,
			Inventory: &rule.InventorySpec{
				Scope:            rule.Scope{Level: types.ScopeLevelCategory, Target: "Flower"},
				Trigger:          types.InventoryTriggerExpiration,
				DaysToExpiration: days,
				DiscountValue:    dec("20"),
				ValueType:        types.ValueTypePercentage,
			},
		}
	}

	p := testProduct()
	exp := asOf.Add(5 * 24 * time.Hour)
	p.ExpirationDate = &exp

	ev, ok := evaluateInventory(mkRule(7), p, dec("80"), 3, asOf)
	require.True(t, ok)
	assert.True(t, dec("48").Equal(ev.DiscountAmount), "got %s", ev.DiscountAmount)
	assert.Contains(t, ev.Reason, "5 days to expiration")

	// Exactly at the threshold still qualifies.
	_, ok = evaluateInventory(mkRule(5), p, dec("80"), 3, asOf)
	assert.True(t, ok)

	// One day tighter than the product's horizon does not.
	_, ok = evaluateInventory(mkRule(4), p, dec("80"), 3, asOf)
	assert.False(t, ok)

	// Already expired product never qualifies.
	past := asOf.Add(-24 * time.Hour)
	p.ExpirationDate = &past
	_, ok = evaluateInventory(mkRule(7), p, dec("80"), 3, asOf)
	assert.False(t, ok)

	// No expiration date at all.
	p.ExpirationDate = nil
	_, ok = evaluateInventory(mkRule(7), p, dec("80"), 3, asOf)
	assert.False(t, ok)
}

func TestEvaluateInventoryTHC(t *testing.T) {
	asOf := time.Now().UTC()
	threshold := dec("15")
	r := &rule.DiscountRule{
		ID:           "r-thc",
		Name:         "low thc",
		DiscountType: types.DiscountTypeInventory,
		Inventory: &rule.InventorySpec{
			Scope:         rule.Scope{Level: types.ScopeLevelCategory, Target: "Flower"},
			Trigger:       types.InventoryTriggerTHC,
			THCThreshold:  &threshold,
			DiscountValue: dec("10"),
			ValueType:     types.ValueTypePercentage,
		},
	}

	p := testProduct()

	// Strictly below the threshold qualifies.
	thc := dec("14.999")
	p.THCPercentage = &thc
	ev, ok := evaluateInventory(r, p, dec("100"), 1, asOf)
	require.True(t, ok)
	assert.True(t, dec("10").Equal(ev.DiscountAmount))

	// Equal to the threshold does not.
	thcEq := dec("15")
	p.THCPercentage = &thcEq
	_, ok = evaluateInventory(r, p, dec("100"), 1, asOf)
	assert.False(t, ok)

	// Missing THC measurement does not.
	p.THCPercentage = nil
	_, ok = evaluateInventory(r, p, dec("100"), 1, asOf)
	assert.False(t, ok)
}

func TestEvaluateVolumeSelectsHighestReachedTier(t *testing.T) {
	r := &rule.DiscountRule{
		ID:           "r-vol",
		Name:         "bulk",
		DiscountType: types.DiscountTypeVolume,
		Volume: &rule.VolumeSpec{
			Scope: rule.Scope{Level: types.ScopeLevelCategory, Target: "Flower"},
			Tiers: []rule.VolumeTier{
				{MinQuantity: 3, DiscountValue: dec("5"), ValueType: types.ValueTypePercentage},
				{MinQuantity: 10, DiscountValue: dec("10"), ValueType: types.ValueTypePercentage},
			},
		},
	}

	// Below the first rung: no candidate.
	_, ok := evaluateVolume(r, dec("10"), 2)
	assert.False(t, ok)

	// Between rungs: the lower rate applies.
	ev, ok := evaluateVolume(r, dec("10"), 8)
	require.True(t, ok)
	assert.True(t, dec("4").Equal(ev.DiscountAmount), "got %s", ev.DiscountAmount)

	// At the higher rung.
	ev, ok = evaluateVolume(r, dec("10"), 10)
	require.True(t, ok)
	assert.True(t, dec("10").Equal(ev.DiscountAmount), "got %s", ev.DiscountAmount)
}

func TestEvaluateTiered(t *testing.T) {
	minQty := 5
	maxQty := 20
	r := &rule.DiscountRule{
		ID:           "r-tier",
		Name:         "dispensary tiers",
		DiscountType: types.DiscountTypeTiered,
		Tiered: &rule.TieredSpec{
			Scope: rule.Scope{Level: types.ScopeLevelCategory, Target: "Flower"},
			Tiers: []rule.TierEntry{
				{Tier: types.CustomerTierA, DiscountValue: dec("12"), ValueType: types.ValueTypePercentage},
				{Tier: types.CustomerTierB, DiscountValue: dec("6"), ValueType: types.ValueTypePercentage,
					MinQuantity: &minQty, MaxQuantity: &maxQty},
			},
		},
	}

	// No assignment under this rule: nothing, even though the rule is live.
	_, ok := evaluateTiered(r, nil, dec("100"), 10)
	assert.False(t, ok)

	a := &rule.TierAssignment{RuleID: "r-tier", CustomerID: "cust-1", Tier: types.CustomerTierA}
	ev, ok := evaluateTiered(r, a, dec("100"), 10)
	require.True(t, ok)
	assert.True(t, dec("120").Equal(ev.DiscountAmount))

	// Bounds are inclusive on both ends.
	b := &rule.TierAssignment{RuleID: "r-tier", CustomerID: "cust-2", Tier: types.CustomerTierB}
	_, ok = evaluateTiered(r, b, dec("100"), 4)
	assert.False(t, ok)
	_, ok = evaluateTiered(r, b, dec("100"), 5)
	assert.True(t, ok)
	_, ok = evaluateTiered(r, b, dec("100"), 20)
	assert.True(t, ok)
	_, ok = evaluateTiered(r, b, dec("100"), 21)
	assert.False(t, ok)

	// Assignment to a tier the rule does not define.
	c := &rule.TierAssignment{RuleID: "r-tier", CustomerID: "cust-3", Tier: types.CustomerTierC}
	_, ok = evaluateTiered(r, c, dec("100"), 10)
	assert.False(t, ok)
}

func TestEvaluateBogo(t *testing.T) {
	mkRule := func(reward types.BogoRewardType, value decimal.Decimal) *rule.DiscountRule {
		return &rule.DiscountRule{
			ID:           "r-bogo",
			Name:         "bogo",
			DiscountType: types.DiscountTypeBogo,
			Bogo: &rule.BogoSpec{
				TriggerLevel:  types.ScopeLevelBrand,
				TriggerTarget: "Premium Buds",
				RewardType:    reward,
				RewardValue:   value,
			},
		}
	}

	free := mkRule(types.BogoRewardFree, decimal.Zero)

	// One unit cannot pair.
	_, ok := evaluateBogo(free, dec("100"), 1)
	assert.False(t, ok)

	// Three units form one pair; the third stays at full price.
	ev, ok := evaluateBogo(free, dec("100"), 3)
	require.True(t, ok)
	assert.True(t, dec("100").Equal(ev.DiscountAmount), "got %s", ev.DiscountAmount)

	ev, ok = evaluateBogo(free, dec("100"), 4)
	require.True(t, ok)
	assert.True(t, dec("200").Equal(ev.DiscountAmount))

	// Percentage reward discounts the paired unit only.
	half := mkRule(types.BogoRewardPercentage, dec("50"))
	ev, ok = evaluateBogo(half, dec("100"), 2)
	require.True(t, ok)
	assert.True(t, dec("50").Equal(ev.DiscountAmount))

	// Fixed reward is a flat amount per pair.
	fixed := mkRule(types.BogoRewardFixed, dec("15"))
	ev, ok = evaluateBogo(fixed, dec("100"), 5)
	require.True(t, ok)
	assert.True(t, dec("30").Equal(ev.DiscountAmount))
}

func TestSelectBestTieBreaks(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	evs := []Evaluation{
		{RuleID: "r-b", RuleName: "b", DiscountAmount: dec("10"), Priority: 1, CreatedAt: base},
		{RuleID: "r-a", RuleName: "a", DiscountAmount: dec("10"), Priority: 5, CreatedAt: base.Add(time.Hour)},
	}
	best := selectBest(evs)
	require.NotNil(t, best)
	assert.Equal(t, "r-a", best.RuleID, "higher priority wins an amount tie")

	evs = []Evaluation{
		{RuleID: "r-later", DiscountAmount: dec("10"), Priority: 1, CreatedAt: base.Add(time.Hour)},
		{RuleID: "r-earlier", DiscountAmount: dec("10"), Priority: 1, CreatedAt: base},
	}
	best = selectBest(evs)
	require.NotNil(t, best)
	assert.Equal(t, "r-earlier", best.RuleID, "earlier creation wins a priority tie")

	evs = []Evaluation{
		{RuleID: "r-2", DiscountAmount: dec("10"), Priority: 1, CreatedAt: base},
		{RuleID: "r-1", DiscountAmount: dec("10"), Priority: 1, CreatedAt: base},
	}
	best = selectBest(evs)
	require.NotNil(t, best)
	assert.Equal(t, "r-1", best.RuleID, "lowest rule id is the final tie break")

	assert.Nil(t, selectBest(nil))

	// A zero-amount evaluation is still selectable.
	evs = []Evaluation{{RuleID: "r-zero", DiscountAmount: decimal.Zero}}
	best = selectBest(evs)
	require.NotNil(t, best)
	assert.Equal(t, "r-zero", best.RuleID)
}
