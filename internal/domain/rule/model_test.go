package rule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

func validCustomerRule() *DiscountRule {
	return &DiscountRule{
		ID:           "r-1",
		Name:         "loyalty",
		DiscountType: types.DiscountTypeCustomer,
		Status:       types.StatusActive,
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Customer: &CustomerSpec{
			Scope:     Scope{Level: types.ScopeLevelBrand, Target: "Premium Buds"},
			Value:     decimal.NewFromInt(10),
			ValueType: types.ValueTypePercentage,
		},
	}
}

func TestValidateRequiresExactlyOnePayload(t *testing.T) {
	r := validCustomerRule()
	assert.NoError(t, r.Validate())

	r.Volume = &VolumeSpec{}
	err := r.Validate()
	assert.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	r = validCustomerRule()
	r.Customer = nil
	err = r.Validate()
	assert.Error(t, err)
}

func TestValidatePayloadMustMatchType(t *testing.T) {
	r := validCustomerRule()
	r.DiscountType = types.DiscountTypeVolume
	err := r.Validate()
	assert.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestValidateWindow(t *testing.T) {
	r := validCustomerRule()
	end := r.StartDate.Add(-time.Hour)
	r.EndDate = &end
	err := r.Validate()
	assert.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestInWindow(t *testing.T) {
	r := validCustomerRule()
	end := r.StartDate.AddDate(0, 1, 0)
	r.EndDate = &end

	assert.False(t, r.InWindow(r.StartDate.Add(-time.Second)))
	assert.True(t, r.InWindow(r.StartDate))
	assert.True(t, r.InWindow(end))
	assert.False(t, r.InWindow(end.Add(time.Second)))

	r.EndDate = nil
	assert.True(t, r.InWindow(r.StartDate.AddDate(5, 0, 0)))
}

func TestRuleScopeBogoUsesTrigger(t *testing.T) {
	r := &DiscountRule{
		ID:           "r-bogo",
		Name:         "bogo",
		DiscountType: types.DiscountTypeBogo,
		Bogo: &BogoSpec{
			TriggerLevel:  types.ScopeLevelItem,
			TriggerTarget: "prod-9",
			RewardType:    types.BogoRewardFree,
		},
	}

	scope, ok := r.RuleScope()
	assert.True(t, ok)
	assert.Equal(t, types.ScopeLevelItem, scope.Level)
	assert.Equal(t, "prod-9", scope.Target)

	empty := &DiscountRule{ID: "r-none"}
	_, ok = empty.RuleScope()
	assert.False(t, ok)
}
