package rule

import (
	"time"

	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/antoniodjones/price-and-promo/internal/types"
	"github.com/shopspring/decimal"
)

// Scope binds a rule to a slice of the catalog. Target is compared against
// the product field implied by Level with a case-sensitive exact match.
type Scope struct {
	Level  types.ScopeLevel `json:"level" db:"level"`
	Target string           `json:"target" db:"target"`
}

// CustomerSpec is a straight percentage or dollar discount for a catalog
// scope.
type CustomerSpec struct {
	Scope     Scope           `json:"scope"`
	Value     decimal.Decimal `json:"value" db:"value"`
	ValueType types.ValueType `json:"value_type" db:"value_type"`
}

// InventorySpec is an automatic discount triggered by product state:
// either days-to-expiration at or below a threshold, or THC percentage
// strictly below a threshold.
type InventorySpec struct {
	Scope            Scope                      `json:"scope"`
	Trigger          types.InventoryTriggerType `json:"trigger" db:"trigger"`
	DaysToExpiration int                        `json:"days_to_expiration,omitempty" db:"days_to_expiration"`
	THCThreshold     *decimal.Decimal           `json:"thc_threshold,omitempty" db:"thc_threshold"`
	DiscountValue    decimal.Decimal            `json:"discount_value" db:"discount_value"`
	ValueType        types.ValueType            `json:"value_type" db:"value_type"`
}

// VolumeTier is one rung of a volume ladder.
type VolumeTier struct {
	MinQuantity   int             `json:"min_quantity" db:"min_quantity"`
	DiscountValue decimal.Decimal `json:"discount_value" db:"discount_value"`
	ValueType     types.ValueType `json:"value_type" db:"value_type"`
}

// VolumeSpec selects the tier with the highest MinQuantity that the
// purchased quantity reaches.
type VolumeSpec struct {
	Scope Scope        `json:"scope"`
	Tiers []VolumeTier `json:"tiers"`
}

// TierEntry is the discount one customer tier receives under a tiered
// rule, optionally bounded to an inclusive quantity range.
type TierEntry struct {
	Tier          types.CustomerTier `json:"tier" db:"tier"`
	DiscountValue decimal.Decimal    `json:"discount_value" db:"discount_value"`
	ValueType     types.ValueType    `json:"value_type" db:"value_type"`
	MinQuantity   *int               `json:"min_quantity,omitempty" db:"min_quantity"`
	MaxQuantity   *int               `json:"max_quantity,omitempty" db:"max_quantity"`
}

// TieredSpec prices by the customer's per-rule tier assignment. A customer
// with no assignment under the rule gets nothing, even when the rule is
// otherwise live.
type TieredSpec struct {
	Scope Scope       `json:"scope"`
	Tiers []TierEntry `json:"tiers"`
}

// BogoSpec is a buy-one-get-one promotion. Quantity is counted in pairs;
// odd quantities leave one unit at full price.
type BogoSpec struct {
	TriggerLevel  types.ScopeLevel     `json:"trigger_level" db:"trigger_level"`
	TriggerTarget string               `json:"trigger_target" db:"trigger_target"`
	RewardType    types.BogoRewardType `json:"reward_type" db:"reward_type"`
	RewardValue   decimal.Decimal      `json:"reward_value" db:"reward_value"`
}

// DiscountRule is a closed tagged union over the five rule variants.
// Exactly one variant payload is non-nil and it matches DiscountType.
type DiscountRule struct {
	ID           string             `json:"id" db:"id"`
	Name         string             `json:"name" db:"name"`
	DiscountType types.DiscountType `json:"discount_type" db:"discount_type"`
	Status       types.Status       `json:"status" db:"status"`
	StartDate    time.Time          `json:"start_date" db:"start_date"`
	EndDate      *time.Time         `json:"end_date,omitempty" db:"end_date"`
	Priority     int                `json:"priority" db:"priority"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`

	Customer  *CustomerSpec  `json:"customer,omitempty"`
	Inventory *InventorySpec `json:"inventory,omitempty"`
	Volume    *VolumeSpec    `json:"volume,omitempty"`
	Tiered    *TieredSpec    `json:"tiered,omitempty"`
	Bogo      *BogoSpec      `json:"bogo,omitempty"`
}

// TierAssignment links a customer to a tier for one specific rule. The
// same customer may hold different tiers under different rules.
type TierAssignment struct {
	ID         string             `json:"id" db:"id"`
	RuleID     string             `json:"rule_id" db:"rule_id"`
	CustomerID string             `json:"customer_id" db:"customer_id"`
	Tier       types.CustomerTier `json:"tier" db:"tier"`
	AssignedAt time.Time          `json:"assigned_at" db:"assigned_at"`
}

// Validate checks the tagged-union invariant and the variant payload.
func (r *DiscountRule) Validate() error {
	if r.Name == "" {
		return ierr.NewError("rule name is required").
			WithHint("Rule is missing a name").
			Mark(ierr.ErrValidation)
	}
	if !r.DiscountType.Validate() {
		return ierr.NewError("unknown discount type").
			WithHintf("Discount type %q is not supported", r.DiscountType).
			Mark(ierr.ErrValidation)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return ierr.NewError("rule window is inverted").
			WithHint("End date must not precede start date").
			Mark(ierr.ErrValidation)
	}

	count := 0
	for _, set := range []bool{
		r.Customer != nil, r.Inventory != nil, r.Volume != nil,
		r.Tiered != nil, r.Bogo != nil,
	} {
		if set {
			count++
		}
	}
	if count != 1 {
		return ierr.NewError("rule must carry exactly one variant payload").
			WithHintf("Rule %q carries %d variant payloads", r.Name, count).
			Mark(ierr.ErrValidation)
	}

	var match bool
	switch r.DiscountType {
	case types.DiscountTypeCustomer:
		match = r.Customer != nil
	case types.DiscountTypeInventory:
		match = r.Inventory != nil
	case types.DiscountTypeVolume:
		match = r.Volume != nil
	case types.DiscountTypeTiered:
		match = r.Tiered != nil
	case types.DiscountTypeBogo:
		match = r.Bogo != nil
	}
	if !match {
		return ierr.NewError("variant payload does not match discount type").
			WithHintf("Rule %q is typed %s but carries a different payload", r.Name, r.DiscountType).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// InWindow reports whether asOf falls inside [StartDate, EndDate|+inf].
func (r *DiscountRule) InWindow(asOf time.Time) bool {
	if asOf.Before(r.StartDate) {
		return false
	}
	if r.EndDate != nil && asOf.After(*r.EndDate) {
		return false
	}
	return true
}

// RuleScope returns the catalog scope the rule targets. For BOGO rules
// this is the trigger level and target.
func (r *DiscountRule) RuleScope() (Scope, bool) {
	switch {
	case r.Customer != nil:
		return r.Customer.Scope, true
	case r.Inventory != nil:
		return r.Inventory.Scope, true
	case r.Volume != nil:
		return r.Volume.Scope, true
	case r.Tiered != nil:
		return r.Tiered.Scope, true
	case r.Bogo != nil:
		return Scope{Level: r.Bogo.TriggerLevel, Target: r.Bogo.TriggerTarget}, true
	}
	return Scope{}, false
}
