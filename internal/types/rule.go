package types

// DiscountType discriminates the five rule variants.
type DiscountType string

const (
	DiscountTypeCustomer  DiscountType = "customer"
	DiscountTypeInventory DiscountType = "inventory"
	DiscountTypeVolume    DiscountType = "volume"
	DiscountTypeTiered    DiscountType = "tiered"
	DiscountTypeBogo      DiscountType = "bogo"
)

func (t DiscountType) Validate() bool {
	switch t {
	case DiscountTypeCustomer, DiscountTypeInventory, DiscountTypeVolume,
		DiscountTypeTiered, DiscountTypeBogo:
		return true
	}
	return false
}

// ValueType says how a discount value is interpreted.
type ValueType string

const (
	ValueTypePercentage ValueType = "percentage"
	ValueTypeDollar     ValueType = "dollar"
)

func (v ValueType) Validate() bool {
	return v == ValueTypePercentage || v == ValueTypeDollar
}

// ScopeLevel is the hierarchy level a rule targets. Matching against the
// product field is a case-sensitive exact string comparison; an unknown
// level never matches.
type ScopeLevel string

const (
	ScopeLevelItem        ScopeLevel = "item"
	ScopeLevelBrand       ScopeLevel = "brand"
	ScopeLevelCategory    ScopeLevel = "category"
	ScopeLevelSubCategory ScopeLevel = "subcategory"
)

func (l ScopeLevel) Validate() bool {
	switch l {
	case ScopeLevelItem, ScopeLevelBrand, ScopeLevelCategory, ScopeLevelSubCategory:
		return true
	}
	return false
}

// InventoryTriggerType is the condition kind for automatic inventory
// discounts.
type InventoryTriggerType string

const (
	InventoryTriggerExpiration InventoryTriggerType = "expiration"
	InventoryTriggerTHC        InventoryTriggerType = "thc"
)

func (t InventoryTriggerType) Validate() bool {
	return t == InventoryTriggerExpiration || t == InventoryTriggerTHC
}

// BogoRewardType is how the discounted half of a BOGO pair is priced.
type BogoRewardType string

const (
	BogoRewardFree       BogoRewardType = "free"
	BogoRewardPercentage BogoRewardType = "percentage"
	BogoRewardFixed      BogoRewardType = "fixed"
)

func (t BogoRewardType) Validate() bool {
	switch t {
	case BogoRewardFree, BogoRewardPercentage, BogoRewardFixed:
		return true
	}
	return false
}

// CustomerTier is an A/B/C tier label. Assignments are per rule, not
// global: a customer may hold different tiers under different rules.
type CustomerTier string

const (
	CustomerTierA CustomerTier = "A"
	CustomerTierB CustomerTier = "B"
	CustomerTierC CustomerTier = "C"
)

func (t CustomerTier) Validate() bool {
	return t == CustomerTierA || t == CustomerTierB || t == CustomerTierC
}
