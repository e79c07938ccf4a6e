package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

var hundred = decimal.NewFromInt(100)

// Evaluation is the outcome of running a single applicable rule against a
// line. DiscountAmount is the absolute saving over the whole line; a zero
// amount is still a valid evaluation and stays in the candidate set.
type Evaluation struct {
	RuleID         string
	RuleName       string
	RuleType       types.DiscountType
	Priority       int
	CreatedAt      time.Time
	DiscountAmount decimal.Decimal
	Reason         string
}

// discountOverUnits applies a per-unit discount value across a line of
// quantity units: percentage values scale the subtotal, dollar values are
// taken once per unit.
func discountOverUnits(basePrice decimal.Decimal, quantity int, valueType types.ValueType, value decimal.Decimal) decimal.Decimal {
	qty := decimal.NewFromInt(int64(quantity))
	switch valueType {
	case types.ValueTypePercentage:
		return basePrice.Mul(qty).Mul(value).Div(hundred)
	case types.ValueTypeDollar:
		return value.Mul(qty)
	default:
		return decimal.Zero
	}
}

func valuePhrase(valueType types.ValueType, value decimal.Decimal) string {
	if valueType == types.ValueTypeDollar {
		return fmt.Sprintf("$%s off per unit", value.String())
	}
	return fmt.Sprintf("%s%% off", value.String())
}

// evaluateCustomer prices a customer discount rule. Applicability has
// already been established by the caller.
func evaluateCustomer(r *rule.DiscountRule, basePrice decimal.Decimal, quantity int) (*Evaluation, bool) {
	spec := r.Customer
	if spec == nil {
		return nil, false
	}
	amount := discountOverUnits(basePrice, quantity, spec.ValueType, spec.Value)
	return &Evaluation{
		RuleID:         r.ID,
		RuleName:       r.Name,
		RuleType:       r.DiscountType,
		Priority:       r.Priority,
		CreatedAt:      r.CreatedAt,
		DiscountAmount: amount,
		Reason:         fmt.Sprintf("Customer discount: %s", valuePhrase(spec.ValueType, spec.Value)),
	}, true
}

// evaluateInventory prices an inventory-triggered rule. The trigger
// condition itself is part of evaluation, not the applicability gate: a
// product outside the trigger simply yields no candidate.
func evaluateInventory(r *rule.DiscountRule, p *product.Product, basePrice decimal.Decimal, quantity int, asOf time.Time) (*Evaluation, bool) {
	spec := r.Inventory
	if spec == nil {
		return nil, false
	}

	var reason string
	switch spec.Trigger {
	case types.InventoryTriggerExpiration:
		days, ok := p.DaysToExpiration(asOf)
		if !ok || days <= 0 || days > spec.DaysToExpiration {
			return nil, false
		}
		reason = fmt.Sprintf("%s, %d days to expiration", valuePhrase(spec.ValueType, spec.DiscountValue), days)
	case types.InventoryTriggerTHC:
		if p.THCPercentage == nil || spec.THCThreshold == nil {
			return nil, false
		}
		if !p.THCPercentage.LessThan(*spec.THCThreshold) {
			return nil, false
		}
		reason = fmt.Sprintf("%s, %s%% THC below %s%% threshold",
			valuePhrase(spec.ValueType, spec.DiscountValue),
			p.THCPercentage.String(), spec.THCThreshold.String())
	default:
		return nil, false
	}

	return &Evaluation{
		RuleID:         r.ID,
		RuleName:       r.Name,
		RuleType:       r.DiscountType,
		Priority:       r.Priority,
		CreatedAt:      r.CreatedAt,
		DiscountAmount: discountOverUnits(basePrice, quantity, spec.ValueType, spec.DiscountValue),
		Reason:         reason,
	}, true
}

// evaluateVolume prices a volume rule by selecting the tier with the
// highest minimum quantity the line still reaches.
func evaluateVolume(r *rule.DiscountRule, basePrice decimal.Decimal, quantity int) (*Evaluation, bool) {
	spec := r.Volume
	if spec == nil {
		return nil, false
	}

	var best *rule.VolumeTier
	for i := range spec.Tiers {
		tier := &spec.Tiers[i]
		if quantity < tier.MinQuantity {
			continue
		}
		if best == nil || tier.MinQuantity > best.MinQuantity {
			best = tier
		}
	}
	if best == nil {
		return nil, false
	}

	return &Evaluation{
		RuleID:         r.ID,
		RuleName:       r.Name,
		RuleType:       r.DiscountType,
		Priority:       r.Priority,
		CreatedAt:      r.CreatedAt,
		DiscountAmount: discountOverUnits(basePrice, quantity, best.ValueType, best.DiscountValue),
		Reason:         fmt.Sprintf("Volume discount at %d+ units: %s", best.MinQuantity, valuePhrase(best.ValueType, best.DiscountValue)),
	}, true
}

// evaluateTiered prices a customer-tier rule. Without an explicit tier
// assignment for this rule there is no candidate; tier quantity bounds
// are inclusive on both ends when present.
func evaluateTiered(r *rule.DiscountRule, assignment *rule.TierAssignment, basePrice decimal.Decimal, quantity int) (*Evaluation, bool) {
	spec := r.Tiered
	if spec == nil || assignment == nil {
		return nil, false
	}

	for i := range spec.Tiers {
		entry := &spec.Tiers[i]
		if entry.Tier != assignment.Tier {
			continue
		}
		if entry.MinQuantity != nil && quantity < *entry.MinQuantity {
			continue
		}
		if entry.MaxQuantity != nil && quantity > *entry.MaxQuantity {
			continue
		}
		return &Evaluation{
			RuleID:         r.ID,
			RuleName:       r.Name,
			RuleType:       r.DiscountType,
			Priority:       r.Priority,
			CreatedAt:      r.CreatedAt,
			DiscountAmount: discountOverUnits(basePrice, quantity, entry.ValueType, entry.DiscountValue),
			Reason:         fmt.Sprintf("Tier %s: %s", entry.Tier, valuePhrase(entry.ValueType, entry.DiscountValue)),
		}, true
	}
	return nil, false
}

// evaluateBogo prices a buy-one-get-one rule. Units pair strictly:
// floor(quantity/2) rewards, the unpaired unit earns nothing.
func evaluateBogo(r *rule.DiscountRule, basePrice decimal.Decimal, quantity int) (*Evaluation, bool) {
	spec := r.Bogo
	if spec == nil {
		return nil, false
	}
	pairs := quantity / 2
	if pairs < 1 {
		return nil, false
	}
	pairCount := decimal.NewFromInt(int64(pairs))

	var amount decimal.Decimal
	var reason string
	switch spec.RewardType {
	case types.BogoRewardFree:
		amount = basePrice.Mul(pairCount)
		reason = fmt.Sprintf("Buy one get one free: %d unit(s) free", pairs)
	case types.BogoRewardPercentage:
		amount = basePrice.Mul(pairCount).Mul(spec.RewardValue).Div(hundred)
		reason = fmt.Sprintf("Buy one get one %s%% off: %d discounted unit(s)", spec.RewardValue.String(), pairs)
	case types.BogoRewardFixed:
		amount = spec.RewardValue.Mul(pairCount)
		reason = fmt.Sprintf("Buy one get $%s off one: %d discounted unit(s)", spec.RewardValue.String(), pairs)
	default:
		return nil, false
	}

	return &Evaluation{
		RuleID:         r.ID,
		RuleName:       r.Name,
		RuleType:       r.DiscountType,
		Priority:       r.Priority,
		CreatedAt:      r.CreatedAt,
		DiscountAmount: amount,
		Reason:         reason,
	}, true
}
