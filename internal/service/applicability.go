package service

import (
	"time"

	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

// evaluationPass selects which rule statuses participate in a pricing pass.
type evaluationPass int

const (
	// passLive evaluates active rules inside their temporal window.
	passLive evaluationPass = iota
	// passPreview evaluates scheduled rules as if their window had opened.
	passPreview
)

// scopeMatches reports whether a rule scope selects the given product.
// Matching is exact and case-sensitive at every level; an unknown level
// or a missing product field never matches.
func scopeMatches(scope rule.Scope, p *product.Product) bool {
	if p == nil {
		return false
	}
	switch scope.Level {
	case types.ScopeLevelItem:
		return p.ID == scope.Target
	case types.ScopeLevelBrand:
		return p.Brand == scope.Target
	case types.ScopeLevelCategory:
		return p.Category == scope.Target
	case types.ScopeLevelSubCategory:
		return p.SubCategory != nil && *p.SubCategory == scope.Target
	default:
		return false
	}
}

// ruleApplies runs the full applicability gate for one rule against one
// line: status for the pass, temporal window, scope, and the structural
// quantity floor for BOGO rules. It must never panic on malformed rules;
// anything it cannot interpret is simply not applicable.
func ruleApplies(r *rule.DiscountRule, p *product.Product, quantity int, asOf time.Time, pass evaluationPass) bool {
	if r == nil {
		return false
	}

	switch pass {
	case passLive:
		if r.Status != types.StatusActive {
			return false
		}
		if !r.InWindow(asOf) {
			return false
		}
	case passPreview:
		if r.Status != types.StatusScheduled {
			return false
		}
		// Scheduled rules are previewed at their own start date, so the
		// live window check does not apply; an already-closed window
		// still disqualifies.
		if r.EndDate != nil && asOf.After(*r.EndDate) {
			return false
		}
	default:
		return false
	}

	scope, ok := r.RuleScope()
	if !ok {
		return false
	}
	if !scopeMatches(scope, p) {
		return false
	}

	// A BOGO rule cannot pair fewer than two units.
	if r.DiscountType == types.DiscountTypeBogo && quantity < 2 {
		return false
	}

	return true
}
