package cache

import (
	"context"
	"time"

	"github.com/antoniodjones/price-and-promo/internal/config"
	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
)

// PricingCache is the typed read/write-through facade the pricing engine
// uses. Every accessor degrades to a miss on anything unexpected; the
// cache is never a correctness dependency. Invalidation is driven from
// outside the core whenever a rule, tier assignment, or product changes.
type PricingCache struct {
	cache Cache
	cfg   *config.Configuration
}

func NewPricingCache(cache Cache, cfg *config.Configuration) *PricingCache {
	return &PricingCache{
		cache: cache,
		cfg:   cfg,
	}
}

// tierAssignmentEntry wraps an assignment so "no assignment" can be
// negative-cached distinctly from "not cached".
type tierAssignmentEntry struct {
	assignment *rule.TierAssignment
}

// GetRuleSet returns the cached active rule set for a calendar date key.
func (c *PricingCache) GetRuleSet(ctx context.Context, dateKey string) ([]*rule.DiscountRule, bool) {
	v, ok := c.cache.Get(ctx, GenerateKey(PrefixRuleSet, dateKey))
	if !ok {
		return nil, false
	}
	rules, ok := v.([]*rule.DiscountRule)
	return rules, ok
}

func (c *PricingCache) SetRuleSet(ctx context.Context, dateKey string, rules []*rule.DiscountRule) {
	c.cache.Set(ctx, GenerateKey(PrefixRuleSet, dateKey), rules, c.cfg.Cache.RuleSetTTL)
}

// GetTierAssignment returns the cached assignment for (customer, rule).
// found=true with a nil assignment means "known to have no assignment".
func (c *PricingCache) GetTierAssignment(ctx context.Context, customerID, ruleID string) (*rule.TierAssignment, bool) {
	v, ok := c.cache.Get(ctx, GenerateKey(PrefixTierAssignment, customerID, ruleID))
	if !ok {
		return nil, false
	}
	entry, ok := v.(tierAssignmentEntry)
	if !ok {
		return nil, false
	}
	return entry.assignment, true
}

func (c *PricingCache) SetTierAssignment(ctx context.Context, customerID, ruleID string, assignment *rule.TierAssignment) {
	c.cache.Set(ctx,
		GenerateKey(PrefixTierAssignment, customerID, ruleID),
		tierAssignmentEntry{assignment: assignment},
		c.cfg.Cache.TierAssignmentTTL,
	)
}

func (c *PricingCache) GetProduct(ctx context.Context, productID string) (*product.Product, bool) {
	v, ok := c.cache.Get(ctx, GenerateKey(PrefixProduct, productID))
	if !ok {
		return nil, false
	}
	p, ok := v.(*product.Product)
	return p, ok
}

func (c *PricingCache) SetProduct(ctx context.Context, p *product.Product) {
	c.cache.Set(ctx, GenerateKey(PrefixProduct, p.ID), p, c.cfg.Cache.ProductTTL)
}

// GetCalculation returns a cached pricing result for the exact
// (customer, product, quantity) key. The caller owns the concrete type.
func (c *PricingCache) GetCalculation(ctx context.Context, customerID, productID string, quantity int) (interface{}, bool) {
	return c.cache.Get(ctx, GenerateKey(PrefixCalculation, customerID, productID, quantity))
}

func (c *PricingCache) SetCalculation(ctx context.Context, customerID, productID string, quantity int, result interface{}) {
	c.cache.Set(ctx,
		GenerateKey(PrefixCalculation, customerID, productID, quantity),
		result,
		c.cfg.Cache.CalculationTTL,
	)
}

// InvalidateCustomer drops tier assignments and calculations for a
// customer, optionally narrowed to a single product's calculations.
func (c *PricingCache) InvalidateCustomer(ctx context.Context, customerID string, productID string) {
	if productID != "" {
		c.cache.DeleteByPrefix(ctx, GenerateKey(PrefixCalculation, customerID, productID)+":")
		return
	}
	c.cache.DeleteByPrefix(ctx, GenerateKey(PrefixTierAssignment, customerID)+":")
	c.cache.DeleteByPrefix(ctx, GenerateKey(PrefixCalculation, customerID)+":")
}

// InvalidateRules drops every cached rule set and all calculation results,
// since any rule mutation may change any price.
func (c *PricingCache) InvalidateRules(ctx context.Context) {
	c.cache.DeleteByPrefix(ctx, PrefixRuleSet)
	c.cache.DeleteByPrefix(ctx, PrefixCalculation)
}

// InvalidateProduct drops a single product's details and all calculation
// results that may embed it.
func (c *PricingCache) InvalidateProduct(ctx context.Context, productID string) {
	c.cache.Delete(ctx, GenerateKey(PrefixProduct, productID))
	c.cache.DeleteByPrefix(ctx, PrefixCalculation)
}

// RuleSetDateKey formats the date component of rule-set cache keys.
func RuleSetDateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
