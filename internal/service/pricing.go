package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/antoniodjones/price-and-promo/internal/cache"
	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

// savingsLadder is the quantity ladder the savings summary reports on.
var savingsLadder = []int{1, 5, 10, 25, 50, 100}

// PricingService is the discount engine entry point. One calculation
// evaluates every live rule against the line and applies exactly the
// single best discount; discounts never stack.
type PricingService interface {
	CalculatePrice(ctx context.Context, input CalculationInput) (*PricingResult, error)
	CalculateCart(ctx context.Context, input CartInput) (*CartResult, error)
	GetSavingsSummary(ctx context.Context, customerID, productID string) (*SavingsSummary, error)
	PreviewUpcoming(ctx context.Context, customerID, productID string, quantity int) ([]*UpcomingDiscount, error)
	PreviewRule(ctx context.Context, input RulePreviewInput) (*RulePreview, error)
	InvalidateCache(ctx context.Context, input InvalidationInput) error
}

// CalculationInput identifies one line to price. AsOf defaults to now and
// pins the temporal window, expiration math, and the rule-set cache key.
type CalculationInput struct {
	CustomerID string
	ProductID  string
	Quantity   int
	AsOf       *time.Time
}

// PricingResult is the outcome for a single line. When no rule applies,
// the applied-rule fields are empty and the discount is zero.
type PricingResult struct {
	ID                 string              `json:"id"`
	CustomerID         string              `json:"customer_id"`
	ProductID          string              `json:"product_id"`
	Quantity           int                 `json:"quantity"`
	BasePrice          decimal.Decimal     `json:"base_price"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	DiscountAmount     decimal.Decimal     `json:"discount_amount"`
	DiscountPercentage decimal.Decimal     `json:"discount_percentage"`
	FinalPrice         decimal.Decimal     `json:"final_price"`
	AppliedRuleID      string              `json:"applied_rule_id,omitempty"`
	AppliedRuleName    string              `json:"applied_rule_name,omitempty"`
	AppliedRuleType    types.DiscountType  `json:"applied_rule_type,omitempty"`
	Reason             string              `json:"reason,omitempty"`
	CalculatedAt       time.Time           `json:"calculated_at"`
}

// CartLine is one entry of a cart calculation.
type CartLine struct {
	ProductID string
	Quantity  int
}

type CartInput struct {
	CustomerID string
	Lines      []CartLine
	AsOf       *time.Time
}

// CartResult prices each line independently (best single discount per
// line) and totals the cart.
type CartResult struct {
	CustomerID          string           `json:"customer_id"`
	Lines               []*PricingResult `json:"lines"`
	Subtotal            decimal.Decimal  `json:"subtotal"`
	TotalDiscountAmount decimal.Decimal  `json:"total_discount_amount"`
	Total               decimal.Decimal  `json:"total"`
	CalculatedAt        time.Time        `json:"calculated_at"`
}

// SavingsPoint is one rung of the savings ladder.
type SavingsPoint struct {
	Quantity           int                `json:"quantity"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	FinalPrice         decimal.Decimal    `json:"final_price"`
	AppliedRuleName    string             `json:"applied_rule_name,omitempty"`
	AppliedRuleType    types.DiscountType `json:"applied_rule_type,omitempty"`
}

type SavingsSummary struct {
	CustomerID string          `json:"customer_id"`
	ProductID  string          `json:"product_id"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Points     []*SavingsPoint `json:"points"`
}

// UpcomingDiscount is a scheduled rule priced as if its window had opened.
type UpcomingDiscount struct {
	RuleID         string             `json:"rule_id"`
	RuleName       string             `json:"rule_name"`
	RuleType       types.DiscountType `json:"rule_type"`
	StartsAt       time.Time          `json:"starts_at"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Reason         string             `json:"reason"`
}

// RulePreviewInput prices a candidate rule that may not be persisted yet.
type RulePreviewInput struct {
	Rule       *rule.DiscountRule
	CustomerID string
	ProductID  string
	Quantity   int
	Tier       *types.CustomerTier
	AsOf       *time.Time
}

type RulePreview struct {
	Applicable         bool               `json:"applicable"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	FinalPrice         decimal.Decimal    `json:"final_price"`
	Reason             string             `json:"reason,omitempty"`
}

// InvalidationInput names what to evict. Scope is "rules", "customer", or
// "product".
type InvalidationInput struct {
	Scope      string
	CustomerID string
	ProductID  string
}

type pricingService struct {
	ServiceParams
	audit AuditService
}

func NewPricingService(params ServiceParams, auditSvc AuditService) PricingService {
	return &pricingService{
		ServiceParams: params,
		audit:         auditSvc,
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func resolveAsOf(asOf *time.Time) time.Time {
	if asOf != nil {
		return asOf.UTC()
	}
	return nowUTC()
}

func (s *pricingService) CalculatePrice(ctx context.Context, input CalculationInput) (*PricingResult, error) {
	if err := validateLine(input.CustomerID, input.ProductID, input.Quantity); err != nil {
		return nil, err
	}
	asOf := resolveAsOf(input.AsOf)

	if cached, ok := s.PricingCache.GetCalculation(ctx, input.CustomerID, input.ProductID, input.Quantity); ok {
		if result, ok := cached.(*PricingResult); ok {
			s.Logger.Debugw("pricing calculation served from cache",
				"customer_id", input.CustomerID,
				"product_id", input.ProductID,
				"quantity", input.Quantity)
			return result, nil
		}
	}

	result, evaluations, err := s.compute(ctx, input.CustomerID, input.ProductID, input.Quantity, asOf)
	if err != nil {
		go s.audit.RecordError(context.WithoutCancel(ctx), input.CustomerID, input.ProductID, input.Quantity, err)
		return nil, err
	}

	s.PricingCache.SetCalculation(ctx, input.CustomerID, input.ProductID, input.Quantity, result)
	go s.audit.RecordCalculation(context.WithoutCancel(ctx), result, evaluations)

	return result, nil
}

func (s *pricingService) CalculateCart(ctx context.Context, input CartInput) (*CartResult, error) {
	if input.CustomerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Provide a customer id").
			Mark(ierr.ErrValidation)
	}
	if len(input.Lines) == 0 {
		return nil, ierr.NewError("cart has no lines").
			WithHint("Provide at least one line").
			Mark(ierr.ErrValidation)
	}

	asOf := resolveAsOf(input.AsOf)
	out := &CartResult{
		CustomerID:          input.CustomerID,
		Lines:               make([]*PricingResult, 0, len(input.Lines)),
		Subtotal:            decimal.Zero,
		TotalDiscountAmount: decimal.Zero,
		Total:               decimal.Zero,
		CalculatedAt:        asOf,
	}

	for _, line := range input.Lines {
		result, err := s.CalculatePrice(ctx, CalculationInput{
			CustomerID: input.CustomerID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			AsOf:       &asOf,
		})
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, result)
		out.Subtotal = out.Subtotal.Add(result.Subtotal)
		out.TotalDiscountAmount = out.TotalDiscountAmount.Add(result.DiscountAmount)
		out.Total = out.Total.Add(result.FinalPrice)
	}

	return out, nil
}

func (s *pricingService) GetSavingsSummary(ctx context.Context, customerID, productID string) (*SavingsSummary, error) {
	if err := validateLine(customerID, productID, 1); err != nil {
		return nil, err
	}
	asOf := nowUTC()

	p, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	summary := &SavingsSummary{
		CustomerID: customerID,
		ProductID:  productID,
		BasePrice:  p.BasePrice,
		Points:     make([]*SavingsPoint, 0, len(savingsLadder)),
	}

	for _, qty := range savingsLadder {
		result, _, err := s.compute(ctx, customerID, productID, qty, asOf)
		if err != nil {
			return nil, err
		}
		summary.Points = append(summary.Points, &SavingsPoint{
			Quantity:           qty,
			Subtotal:           result.Subtotal,
			DiscountAmount:     result.DiscountAmount,
			DiscountPercentage: result.DiscountPercentage,
			FinalPrice:         result.FinalPrice,
			AppliedRuleName:    result.AppliedRuleName,
			AppliedRuleType:    result.AppliedRuleType,
		})
	}

	return summary, nil
}

func (s *pricingService) PreviewUpcoming(ctx context.Context, customerID, productID string, quantity int) ([]*UpcomingDiscount, error) {
	if err := validateLine(customerID, productID, quantity); err != nil {
		return nil, err
	}
	asOf := nowUTC()

	p, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.CustomerRepo.Get(ctx, customerID); err != nil {
		return nil, err
	}

	scheduled, err := s.RuleRepo.ListScheduled(ctx, asOf)
	if err != nil {
		return nil, err
	}

	upcoming := make([]*UpcomingDiscount, 0)
	for _, r := range scheduled {
		if !ruleApplies(r, p, quantity, asOf, passPreview) {
			continue
		}
		// Evaluate at the rule's own start so expiration math reflects
		// the day the discount goes live.
		ev, ok := s.evaluateRule(ctx, r, p, customerID, quantity, r.StartDate)
		if !ok {
			continue
		}
		upcoming = append(upcoming, &UpcomingDiscount{
			RuleID:         r.ID,
			RuleName:       r.Name,
			RuleType:       r.DiscountType,
			StartsAt:       r.StartDate,
			DiscountAmount: ev.DiscountAmount,
			Reason:         ev.Reason,
		})
	}

	sort.Slice(upcoming, func(i, j int) bool {
		if !upcoming[i].StartsAt.Equal(upcoming[j].StartsAt) {
			return upcoming[i].StartsAt.Before(upcoming[j].StartsAt)
		}
		return upcoming[i].RuleID < upcoming[j].RuleID
	})

	return upcoming, nil
}

func (s *pricingService) PreviewRule(ctx context.Context, input RulePreviewInput) (*RulePreview, error) {
	if input.Rule == nil {
		return nil, ierr.NewError("rule is required").
			WithHint("Provide a rule to preview").
			Mark(ierr.ErrValidation)
	}
	if err := input.Rule.Validate(); err != nil {
		return nil, err
	}
	if err := validateLine(input.CustomerID, input.ProductID, input.Quantity); err != nil {
		return nil, err
	}
	asOf := resolveAsOf(input.AsOf)

	p, err := s.getProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	r := input.Rule
	scope, ok := r.RuleScope()
	if !ok || !scopeMatches(scope, p) ||
		(r.DiscountType == types.DiscountTypeBogo && input.Quantity < 2) {
		return &RulePreview{
			Applicable:     false,
			DiscountAmount: decimal.Zero,
			FinalPrice:     p.BasePrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
			Reason:         "Rule does not apply to this line",
		}, nil
	}

	var ev *Evaluation
	if r.DiscountType == types.DiscountTypeTiered {
		// Candidate rules have no persisted assignments; the caller
		// supplies the tier to preview with.
		var assignment *rule.TierAssignment
		if input.Tier != nil {
			assignment = &rule.TierAssignment{
				RuleID:     r.ID,
				CustomerID: input.CustomerID,
				Tier:       *input.Tier,
			}
		}
		ev, ok = evaluateTiered(r, assignment, p.BasePrice, input.Quantity)
	} else {
		ev, ok = s.evaluateRule(ctx, r, p, input.CustomerID, input.Quantity, asOf)
	}

	subtotal := p.BasePrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
	if !ok {
		return &RulePreview{
			Applicable:     false,
			DiscountAmount: decimal.Zero,
			FinalPrice:     subtotal,
			Reason:         "Rule conditions not met for this line",
		}, nil
	}

	amount := s.capDiscount(ev.DiscountAmount, subtotal)
	return &RulePreview{
		Applicable:         true,
		DiscountAmount:     amount,
		DiscountPercentage: discountPercentage(amount, subtotal),
		FinalPrice:         subtotal.Sub(amount),
		Reason:             ev.Reason,
	}, nil
}

func (s *pricingService) InvalidateCache(ctx context.Context, input InvalidationInput) error {
	switch input.Scope {
	case "rules":
		s.PricingCache.InvalidateRules(ctx)
	case "customer":
		if input.CustomerID == "" {
			return ierr.NewError("customer id is required").
				WithHint("Customer-scoped invalidation needs a customer id").
				Mark(ierr.ErrValidation)
		}
		s.PricingCache.InvalidateCustomer(ctx, input.CustomerID, input.ProductID)
	case "product":
		if input.ProductID == "" {
			return ierr.NewError("product id is required").
				WithHint("Product-scoped invalidation needs a product id").
				Mark(ierr.ErrValidation)
		}
		s.PricingCache.InvalidateProduct(ctx, input.ProductID)
	default:
		return ierr.NewError("unknown invalidation scope").
			WithHintf("Scope must be rules, customer, or product, got %q", input.Scope).
			Mark(ierr.ErrValidation)
	}

	s.Logger.Infow("cache invalidated",
		"scope", input.Scope,
		"customer_id", input.CustomerID,
		"product_id", input.ProductID)
	return nil
}

// compute runs the full live pass for one line: load, filter, evaluate,
// select. It touches the rule/product/assignment caches but neither the
// calculation cache nor the audit trail; callers own those.
func (s *pricingService) compute(ctx context.Context, customerID, productID string, quantity int, asOf time.Time) (*PricingResult, []Evaluation, error) {
	p, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.CustomerRepo.Get(ctx, customerID); err != nil {
		return nil, nil, err
	}

	rules, err := s.getActiveRules(ctx, asOf)
	if err != nil {
		return nil, nil, err
	}

	evaluations := make([]Evaluation, 0, len(rules))
	for _, r := range rules {
		if !ruleApplies(r, p, quantity, asOf, passLive) {
			continue
		}
		ev, ok := s.evaluateRule(ctx, r, p, customerID, quantity, asOf)
		if !ok {
			continue
		}
		evaluations = append(evaluations, *ev)
	}

	subtotal := p.BasePrice.Mul(decimal.NewFromInt(int64(quantity)))
	result := &PricingResult{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CALCULATION),
		CustomerID:     customerID,
		ProductID:      productID,
		Quantity:       quantity,
		BasePrice:      p.BasePrice,
		Subtotal:       subtotal,
		DiscountAmount: decimal.Zero,
		FinalPrice:     subtotal,
		CalculatedAt:   asOf,
	}

	if winner := selectBest(evaluations); winner != nil {
		amount := s.capDiscount(winner.DiscountAmount, subtotal)
		result.DiscountAmount = amount
		result.FinalPrice = subtotal.Sub(amount)
		result.AppliedRuleID = winner.RuleID
		result.AppliedRuleName = winner.RuleName
		result.AppliedRuleType = winner.RuleType
		result.Reason = winner.Reason
	}
	result.DiscountPercentage = discountPercentage(result.DiscountAmount, subtotal)

	return result, evaluations, nil
}

// evaluateRule dispatches to the variant evaluator. Tiered rules need the
// customer's per-rule assignment, resolved cache-first.
func (s *pricingService) evaluateRule(ctx context.Context, r *rule.DiscountRule, p *product.Product, customerID string, quantity int, asOf time.Time) (*Evaluation, bool) {
	switch r.DiscountType {
	case types.DiscountTypeCustomer:
		return evaluateCustomer(r, p.BasePrice, quantity)
	case types.DiscountTypeInventory:
		return evaluateInventory(r, p, p.BasePrice, quantity, asOf)
	case types.DiscountTypeVolume:
		return evaluateVolume(r, p.BasePrice, quantity)
	case types.DiscountTypeTiered:
		assignment, err := s.getTierAssignment(ctx, customerID, r.ID)
		if err != nil {
			// A failed assignment lookup disqualifies this rule only;
			// the calculation proceeds on the remaining candidates.
			s.Logger.Warnw("tier assignment lookup failed, skipping rule",
				"rule_id", r.ID,
				"customer_id", customerID,
				"error", err)
			return nil, false
		}
		return evaluateTiered(r, assignment, p.BasePrice, quantity)
	case types.DiscountTypeBogo:
		return evaluateBogo(r, p.BasePrice, quantity)
	default:
		return nil, false
	}
}

// selectBest picks the single winning evaluation: highest discount
// amount, then highest priority, then earliest creation, then lowest ID.
// Zero-amount evaluations are eligible; no candidates means no winner.
func selectBest(evaluations []Evaluation) *Evaluation {
	var best *Evaluation
	for i := range evaluations {
		ev := &evaluations[i]
		if best == nil {
			best = ev
			continue
		}
		switch {
		case ev.DiscountAmount.GreaterThan(best.DiscountAmount):
			best = ev
		case ev.DiscountAmount.Equal(best.DiscountAmount):
			if ev.Priority > best.Priority ||
				(ev.Priority == best.Priority && ev.CreatedAt.Before(best.CreatedAt)) ||
				(ev.Priority == best.Priority && ev.CreatedAt.Equal(best.CreatedAt) && ev.RuleID < best.RuleID) {
				best = ev
			}
		}
	}
	return best
}

func (s *pricingService) capDiscount(amount, subtotal decimal.Decimal) decimal.Decimal {
	if s.Config.Pricing.CapAtSubtotal && amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

func discountPercentage(amount, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	return amount.Div(subtotal).Mul(hundred)
}

func (s *pricingService) getProduct(ctx context.Context, productID string) (*product.Product, error) {
	if p, ok := s.PricingCache.GetProduct(ctx, productID); ok {
		return p, nil
	}
	p, err := s.ProductRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.PricingCache.SetProduct(ctx, p)
	return p, nil
}

func (s *pricingService) getActiveRules(ctx context.Context, asOf time.Time) ([]*rule.DiscountRule, error) {
	dateKey := cache.RuleSetDateKey(asOf)
	if rules, ok := s.PricingCache.GetRuleSet(ctx, dateKey); ok {
		return rules, nil
	}
	rules, err := s.RuleRepo.ListActive(ctx, asOf)
	if err != nil {
		return nil, err
	}
	s.PricingCache.SetRuleSet(ctx, dateKey, rules)
	return rules, nil
}

func (s *pricingService) getTierAssignment(ctx context.Context, customerID, ruleID string) (*rule.TierAssignment, error) {
	if assignment, ok := s.PricingCache.GetTierAssignment(ctx, customerID, ruleID); ok {
		return assignment, nil
	}
	assignment, err := s.RuleRepo.GetTierAssignment(ctx, customerID, ruleID)
	if err != nil {
		return nil, err
	}
	// Absence is cached too, so rule sets with no assignment for this
	// customer do not hammer the store.
	s.PricingCache.SetTierAssignment(ctx, customerID, ruleID, assignment)
	return assignment, nil
}

func validateLine(customerID, productID string, quantity int) error {
	if customerID == "" {
		return ierr.NewError("customer id is required").
			WithHint("Provide a customer id").
			Mark(ierr.ErrValidation)
	}
	if productID == "" {
		return ierr.NewError("product id is required").
			WithHint("Provide a product id").
			Mark(ierr.ErrValidation)
	}
	if quantity < 0 {
		return ierr.NewError("quantity must not be negative").
			WithHintf("Quantity %d is invalid", quantity).
			Mark(ierr.ErrValidation)
	}
	return nil
}
