package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/antoniodjones/price-and-promo/internal/service"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

// PriceCalculationRequest prices one line for one customer.
type PriceCalculationRequest struct {
	CustomerID string     `json:"customer_id" binding:"required"`
	ProductID  string     `json:"product_id" binding:"required"`
	Quantity   int        `json:"quantity"`
	AsOf       *time.Time `json:"as_of,omitempty"`
}

func (r *PriceCalculationRequest) Validate() error {
	if r.Quantity < 0 {
		return ierr.NewError("quantity must not be negative").
			WithHintf("Quantity %d is invalid", r.Quantity).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *PriceCalculationRequest) ToInput() service.CalculationInput {
	return service.CalculationInput{
		CustomerID: r.CustomerID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		AsOf:       r.AsOf,
	}
}

type CartLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type CartCalculationRequest struct {
	CustomerID string            `json:"customer_id" binding:"required"`
	Lines      []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
	AsOf       *time.Time        `json:"as_of,omitempty"`
}

func (r *CartCalculationRequest) ToInput() service.CartInput {
	return service.CartInput{
		CustomerID: r.CustomerID,
		AsOf:       r.AsOf,
		Lines: lo.Map(r.Lines, func(line CartLineRequest, _ int) service.CartLine {
			return service.CartLine{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
		}),
	}
}

// RulePreviewRequest prices a candidate rule, persisted or not, against a
// sample line. Tier substitutes for the assignment a draft tiered rule
// cannot have yet.
type RulePreviewRequest struct {
	Rule       *rule.DiscountRule  `json:"rule" binding:"required"`
	CustomerID string              `json:"customer_id" binding:"required"`
	ProductID  string              `json:"product_id" binding:"required"`
	Quantity   int                 `json:"quantity"`
	Tier       *types.CustomerTier `json:"tier,omitempty"`
	AsOf       *time.Time          `json:"as_of,omitempty"`
}

func (r *RulePreviewRequest) Validate() error {
	if r.Tier != nil && !r.Tier.Validate() {
		return ierr.NewError("unknown customer tier").
			WithHintf("Tier %q is not supported", *r.Tier).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *RulePreviewRequest) ToInput() service.RulePreviewInput {
	return service.RulePreviewInput{
		Rule:       r.Rule,
		CustomerID: r.CustomerID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		Tier:       r.Tier,
		AsOf:       r.AsOf,
	}
}

type InvalidateCacheRequest struct {
	Scope      string `json:"scope" binding:"required,oneof=rules customer product"`
	CustomerID string `json:"customer_id,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
}

func (r *InvalidateCacheRequest) ToInput() service.InvalidationInput {
	return service.InvalidationInput{
		Scope:      r.Scope,
		CustomerID: r.CustomerID,
		ProductID:  r.ProductID,
	}
}

// GetSavingsSummaryRequest binds the savings ladder query parameters.
type GetSavingsSummaryRequest struct {
	CustomerID string `form:"customer_id" binding:"required"`
	ProductID  string `form:"product_id" binding:"required"`
}

type PreviewUpcomingRequest struct {
	CustomerID string `form:"customer_id" binding:"required"`
	ProductID  string `form:"product_id" binding:"required"`
	Quantity   int    `form:"quantity,default=1"`
}

type GetAuditLogsRequest struct {
	CustomerID string `form:"customer_id"`
	ProductID  string `form:"product_id"`
	EventType  string `form:"event_type"`
	Limit      int    `form:"limit,default=50"`
}
