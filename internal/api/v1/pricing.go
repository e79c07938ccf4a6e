package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antoniodjones/price-and-promo/internal/api/dto"
	"github.com/antoniodjones/price-and-promo/internal/domain/audit"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/antoniodjones/price-and-promo/internal/logger"
	"github.com/antoniodjones/price-and-promo/internal/service"
)

type PricingHandler struct {
	service service.PricingService
	audit   service.AuditService
	log     *logger.Logger
}

func NewPricingHandler(
	service service.PricingService,
	audit service.AuditService,
	log *logger.Logger,
) *PricingHandler {
	return &PricingHandler{
		service: service,
		audit:   audit,
		log:     log,
	}
}

// @Summary Calculate the price for one line
// @Description Evaluates every live discount rule and applies the single best one
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.PriceCalculationRequest true "Line to price"
// @Success 200 {object} service.PricingResult
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 503 {object} ierr.ErrorResponse
// @Router /pricing/calculate [post]
func (h *PricingHandler) CalculatePrice(c *gin.Context) {
	var req dto.PriceCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.CalculatePrice(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Calculate a cart
// @Description Prices each line independently and totals the cart
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CartCalculationRequest true "Cart to price"
// @Success 200 {object} service.CartResult
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/cart [post]
func (h *PricingHandler) CalculateCart(c *gin.Context) {
	var req dto.CartCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculateCart(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Savings ladder for a customer and product
// @Description Shows the discount at each quantity break
// @Tags Pricing
// @Produce json
// @Param customer_id query string true "Customer ID"
// @Param product_id query string true "Product ID"
// @Success 200 {object} service.SavingsSummary
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/savings [get]
func (h *PricingHandler) GetSavingsSummary(c *gin.Context) {
	var req dto.GetSavingsSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetSavingsSummary(c.Request.Context(), req.CustomerID, req.ProductID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview scheduled discounts
// @Description Prices scheduled rules as if their window had opened
// @Tags Pricing
// @Produce json
// @Param customer_id query string true "Customer ID"
// @Param product_id query string true "Product ID"
// @Param quantity query int false "Quantity" default(1)
// @Success 200 {array} service.UpcomingDiscount
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/preview/upcoming [get]
func (h *PricingHandler) PreviewUpcoming(c *gin.Context) {
	var req dto.PreviewUpcomingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.PreviewUpcoming(c.Request.Context(), req.CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview a candidate rule
// @Description Prices a rule that may not be persisted yet against a sample line
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.RulePreviewRequest true "Rule and sample line"
// @Success 200 {object} service.RulePreview
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/preview/rule [post]
func (h *PricingHandler) PreviewRule(c *gin.Context) {
	var req dto.RulePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.PreviewRule(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Invalidate pricing caches
// @Description Evicts cached rules, customer state, or product state
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.InvalidateCacheRequest true "Invalidation scope"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/invalidate [post]
func (h *PricingHandler) InvalidateCache(c *gin.Context) {
	var req dto.InvalidateCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.InvalidateCache(c.Request.Context(), req.ToInput()); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary List pricing audit records
// @Tags Audit
// @Produce json
// @Param customer_id query string false "Customer ID"
// @Param product_id query string false "Product ID"
// @Param event_type query string false "Event type"
// @Param limit query int false "Limit" default(50)
// @Success 200 {array} audit.Record
// @Failure 503 {object} ierr.ErrorResponse
// @Router /pricing/audit [get]
func (h *PricingHandler) GetAuditLogs(c *gin.Context) {
	var req dto.GetAuditLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.audit.List(c.Request.Context(), audit.Filter{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		EventType:  audit.EventType(req.EventType),
		Limit:      req.Limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Aggregate audit statistics
// @Tags Audit
// @Produce json
// @Param customer_id query string false "Customer ID"
// @Success 200 {object} audit.Stats
// @Failure 503 {object} ierr.ErrorResponse
// @Router /pricing/audit/stats [get]
func (h *PricingHandler) GetAuditStats(c *gin.Context) {
	resp, err := h.audit.GetStats(c.Request.Context(), c.Query("customer_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
