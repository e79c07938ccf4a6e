package service

import (
	"github.com/antoniodjones/price-and-promo/internal/cache"
	"github.com/antoniodjones/price-and-promo/internal/config"
	"github.com/antoniodjones/price-and-promo/internal/domain/audit"
	"github.com/antoniodjones/price-and-promo/internal/domain/customer"
	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	"github.com/antoniodjones/price-and-promo/internal/logger"
)

// ServiceParams bundles every dependency a service might need. Services
// pick what they use; construction sites stay uniform.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	RuleRepo     rule.Repository
	ProductRepo  product.Repository
	CustomerRepo customer.Repository

	AuditSink   audit.Sink
	AuditReader audit.Reader

	PricingCache *cache.PricingCache
}

// NewServiceParams assembles the params bundle for dependency injection.
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	ruleRepo rule.Repository,
	productRepo product.Repository,
	customerRepo customer.Repository,
	auditSink audit.Sink,
	auditReader audit.Reader,
	pricingCache *cache.PricingCache,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		RuleRepo:     ruleRepo,
		ProductRepo:  productRepo,
		CustomerRepo: customerRepo,
		AuditSink:    auditSink,
		AuditReader:  auditReader,
		PricingCache: pricingCache,
	}
}
