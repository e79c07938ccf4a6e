package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/antoniodjones/price-and-promo/internal/cache"
	"github.com/antoniodjones/price-and-promo/internal/config"
	"github.com/antoniodjones/price-and-promo/internal/logger"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

// Stores holds every repository double a service suite might need.
type Stores struct {
	RuleStore     *InMemoryRuleStore
	ProductStore  *InMemoryProductStore
	CustomerStore *InMemoryCustomerStore
	AuditSink     *InMemoryAuditSink
}

// BaseServiceTestSuite provides common wiring for service test suites:
// context, config, logger, fresh stores and a fresh cache per test.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cache  *cache.PricingCache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = true

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxTenantID, types.DefaultTenantID)
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		RuleStore:     NewInMemoryRuleStore(),
		ProductStore:  NewInMemoryProductStore(),
		CustomerStore: NewInMemoryCustomerStore(),
		AuditSink:     NewInMemoryAuditSink(),
	}
	s.cache = cache.NewPricingCache(cache.NewInMemoryCache(s.config), s.config)
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetCache() *cache.PricingCache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
