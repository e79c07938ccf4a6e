package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/antoniodjones/price-and-promo/internal/api"
	v1 "github.com/antoniodjones/price-and-promo/internal/api/v1"
	"github.com/antoniodjones/price-and-promo/internal/cache"
	"github.com/antoniodjones/price-and-promo/internal/config"
	"github.com/antoniodjones/price-and-promo/internal/logger"
	"github.com/antoniodjones/price-and-promo/internal/repository"
	supabaseRepo "github.com/antoniodjones/price-and-promo/internal/repository/supabase"
	"github.com/antoniodjones/price-and-promo/internal/sentry"
	"github.com/antoniodjones/price-and-promo/internal/service"
)

// @title Price & Promo API
// @version 1.0
// @description Wholesale pricing and discount engine
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Local overrides; missing file is fine outside development
	_ = godotenv.Load()

	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Cache
			cache.NewInMemoryCache,
			cache.NewPricingCache,

			// Supabase
			supabaseRepo.NewClient,

			// Repositories
			repository.NewRuleRepository,
			repository.NewProductRepository,
			repository.NewCustomerRepository,
			repository.NewAuditSink,
			repository.NewAuditReader,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewAuditService,
			service.NewPricingService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startAPIServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	pricingService service.PricingService,
	auditService service.AuditService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Pricing: v1.NewPricingHandler(pricingService, auditService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	return api.NewRouter(handlers, cfg)
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
