package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/antoniodjones/price-and-promo/internal/api/v1"
	"github.com/antoniodjones/price-and-promo/internal/config"
	"github.com/antoniodjones/price-and-promo/internal/rest/middleware"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Pricing *v1.PricingHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	pricing := router.Group("/pricing")
	{
		pricing.POST("/calculate", handlers.Pricing.CalculatePrice)
		pricing.POST("/cart", handlers.Pricing.CalculateCart)
		pricing.GET("/savings", handlers.Pricing.GetSavingsSummary)
		pricing.GET("/preview/upcoming", handlers.Pricing.PreviewUpcoming)
		pricing.POST("/preview/rule", handlers.Pricing.PreviewRule)
		pricing.POST("/invalidate", handlers.Pricing.InvalidateCache)
		pricing.GET("/audit", handlers.Pricing.GetAuditLogs)
		pricing.GET("/audit/stats", handlers.Pricing.GetAuditStats)
	}
}
