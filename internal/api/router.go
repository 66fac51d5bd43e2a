package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	v1 "github.com/rentshop/billing/internal/api/v1"
	"github.com/rentshop/billing/internal/config"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/rest/middleware"
	"github.com/rentshop/billing/internal/sentry"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Plan         *v1.PlanHandler
	Subscription *v1.SubscriptionHandler
	Billing      *v1.BillingHandler
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	sentryService *sentry.Service,
	registry *prometheus.Registry,
) *gin.Engine {
	router := gin.Default()

	router.Use(
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.SentryScopeMiddleware,
		middleware.ErrorHandler(logger, sentryService),
	)

	// Public routes
	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	// v1 routes
	v1Group := router.Group("/v1")
	v1Group.Use(middleware.AuthenticateMiddleware(cfg, logger))
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	plans := router.Group("/plans")
	{
		plans.POST("", handlers.Plan.CreatePlan)
		plans.GET("", handlers.Plan.GetPlans)
		plans.GET("/:id", handlers.Plan.GetPlan)
		plans.POST("/:id/deactivate", handlers.Plan.DeactivatePlan)
	}

	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("", handlers.Subscription.CreateSubscription)
		subscriptions.GET("", handlers.Subscription.GetSubscriptions)
		subscriptions.GET("/:id", handlers.Subscription.GetSubscription)
		subscriptions.POST("/:id/renew", handlers.Subscription.RenewSubscription)
		subscriptions.POST("/:id/cancel", handlers.Subscription.CancelSubscription)
		subscriptions.POST("/:id/change/preview", handlers.Subscription.PreviewPlanChange)
		subscriptions.POST("/:id/change/execute", handlers.Subscription.ChangePlan)
		subscriptions.POST("/:id/extend/preview", handlers.Subscription.PreviewExtension)
		subscriptions.POST("/:id/extend", handlers.Subscription.ExtendSubscription)
		subscriptions.POST("/:id/cadence", handlers.Subscription.ChangeCadence)
	}

	billing := router.Group("/billing")
	{
		billing.POST("/period-bounds", handlers.Billing.PeriodBounds)
		billing.POST("/daily-rate", handlers.Billing.DailyRate)
		billing.POST("/prorate", handlers.Billing.Prorate)
		billing.POST("/extend", handlers.Billing.Extend)
		billing.POST("/discount", handlers.Billing.Discount)
		billing.POST("/quote", handlers.Billing.Quote)
	}
}
