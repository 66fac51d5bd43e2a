package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rentshop/billing/internal/api"
	v1 "github.com/rentshop/billing/internal/api/v1"
	"github.com/rentshop/billing/internal/cache"
	"github.com/rentshop/billing/internal/config"
	"github.com/rentshop/billing/internal/domain/proration"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/metrics"
	"github.com/rentshop/billing/internal/postgres"
	"github.com/rentshop/billing/internal/repository"
	"github.com/rentshop/billing/internal/sentry"
	"github.com/rentshop/billing/internal/service"
	"github.com/rentshop/billing/internal/types"
	"github.com/rentshop/billing/internal/validator"
	"go.uber.org/fx"
)

// @title Rentshop Billing API
// @version 1.0
// @description Subscription billing and proration service
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Clock
			types.NewSystemClock,

			// Cache
			cache.NewInMemoryCache,
		),
		sentry.Module(),
		postgres.Module(),
		metrics.Module(),
	)

	// Repositories
	opts = append(opts,
		fx.Provide(
			repository.NewPlanRepository,
			repository.NewSubscriptionRepository,
		),
	)

	// Services
	opts = append(opts,
		fx.Provide(
			service.NewDiscountTable,
			proration.NewCalculator,
			service.NewServiceParams,
			service.NewPlanService,
			service.NewSubscriptionService,
			service.NewBillingService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	planService service.PlanService,
	subscriptionService service.SubscriptionService,
	billingService service.BillingService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(logger),
		Plan:         v1.NewPlanHandler(planService, logger),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, billingService, logger),
		Billing:      v1.NewBillingHandler(billingService, logger),
	}
}

func provideRouter(
	handlers api.Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	sentryService *sentry.Service,
	registry *prometheus.Registry,
) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, sentryService, registry)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down API server...")
			return srv.Shutdown(ctx)
		},
	})
}
