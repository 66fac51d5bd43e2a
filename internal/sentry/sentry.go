package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rentshop/billing/internal/config"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/types"
	"go.uber.org/fx"
)

type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

// Module provides fx options for Sentry
func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewSentryService),
		fx.Invoke(RegisterHooks),
	)
}

// RegisterHooks initialises the sentry client on start and flushes it on stop
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !svc.cfg.Sentry.Enabled {
				svc.logger.Info("Sentry is disabled")
				return nil
			}

			err := sentry.Init(sentry.ClientOptions{
				Dsn:              svc.cfg.Sentry.DSN,
				Environment:      svc.cfg.Sentry.Environment,
				EnableTracing:    true,
				TracesSampleRate: svc.cfg.Sentry.SampleRate,
				TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
					if ctx.Span.Name == "GET /health" || ctx.Span.Name == "GET /metrics" {
						return 0.0
					}
					return svc.cfg.Sentry.SampleRate
				}),
			})
			if err != nil {
				svc.logger.Errorw("Failed to initialize Sentry", "error", err)
				return err
			}
			svc.logger.Infow("Sentry initialized successfully",
				"environment", svc.cfg.Sentry.Environment,
				"sample_rate", svc.cfg.Sentry.SampleRate,
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if svc.cfg.Sentry.Enabled {
				svc.logger.Info("Flushing Sentry events before shutdown")
				sentry.Flush(2 * time.Second)
			}
			return nil
		},
	})
}

// NewSentryService creates a new Sentry service
func NewSentryService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

// CaptureException reports err tagged with the request, tenant and error code of ctx
func (s *Service) CaptureException(ctx context.Context, err error) {
	if !s.cfg.Sentry.Enabled || err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_code", ierr.CodeFromErr(err))
		if requestID := types.GetRequestID(ctx); requestID != "" {
			scope.SetTag("request_id", requestID)
		}
		if tenantID := types.GetTenantID(ctx); tenantID != "" {
			scope.SetTag("tenant_id", tenantID)
		}
		hub.CaptureException(err)
	})
}

// StartDBSpan starts a postgres span ex postgres.transaction
func (s *Service) StartDBSpan(ctx context.Context, operation string, params map[string]interface{}) (*sentry.Span, context.Context) {
	return s.startSpan(ctx, "db.postgres", operation, params)
}

// StartBillingSpan starts a span around a billing operation ex billing.change_plan
func (s *Service) StartBillingSpan(ctx context.Context, operation string, params map[string]interface{}) (*sentry.Span, context.Context) {
	return s.startSpan(ctx, "billing", "billing."+operation, params)
}

func (s *Service) startSpan(ctx context.Context, op, name string, params map[string]interface{}) (*sentry.Span, context.Context) {
	if !s.cfg.Sentry.Enabled {
		return nil, ctx
	}

	span := sentry.StartSpan(ctx, op)
	span.Description = name
	if tenantID := types.GetTenantID(ctx); tenantID != "" {
		span.SetTag("tenant_id", tenantID)
	}
	for k, v := range params {
		span.SetData(k, v)
	}
	return span, span.Context()
}

// FinishSpan sets the span status from err and finishes it. Rejected input is
// reported as invalid argument so only failures count as internal errors.
// A nil span is ignored.
func FinishSpan(span *sentry.Span, err error) {
	if span == nil {
		return
	}

	switch {
	case err == nil:
		span.Status = sentry.SpanStatusOK
	case ierr.IsNotFound(err):
		span.Status = sentry.SpanStatusNotFound
	case ierr.IsVersionConflict(err):
		span.Status = sentry.SpanStatusAborted
	case ierr.IsValidation(err), ierr.IsInvalidOperation(err), ierr.IsBillingInput(err):
		span.Status = sentry.SpanStatusInvalidArgument
	default:
		span.Status = sentry.SpanStatusInternalError
	}
	if err != nil {
		span.SetData("error_code", ierr.CodeFromErr(err))
	}
	span.Finish()
}
