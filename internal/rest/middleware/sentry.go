package middleware

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/rentshop/billing/internal/config"
	"github.com/rentshop/billing/internal/types"
)

// SentryMiddleware gives every request its own sentry hub. With sentry
// disabled it only passes the request on.
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryScopeMiddleware tags the request hub with the request id and route so
// billing spans and captured errors can be matched to the API call. It must run
// after SentryMiddleware and RequestIDMiddleware.
func SentryScopeMiddleware(c *gin.Context) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		scope := hub.Scope()
		scope.SetTag("request_id", types.GetRequestID(c.Request.Context()))
		scope.SetTag("route", c.FullPath())
	}
	c.Next()
}
