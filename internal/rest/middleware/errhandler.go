package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/sentry"
	"github.com/rentshop/billing/internal/types"
)

// ErrorHandler renders the last error attached to the gin context. Server side
// failures are logged and reported to sentry, client errors are returned as is.
func ErrorHandler(logger *logger.Logger, sentryService *sentry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"error", err)
			sentryService.CaptureException(c.Request.Context(), err)
		}

		c.JSON(status, ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Message:       getDisplayMessage(err),
				InternalError: ierr.CodeFromErr(err),
				Status:        status,
				Details:       getSafeDetails(err),
			},
			RequestID: types.GetRequestID(c.Request.Context()),
		})
	}
}

func getDisplayMessage(err error) string {
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		// Get the first non-empty hint - GetAllHints is post-order traversal
		for _, hint := range hints {
			if hint = strings.TrimSpace(hint); hint != "" {
				return hint
			}
		}
	}

	return "An unexpected error occurred"
}

func getSafeDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			jsonStr, ok := strings.CutPrefix(payload, "__json__:")
			if !ok {
				continue
			}

			var jsonDetails map[string]any
			if err := json.Unmarshal([]byte(jsonStr), &jsonDetails); err != nil {
				continue
			}
			for k, v := range jsonDetails {
				details[k] = v
			}
		}
	}

	return details
}
