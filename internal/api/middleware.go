package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/planner"
	"alcyxob/trainer-ai/internal/service"
	"alcyxob/trainer-ai/internal/warehouse"
)

// RequestLogger logs one line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
		}
		if clientID := c.Param("clientId"); clientID != "" {
			attrs = append(attrs, "client_id", clientID)
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", attrs...)
		case status >= http.StatusBadRequest:
			log.Warn("request rejected", attrs...)
		default:
			log.Debug("request served", attrs...)
		}
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// statusFor maps the error taxonomy to HTTP status codes. A plan that
// failed validation is also a malformed plan, so that case is checked first.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrMalformedPlan):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrWorkoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, warehouse.ErrConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts with the mapped status. Internal errors are logged and
// their detail is not sent to the caller.
func respondError(c *gin.Context, log *slog.Logger, err error, action string) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error(action+" failed", "path", c.FullPath(), "error", err)
		abortWithError(c, code, "Failed to "+action+".")
		return
	}
	abortWithError(c, code, err.Error())
}

// parseDate accepts YYYY-MM-DD. An empty value yields the zero time, which
// the services replace with today.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, value)
}
