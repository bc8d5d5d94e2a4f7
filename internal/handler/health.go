package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsapi/internal/middleware"
	"github.com/deppfellow/newsapi/internal/server"
)

const healthCheckTimeout = 5 * time.Second

// Pinger is the part of the pool the health check uses.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service is up and its database reachable.
type HealthHandler struct {
	Handler
	db Pinger
}

func NewHealthHandler(s *server.Server, db Pinger) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		db:      db,
	}
}

// CheckHealth answers 200 when the database responds to a ping and 503
// otherwise. Failures are also recorded as a New Relic custom event.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	dbStart := time.Now()
	err := h.db.Ping(ctx)
	dbElapsed := time.Since(dbStart)

	if err != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": dbElapsed.String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", dbElapsed).
			Msg("database health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":       "database",
					"operation":        "health_check",
					"error_type":       "database_unhealthy",
					"response_time_ms": dbElapsed.Milliseconds(),
					"error_message":    err.Error(),
				},
			)
		}

		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["database"] = map[string]interface{}{
		"status":        "healthy",
		"response_time": dbElapsed.String(),
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}
