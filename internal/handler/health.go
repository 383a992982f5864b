package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is a liveness endpoint used by load balancers and monitoring
// systems.  It returns a plain text "ok" with 200 as long as the process
// serves HTTP.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Check probes one dependency.
type Check func(ctx context.Context) error

// Ready returns a readiness handler that runs every check with a shared
// two second budget.  It answers 200 when all pass and 503 otherwise; the
// body names each dependency as "up" or "down".
func Ready(checks map[string]Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = "down"
				continue
			}
			results[name] = "up"
		}
		return c.JSON(status, envelope{"success": status == http.StatusOK, "checks": results})
	}
}
