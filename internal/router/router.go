// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/config"
	"github.com/iliyamo/casting-agency/internal/handler"
)

// RegisterRoutes registers the routes that do not require a token: health
// and readiness probes, Prometheus metrics and the login redirect.
func RegisterRoutes(e *echo.Echo, authCfg config.AuthConfig, checks map[string]handler.Check) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(checks))
	e.GET("/metrics", echoprometheus.NewHandler())

	e.GET("/login", handler.Login(authCfg))
	e.GET("/login-results", handler.LoginResults)
}
