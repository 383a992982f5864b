package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/auth"
)

// TokenVerifier validates an Authorization header value.  *auth.Verifier
// implements it.
type TokenVerifier interface {
	Verify(ctx context.Context, header string) (*auth.Claims, error)
}

// Guard returns a route middleware that verifies the bearer token and then
// requires the permission for the request's method on resource, e.g.
// "put:actors" for a PUT on an actors route.  On success the claims are
// stored in the context for later middleware.  Failures are returned as
// auth sentinel errors for the HTTP error handler to map.
func Guard(v TokenVerifier, resource string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			required, err := auth.Permission(c.Request().Method, resource)
			if err != nil {
				return echo.ErrMethodNotAllowed
			}

			claims, err := v.Verify(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			if err := auth.CheckPermission(required, claims); err != nil {
				return err
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}
