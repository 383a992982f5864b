package middleware

// identity.go holds the helpers that read the caller identity stored by
// Guard.  Requests that have not passed Guard are reported as "anon".

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/auth"
)

const claimsKey = "claims"

// ClaimsFrom returns the verified claims stored by Guard, or nil.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

// subject returns the token subject for rate limit keys.
func subject(c echo.Context) string {
	if claims := ClaimsFrom(c); claims != nil && claims.Subject != "" {
		return claims.Subject
	}
	return "anon"
}
