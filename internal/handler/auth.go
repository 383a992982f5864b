package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/config"
)

// Login returns a handler for GET /login that redirects the browser to the
// identity provider's authorize endpoint using the implicit flow.  Tokens
// come back to the configured callback URL in the fragment.
func Login(cfg config.AuthConfig) echo.HandlerFunc {
	u := url.URL{Scheme: "https", Host: cfg.Domain, Path: "/authorize"}
	u.RawQuery = url.Values{
		"audience":      {cfg.Audience},
		"response_type": {"token"},
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {cfg.CallbackURL},
	}.Encode()
	target := u.String()

	return func(c echo.Context) error {
		return c.Redirect(http.StatusFound, target)
	}
}

// LoginResults is the landing page after a successful login.
func LoginResults(c echo.Context) error {
	return c.String(http.StatusOK, "login successfully")
}
