package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	apperrors "github.com/tenauth/tenauth/errors"
)

// callbackURL rebuilds the redirect URL the provider will call back on,
// from the incoming request's scheme and host.
func callbackURL(c echo.Context, provider string) string {
	return c.Scheme() + "://" + c.Request().Host + "/api/auth/" + provider + "/callback"
}

// FederationStartHandler begins a federated login and redirects the
// browser to the provider's authorization page.
func (a *API) FederationStartHandler(c echo.Context) error {
	provider := c.Param("provider")

	authURL, err := a.federation.Start(c.Request().Context(), provider, callbackURL(c, provider))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Redirect(http.StatusFound, authURL)
}

// FederationCallbackHandler finishes a federated login. Provider-reported
// errors (the user canceled, consent denied) bounce back to the login
// page; protocol failures surface as JSON errors.
func (a *API) FederationCallbackHandler(c echo.Context) error {
	provider := c.Param("provider")

	if errParam := c.QueryParam("error"); errParam != "" {
		log.Warn().
			Str("provider", provider).
			Str("error", errParam).
			Msg("provider returned an error on callback")
		return c.Redirect(http.StatusFound, a.loginFailureRedirect)
	}

	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return errorJSON(c, apperrors.Validation("missing state or code"))
	}

	token, _, err := a.federation.Callback(c.Request().Context(), provider, state, code)
	if err != nil {
		return errorJSON(c, err)
	}

	setSessionCookie(c, token)
	return c.Redirect(http.StatusFound, a.postLoginRedirect)
}
