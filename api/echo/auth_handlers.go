package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type mintTokenRequest struct {
	ExpirationDays int `json:"expiration"`
}

type accountResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	SuperAdmin bool   `json:"superAdmin"`
}

func toAccountResponse(account *domain.Account) accountResponse {
	return accountResponse{
		ID:         account.ID,
		Email:      account.Email,
		Name:       account.Name,
		SuperAdmin: account.SuperAdmin,
	}
}

// RegisterHandler creates a password account and logs it in immediately.
func (a *API) RegisterHandler(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, apperrors.Validation("invalid request body"))
	}

	account, err := a.auth.Register(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	token, _, err := a.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	setSessionCookie(c, token)
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// LoginHandler verifies a password and sets the session cookie. The token
// is also returned in the body for non-browser clients.
func (a *API) LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, apperrors.Validation("invalid request body"))
	}

	token, account, err := a.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	setSessionCookie(c, token)
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  toAccountResponse(account),
	})
}

// LogoutHandler clears the session cookie. Tokens remain valid until
// expiry; logout only forgets the browser's copy.
func (a *API) LogoutHandler(c echo.Context) error {
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// MintTokenHandler issues a long-lived API token for the authenticated
// caller.
func (a *API) MintTokenHandler(c echo.Context) error {
	claims, ok := domain.ClaimsFromContext(c.Request().Context())
	if !ok {
		return errorJSON(c, apperrors.Unauthenticated("authentication required"))
	}

	var req mintTokenRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, apperrors.Validation("invalid request body"))
	}

	token, err := a.auth.MintAPIToken(c.Request().Context(), claims, req.ExpirationDays)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
