package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
)

func claimsOrError(c echo.Context) (*domain.SessionClaims, error) {
	claims, ok := domain.ClaimsFromContext(c.Request().Context())
	if !ok {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	return claims, nil
}

// CurrentUserHandler returns the caller's own account.
func (a *API) CurrentUserHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	account, err := a.users.GetCurrentAccount(c.Request().Context(), claims)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// ListUsersHandler returns every account. Super-admin only.
func (a *API) ListUsersHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	accounts, err := a.users.ListAccounts(c.Request().Context(), claims)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toAccountResponse(account))
	}
	return c.JSON(http.StatusOK, out)
}

// GetUserHandler returns one account, self or super-admin.
func (a *API) GetUserHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	account, err := a.users.GetAccount(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// ListOwnTenantsHandler returns the tenants the caller belongs to.
func (a *API) ListOwnTenantsHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	tenants, err := a.users.ListAccountTenants(c.Request().Context(), claims, claims.AccountID)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]tenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		out = append(out, toTenantResponse(tenant))
	}
	return c.JSON(http.StatusOK, out)
}

// ListUserTenantsHandler returns the tenants the account belongs to.
func (a *API) ListUserTenantsHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	tenants, err := a.users.ListAccountTenants(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]tenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		out = append(out, toTenantResponse(tenant))
	}
	return c.JSON(http.StatusOK, out)
}
