package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
)

type createTenantRequest struct {
	Name       string `json:"name"`
	AdminEmail string `json:"adminEmail"`
}

// Membership changes address accounts by email, matching how admins know
// their users.
type memberRequest struct {
	Email string `json:"email"`
}

type tenantResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	AdminID   string   `json:"adminId"`
	MemberIDs []string `json:"memberIds"`
}

func toTenantResponse(tenant *domain.Tenant) tenantResponse {
	return tenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		AdminID:   tenant.AdminID,
		MemberIDs: tenant.MemberIDs,
	}
}

// CreateTenantHandler creates a tenant. Super-admin only.
func (a *API) CreateTenantHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req createTenantRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, apperrors.Validation("invalid request body"))
	}

	tenant, err := a.tenants.CreateTenant(c.Request().Context(), claims, req.Name, req.AdminEmail)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, toTenantResponse(tenant))
}

// GetTenantHandler returns a tenant visible to the caller.
func (a *API) GetTenantHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	tenant, err := a.tenants.GetTenant(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, toTenantResponse(tenant))
}

// ListTenantMembersHandler returns the tenant's member accounts.
func (a *API) ListTenantMembersHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	members, err := a.tenants.ListMembers(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]accountResponse, 0, len(members))
	for _, member := range members {
		out = append(out, toAccountResponse(member))
	}
	return c.JSON(http.StatusOK, out)
}

// AddTenantMemberHandler adds the account behind the given email to the
// tenant.
func (a *API) AddTenantMemberHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req memberRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return errorJSON(c, apperrors.Validation("member email is required"))
	}

	if err := a.tenants.AddMember(c.Request().Context(), claims, c.Param("id"), req.Email); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveTenantMemberHandler removes the account behind the given email
// from the tenant.
func (a *API) RemoveTenantMemberHandler(c echo.Context) error {
	claims, err := claimsOrError(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req memberRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return errorJSON(c, apperrors.Validation("member email is required"))
	}

	if err := a.tenants.RemoveMember(c.Request().Context(), claims, c.Param("id"), req.Email); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
