package echo

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/tenauth/tenauth/errors"
	"github.com/tenauth/tenauth/middleware"
	"github.com/tenauth/tenauth/services"
)

// API holds the HTTP handlers and their service dependencies.
type API struct {
	auth       *services.AuthService
	federation *services.FederationService
	users      *services.UserService
	tenants    *services.TenantService
	tokens     *services.TokenService
	healthy    func(ctx echo.Context) error

	// Where the browser lands after a federated login.
	postLoginRedirect string
	// Where the browser lands when the provider reports an error.
	loginFailureRedirect string
}

type Config struct {
	PostLoginRedirect    string
	LoginFailureRedirect string
}

func NewAPI(
	auth *services.AuthService,
	federation *services.FederationService,
	users *services.UserService,
	tenants *services.TenantService,
	tokens *services.TokenService,
	healthy func(ctx echo.Context) error,
	cfg Config,
) *API {
	if cfg.PostLoginRedirect == "" {
		cfg.PostLoginRedirect = "/"
	}
	if cfg.LoginFailureRedirect == "" {
		cfg.LoginFailureRedirect = "/login"
	}
	return &API{
		auth:                 auth,
		federation:           federation,
		users:                users,
		tenants:              tenants,
		tokens:               tokens,
		healthy:              healthy,
		postLoginRedirect:    cfg.PostLoginRedirect,
		loginFailureRedirect: cfg.LoginFailureRedirect,
	}
}

// RegisterRoutes mounts every endpoint on e.
func (a *API) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", a.HealthzHandler)

	auth := e.Group("/api/auth")
	auth.POST("/register", a.RegisterHandler)
	auth.POST("/login", a.LoginHandler)
	auth.POST("/logout", a.LogoutHandler)
	auth.GET("/:provider", a.FederationStartHandler)
	auth.GET("/:provider/callback", a.FederationCallbackHandler)

	authed := middleware.RequireAuth(a.tokens)
	auth.POST("/token", a.MintTokenHandler, authed)

	user := e.Group("/api/user", authed)
	user.GET("/me", a.CurrentUserHandler)
	user.GET("/tenants", a.ListOwnTenantsHandler)
	user.GET("", a.ListUsersHandler)
	user.GET("/:id", a.GetUserHandler)
	user.GET("/:id/tenants", a.ListUserTenantsHandler)

	tenant := e.Group("/api/tenant", authed)
	tenant.POST("", a.CreateTenantHandler)
	tenant.GET("/:id", a.GetTenantHandler)
	tenant.GET("/:id/members", a.ListTenantMembersHandler)
	tenant.POST("/:id/members", a.AddTenantMemberHandler)
	tenant.DELETE("/:id/members", a.RemoveTenantMemberHandler)
}

// HealthzHandler reports liveness plus store connectivity.
func (a *API) HealthzHandler(c echo.Context) error {
	if a.healthy != nil {
		if err := a.healthy(c); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// errorJSON maps a service error onto its status and client-safe message.
func errorJSON(c echo.Context, err error) error {
	return c.JSON(apperrors.HTTPStatus(err), echo.Map{"error": apperrors.Message(err)})
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.SessionTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
