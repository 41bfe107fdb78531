package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	echoapi "github.com/tenauth/tenauth/api/echo"
	"github.com/tenauth/tenauth/cache"
	redisstore "github.com/tenauth/tenauth/cache/redis"
	"github.com/tenauth/tenauth/config"
	"github.com/tenauth/tenauth/internal/federation"
	"github.com/tenauth/tenauth/internal/password"
	"github.com/tenauth/tenauth/mongodb"
	"github.com/tenauth/tenauth/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer mongodb.Disconnect(ctx, client)
	db := client.Database(cfg.MongoDBName)

	accountRepo, err := mongodb.NewAccountRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize account repository")
	}
	linkRepo, err := mongodb.NewProviderLinkRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider link repository")
	}
	tenantRepo, err := mongodb.NewTenantRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tenant repository")
	}

	states := newLoginStateStore(cfg)
	defer states.Close()

	tokens := services.NewTokenService([]byte(cfg.JWTSecret))
	hasher := password.NewBcryptHasher(password.DefaultCost)
	authSvc := services.NewAuthService(accountRepo, hasher, tokens)
	resolver := services.NewAccountResolver(accountRepo, linkRepo)
	github := federation.NewGitHubProvider(cfg.GithubClientID, cfg.GithubClientSecret)
	federationSvc := services.NewFederationService(states, resolver, tokens, github)
	userSvc := services.NewUserService(accountRepo, tenantRepo)
	tenantSvc := services.NewTenantService(tenantRepo, accountRepo)

	api := echoapi.NewAPI(authSvc, federationSvc, userSvc, tenantSvc, tokens,
		func(c echo.Context) error {
			return mongodb.Ping(c.Request().Context(), client)
		},
		echoapi.Config{
			PostLoginRedirect:    cfg.PostLoginRedirect,
			LoginFailureRedirect: cfg.LoginFailureRedirect,
		},
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	api.RegisterRoutes(e)

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting http server")
		if err := e.Start(":" + cfg.HTTPPort); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}

func initLogger(cfg *config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newLoginStateStore(cfg *config.ServerConfig) cache.LoginStateStore {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryLoginStateStore()
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	log.Info().Str("addr", cfg.RedisAddr).Msg("using redis login state store")
	return redisstore.NewLoginStateStore(client, "tenauth")
}
