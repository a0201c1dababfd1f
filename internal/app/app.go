// Package app provides application-level wiring and dependency injection
// for the trends-gateway service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-redis/redis/v8"

	"trends-gateway/internal/api"
	"trends-gateway/internal/auth"
	"trends-gateway/internal/bigquery"
	"trends-gateway/internal/cache"
	"trends-gateway/internal/config"
	"trends-gateway/internal/service"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// config, the logger, and the outbound HTTP client.
type Deps struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// App holds the fully-wired application.
type App struct {
	Handler *api.Handler
	Tokens  *auth.Provider
	Store   cache.Store
}

// New wires the token cache, auth provider, warehouse client, and API
// handler from the provided deps. A configured Redis address selects the
// Redis-backed token cache; otherwise tokens are cached in process memory.
func New(deps Deps) *App {
	cfg := deps.Cfg

	var store cache.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		store = cache.NewRedis(client)
		deps.Logger.Info("token cache backend", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		store = cache.NewMemory()
		deps.Logger.Info("token cache backend", "backend", "memory")
	}

	tokens := auth.NewProvider(cfg.GCP, store, deps.HTTPClient, deps.Logger.With("component", "auth"))
	warehouse := bigquery.NewClient(cfg.BigQuery, tokens, deps.HTTPClient, deps.Logger.With("component", "bigquery"))
	trends := service.NewTrendsService(warehouse, cfg.BigQuery, deps.Logger.With("component", "trends"))
	handler := api.NewHandler(trends, deps.Logger.With("component", "api"))

	return &App{
		Handler: handler,
		Tokens:  tokens,
		Store:   store,
	}
}
