package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jeyfredc/ApiInscripcionMaterias/internal/auth"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/catalog"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/config"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/db"
	httpx "github.com/jeyfredc/ApiInscripcionMaterias/internal/http"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/observability"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/security"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// A weak or missing signing secret must stop the process here, long
	// before the first login request.
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	jwtManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenTTL)

	if err != nil {
		log.Error("jwt manager setup failed", "err", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	seedCtx, cancelSeed := config.WithTimeout(10 * time.Second)

	if err := db.EnsureAdminAccount(seedCtx, pool, cfg, security.NewHasher(cfg.BcryptCost)); err != nil {
		log.Error("admin bootstrap failed", "err", err)
	}
	cancelSeed()

	// tracing is opt-in
	if cfg.OtelEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "enrollment-api", cfg.OtelEndpoint)

		if err != nil {
			log.Error("tracer setup failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	// catalog cache: Redis when configured, in-process otherwise
	var cache catalog.Cache = catalog.NewMemoryCache(cfg.CatalogCacheTTL)

	if cfg.RedisAddr != "" {
		redisCache := catalog.NewRedisCache(catalog.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.CatalogCacheTTL, log)

		pingCtx, cancel := config.WithTimeout(2 * time.Second)
		err = redisCache.Ping(pingCtx)
		cancel()

		if err != nil {
			log.Warn("redis unreachable, using in-process catalog cache", "err", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	router := httpx.NewRouter(log, cfg, pool, reg, prom, jwtManager, cache)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
