package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"animeverse/internal/anime"
	"animeverse/internal/cache"
	"animeverse/internal/logger"
	"animeverse/internal/provider"
	"animeverse/internal/ratelimit"
	"animeverse/internal/search"
	synchub "animeverse/internal/sync"
	"animeverse/internal/watchlist"
	"animeverse/pkg/database"
	"animeverse/pkg/utils"
)

const version = "3.0.0"

func main() {
	lg := logger.New()

	cfg, err := utils.Load()
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to load config")
	}

	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		lg.Fatal().Err(err).Msg("db migrate failed")
	}

	store := cache.NewStore(db, lg)
	limiter := ratelimit.New(cfg.RateLimitInterval)
	consumet := provider.NewConsumet(cfg, store, limiter, lg)
	jikan := provider.NewJikan(cfg, limiter, lg)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(corsMiddleware(), requestIDMiddleware())

	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub, lg))

	api := router.Group("/api")

	api.GET("/health", healthHandler)

	orch := search.NewOrchestrator(consumet, jikan, limiter, cfg.DefaultProvider, cfg.BackupProviders, lg)
	search.NewHandler(orch).RegisterRoutes(api)

	anime.NewHandler(consumet, jikan).RegisterRoutes(api)

	wlRepo := watchlist.NewRepo(db)
	watchlist.NewHandler(wlRepo, hub).RegisterRoutes(api)

	registerStatic(router, cfg.StaticDir)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", addr).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		lg.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("http shutdown error")
	}
	lg.Info().Msg("server stopped")
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

// corsMiddleware opens the API to any origin, mirroring what browsers
// need for a locally served frontend talking to this gateway.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Header("Access-Control-Allow-Methods", "GET,PUT,POST,DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

// registerStatic serves the SPA when static_dir is configured; unknown
// paths otherwise answer with a JSON 404 like every API route.
func registerStatic(router *gin.Engine, staticDir string) {
	if staticDir == "" {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
		})
		return
	}

	router.StaticFile("/", filepath.Join(staticDir, "index.html"))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.File(filepath.Join(staticDir, filepath.Clean(c.Request.URL.Path)))
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
}
