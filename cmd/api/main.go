package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/career-rpg/internal/activity"
	"github.com/jwebster45206/career-rpg/internal/config"
	"github.com/jwebster45206/career-rpg/internal/handlers"
	"github.com/jwebster45206/career-rpg/internal/logger"
	"github.com/jwebster45206/career-rpg/internal/services"
	"github.com/jwebster45206/career-rpg/internal/storage"
	"github.com/jwebster45206/career-rpg/pkg/gameconfig"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	gameCfg, err := gameconfig.Load(cfg.GameConfigPath)
	if err != nil {
		log.Error("Failed to load game config", "error", err, "path", cfg.GameConfigPath)
		os.Exit(1)
	}
	for _, problem := range gameCfg.Validate() {
		log.Warn("Game config problem", "problem", problem)
	}

	providerName := gameCfg.LLM.Provider
	if cfg.LLMProvider != "" {
		providerName = cfg.LLMProvider
	}
	modelName := gameCfg.LLM.Model
	if cfg.LLMModel != "" {
		modelName = cfg.LLMModel
	}

	log.Info("Starting Career RPG API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", providerName,
		"model_name", modelName)

	// Rule classes keep working without a provider, so this is not fatal
	provider, err := services.NewProvider(providerName, modelName, log)
	if err != nil {
		log.Error("LLM provider unavailable, llm classes will fail and hybrid classes fall back",
			"error", err,
			"provider", providerName)
	}

	local := services.NewResponseCacheWithSettings(cfg.CacheTTL, cfg.CacheMaxEntries)
	var cache services.Cache = local
	if cfg.RedisURL != "" {
		redisCache, err := services.NewRedisCache(cfg.RedisURL, cfg.CacheTTL, log)
		if err != nil {
			log.Error("Invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		defer func() { _ = redisCache.Close() }()

		waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Minute)
		if err := redisCache.WaitForConnection(waitCtx, 30, 2*time.Second); err != nil {
			log.Warn("Redis unavailable, continuing with the local cache tier only", "error", err)
		}
		waitCancel()
		cache = services.NewTieredCache(local, redisCache)
	}

	var recorder handlers.UsageRecorder
	if cfg.UsageDBPath != "" {
		usage, err := storage.Open(cfg.UsageDBPath)
		if err != nil {
			log.Error("Failed to open usage log", "error", err, "path", cfg.UsageDBPath)
			os.Exit(1)
		}
		defer func() { _ = usage.Close() }()
		recorder = usage
		log.Info("Recording dialog usage", "path", cfg.UsageDBPath)
	}

	npcEngine := activity.NewNPCEngine(gameCfg, provider, cache, log)

	router := handlers.NewRouter(handlers.Routes{
		Health: handlers.NewHealthHandler(cache, provider, log),
		NPCs:   handlers.NewNPCListHandler(gameCfg, log),
		Dialog: handlers.NewDialogHandler(npcEngine, recorder, log),
	}, log)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Provider calls can take a while; the engine bounds them itself
		WriteTimeout: activity.ProviderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
