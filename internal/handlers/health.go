package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/career-rpg/internal/services"
)

const serviceName = "career-rpg"

type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Service    string                 `json:"service"`
	Components map[string]interface{} `json:"components"`
}

type cacheStatsReporter interface {
	Stats() services.CacheStats
}

type HealthHandler struct {
	cache    services.Cache
	provider services.Provider
	logger   *slog.Logger
}

// NewHealthHandler reports on the cache tier and the LLM provider.
// provider may be nil when the API runs without one.
func NewHealthHandler(cache services.Cache, provider services.Provider, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		cache:    cache,
		provider: provider,
		logger:   logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]interface{})
	overallStatus := "healthy"

	// Test cache connection
	if err := h.cache.Ping(ctx); err != nil {
		h.logger.Warn("Cache health check failed", "error", err)
		components["cache"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["cache"] = "healthy"
	}
	if sr, ok := h.cache.(cacheStatsReporter); ok {
		components["cache_stats"] = sr.Stats()
	}

	// A missing provider only limits llm classes; rule classes keep working
	if h.provider != nil {
		components["provider"] = map[string]interface{}{
			"status": "configured",
			"name":   h.provider.Name(),
		}
	} else {
		components["provider"] = map[string]interface{}{
			"status": "not configured",
		}
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    serviceName,
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
	}
}
