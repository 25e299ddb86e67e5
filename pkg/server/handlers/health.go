package handlers

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	lawsearch "github.com/jkim999/lawyer-search-engine"
	"github.com/jkim999/lawyer-search-engine/pkg/search"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	engine lawsearch.Engine
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(engine lawsearch.Engine) *HealthHandler {
	return &HealthHandler{
		engine: engine,
	}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "lawsearch",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live - Kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// ReadinessCheck handles GET /ready - verifies the corpus is queryable
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ready",
		"service":   "lawsearch",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.engine == nil {
		response["status"] = "not_ready"
		response["error"] = "engine not initialized"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	// Run a cheap structured query to prove the database answers.
	start := time.Now()
	_, err := h.engine.Search(c.Request.Context(), "lawyers named readiness-probe", nil)
	duration := time.Since(start)

	if err != nil && !errors.Is(err, search.ErrCorpusNotEmbedded) {
		response["status"] = "not_ready"
		response["error"] = err.Error()
		response["duration"] = duration.String()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response["duration"] = duration.String()
	c.JSON(http.StatusOK, response)
}
