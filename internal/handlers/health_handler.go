package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kuesioner-tools/survey_backend/internal/database"
)

// HealthHandler handles health check endpoints
// #INTEGRATION_POINT: Used by load balancers and orchestrators
type HealthHandler struct {
	dbClient  *database.Client
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dbClient *database.Client, version string) *HealthHandler {
	return &HealthHandler{
		dbClient:  dbClient,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

// Health handles GET /health
// @Summary Health check
// @Description Returns service health including database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Database: "connected",
	}

	if err := h.dbClient.HealthCheck(c.Request.Context()); err != nil {
		response.Status = "unhealthy"
		response.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Liveness handles GET /health/live
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/health/live", h.Liveness)
}
