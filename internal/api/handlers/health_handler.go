package handlers

import (
	"net/http"
	"time"

	"user-service/internal/infrastructure/database"
	interfaces "user-service/internal/interfaces/infrastructure"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db      *gorm.DB
	cache   interfaces.UserCache
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, cache interfaces.UserCache, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		version: version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Connected to the database!"})
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	services, healthy := h.checkServices(c)

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
		Services:  services,
	}

	status := http.StatusOK
	if !healthy {
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	_, healthy := h.checkServices(c)

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"ready":     healthy,
		"timestamp": time.Now(),
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"timestamp": time.Now(),
	})
}

func (h *HealthHandler) checkServices(c *gin.Context) (map[string]string, bool) {
	services := make(map[string]string)
	healthy := true

	if err := database.HealthCheck(h.db); err != nil {
		services["database"] = "unhealthy"
		healthy = false
	} else {
		services["database"] = "healthy"
	}

	if err := h.cache.Ping(c.Request.Context()); err != nil {
		services["cache"] = "unhealthy"
		healthy = false
	} else {
		services["cache"] = "healthy"
	}

	return services, healthy
}
