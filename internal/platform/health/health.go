// Package health exposes liveness endpoints.
package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/havenstay/service-rental/internal/platform/database"
)

// Handler reports service and database status.
type Handler struct {
	db      *gorm.DB
	service string
}

// NewHandler creates a Handler.
func NewHandler(db *gorm.DB, service string) *Handler {
	return &Handler{db: db, service: service}
}

// RegisterRoutes mounts GET / on root and GET /health on api.
func (h *Handler) RegisterRoutes(root *gin.Engine, api *gin.RouterGroup) {
	root.GET("/", h.Root)
	api.GET("/health", h.Health)
}

// Root handles GET /.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Rental API running"})
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	dbStatus := "connected"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   h.service,
		"dbStatus":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
