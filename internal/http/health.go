package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/database"
)

// HealthController answers liveness probes with a database round-trip.
// The catalog cannot serve anything without its store, so an unreachable
// database degrades the whole service to 503.
type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status handles GET /api/health.
func (h *HealthController) Status(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"version": h.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.pingDatabase(); err != nil {
		resp["status"] = "unhealthy"
		resp["database"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	resp["database"] = "ok"
	c.JSON(http.StatusOK, resp)
}

func (h *HealthController) pingDatabase() error {
	if h.db == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
