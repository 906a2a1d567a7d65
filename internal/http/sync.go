package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stockroom/internal/catalogsync"
	"stockroom/internal/database"
)

// SyncController exposes the manual sync trigger and status polling.
type SyncController struct {
	coordinator *catalogsync.Coordinator
	db          *database.Database
}

func NewSyncController(coordinator *catalogsync.Coordinator, db *database.Database) *SyncController {
	return &SyncController{coordinator: coordinator, db: db}
}

// Trigger handles POST /api/admin/sync. It always answers immediately:
// 200 when a background run was started, 409 when one is already in
// flight. The eventual outcome is only visible via Status.
func (sc *SyncController) Trigger(c *gin.Context) {
	result, err := sc.coordinator.TriggerManual()
	if errors.Is(err, catalogsync.ErrSyncInProgress) {
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"error":     "Import already in progress",
			"isRunning": true,
			"progress":  result.Progress,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Import started in background",
		"isRunning": true,
		"progress":  result.Progress,
	})
}

// Status handles GET /api/admin/sync/status.
func (sc *SyncController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, sc.coordinator.Status())
}

// History handles GET /api/admin/sync/history and returns recent run logs.
func (sc *SyncController) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 20
	}

	logs, err := sc.db.RecentSyncLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sync history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
