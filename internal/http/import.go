package http

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"stockroom/internal/catalogsync"
	"stockroom/internal/database"
)

// ImportController handles spreadsheet uploads and import statistics.
type ImportController struct {
	coordinator *catalogsync.Coordinator
	db          *database.Database
}

func NewImportController(coordinator *catalogsync.Coordinator, db *database.Database) *ImportController {
	return &ImportController{coordinator: coordinator, db: db}
}

// Import handles POST /api/admin/import-products. The upload is written
// to a temp file which is removed after the import returns, whatever the
// outcome.
func (ic *ImportController) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only Excel files are allowed"})
		return
	}

	tmp, err := os.CreateTemp("", "stockroom-import-*"+ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := c.SaveUploadedFile(file, tmp.Name()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	run, err := ic.coordinator.ImportFile(tmp.Name())
	if errors.Is(err, catalogsync.ErrSyncInProgress) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Import already in progress",
		})
		return
	}

	if !run.Success {
		c.JSON(http.StatusInternalServerError, run)
		return
	}
	c.JSON(http.StatusOK, run)
}

// Stats handles GET /api/admin/import-stats.
func (ic *ImportController) Stats(c *gin.Context) {
	total, err := ic.db.CountProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get import statistics"})
		return
	}
	inStock, err := ic.db.CountInStock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get import statistics"})
		return
	}
	localStock, err := ic.db.CountLocalStock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get import statistics"})
		return
	}
	lastSync, err := ic.db.LastSyncedAt()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get import statistics"})
		return
	}

	resp := gin.H{
		"totalProducts":   total,
		"inStockCount":    inStock,
		"localStockCount": localStock,
	}
	if lastSync != nil {
		resp["lastSync"] = lastSync
	} else {
		resp["lastSync"] = nil
	}

	c.JSON(http.StatusOK, resp)
}
