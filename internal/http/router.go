package http

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/catalog"
	"stockroom/internal/catalogsync"
	"stockroom/internal/database"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	DB            *database.Database
	Coordinator   *catalogsync.Coordinator
	LookupService *catalog.Service
	Version       string
}

// NewRouter builds the HTTP API. Authentication is handled by an external
// layer in front of this service; the vendor credential travels with each
// lookup request.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = 16 << 20

	health := NewHealthController(cfg.DB, cfg.Version)
	syncCtl := NewSyncController(cfg.Coordinator, cfg.DB)
	importCtl := NewImportController(cfg.Coordinator, cfg.DB)
	lookupCtl := NewLookupController(cfg.LookupService)

	api := router.Group("/api")
	{
		api.GET("/health", health.Status)

		products := api.Group("/products")
		{
			products.POST("/lookup", lookupCtl.Lookup)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/sync", syncCtl.Trigger)
			admin.GET("/sync/status", syncCtl.Status)
			admin.GET("/sync/history", syncCtl.History)
			admin.POST("/import-products", importCtl.Import)
			admin.GET("/import-stats", importCtl.Stats)
		}
	}

	return router
}
