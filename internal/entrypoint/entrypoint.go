package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/catalog"
	"stockroom/internal/catalogsync"
	"stockroom/internal/config"
	"stockroom/internal/database"
	"stockroom/internal/feed"
	http_controllers "stockroom/internal/http"
	"stockroom/internal/tasks"
	"stockroom/internal/vendor"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Run wires the service together and blocks until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting stockroom v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	feedClient := feed.NewClientWithTimeout(cfg.Feed.URL, cfg.Feed.Timeout)
	vendorClient := vendor.NewClient(cfg.Vendor.BaseURL)

	coordinator := catalogsync.NewCoordinator(db, feedClient)
	if cfg.Sync.Enabled {
		if err := coordinator.StartSchedule(cfg.Sync.Schedule); err != nil {
			log.Fatalf("Failed to start sync scheduler: %v", err)
		}
	} else {
		log.Printf("[sync] scheduled sync disabled; manual triggers remain available")
	}

	lookupService := catalog.NewService(db, vendorClient)

	// Background task queue for sync history retention.
	var taskClient *tasks.Client
	tasksCtx, tasksCancel := context.WithCancel(context.Background())
	defer tasksCancel()
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		taskClient.Register(tasks.NewCleanupSyncLogsQueue(db))
		go taskClient.Start(tasksCtx)
		go enqueueCleanupDaily(tasksCtx, taskClient, cfg.Sync.LogRetentionDays)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		DB:            db,
		Coordinator:   coordinator,
		LookupService: lookupService,
		Version:       version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if cfg.Sync.Enabled {
			coordinator.StopSchedule()
		}
		if taskClient != nil {
			tasksCancel()
			taskClient.Stop(ctx)
			taskClient.Close()
		}
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	})
}

// Serve runs the HTTP server until an interrupt, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// enqueueCleanupDaily queues the retention task at startup and then once
// a day. backlite deduplicates nothing here, but the task is idempotent.
func enqueueCleanupDaily(ctx context.Context, client *tasks.Client, retentionDays int) {
	enqueue := func() {
		_, err := client.Add(tasks.CleanupSyncLogsTask{RetentionDays: retentionDays}).Save()
		if err != nil {
			log.Printf("[tasks] failed to enqueue sync log cleanup: %v", err)
		}
	}

	enqueue()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueue()
		}
	}
}
