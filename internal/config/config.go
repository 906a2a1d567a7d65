package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Feed
		Vendor
		Sync
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Feed struct {
		URL     string
		Timeout time.Duration
	}
	Vendor struct {
		BaseURL string
	}
	Sync struct {
		Enabled          bool
		Schedule         string // Cron format: "0 0 * * 0" = weekly, Sunday midnight
		LogRetentionDays int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", "./stockroom.db")
	v.SetDefault("feed_url", "https://jdsindustries.com/includes/ajax_request/get_master_data.php")
	v.SetDefault("feed_timeout", "60s")
	v.SetDefault("vendor_api_base_url", "https://api.jdsapp.com")
	v.SetDefault("sync_enabled", true)
	v.SetDefault("sync_schedule", "0 0 * * 0") // Sunday at midnight
	v.SetDefault("sync_log_retention_days", 90)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Feed: Feed{
			URL:     v.GetString("FEED_URL"),
			Timeout: v.GetDuration("FEED_TIMEOUT"),
		},
		Vendor: Vendor{
			BaseURL: v.GetString("VENDOR_API_BASE_URL"),
		},
		Sync: Sync{
			Enabled:          v.GetBool("SYNC_ENABLED"),
			Schedule:         v.GetString("SYNC_SCHEDULE"),
			LogRetentionDays: v.GetInt("SYNC_LOG_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
