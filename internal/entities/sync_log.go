package entities

import (
	"time"
)

type SyncTrigger string

const (
	SyncTriggerScheduled SyncTrigger = "scheduled"
	SyncTriggerManual    SyncTrigger = "manual"
	SyncTriggerUpload    SyncTrigger = "upload"
)

// SyncLog is one completed (or failed) synchronization run, kept as
// durable history. The in-flight run is tracked in memory only.
type SyncLog struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Trigger    SyncTrigger `gorm:"size:20" json:"trigger"`
	Success    bool        `json:"success"`
	Total      int         `json:"total"`
	Created    int         `json:"created"`
	Updated    int         `json:"updated"`
	Failed     int         `json:"failed"`
	Message    string      `gorm:"type:text" json:"message"`
	Error      string      `gorm:"type:text" json:"error,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}

func (SyncLog) TableName() string {
	return "sync_logs"
}
