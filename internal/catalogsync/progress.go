package catalogsync

import (
	"sync"
)

// Stage describes where an in-flight sync currently is.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageDownloading Stage = "downloading"
	StageParsing     Stage = "parsing"
	StageImporting   Stage = "importing"
	StageCompleted   Stage = "completed"
	StageError       Stage = "error"
)

// Snapshot is a point-in-time copy of sync progress, safe to hand to
// callers while the run keeps mutating the tracker.
type Snapshot struct {
	Stage     Stage  `json:"stage"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Message   string `json:"message,omitempty"`
}

// Tracker is the single live progress record for the process. There is
// exactly one instance, owned by the coordinator; everyone else sees
// snapshots. Total stays 0 while the row count is still unknown.
type Tracker struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Stage: StageIdle}}
}

// Reset puts the tracker at the start of a fresh run.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = Snapshot{Stage: StageIdle}
}

func (t *Tracker) SetStage(stage Stage, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Stage = stage
	t.snap.Message = message
}

func (t *Tracker) SetProgress(processed, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Processed = processed
	if total > 0 {
		t.snap.Total = total
	}
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}
