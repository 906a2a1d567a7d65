package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"stockroom/internal/entities"
	"stockroom/internal/feed"
)

// ErrSyncInProgress signals that a trigger was refused because a run is
// already in flight. Callers get the current progress alongside it.
var ErrSyncInProgress = errors.New("sync already in progress")

// Downloader fetches the bulk feed. Satisfied by *feed.Client.
type Downloader interface {
	Download(ctx context.Context) (io.ReadCloser, error)
}

// SyncStore is what the coordinator needs from the database: the
// reconciler's upsert plus durable run history.
type SyncStore interface {
	Store
	SaveSyncLog(entry *entities.SyncLog) error
}

// Run is one finished sync execution. Immutable once recorded.
type Run struct {
	Trigger    entities.SyncTrigger `json:"trigger"`
	Success    bool                 `json:"success"`
	Total      int                  `json:"total"`
	Created    int                  `json:"imported"`
	Updated    int                  `json:"updated"`
	Failed     int                  `json:"errors"`
	Message    string               `json:"message,omitempty"`
	Error      string               `json:"error,omitempty"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
}

// TriggerResult is the immediate answer to a manual trigger; the run
// itself proceeds in the background.
type TriggerResult struct {
	Started  bool
	Progress Snapshot
}

// Status answers the polling endpoint. Progress is nil when idle.
type Status struct {
	IsRunning bool      `json:"isRunning"`
	LastRun   *Run      `json:"lastResult"`
	Progress  *Snapshot `json:"progress"`
}

// Coordinator owns the single-flight guard, the progress tracker and the
// last-result slot. Scheduled and manual runs funnel through the same
// guard: whoever fails the try-lock is skipped or told "conflict", never
// queued.
type Coordinator struct {
	store      SyncStore
	downloader Downloader
	reconciler *Reconciler
	tracker    *Tracker
	cron       *cron.Cron

	mu      sync.Mutex
	running bool
	lastRun *Run
}

func NewCoordinator(store SyncStore, downloader Downloader) *Coordinator {
	return &Coordinator{
		store:      store,
		downloader: downloader,
		reconciler: NewReconciler(store),
		tracker:    NewTracker(),
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// StartSchedule begins periodic syncs on the given cron schedule
// (typically weekly). A tick that fires while any run is in flight is
// logged and dropped.
func (c *Coordinator) StartSchedule(schedule string) error {
	_, err := c.cron.AddFunc(schedule, func() {
		if !c.tryBegin() {
			log.Printf("[sync] scheduled run skipped: sync already in progress")
			return
		}
		c.runGuarded(entities.SyncTriggerScheduled)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}

	c.cron.Start()
	log.Printf("[sync] scheduled feed sync with %q", schedule)
	return nil
}

// StopSchedule stops the cron scheduler and waits for a tick-started run
// currently executing inside cron to return.
func (c *Coordinator) StopSchedule() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

// TriggerManual starts a sync in the background and returns immediately.
// If a run is already in flight it returns ErrSyncInProgress together with
// that run's progress, and starts nothing.
func (c *Coordinator) TriggerManual() (TriggerResult, error) {
	if !c.tryBegin() {
		return TriggerResult{Progress: c.tracker.Snapshot()}, ErrSyncInProgress
	}

	go c.runGuarded(entities.SyncTriggerManual)

	return TriggerResult{Started: true, Progress: c.tracker.Snapshot()}, nil
}

// ImportFile reconciles an uploaded spreadsheet synchronously. It shares
// the single-flight guard with feed syncs: at most one run of any kind is
// in flight.
func (c *Coordinator) ImportFile(path string) (*Run, error) {
	if !c.tryBegin() {
		return nil, ErrSyncInProgress
	}

	run := c.newRun(entities.SyncTriggerUpload)
	defer c.finish(run)

	c.tracker.SetStage(StageParsing, "Reading uploaded spreadsheet...")
	rows, err := feed.OpenWorkbook(path)
	if err != nil {
		c.fail(run, err)
		return run, nil
	}
	defer rows.Close()

	c.reconcileRows(run, rows)
	return run, nil
}

// Status reports the guard state, the last completed run and, while a run
// is in flight, its live progress.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status{
		IsRunning: c.running,
		LastRun:   c.lastRun,
	}
	if c.running {
		snap := c.tracker.Snapshot()
		status.Progress = &snap
	}
	return status
}

// Progress returns the current progress snapshot regardless of guard state.
func (c *Coordinator) Progress() Snapshot {
	return c.tracker.Snapshot()
}

// tryBegin acquires the in-flight guard without blocking. On success the
// tracker has been reset for the new run.
func (c *Coordinator) tryBegin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	c.running = true
	c.tracker.Reset()
	return true
}

// runGuarded executes a full feed sync. The guard is held on entry and is
// released on every exit path, including panics: a failed run must not
// leave the coordinator stuck "running".
func (c *Coordinator) runGuarded(trigger entities.SyncTrigger) {
	run := c.newRun(trigger)
	defer func() {
		if r := recover(); r != nil {
			c.fail(run, fmt.Errorf("panic during sync: %v", r))
		}
		c.finish(run)
	}()

	ctx := context.Background()

	c.tracker.SetStage(StageDownloading, "Downloading master data feed...")
	body, err := c.downloader.Download(ctx)
	if err != nil {
		c.fail(run, err)
		return
	}
	defer body.Close()

	c.tracker.SetStage(StageParsing, "Parsing feed...")
	rows, err := feed.NewCSVReader(body)
	if err != nil {
		c.fail(run, err)
		return
	}

	c.reconcileRows(run, rows)
}

func (c *Coordinator) reconcileRows(run *Run, rows *feed.RowReader) {
	c.tracker.SetStage(StageImporting, "Importing products...")
	result, err := c.reconciler.Reconcile(RowSource(rows), c.tracker)

	run.Total = result.Total
	run.Created = result.Created
	run.Updated = result.Updated
	run.Failed = result.Failed

	if err != nil {
		c.fail(run, err)
		return
	}

	run.Success = true
	run.Message = fmt.Sprintf("%s in %s", result.Summary(),
		time.Since(run.StartedAt).Round(time.Millisecond))

	c.tracker.SetProgress(result.Total, result.Total)
	c.tracker.SetStage(StageCompleted, run.Message)
	log.Printf("[sync] %s", run.Message)
}

func (c *Coordinator) newRun(trigger entities.SyncTrigger) *Run {
	return &Run{Trigger: trigger, StartedAt: time.Now()}
}

func (c *Coordinator) fail(run *Run, err error) {
	run.Success = false
	run.Error = err.Error()
	run.Message = "Sync failed: " + err.Error()
	c.tracker.SetStage(StageError, err.Error())
	log.Printf("[sync] run failed: %v", err)
}

// finish stamps the run, persists it to sync history, publishes it as the
// last result and releases the guard.
func (c *Coordinator) finish(run *Run) {
	run.FinishedAt = time.Now()

	entry := &entities.SyncLog{
		Trigger:    run.Trigger,
		Success:    run.Success,
		Total:      run.Total,
		Created:    run.Created,
		Updated:    run.Updated,
		Failed:     run.Failed,
		Message:    run.Message,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	if err := c.store.SaveSyncLog(entry); err != nil {
		log.Printf("[sync] failed to store sync log: %v", err)
	}

	c.mu.Lock()
	c.lastRun = run
	c.running = false
	c.mu.Unlock()
}
