package catalogsync

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"

	"stockroom/internal/entities"
	"stockroom/internal/feed"
)

// Batch size bounds memory per flush; the master feed runs to six figures
// of rows.
const defaultBatchSize = 1000

// Store is the slice of the database the reconciler needs.
type Store interface {
	UpsertProduct(p *entities.Product, withStock bool) (created bool, err error)
}

// ProgressSink receives progress updates as batches complete, so a status
// query issued during a run sees live numbers.
type ProgressSink interface {
	SetStage(stage Stage, message string)
	SetProgress(processed, total int)
}

// RecordSource yields canonical product records one at a time. io.EOF ends
// the sequence; a *csv.ParseError is a single malformed row and leaves the
// source usable. Any other error means the stream itself died and the
// sequence is over.
type RecordSource func() (*feed.ProductRecord, error)

// RowSource adapts a feed row reader into a RecordSource, mapping each raw
// row and silently dropping those without a usable SKU.
func RowSource(rows *feed.RowReader) RecordSource {
	return func() (*feed.ProductRecord, error) {
		for {
			row, err := rows.Next()
			if err != nil {
				return nil, err
			}
			rec, ok := feed.MapRow(row)
			if !ok {
				continue
			}
			return rec, nil
		}
	}
}

// Result aggregates one reconcile pass.
type Result struct {
	Total   int
	Created int
	Updated int
	Failed  int
}

// Reconciler upserts canonical records into the store in bounded batches.
type Reconciler struct {
	store     Store
	batchSize int
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store, batchSize: defaultBatchSize}
}

// Reconcile drains the source and upserts every record, classifying each
// as created or updated. Malformed rows and per-record upsert failures are
// counted and logged, never propagated: a bad row must not abort the run.
// A dead stream (connection reset, read timeout) does abort it, carrying
// the counts accumulated so far; retrying row reads against a broken
// stream would loop forever. Running the same feed twice yields zero
// created on the second pass.
func (r *Reconciler) Reconcile(source RecordSource, progress ProgressSink) (Result, error) {
	var result Result

	batch := make([]*feed.ProductRecord, 0, r.batchSize)
	exhausted := false
	var streamErr error

	for !exhausted && streamErr == nil {
		batch = batch[:0]
		for len(batch) < r.batchSize {
			rec, err := source()
			if errors.Is(err, io.EOF) {
				exhausted = true
				break
			}
			var rowErr *csv.ParseError
			if errors.As(err, &rowErr) {
				result.Total++
				result.Failed++
				log.Printf("[sync] unreadable feed row: %v", err)
				continue
			}
			if err != nil {
				streamErr = err
				break
			}
			batch = append(batch, rec)
		}

		for _, rec := range batch {
			result.Total++
			created, err := r.store.UpsertProduct(toProduct(rec), rec.HasStock)
			if err != nil {
				result.Failed++
				log.Printf("[sync] failed to upsert product %s: %v", rec.SKU, err)
				continue
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}

		if progress != nil && len(batch) > 0 {
			progress.SetProgress(result.Total, 0)
			progress.SetStage(StageImporting, fmt.Sprintf("Imported %d products...", result.Total))
		}
	}

	if streamErr != nil {
		var parseErr *feed.ParseError
		if !errors.As(streamErr, &parseErr) {
			streamErr = &feed.ParseError{Err: streamErr}
		}
		return result, streamErr
	}
	return result, nil
}

// Summary renders the human-readable run outcome.
func (r Result) Summary() string {
	return fmt.Sprintf("Processed %d products (%d new, %d updated, %d errors)",
		r.Total, r.Created, r.Updated, r.Failed)
}

func toProduct(rec *feed.ProductRecord) *entities.Product {
	return &entities.Product{
		SKU:          rec.SKU,
		Name:         rec.Name,
		Description:  rec.Description,
		Category:     rec.Category,
		BasePrice:    rec.BasePrice,
		AvailableQty: rec.AvailableQty,
		LocalQty:     rec.LocalQty,
		ImageURL:     rec.ImageURL,
	}
}
