package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neirocalendar/internal/amqp"
	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
	"neirocalendar/internal/sheets"
	"neirocalendar/internal/storage"
)

// SyncWorker mirrors attendance records into Google Sheets. Events keep the
// mirror current; a periodic full resync from the store repairs anything
// a lost event left behind.
type SyncWorker struct {
	store  storage.AttendanceStore
	mirror sheets.AttendanceMirror
	logger *log.Logger
}

// NewSyncWorker creates a worker. store may be nil, which disables full resyncs.
func NewSyncWorker(store storage.AttendanceStore, mirror sheets.AttendanceMirror, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncWorker{
		store:  store,
		mirror: mirror,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent applies one attendance event to the mirror. It has the
// amqp.Handler signature.
func (w *SyncWorker) HandleEvent(ctx context.Context, event *amqp.AttendanceEvent) error {
	w.logger.InfoContext(ctx, "Processing attendance event",
		"message_id", event.MessageID,
		"type", event.Type,
		"record_id", event.RecordID)

	switch event.Type {
	case amqp.EventRecordSaved:
		rec, err := event.Record()
		if err != nil {
			return fmt.Errorf("decode record %d: %w", event.RecordID, err)
		}
		if err := w.mirror.UpsertRecord(ctx, rec); err != nil {
			return fmt.Errorf("mirror record %d: %w", rec.ID, err)
		}
	case amqp.EventRecordDeleted:
		if err := w.mirror.DeleteRecord(ctx, event.RecordID); err != nil {
			return fmt.Errorf("remove record %d from mirror: %w", event.RecordID, err)
		}
	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}

	return nil
}

// FullResync rewrites the mirror from every record in the store.
func (w *SyncWorker) FullResync(ctx context.Context) error {
	if w.store == nil {
		return errors.New("full resync needs a store")
	}

	start := time.Now()
	records, err := w.store.FindByDateRange(ctx,
		core.NewDate(core.MinYear, 1, 1),
		core.NewDate(core.MaxYear, 12, 31))
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	if err := w.mirror.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}

	w.logger.InfoContext(ctx, "Full resync completed",
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// RunPeriodic performs a full resync immediately and then every interval
// until ctx is cancelled. Failed resyncs are logged and retried on the next
// tick.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid resync interval %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := w.FullResync(ctx); err != nil && ctx.Err() == nil {
			w.logger.ErrorContext(ctx, "Full resync failed", "error", err)
		}

		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Periodic resync stopped")
			return nil
		case <-ticker.C:
		}
	}
}
