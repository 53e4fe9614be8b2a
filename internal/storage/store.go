package storage

import (
	"context"

	"neirocalendar/internal/core"
)

// AttendanceStore persists attendance records.
//
// Range and date lookups are ordered by (visit_date, id) so repeated calls
// over unchanged data return the same sequence. FindByID reports a missing
// record with ok=false rather than an error, and DeleteByID of an unknown id
// is not an error.
type AttendanceStore interface {
	FindByDateRange(ctx context.Context, start, end core.Date) ([]core.AttendanceRecord, error)
	FindByDate(ctx context.Context, date core.Date) ([]core.AttendanceRecord, error)
	FindByID(ctx context.Context, id int64) (core.AttendanceRecord, bool, error)
	// Save inserts a record with ID 0 and updates an existing one otherwise.
	// An ID that is not present is inserted as a new record with a fresh id.
	Save(ctx context.Context, record core.AttendanceRecord) (core.AttendanceRecord, error)
	DeleteByID(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}
