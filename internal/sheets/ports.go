package sheets

import (
	"context"

	"neirocalendar/internal/core"
)

// AttendanceMirror keeps an external copy of the attendance records.
// Writes are idempotent: upserting the same record twice leaves one row,
// and deleting an unknown id is not an error.
type AttendanceMirror interface {
	UpsertRecord(ctx context.Context, r core.AttendanceRecord) error
	DeleteRecord(ctx context.Context, id int64) error
	// ReplaceAll rewrites the mirror so it holds exactly the given records.
	ReplaceAll(ctx context.Context, records []core.AttendanceRecord) error
}
