package services

import (
	"context"
	"fmt"

	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
	"neirocalendar/internal/metrics"
	"neirocalendar/internal/storage"
)

// AttendanceService validates and applies attendance mutations, then
// publishes change events when a publisher is configured. Publishing is
// best effort: the store is the source of truth.
type AttendanceService struct {
	store storage.AttendanceStore
	settings
	events *log.StructuredLogger
}

func NewAttendanceService(store storage.AttendanceStore, opts ...Option) *AttendanceService {
	s := applyOptions(opts)
	logger := s.logger.WithComponent(log.ComponentAttendance)
	s.logger = logger
	return &AttendanceService{
		store:    store,
		settings: s,
		events:   log.NewStructuredLogger(logger),
	}
}

// Policy returns the weekday policy applied to new bookings.
func (s *AttendanceService) Policy() core.WeekdayPolicy {
	return s.policy
}

// Create books an unattended visit for personName on visitDate.
func (s *AttendanceService) Create(ctx context.Context, personName string, visitDate core.Date) (rec core.AttendanceRecord, err error) {
	defer observe(log.OpCreate, &err)

	rec = core.NewAttendanceRecord(personName, visitDate)
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	if err := s.policy.Check(visitDate); err != nil {
		return rec, err
	}

	rec, err = s.store.Save(ctx, rec)
	if err != nil {
		return rec, core.WrapStore("save", err)
	}
	s.events.LogAttendanceChanged(ctx, log.OpCreate, rec.ID, rec.PersonName, rec.VisitDate.String(), rec.Attended)
	s.publishSaved(ctx, rec)
	return rec, nil
}

// CreateRecurring books one visit per month for months consecutive months.
// Only the start date is checked against the weekday policy. If the store
// fails part way, the records saved so far are returned with the error.
func (s *AttendanceService) CreateRecurring(ctx context.Context, personName string, start core.Date, months int) (saved []core.AttendanceRecord, err error) {
	defer observe("create_recurring", &err)

	first := core.NewAttendanceRecord(personName, start)
	if err := first.Validate(); err != nil {
		return nil, err
	}
	if err := s.policy.Check(start); err != nil {
		return nil, err
	}
	dates, err := MonthlyOccurrences(start, months)
	if err != nil {
		return nil, err
	}

	saved = make([]core.AttendanceRecord, 0, len(dates))
	for _, d := range dates {
		rec, err := s.store.Save(ctx, core.NewAttendanceRecord(first.PersonName, d))
		if err != nil {
			return saved, core.WrapStore("save", err)
		}
		saved = append(saved, rec)
		s.publishSaved(ctx, rec)
	}

	s.logger.InfoContext(ctx, "Recurring visits booked",
		log.FieldPersonName, first.PersonName,
		"start", start.String(),
		"months", months,
		"created", len(saved))
	return saved, nil
}

// Save inserts or updates a record. An unknown id is stored as a new record.
func (s *AttendanceService) Save(ctx context.Context, rec core.AttendanceRecord) (out core.AttendanceRecord, err error) {
	defer observe(log.OpUpdate, &err)

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	out, err = s.store.Save(ctx, rec)
	if err != nil {
		return rec, core.WrapStore("save", err)
	}
	s.events.LogAttendanceChanged(ctx, log.OpUpdate, out.ID, out.PersonName, out.VisitDate.String(), out.Attended)
	s.publishSaved(ctx, out)
	return out, nil
}

// MarkAttended sets the attended flag. It reports false without error when
// id does not exist. Setting a flag to its current value is a no-op.
func (s *AttendanceService) MarkAttended(ctx context.Context, id int64, attended bool) (found bool, err error) {
	defer observe("mark_attended", &err)

	rec, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, core.WrapStore("find_by_id", err)
	}
	if !ok {
		s.logger.WarnContext(ctx, "Attendance record not found, nothing to mark",
			log.FieldRecordID, id,
			log.FieldAttended, attended)
		return false, nil
	}
	if rec.Attended == attended {
		return true, nil
	}

	rec.Attended = attended
	if _, err := s.store.Save(ctx, rec); err != nil {
		return true, core.WrapStore("save", err)
	}
	s.events.LogAttendanceChanged(ctx, log.OpUpdate, rec.ID, rec.PersonName, rec.VisitDate.String(), rec.Attended)
	s.publishSaved(ctx, rec)
	return true, nil
}

// Delete removes a record. Unknown ids are ignored.
func (s *AttendanceService) Delete(ctx context.Context, id int64) (err error) {
	defer observe(log.OpDelete, &err)

	rec, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return core.WrapStore("find_by_id", err)
	}
	if !ok {
		s.logger.WarnContext(ctx, "Attendance record not found, nothing to delete", log.FieldRecordID, id)
		return nil
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return core.WrapStore("delete_by_id", err)
	}
	s.events.LogAttendanceChanged(ctx, log.OpDelete, rec.ID, rec.PersonName, rec.VisitDate.String(), rec.Attended)
	s.publishDeleted(ctx, id)
	return nil
}

// Get returns a record by id.
func (s *AttendanceService) Get(ctx context.Context, id int64) (core.AttendanceRecord, bool, error) {
	rec, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return rec, false, core.WrapStore("find_by_id", err)
	}
	return rec, ok, nil
}

// RecordsForDay lists the visits booked on date.
func (s *AttendanceService) RecordsForDay(ctx context.Context, date core.Date) ([]core.AttendanceRecord, error) {
	if err := date.Validate(); err != nil {
		return nil, core.NewValidationError("date", err)
	}
	recs, err := s.store.FindByDate(ctx, date)
	if err != nil {
		return nil, core.WrapStore("find_by_date", err)
	}
	return recs, nil
}

// RecordsBetween lists visits in the inclusive range [start, end].
func (s *AttendanceService) RecordsBetween(ctx context.Context, start, end core.Date) ([]core.AttendanceRecord, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	recs, err := s.store.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, core.WrapStore("find_by_date_range", err)
	}
	return recs, nil
}

// TotalCost prices the attended visits in [start, end].
func (s *AttendanceService) TotalCost(ctx context.Context, start, end core.Date) (core.MonthlySummary, error) {
	recs, err := s.RecordsBetween(ctx, start, end)
	if err != nil {
		return core.MonthlySummary{}, err
	}
	return core.Summarize(recs, s.pricePerVisit), nil
}

func validateRange(start, end core.Date) error {
	if err := start.Validate(); err != nil {
		return core.NewValidationError("start", err)
	}
	if err := end.Validate(); err != nil {
		return core.NewValidationError("end", err)
	}
	if end.Before(start) {
		return core.NewValidationError("end",
			fmt.Errorf("%w: %s is before %s", core.ErrInvalidDateRange, end, start))
	}
	return nil
}

func (s *AttendanceService) publishSaved(ctx context.Context, rec core.AttendanceRecord) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordSaved(ctx, rec); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish attendance event",
			log.FieldRecordID, rec.ID,
			log.FieldError, err)
	}
}

func (s *AttendanceService) publishDeleted(ctx context.Context, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordDeleted(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish attendance event",
			log.FieldRecordID, id,
			log.FieldError, err)
	}
}

func observe(op string, err *error) {
	metrics.AttendanceMutations.WithLabelValues(op, metrics.Result(*err)).Inc()
}
