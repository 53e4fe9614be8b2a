package services

import (
	"context"
	"fmt"

	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
	"neirocalendar/internal/metrics"
	"neirocalendar/internal/storage"
)

// CalendarService assembles month views from the store. Nothing is cached:
// every call reads the store again.
type CalendarService struct {
	store storage.AttendanceStore
	settings
}

func NewCalendarService(store storage.AttendanceStore, opts ...Option) (*CalendarService, error) {
	s := applyOptions(opts)
	if !core.IsSupportedLocale(s.locale) {
		return nil, fmt.Errorf("calendar locale %q is not supported", s.locale)
	}
	s.logger = s.logger.WithComponent(log.ComponentCalendar)
	return &CalendarService{store: store, settings: s}, nil
}

// PricePerVisit returns the configured price for one attended visit.
func (s *CalendarService) PricePerVisit() int64 {
	return s.pricePerVisit
}

// Locale returns the configured name locale.
func (s *CalendarService) Locale() string {
	return s.locale
}

// CurrentMonth returns today's year and month from the service clock.
func (s *CalendarService) CurrentMonth() (int, int) {
	now := s.now()
	return now.Year(), int(now.Month())
}

// Today returns the current date from the service clock.
func (s *CalendarService) Today() core.Date {
	return core.DateOf(s.now())
}

// ResolveMonth substitutes the current year and/or month for zero values.
func (s *CalendarService) ResolveMonth(year, month int) (int, int) {
	cy, cm := s.CurrentMonth()
	if year == 0 {
		year = cy
	}
	if month == 0 {
		month = cm
	}
	return year, month
}

// AssembleCurrent builds the view for the month containing today.
func (s *CalendarService) AssembleCurrent(ctx context.Context) (core.CalendarView, error) {
	year, month := s.CurrentMonth()
	return s.Assemble(ctx, year, month)
}

// Assemble builds the complete view-model for one month: the 6x7 grid with
// records placed on their dates, the month totals, per-day summaries and the
// localised month and weekday names.
func (s *CalendarService) Assemble(ctx context.Context, year, month int) (core.CalendarView, error) {
	mc, err := core.NewMonthContext(year, month)
	if err != nil {
		return core.CalendarView{}, err
	}

	records, err := s.store.FindByDateRange(ctx, mc.Start, mc.End)
	if err != nil {
		return core.CalendarView{}, core.WrapStore("find_by_date_range", err)
	}

	grid, err := core.BuildGrid(year, month, core.GroupByDate(records))
	if err != nil {
		return core.CalendarView{}, err
	}

	monthNames, err := core.MonthNames(s.locale)
	if err != nil {
		return core.CalendarView{}, err
	}
	weekdays, err := core.WeekdayNames(s.locale)
	if err != nil {
		return core.CalendarView{}, err
	}

	summary := core.Summarize(records, s.pricePerVisit)
	py, pm := mc.Prev()
	ny, nm := mc.Next()

	view := core.CalendarView{
		Year:          year,
		Month:         month,
		MonthName:     monthNames[month-1],
		Grid:          grid,
		TotalCost:     summary.TotalCost,
		AttendedCount: summary.AttendedCount,
		PricePerVisit: s.pricePerVisit,
		MonthNames:    monthNames,
		WeekdayNames:  weekdays,
		DaySummaries:  core.SummarizeByDay(records, s.pricePerVisit),
		Prev:          core.MonthRef{Year: py, Month: pm},
		Next:          core.MonthRef{Year: ny, Month: nm},
	}

	metrics.CalendarViews.Inc()
	s.logger.DebugContext(ctx, "Calendar view assembled",
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldAttendedCount, summary.AttendedCount,
		log.FieldTotalCost, summary.TotalCost)

	return view, nil
}
