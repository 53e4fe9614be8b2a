package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
	"neirocalendar/internal/storage/memory"
)

func TestCalendarService_Assemble_February2024(t *testing.T) {
	ctx := context.Background()
	store := memory.New(
		core.AttendanceRecord{PersonName: "A", VisitDate: core.NewDate(2024, 2, 29), Attended: true},
		core.AttendanceRecord{PersonName: "B", VisitDate: core.NewDate(2024, 3, 1), Attended: true},
		core.AttendanceRecord{PersonName: "C", VisitDate: core.NewDate(2024, 1, 31), Attended: true},
	)
	svc, err := NewCalendarService(store, WithLogger(log.Discard()))
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.Assemble(ctx, 2024, 2)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if view.Summary() != (core.MonthlySummary{TotalCost: 1250, AttendedCount: 1}) {
		t.Errorf("summary = %+v", view.Summary())
	}
	if view.MonthName != "Февраль" || view.MonthNames[0] != "Январь" {
		t.Errorf("month names = %q / %v", view.MonthName, view.MonthNames)
	}
	if view.WeekdayNames[0] != "Пн" {
		t.Errorf("weekdays = %v", view.WeekdayNames)
	}
	if view.Prev != (core.MonthRef{Year: 2024, Month: 1}) || view.Next != (core.MonthRef{Year: 2024, Month: 3}) {
		t.Errorf("navigation = %+v / %+v", view.Prev, view.Next)
	}

	// Out-of-month cells stay empty even though the store has records for
	// 2024-01-31 and 2024-03-01, which are both visible in the grid.
	placed := 0
	for _, c := range view.Grid.Cells() {
		placed += len(c.Records)
		if !c.InSelectedMonth && len(c.Records) > 0 {
			t.Errorf("out-of-month cell %s has records", c.Date)
		}
	}
	if placed != 1 {
		t.Errorf("placed %d records, want 1", placed)
	}
	if len(view.DaySummaries) != 1 || view.DaySummaries[0].Date != core.NewDate(2024, 2, 29) {
		t.Errorf("day summaries = %+v", view.DaySummaries)
	}
}

func TestCalendarService_Assemble_January2025(t *testing.T) {
	svc, err := NewCalendarService(memory.New(), WithLogger(log.Discard()), WithLocale(core.LocaleEnglish))
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.Assemble(context.Background(), 2025, 1)
	if err != nil {
		t.Fatal(err)
	}
	if view.Grid.Start() != core.NewDate(2024, 12, 30) || view.Grid.End() != core.NewDate(2025, 2, 9) {
		t.Errorf("grid = %s..%s", view.Grid.Start(), view.Grid.End())
	}
	if view.MonthName != "January" || view.Prev != (core.MonthRef{Year: 2024, Month: 12}) {
		t.Errorf("view = %q prev %+v", view.MonthName, view.Prev)
	}
	if view.Summary() != (core.MonthlySummary{}) {
		t.Errorf("empty month summary = %+v", view.Summary())
	}
}

func TestCalendarService_Assemble_Errors(t *testing.T) {
	svc, err := NewCalendarService(memory.New(), WithLogger(log.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Assemble(context.Background(), 2024, 13); !errors.Is(err, core.ErrInvalidDateRange) {
		t.Errorf("month 13: %v", err)
	}

	boom := errors.New("locked")
	failing, _ := NewCalendarService(failingStore{err: boom}, WithLogger(log.Discard()))
	if _, err := failing.Assemble(context.Background(), 2024, 1); !errors.Is(err, core.ErrStore) || !errors.Is(err, boom) {
		t.Errorf("store failure: %v", err)
	}

	if _, err := NewCalendarService(memory.New(), WithLocale("fr")); err == nil {
		t.Error("expected unsupported locale error")
	}
}

func TestCalendarService_CurrentMonth(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC) }
	svc, err := NewCalendarService(memory.New(), WithLogger(log.Discard()), WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}

	if y, m := svc.ResolveMonth(0, 0); y != 2024 || m != 2 {
		t.Errorf("ResolveMonth(0,0) = %d-%d", y, m)
	}
	if y, m := svc.ResolveMonth(2020, 0); y != 2020 || m != 2 {
		t.Errorf("ResolveMonth(2020,0) = %d-%d", y, m)
	}

	view, err := svc.AssembleCurrent(context.Background())
	if err != nil || view.Year != 2024 || view.Month != 2 {
		t.Errorf("AssembleCurrent = %d-%d err %v", view.Year, view.Month, err)
	}
}

func TestCalendarService_CustomPrice(t *testing.T) {
	store := memory.New(
		core.AttendanceRecord{PersonName: "A", VisitDate: core.NewDate(2024, 5, 2), Attended: true},
		core.AttendanceRecord{PersonName: "B", VisitDate: core.NewDate(2024, 5, 2), Attended: true},
		core.AttendanceRecord{PersonName: "C", VisitDate: core.NewDate(2024, 5, 3)},
	)
	svc, err := NewCalendarService(store, WithLogger(log.Discard()), WithPricePerVisit(700))
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.Assemble(context.Background(), 2024, 5)
	if err != nil {
		t.Fatal(err)
	}
	if view.TotalCost != 1400 || view.AttendedCount != 2 || view.PricePerVisit != 700 {
		t.Errorf("view totals = %d / %d / %d", view.TotalCost, view.AttendedCount, view.PricePerVisit)
	}
}
