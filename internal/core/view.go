package core

// MonthRef identifies a month, used for navigation links.
type MonthRef struct {
	Year  int
	Month int
}

// CalendarView is everything a renderer needs to draw one month.
type CalendarView struct {
	Year          int
	Month         int
	MonthName     string
	Grid          CalendarGrid
	TotalCost     int64
	AttendedCount int
	PricePerVisit int64
	MonthNames    [12]string
	WeekdayNames  [DaysPerWeek]string
	DaySummaries  []DaySummary
	Prev          MonthRef
	Next          MonthRef
}

// Summary returns the month totals as a MonthlySummary.
func (v CalendarView) Summary() MonthlySummary {
	return MonthlySummary{TotalCost: v.TotalCost, AttendedCount: v.AttendedCount}
}

// InMonthRecords returns the records of cells inside the selected month, in grid order.
func (v CalendarView) InMonthRecords() []AttendanceRecord {
	var out []AttendanceRecord
	for _, c := range v.Grid.Cells() {
		if c.InSelectedMonth {
			out = append(out, c.Records...)
		}
	}
	return out
}
