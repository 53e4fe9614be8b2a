package core

const (
	DaysPerWeek = 7
	GridWeeks   = 6
	GridCells   = DaysPerWeek * GridWeeks
)

// DayCell is one square of the month view.
type DayCell struct {
	Date            Date
	InSelectedMonth bool
	Records         []AttendanceRecord
}

// AttendedCount counts attended records in the cell.
func (c DayCell) AttendedCount() int {
	n := 0
	for _, r := range c.Records {
		if r.Attended {
			n++
		}
	}
	return n
}

// WeekRow holds seven cells, Monday first.
type WeekRow [DaysPerWeek]DayCell

// CalendarGrid is always six weeks so every month renders with the same height.
type CalendarGrid [GridWeeks]WeekRow

// Cells flattens the grid in display order.
func (g CalendarGrid) Cells() []DayCell {
	out := make([]DayCell, 0, GridCells)
	for _, week := range g {
		out = append(out, week[:]...)
	}
	return out
}

// Start is the Monday shown in the top left cell.
func (g CalendarGrid) Start() Date { return g[0][0].Date }

// End is the Sunday shown in the bottom right cell.
func (g CalendarGrid) End() Date { return g[GridWeeks-1][DaysPerWeek-1].Date }

// RecordsByDate indexes records by visit date.
type RecordsByDate map[Date][]AttendanceRecord

// GroupByDate indexes records by their visit date, keeping input order per day.
func GroupByDate(records []AttendanceRecord) RecordsByDate {
	out := make(RecordsByDate)
	for _, r := range records {
		key := DateOf(r.VisitDate.Time)
		out[key] = append(out[key], r)
	}
	return out
}

// GridStart returns the Monday on or before the first day of the month.
func GridStart(year, month int) Date {
	first := NewDate(year, month, 1)
	return first.AddDays(-(first.ISOWeekday() - 1))
}

// BuildGrid lays out the month as six Monday-first weeks. Cells outside the
// month are kept so the grid is always rectangular. Invalid year or month
// yields ErrInvalidDateRange; nothing is clamped.
func BuildGrid(year, month int, recordsByDate RecordsByDate) (CalendarGrid, error) {
	var grid CalendarGrid
	if err := ValidateYearMonth(year, month); err != nil {
		return grid, err
	}

	day := GridStart(year, month)
	for w := 0; w < GridWeeks; w++ {
		for d := 0; d < DaysPerWeek; d++ {
			records := recordsByDate[day]
			if records == nil {
				records = []AttendanceRecord{}
			}
			grid[w][d] = DayCell{
				Date:            day,
				InSelectedMonth: day.Year() == year && day.Month() == month,
				Records:         records,
			}
			day = day.AddDays(1)
		}
	}
	return grid, nil
}
