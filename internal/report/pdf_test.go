package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neirocalendar/internal/core"
)

func sampleView(t *testing.T) core.CalendarView {
	t.Helper()
	records := []core.AttendanceRecord{
		{ID: 1, PersonName: "Anna", VisitDate: core.NewDate(2024, 2, 6), Attended: true},
		{ID: 2, PersonName: "Boris", VisitDate: core.NewDate(2024, 2, 6)},
		{ID: 3, PersonName: "Clara", VisitDate: core.NewDate(2024, 2, 29), Attended: true},
	}
	grid, err := core.BuildGrid(2024, 2, core.GroupByDate(records))
	require.NoError(t, err)
	names, err := core.MonthNames(core.LocaleEnglish)
	require.NoError(t, err)
	weekdays, err := core.WeekdayNames(core.LocaleEnglish)
	require.NoError(t, err)

	sum := core.Summarize(records, 1250)
	return core.CalendarView{
		Year:          2024,
		Month:         2,
		MonthName:     names[1],
		Grid:          grid,
		TotalCost:     sum.TotalCost,
		AttendedCount: sum.AttendedCount,
		PricePerVisit: 1250,
		MonthNames:    names,
		WeekdayNames:  weekdays,
		DaySummaries:  core.SummarizeByDay(records, 1250),
	}
}

func TestRenderMonth(t *testing.T) {
	r := NewRenderer(WithLocale(core.LocaleEnglish))

	pdf, err := r.RenderMonth(sampleView(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")), "output is not a PDF")
}

func TestRenderMonth_Empty(t *testing.T) {
	view := sampleView(t)
	view.DaySummaries = nil
	view.TotalCost, view.AttendedCount = 0, 0

	pdf, err := NewRenderer(WithLocale(core.LocaleEnglish)).RenderMonth(view)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestRenderMonth_MissingFont(t *testing.T) {
	r := NewRenderer(WithFont(filepath.Join(t.TempDir(), "missing.ttf")))

	_, err := r.RenderMonth(sampleView(t))
	assert.Error(t, err)
}

func TestLabelsFallback(t *testing.T) {
	assert.Equal(t, "Attendance", NewRenderer(WithLocale("fr")).labels().Title)
	assert.Equal(t, "Посещения", NewRenderer().labels().Title)
}
