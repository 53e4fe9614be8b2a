package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"neirocalendar/internal/core"
)

const cellWidth = 9

var cellStyle = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right)

func monthCommand(with func(appRunner) func(*cobra.Command, []string) error) *cobra.Command {
	return LeafCommand{
		Use:   "month [YYYY-MM]",
		Short: "Show the calendar grid for a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: with(func(cmd *cobra.Command, app *App, args []string) error {
			year, month, err := parseMonthArg(args)
			if err != nil {
				return err
			}
			year, month = app.Calendar.ResolveMonth(year, month)
			view, err := app.Calendar.Assemble(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			renderMonth(cmd.OutOrStdout(), view, app.Calendar.Today())
			return nil
		}),
	}.Build()
}

// renderMonth prints the 6x7 grid. Days with visits show attended/scheduled.
func renderMonth(w io.Writer, view core.CalendarView, today core.Date) {
	_, _ = fmt.Fprintf(w, "%s\n\n", Primary(fmt.Sprintf("%s %d", view.MonthName, view.Year)))

	header := make([]string, 0, core.DaysPerWeek)
	for _, name := range view.WeekdayNames {
		header = append(header, cellStyle.Render(Silent(name)))
	}
	_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, week := range view.Grid {
		row := make([]string, 0, core.DaysPerWeek)
		for _, cell := range week {
			row = append(row, cellStyle.Render(renderCell(cell, today)))
		}
		_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	_, _ = fmt.Fprintf(w, "\n%s %s   %s %s\n",
		Silent("Attended:"), Info(fmt.Sprint(view.AttendedCount)),
		Silent("Total:"), Primary(core.FormatAmount(view.TotalCost)))
}

func renderCell(cell core.DayCell, today core.Date) string {
	text := fmt.Sprintf("%d", cell.Date.Day())
	if n := len(cell.Records); n > 0 {
		text = fmt.Sprintf("%d %d/%d", cell.Date.Day(), cell.AttendedCount(), n)
	}
	switch {
	case !cell.InSelectedMonth:
		return Silent(text)
	case cell.Date == today:
		return Primary(text)
	case len(cell.Records) > 0 && cell.AttendedCount() == len(cell.Records):
		return Success(text)
	case len(cell.Records) > 0:
		return Info(text)
	}
	return text
}

func dayCommand(with func(appRunner) func(*cobra.Command, []string) error) *cobra.Command {
	return LeafCommand{
		Use:   "day YYYY-MM-DD",
		Short: "List the visits scheduled on a date",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, app *App, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			records, err := app.Attendance.RecordsForDay(cmd.Context(), date)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintf(w, "%s\n", Silent("No visits on "+date.String()))
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintln(w, formatRecord(r))
			}
			return nil
		}),
	}.Build()
}

func formatRecord(r core.AttendanceRecord) string {
	mark := Silent("[ ]")
	if r.Attended {
		mark = Success("[x]")
	}
	return strings.Join([]string{
		Silent(fmt.Sprintf("#%d", r.ID)),
		r.VisitDate.String(),
		mark,
		r.PersonName,
	}, "  ")
}
