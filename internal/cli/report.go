package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"neirocalendar/internal/core"
)

func totalCommand(with func(appRunner) func(*cobra.Command, []string) error) *cobra.Command {
	return LeafCommand{
		Use:   "total FROM TO",
		Short: "Sum attended visits between two dates, inclusive",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(cmd *cobra.Command, app *App, args []string) error {
			from, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			to, err := parseDateArg(args[1])
			if err != nil {
				return err
			}
			summary, err := app.Attendance.TotalCost(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s .. %s\n%s %s\n%s %s\n",
				Silent("Period:"), from, to,
				Silent("Attended:"), Info(fmt.Sprint(summary.AttendedCount)),
				Silent("Total:"), Primary(core.FormatAmount(summary.TotalCost)))
			return nil
		}),
	}.Build()
}

func exportCommand(with func(appRunner) func(*cobra.Command, []string) error) *cobra.Command {
	return LeafCommand{
		Use:   "export [YYYY-MM]",
		Short: "Write the monthly attendance report as PDF",
		Args:  cobra.MaximumNArgs(1),
		StrFlags: []StringFlag{
			{Name: "output", Usage: "output file (default attendance-YYYY-MM.pdf)"},
		},
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
			pdf, err := app.Reports.RenderMonth(view)
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = fmt.Sprintf("attendance-%04d-%02d.pdf", year, month)
			}
			if err := os.WriteFile(output, pdf, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", Success("Wrote"), output, len(pdf))
			return nil
		}),
	}.Build()
}
