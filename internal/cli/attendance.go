package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addCommand(with func(appRunner) func(*cobra.Command, []string) error) *cobra.Command {
	return LeafCommand{
		Use:   "add NAME YYYY-MM-DD",
		Short: "Schedule a visit",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(cmd *cobra.Command, app *App, args []string) error {
			date, err := parseDateArg(args[1])
			if err != nil {
				return err
			}
			rec, err := app.Attendance.Create(cmd.Context(), args[0], date)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Success("Added"), formatRecord(rec))
			return nil
		}),
	}.Build()
}

func recurringCommand(with func(appRunner) func(*cobra.Command, []string) error) *cobra.Command {
	return LeafCommand{
		Use:   "recurring NAME YYYY-MM-DD",
		Short: "Schedule a visit on the same day of the month for several months",
		Args:  cobra.ExactArgs(2),
		IntFlags: []IntFlag{
			{Name: "months", Usage: "number of months to schedule, including the first", Default: 1},
		},
		RunE: with(func(cmd *cobra.Command, app *App, args []string) error {
			date, err := parseDateArg(args[1])
			if err != nil {
				return err
			}
			months, _ := cmd.Flags().GetInt("months")

			saved, err := app.Attendance.CreateRecurring(cmd.Context(), args[0], date, months)
			w := cmd.OutOrStdout()
			for _, rec := range saved {
				_, _ = fmt.Fprintf(w, "%s %s\n", Success("Added"), formatRecord(rec))
			}
			if err != nil {
				if len(saved) > 0 {
					_, _ = fmt.Fprintf(w, "%s\n", Warning(fmt.Sprintf("stopped after %d of %d visits", len(saved), months)))
				}
				return err
			}
			return nil
		}),
	}.Build()
}

func markCommand(with func(appRunner) func(*cobra.Command, []string) error, use, short string, attended bool) *cobra.Command {
	return LeafCommand{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, app *App, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			found, err := app.Attendance.MarkAttended(cmd.Context(), id, attended)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("record %d not found", id)
			}
			rec, _, err := app.Attendance.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Success("Updated"), formatRecord(rec))
			return nil
		}),
	}.Build()
}

func deleteCommand(with func(appRunner) func(*cobra.Command, []string) error) *cobra.Command {
	return LeafCommand{
		Use:   "delete ID",
		Short: "Delete a visit",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, app *App, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			rec, found, err := app.Attendance.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("record %d not found", id)
			}
			if err := app.Attendance.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Warning("Deleted"), formatRecord(rec))
			return nil
		}),
	}.Build()
}
