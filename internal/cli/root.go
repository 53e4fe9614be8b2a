package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"neirocalendar/internal/config"
	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
	"neirocalendar/internal/report"
	"neirocalendar/internal/services"
)

// App is what the commands operate on.
type App struct {
	Calendar   *services.CalendarService
	Attendance *services.AttendanceService
	Reports    *report.Renderer
}

// Opener builds an App for one command run. The returned func releases it.
type Opener func(ctx context.Context) (*App, func() error, error)

// OpenFromEnv builds an App from the environment, the same way the server does.
func OpenFromEnv(ctx context.Context) (*App, func() error, error) {
	LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := SetupLogger(cfg, log.ComponentApp)

	res, err := OpenBackend(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	calendar, attendance, err := NewServices(cfg, res, logger)
	if err != nil {
		_ = res.Cleanup()
		return nil, nil, err
	}

	return &App{
		Calendar:   calendar,
		Attendance: attendance,
		Reports:    NewReportRenderer(cfg),
	}, res.Cleanup, nil
}

type appRunner func(cmd *cobra.Command, app *App, args []string) error

// NewRootCommand builds the calendarctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "calendarctl",
		Short:         "Manage the attendance calendar from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	with := func(run appRunner) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
				cmd.SetContext(ctx)
			}
			app, release, err := open(ctx)
			if err != nil {
				return err
			}
			defer release()
			return run(cmd, app, args)
		}
	}

	root.AddCommand(
		monthCommand(with),
		dayCommand(with),
		addCommand(with),
		recurringCommand(with),
		markCommand(with, "check", "Mark a visit as attended", true),
		markCommand(with, "uncheck", "Mark a visit as not attended", false),
		deleteCommand(with),
		totalCommand(with),
		exportCommand(with),
	)
	return root
}

// parseMonthArg reads an optional YYYY-MM argument. Zero values mean "current".
func parseMonthArg(args []string) (int, int, error) {
	if len(args) == 0 {
		return 0, 0, nil
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: expected YYYY-MM: %w", args[0], core.ErrInvalidDateRange)
	}
	return t.Year(), int(t.Month()), nil
}

func parseDateArg(s string) (core.Date, error) {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, core.NewValidationError("date", err)
	}
	return d, nil
}

func parseIDArg(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q: must be a positive integer", s)
	}
	return id, nil
}
