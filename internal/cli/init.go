// Package cli holds the process bootstrap shared by the binaries under cmd/
// and the calendarctl command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"neirocalendar/internal/backend"
	"neirocalendar/internal/config"
	"neirocalendar/internal/log"
	"neirocalendar/internal/report"
	"neirocalendar/internal/services"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger and installs it as the default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration, sets up logging and runs
// validate. It exits the process when validation fails.
func LoadAndValidateConfig(component string, validate func(*config.Config) error) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenBackend creates the configured store and optional event publisher.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.Result, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
}

// NewServices wires the calendar and attendance services over a backend.
func NewServices(cfg *config.Config, res *backend.Result, logger *log.Logger) (*services.CalendarService, *services.AttendanceService, error) {
	policy, err := cfg.WeekdayPolicy()
	if err != nil {
		return nil, nil, err
	}

	opts := append([]services.Option{
		services.WithLogger(logger),
		services.WithWeekdayPolicy(policy),
		services.WithPricePerVisit(cfg.PricePerVisit),
		services.WithLocale(cfg.CalendarLocale),
	}, res.ServiceOptions()...)

	calendar, err := services.NewCalendarService(res.Store, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("calendar service: %w", err)
	}
	return calendar, services.NewAttendanceService(res.Store, opts...), nil
}

// NewReportRenderer returns the PDF renderer for the configured locale and font.
func NewReportRenderer(cfg *config.Config) *report.Renderer {
	opts := []report.Option{report.WithLocale(cfg.CalendarLocale)}
	if cfg.ReportFontPath != "" {
		opts = append(opts, report.WithFont(cfg.ReportFontPath))
	}
	return report.NewRenderer(opts...)
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
