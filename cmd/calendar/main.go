package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"neirocalendar/internal/cli"
	"neirocalendar/internal/config"
	apphttp "neirocalendar/internal/http"
	"neirocalendar/internal/log"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp, (*config.Config).Validate)

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	calendar, attendance, err := cli.NewServices(cfg, res, logger)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(cfg.Addr(), calendar, attendance,
		apphttp.WithLogger(logger),
		apphttp.WithRateLimit(cfg.RateLimitPerMinute),
		apphttp.WithRequestTimeout(cfg.RequestTimeout),
		apphttp.WithReportRenderer(cli.NewReportRenderer(cfg)),
		apphttp.WithReadinessCheck("store", res.Store.Ping),
	)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting calendar server",
			"addr", cfg.Addr(),
			"backend", cfg.DataBackend,
			"locale", cfg.CalendarLocale,
			"events", res.Publisher != nil)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err, "addr", cfg.Addr())
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
