package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Mateuse/Gpu-Monitor/internal/api"
	"github.com/Mateuse/Gpu-Monitor/internal/api/ws"
	"github.com/Mateuse/Gpu-Monitor/internal/bus"
	"github.com/Mateuse/Gpu-Monitor/internal/config"
	"github.com/Mateuse/Gpu-Monitor/internal/nvsmi"
	"github.com/Mateuse/Gpu-Monitor/internal/observability"
	"github.com/Mateuse/Gpu-Monitor/internal/poller"
	"github.com/Mateuse/Gpu-Monitor/internal/storage/inmemory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting GPU monitor daemon",
		slog.String("service", "gpumond"),
	)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Flags override environment-derived values.
	port := flag.Int("port", cfg.Server.Port, "HTTP server port")
	interval := flag.Duration("interval", cfg.Poll.Interval, "Polling interval (1s-60s)")
	command := flag.String("command", cfg.Poll.Command, "Diagnostic tool command")
	flag.Parse()
	cfg.Server.Port = *port
	cfg.Poll.Interval = *interval
	cfg.Poll.Command = *command

	runner := nvsmi.NewRunner(cfg.Poll.Command, cfg.Poll.Timeout, logger)

	// Wait for a runnable tool before starting the schedule. A machine
	// still booting may not have the driver stack up yet. If the probe
	// never succeeds the daemon starts anyway and serves poll errors.
	probeTool(runner, logger)

	metrics := observability.NewMetrics()
	b := bus.NewBus(logger)

	repo := inmemory.NewSnapshotRepository()
	b.Subscribe(repo)

	hub := ws.NewHub(logger)
	go hub.Run()
	b.Subscribe(hub)

	p := poller.NewPoller(runner, b, metrics, logger)
	metrics.Subscribers.Set(float64(b.Stats().ActiveSubscribers))

	if err := p.Start(context.Background(), cfg.Poll.Interval); err != nil {
		slog.Error("Failed to start poller", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(p, repo, hub, metrics)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	slog.Info("GPU monitor daemon initialized",
		slog.String("address", srv.Addr),
		slog.Duration("poll_interval", cfg.Poll.Interval),
	)

	go func() {
		slog.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down GPU monitor daemon...")

	if err := p.Stop(); err != nil {
		slog.Warn("Poller was not running at shutdown", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("GPU monitor daemon stopped gracefully")
}

// probeTool retries the tool's version query with exponential backoff.
func probeTool(runner *nvsmi.Runner, logger *slog.Logger) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = config.DefaultProbeMaxElapsed

	operation := func() error {
		version, err := runner.Version(context.Background())
		if err != nil {
			return err
		}
		logger.Info("Diagnostic tool available", "version", version)
		return nil
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("Diagnostic tool not ready, retrying",
			"error", err,
			"next_attempt_in", next,
		)
	}

	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		logger.Warn("Diagnostic tool probe gave up, starting anyway", "error", err)
	}
}
