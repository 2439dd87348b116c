package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"userdir/internal/directory/handler"
	"userdir/internal/directory/metrics"
	"userdir/internal/directory/service"
	"userdir/internal/directory/source/randomuser"
	"userdir/internal/directory/tracer"
	"userdir/internal/platform/config"
	"userdir/internal/platform/health"
	"userdir/internal/platform/httpserver"
	"userdir/internal/platform/logger"
	"userdir/internal/platform/middleware"
	httptransport "userdir/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing userdir",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"directory_url", cfg.Directory.BaseURL,
		"batch_size", cfg.Directory.BatchSize,
		"seeded", cfg.Directory.Seed != "",
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tr := tracer.NewOTel()
	client := randomuser.New(cfg.Directory.BaseURL, cfg.Directory.FetchTimeout,
		randomuser.WithTracer(tr),
		randomuser.WithSeed(cfg.Directory.Seed),
		randomuser.WithNationalities(cfg.Directory.Nationalities...),
	)
	directory := service.New(client, log,
		service.WithBatchSize(cfg.Directory.BatchSize),
		service.WithMetrics(metrics.NewWithRegisterer(reg)),
		service.WithTracer(tr),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("directory", directory.Health)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        middleware.NewMetrics(reg),
		Gatherer:       reg,
	}, healthHandler, handler.New(directory, log))

	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout+5*time.Second)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Failures are logged by the service and leave an empty directory.
		_ = directory.Load(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		directory.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
