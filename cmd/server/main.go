package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	appservice "github.com/turtacn/xpx/internal/application/service"
	"github.com/turtacn/xpx/internal/config"
	domainservice "github.com/turtacn/xpx/internal/domain/service"
	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	grpcserver "github.com/turtacn/xpx/internal/interfaces/grpc"
	httpserver "github.com/turtacn/xpx/internal/interfaces/http"
	"github.com/turtacn/xpx/pkg/constants"
	"github.com/turtacn/xpx/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	loader := config.NewLoader(configFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info(ctx, "Starting service",
		logger.String("service", constants.ServiceName),
		logger.String("version", constants.ServiceVersion),
		logger.String("environment", cfg.Server.Environment),
		logger.String("config_file", loader.ConfigFile()),
	)

	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, cfg.Server.Environment, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	scoring := appservice.NewScoringAppService(
		domainservice.NewDefaultScorer(),
		cfg.Scoring.Mode(),
		metrics,
		tracing,
		appLogger,
	)

	loader.Watch(appLogger, func(next *config.Config) {
		if next.Log.Level != appLogger.Level() {
			appLogger.SetLevel(next.Log.Level)
			appLogger.Info(context.Background(), "Log level changed", logger.String("level", appLogger.Level()))
		}
		if next.Scoring.Mode() != scoring.DefaultMode() {
			scoring.SetDefaultMode(next.Scoring.Mode())
			appLogger.Info(context.Background(), "Default scoring mode changed", logger.String("mode", string(next.Scoring.Mode())))
		}
	})

	router := httpserver.NewRouter(httpserver.Dependencies{
		Config:   cfg,
		Logger:   appLogger,
		Scoring:  scoring,
		Metrics:  metrics,
		Tracing:  tracing,
		Gatherer: registry,
	})
	grpcSrv := grpcserver.NewServer(cfg, scoring, metrics, appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(router.Start)
	g.Go(grpcSrv.Start)
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info(context.Background(), "Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		grpcSrv.Stop(shutdownCtx)
		if err := router.Shutdown(shutdownCtx); err != nil {
			appLogger.Error(shutdownCtx, "HTTP server shutdown failed", err)
		}
		return tracing.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error(context.Background(), "Service stopped with error", err)
		return err
	}
	appLogger.Info(context.Background(), "Service stopped")
	return nil
}
