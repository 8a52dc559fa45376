package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/api/handlers"
	"github.com/serverlessworks/meta-controller/pkg/config"
	"github.com/serverlessworks/meta-controller/pkg/invoke"
	"github.com/serverlessworks/meta-controller/pkg/logger"
	"github.com/serverlessworks/meta-controller/pkg/metrics"
	"github.com/serverlessworks/meta-controller/pkg/store"
	"github.com/serverlessworks/meta-controller/pkg/trigger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "config/config.toml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(logger.Config{
		Level:  cfg.Controller.Logging.Level,
		Format: cfg.Controller.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Meta-Controller",
		zap.String("config_file", *configPath),
		zap.String("storage_type", cfg.Controller.Storage.Type),
		zap.String("system_namespace", cfg.Controller.System.Namespace),
		zap.String("backend_host", cfg.Controller.System.BackendHost),
	)

	// Initialize storage based on type
	var st store.Store
	switch cfg.Controller.Storage.Type {
	case "sqlite":
		log.Info("Initializing SQLite storage", zap.String("path", cfg.Controller.Storage.SQLite.Path))
		st, err = store.NewSQLiteStore(cfg.Controller.Storage.SQLite.Path, log)
		if err != nil {
			log.Fatal("Failed to initialize SQLite storage", zap.Error(err))
		}
	case "postgres":
		log.Info("Initializing PostgreSQL storage")
		st, err = store.NewPostgresStore(cfg.Controller.Storage.Postgres.DSN, log)
		if err != nil {
			log.Fatal("Failed to initialize PostgreSQL storage", zap.Error(err))
		}
	default:
		log.Info("Running in memory-only mode (no persistent storage)")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	// Load seed entities if configured
	if path := cfg.Controller.Storage.SeedFile; path != "" {
		log.Info("Loading seed entities", zap.String("path", path))
		seed, err := store.LoadSeedFile(path)
		if err != nil {
			log.Fatal("Failed to load seed file", zap.Error(err))
		}
		if err := seed.Apply(context.Background(), st); err != nil {
			log.Fatal("Failed to apply seed entities", zap.Error(err))
		}
	}

	// Metrics registry and server
	metrics.Init()
	metrics.Up.Set(1)
	metrics.Info.WithLabelValues(version, cfg.Controller.Storage.Type).Set(1)

	var metricsServer *metrics.Server
	if cfg.Controller.Metrics.Enabled {
		metricsServer = metrics.NewServer(&cfg.Controller.Metrics, log)
		if err := metricsServer.Start(); err != nil {
			log.Fatal("Failed to start metrics server", zap.Error(err))
		}
	}

	// Invocation client and trigger fan-out service
	client := invoke.NewClient(
		cfg.Controller.System.BackendHost,
		cfg.Controller.API.Path,
		cfg.Controller.API.Version,
		cfg.Controller.System.InvokeTimeout,
		log,
	)
	writer := trigger.NewActivationWriter(st, log)
	triggers := trigger.NewService(client, writer, log)

	apiServer := handlers.NewAPIServer(cfg, st, client, triggers, log)
	router := handlers.NewRouter(apiServer, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Controller.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Starting REST API server", zap.Int("port", cfg.Controller.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start REST API server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Meta-Controller")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Controller.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight trigger fan-outs persist their activation records
	triggers.Drain()

	if metricsServer != nil {
		if err := metricsServer.Stop(ctx); err != nil {
			log.Error("Metrics server forced to shutdown", zap.Error(err))
		}
	}

	log.Info("Meta-Controller stopped")
}
