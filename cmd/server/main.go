package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"log/slog"

	"github.com/baykus/baykus/internal/api"
	"github.com/baykus/baykus/internal/config"
	"github.com/baykus/baykus/internal/connectors"
	"github.com/baykus/baykus/internal/database"
	"github.com/baykus/baykus/internal/enrichment"
	"github.com/baykus/baykus/internal/logging"
	"github.com/baykus/baykus/internal/metrics"
	"github.com/baykus/baykus/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting baykus")

	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.Database.URL
	dbConfig.MaxConnections = cfg.Database.MaxOpenConns
	dbConfig.MaxIdleConnections = cfg.Database.MaxIdleConns
	dbConfig.ConnMaxLifetime = cfg.Database.ConnMaxLifetime

	logger.Info("connecting to database")
	db, err := database.Connect(context.Background(), dbConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected")

	// Run pending migrations (non-fatal to allow the app to start even if
	// migrations fail)
	if err := database.RunMigrations(db, "./migrations", logger); err != nil {
		logger.Warn("failed to run migrations, continuing anyway", "error", err)
	}

	// Create repositories
	connectorRepo := database.NewConnectorRepository(db)
	credentialRepo := database.NewCredentialRepository(db)
	requestRepo := database.NewRequestRepository(db)
	targetRepo := database.NewTargetRepository(db)
	assetRepo := database.NewAssetRepository(db)
	relationshipRepo := database.NewRelationshipRepository(db)
	alertRepo := database.NewAlertRepository(db)
	reportRepo := database.NewReportRepository(db)

	// Metrics
	httpCollector, err := metrics.NewHTTPCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	connectorCollector, err := metrics.NewConnectorCollector(httpCollector.Registry())
	if err != nil {
		logger.Error("failed to init connector metrics", "error", err)
		os.Exit(1)
	}

	// Connector subsystem
	credStore := connectors.NewCredentialStore(credentialRepo, logger)
	transport := connectors.NewTransport(connectorRepo, logger)
	registry := connectors.NewRegistry()
	resolver := connectors.NewResolver(registry, transport, credStore, logger)
	service := connectors.NewService(connectorRepo, requestRepo, resolver, connectorCollector, logger)

	summarizer := enrichment.NewSummarizer(cfg.Enrichment, logger)

	// Setup HTTP routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(r.Context(), db); err != nil {
			logger.Error("health check failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Service info endpoint
	mux.HandleFunc("/api/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"baykus","status":"ready","version":"0.1.0"}`))
	})

	mux.Handle("/metrics", httpCollector.Handler())

	logger.Info("setting up REST API")
	api.SetupRoutes(mux, api.Repositories{
		Connectors:    connectorRepo,
		Credentials:   credentialRepo,
		Requests:      requestRepo,
		Targets:       targetRepo,
		Assets:        assetRepo,
		Relationships: relationshipRepo,
		Alerts:        alertRepo,
		Reports:       reportRepo,
	}, service, summarizer, cfg.Auth, logger)

	srv := server.New(cfg.Server, logger, httpCollector.InstrumentHandler(mux))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("received signal", "signal", sig.String())
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("baykus stopped")
}
