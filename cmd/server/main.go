package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightlog-service/internal/infrastructure/config"
	"flightlog-service/internal/infrastructure/persistence"
	"flightlog-service/internal/interface/httpapi"
	"flightlog-service/internal/interface/recognition"
	storeRepo "flightlog-service/internal/interface/repository"
	"flightlog-service/internal/usecase"
	"flightlog-service/pkg/logger"
	"flightlog-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flightlog Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the local store
	log.Info("Opening local store", "path", cfg.DatabasePath)
	db, err := persistence.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open local store", "error", err)
	}
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate local store", "error", err)
	}

	// Set up metrics
	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Set up repositories
	localRepo := storeRepo.NewSQLiteLocalStoreRepository(db, log)
	remoteRepo := storeRepo.NewHTTPRemoteStoreRepository(log)

	// Set up the ingestion pipeline. Without a recognition key the service
	// still runs in local-only mode; ingestion requests are rejected.
	var pipeline *usecase.IngestPipeline
	if cfg.GeminiAPIKey != "" {
		recognizer, err := recognition.NewGeminiRecognizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Fatal("Failed to create recognizer", "error", err)
		}
		defer recognizer.Close()

		extractor := usecase.NewExtractor(recognizer, cfg.ExtractionTimeout, log, m)
		pipeline = usecase.NewIngestPipeline(extractor, log, m)
	} else {
		log.Warn("GEMINI_API_KEY not set, document ingestion is disabled")
	}

	// Set up sync engine and collection controller
	engine := usecase.NewSyncEngine(remoteRepo, cfg.PushDebounce, log, m)
	controller := usecase.NewCollectionController(localRepo, engine, pipeline, log)

	// Seed from the local store, then startup pull if an endpoint is known
	controller.Start(ctx)

	// A preconfigured endpoint from the environment applies only when the
	// operator never stored one.
	if cfg.RemoteEndpoint != "" && controller.SyncState().Endpoint == "" {
		if err := controller.ConfigureSync(ctx, cfg.RemoteEndpoint); err != nil {
			log.Error("Failed to configure sync endpoint", "endpoint", cfg.RemoteEndpoint, "error", err)
		}
	}

	// Set up HTTP server
	router := httpapi.NewRouter(controller, log)
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Cancel any pending push before closing the store
	controller.Teardown()

	if err := db.Close(); err != nil {
		log.Error("Local store close error", "error", err)
	}

	log.Info("Flightlog Service stopped")
}
