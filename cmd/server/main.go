package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rpattn/neoql/internal/api"
	"github.com/rpattn/neoql/internal/config"
	"github.com/rpattn/neoql/internal/export"
	"github.com/rpattn/neoql/internal/ingestion"
	"github.com/rpattn/neoql/internal/middleware"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := cfg.Logging.BuildLogger()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Load both data products and link them
	loader := ingestion.NewService(cfg.Data.NeoCSV, cfg.Data.CadJSON,
		ingestion.WithLogger(logger.Named("ingest")))
	db, summary, err := loader.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load data set", zap.Error(err))
	}
	logger.Info("server starting",
		zap.String("addr", cfg.Server.Addr()),
		zap.Int("neos", summary.Neos),
		zap.Int("approaches", summary.Approaches),
	)

	exporter := export.NewService(
		export.WithMaxRows(cfg.Export.MaxRows),
		export.WithLogger(logger.Named("export")),
	)
	handler := api.NewHandler(db, exporter, api.WithLogger(logger.Named("api")))

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	root := corsHandler.Handler(
		middleware.RequestID(
			middleware.Logging(logger.Named("http"))(handler.Routes()),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
