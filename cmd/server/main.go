package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solaretl/internal/delivery"
	"solaretl/internal/infrastructure"
	"solaretl/internal/usecase"
	"solaretl/pkg/config"
	"solaretl/pkg/logger"
	"solaretl/pkg/metrics"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("Starting solaretl admin server")

	ctx := context.Background()
	m := metrics.New()

	store, err := infrastructure.NewS3Store(ctx, cfg.Storage.Bucket, cfg.Storage.Region, log, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize object store")
	}

	reports := infrastructure.NewReportClient(cfg.Report, log, m)
	runs := infrastructure.NewRunRepository(log)
	publisher := usecase.NewPublisher(store, log)
	pipeline := usecase.NewPipeline(reports, publisher, runs, log, m)

	handlers := delivery.NewHTTPHandlers(pipeline, runs, cfg, log, m)
	router := delivery.NewHTTPRouter(handlers, log, m)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.SetupRoutes(),
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
