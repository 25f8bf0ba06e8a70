package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"solaretl/internal/infrastructure"
	"solaretl/internal/usecase"
	"solaretl/pkg/config"
	"solaretl/pkg/logger"
	"solaretl/pkg/metrics"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)

	var (
		dateFlag     = flag.String("date", "", "process a single date (YYYY-MM-DD)")
		backfillFlag = flag.Bool("backfill", false, "process every date from -from through yesterday")
		fromFlag     = flag.String("from", "", "backfill start date (YYYY-MM-DD), defaults to the configured start")
	)
	flag.Parse()

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

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	switch {
	case *backfillFlag:
		from := cfg.Backfill.StartDate
		if *fromFlag != "" {
			from, err = time.Parse("2006-01-02", *fromFlag)
			if err != nil {
				log.WithError(err).Fatal("Invalid -from date")
			}
		}

		summary, err := pipeline.RunBackfill(ctx, from, yesterday)
		if err != nil {
			log.WithError(err).Fatal("Backfill failed")
		}
		log.WithFields(map[string]any{
			"succeeded":    summary.Succeeded,
			"failed":       summary.Failed,
			"failed_dates": summary.FailedDates,
		}).Info("Backfill finished")
		if summary.Failed > 0 {
			os.Exit(1)
		}

	case *dateFlag != "":
		date, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.WithError(err).Fatal("Invalid -date")
		}
		if err := pipeline.RunDate(ctx, date); err != nil {
			log.WithError(err).Fatal("Pipeline run failed")
		}

	default:
		// daily mode: process yesterday
		if err := pipeline.RunDate(ctx, yesterday); err != nil {
			log.WithError(err).Fatal("Pipeline run failed")
		}
	}
}
