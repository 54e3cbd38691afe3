package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/fintrack/internal/jobs"
	jobsinmemory "github.com/dvloznov/fintrack/internal/jobs/inmemory"
	"github.com/dvloznov/fintrack/internal/logger"
	"github.com/dvloznov/fintrack/internal/materializer"
	"github.com/dvloznov/fintrack/internal/store"
	storebq "github.com/dvloznov/fintrack/internal/store/bigquery"
	"github.com/dvloznov/fintrack/internal/store/memory"
)

func main() {
	var (
		interval  = flag.Duration("interval", 24*time.Hour, "time between materializer runs")
		runAtBoot = flag.Bool("run-at-boot", true, "run once immediately on startup")
		backend   = flag.String("store", envOr("STORE_BACKEND", "bigquery"), "store backend: bigquery or memory")
		projectID = flag.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project ID (or set BQ_PROJECT env)")
		datasetID = flag.String("dataset", envOr("BQ_DATASET", "fintrack"), "BigQuery dataset ID (or set BQ_DATASET env)")
		logLevel  = flag.String("log-level", envOr("LOG_LEVEL", "info"), "log level: debug, info, warn or error")
	)
	flag.Parse()

	log := logger.New(*logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, *backend, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer st.Close()

	mat := materializer.New(st, log)

	jobStore := jobsinmemory.NewStore()
	jobQueue := jobsinmemory.NewQueue(10, 1, jobStore)

	handler := func(ctx context.Context, job jobs.Job) error {
		runJob, ok := job.(*jobs.MaterializeRunJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", runJob.JobID).
			Str("trigger", runJob.Trigger).
			Msg("Processing materialize run job")

		summary, err := mat.Run(ctx)
		if err != nil {
			return err
		}

		runJob.Users = summary.Users
		runJob.SchedulesProcessed = summary.SchedulesProcessed
		runJob.TransactionsCreated = summary.TransactionsCreated
		runJob.SchedulesFailed = summary.SchedulesFailed
		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().
		Dur("interval", *interval).
		Str("store", *backend).
		Msg("Worker service started")

	publish := func() {
		job := &jobs.MaterializeRunJob{Trigger: "timer"}
		if err := jobQueue.PublishMaterializeRun(ctx, job); err != nil {
			log.Error().Err(err).Msg("Failed to publish materialize run job")
			return
		}
		log.Info().Str("job_id", job.JobID).Msg("Published materialize run job")
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if *runAtBoot {
		publish()
	}

	for {
		select {
		case <-ticker.C:
			publish()
		case <-quit:
			log.Info().Msg("Shutting down worker service...")

			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := jobQueue.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Error during graceful shutdown")
			}

			log.Info().Msg("Worker service exited")
			return
		}
	}
}

func openStore(ctx context.Context, backend, projectID, datasetID string) (store.Store, error) {
	switch backend {
	case "memory":
		return memory.New(), nil
	case "bigquery":
		return storebq.NewRepository(ctx, storebq.Config{
			ProjectID: projectID,
			DatasetID: datasetID,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
