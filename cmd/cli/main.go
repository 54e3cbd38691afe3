package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/fintrack/internal/export"
	"github.com/dvloznov/fintrack/internal/logger"
	"github.com/dvloznov/fintrack/internal/materializer"
	"github.com/dvloznov/fintrack/internal/notionsync"
	storebq "github.com/dvloznov/fintrack/internal/store/bigquery"
)

func main() {
	log := logger.New(envOr("LOG_LEVEL", "info"))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "materialize":
		runMaterialize(log)
	case "export":
		runExport(log)
	case "sync-notion":
		runSyncNotion(log)
	case "add-user":
		runAddUser(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Fintrack CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  materialize  Run the recurring-transaction materializer once")
	fmt.Println("  export       Export a user's transactions to a CSV snapshot in GCS")
	fmt.Println("  sync-notion  Mirror a user's transactions into a Notion database")
	fmt.Println("  add-user     Register a user so materializer runs include them")
	fmt.Println("  help         Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runMaterialize(log zerolog.Logger) {
	fs := flag.NewFlagSet("materialize", flag.ExitOnError)
	projectID := fs.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project ID")
	datasetID := fs.String("dataset", envOr("BQ_DATASET", "fintrack"), "BigQuery dataset ID")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st := mustOpenStore(ctx, log, *projectID, *datasetID)
	defer st.Close()

	summary, err := materializer.New(st, log).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Materialization failed")
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	userID := fs.String("user", "", "user ID to export (required)")
	bucket := fs.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for snapshots (or set GCS_BUCKET env)")
	startStr := fs.String("start-date", "", "start date in YYYY-MM-DD format (required)")
	endStr := fs.String("end-date", "", "end date in YYYY-MM-DD format (required)")
	projectID := fs.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project ID")
	datasetID := fs.String("dataset", envOr("BQ_DATASET", "fintrack"), "BigQuery dataset ID")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}
	if *bucket == "" {
		log.Fatal().Msg("Error: --bucket is required")
	}
	start, end := mustParseRange(log, *startStr, *endStr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st := mustOpenStore(ctx, log, *projectID, *datasetID)
	defer st.Close()

	uri, err := export.NewUploader(*bucket, log).Snapshot(ctx, st, *userID, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Println(uri)
}

func runSyncNotion(log zerolog.Logger) {
	fs := flag.NewFlagSet("sync-notion", flag.ExitOnError)
	userID := fs.String("user", "", "user ID to sync (required)")
	notionToken := fs.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN env)")
	notionDBID := fs.String("notion-db-id", "", "Notion database ID (required)")
	startStr := fs.String("start-date", "", "start date in YYYY-MM-DD format (required)")
	endStr := fs.String("end-date", "", "end date in YYYY-MM-DD format (required)")
	dryRun := fs.Bool("dry-run", false, "preview changes without writing to Notion")
	projectID := fs.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project ID")
	datasetID := fs.String("dataset", envOr("BQ_DATASET", "fintrack"), "BigQuery dataset ID")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}
	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}
	start, end := mustParseRange(log, *startStr, *endStr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st := mustOpenStore(ctx, log, *projectID, *datasetID)
	defer st.Close()

	notionClient := notionsync.NewNotionClient(*notionToken)

	if err := notionsync.SyncTransactions(ctx, st, notionClient, *notionDBID, *userID, start, end, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Println("Sync completed successfully.")
}

func runAddUser(log zerolog.Logger) {
	fs := flag.NewFlagSet("add-user", flag.ExitOnError)
	userID := fs.String("user", "", "user ID to register (required)")
	projectID := fs.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project ID")
	datasetID := fs.String("dataset", envOr("BQ_DATASET", "fintrack"), "BigQuery dataset ID")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo := mustOpenStore(ctx, log, *projectID, *datasetID)
	defer repo.Close()

	if err := repo.RegisterUser(ctx, *userID); err != nil {
		log.Fatal().Err(err).Msg("Failed to register user")
	}

	fmt.Println("User registered.")
}

func mustOpenStore(ctx context.Context, log zerolog.Logger, projectID, datasetID string) *storebq.Repository {
	repo, err := storebq.NewRepository(ctx, storebq.Config{
		ProjectID: projectID,
		DatasetID: datasetID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open BigQuery store")
	}
	return repo
}

func mustParseRange(log zerolog.Logger, startStr, endStr string) (civil.Date, civil.Date) {
	if startStr == "" {
		log.Fatal().Msg("Error: --start-date is required")
	}
	if endStr == "" {
		log.Fatal().Msg("Error: --end-date is required")
	}

	start, err := civil.ParseDate(startStr)
	if err != nil {
		log.Fatal().Err(err).Str("start_date", startStr).Msg("Error: invalid start-date format, expected YYYY-MM-DD")
	}
	end, err := civil.ParseDate(endStr)
	if err != nil {
		log.Fatal().Err(err).Str("end_date", endStr).Msg("Error: invalid end-date format, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		log.Fatal().
			Str("start_date", startStr).
			Str("end_date", endStr).
			Msg("Error: end-date must not be before start-date")
	}

	return start, end
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
