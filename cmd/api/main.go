package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/fintrack/internal/advice"
	"github.com/dvloznov/fintrack/internal/api/handlers"
	"github.com/dvloznov/fintrack/internal/api/middleware"
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
		port       = flag.String("port", "8080", "HTTP server port")
		backend    = flag.String("store", envOr("STORE_BACKEND", "bigquery"), "store backend: bigquery or memory")
		projectID  = flag.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project ID (or set BQ_PROJECT env)")
		datasetID  = flag.String("dataset", envOr("BQ_DATASET", "fintrack"), "BigQuery dataset ID (or set BQ_DATASET env)")
		cronSecret = flag.String("cron-secret", os.Getenv("CRON_SECRET"), "bearer secret for the cron endpoint (or set CRON_SECRET env)")
		logLevel   = flag.String("log-level", envOr("LOG_LEVEL", "info"), "log level: debug, info, warn or error")
	)
	flag.Parse()

	log := logger.New(*logLevel)

	if *cronSecret == "" {
		log.Warn().Msg("No cron secret configured - the cron endpoint will reject every request")
	}

	ctx := context.Background()

	st, err := openStore(ctx, *backend, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer st.Close()

	mat := materializer.New(st, log)

	// Job infrastructure tracks materializer runs triggered inside this
	// process; the history backs the /api/jobs endpoints.
	jobStore := jobsinmemory.NewStore()
	jobQueue := jobsinmemory.NewQueue(100, 1, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
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

	go func() {
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Advice endpoints stay up without credentials; they answer 503 instead.
	var adviceHandler *handlers.AdviceHandler
	adviceSvc, err := advice.NewService(ctx, log)
	if err != nil {
		log.Warn().Err(err).Msg("Advice service unavailable - advice endpoints will return 503")
	} else {
		adviceHandler = handlers.NewAdviceHandler(adviceSvc, log)
	}

	cronHandler := handlers.NewCronHandler(mat, log)
	schedulesHandler := handlers.NewSchedulesHandler(st, log)
	transactionsHandler := handlers.NewTransactionsHandler(st, log)
	categoriesHandler := handlers.NewCategoriesHandler(st, log)
	accountsHandler := handlers.NewAccountsHandler(st, log)
	creditCardsHandler := handlers.NewCreditCardsHandler(st, log)
	budgetsHandler := handlers.NewBudgetsHandler(st, log)
	goalsHandler := handlers.NewGoalsHandler(st, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	cron := middleware.CronAuth(*cronSecret)(http.HandlerFunc(cronHandler.Run))
	mux.HandleFunc("/api/cron", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		cron.ServeHTTP(w, r)
	})

	mux.HandleFunc("/api/schedules", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			schedulesHandler.ListSchedules(w, r)
		case http.MethodPost:
			schedulesHandler.CreateSchedule(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/schedules/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		scheduleID := strings.TrimPrefix(r.URL.Path, "/api/schedules/")
		if scheduleID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Schedule ID is required")
			return
		}
		schedulesHandler.DeleteSchedule(w, r, scheduleID)
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.ListTransactions(w, r)
		case http.MethodPost:
			transactionsHandler.CreateTransaction(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			categoriesHandler.ListCategories(w, r)
		case http.MethodPost:
			categoriesHandler.CreateCategory(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// The four reference collections share the same list/create/delete shape.
	collection := func(list, create http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		}
	}
	collectionDelete := func(prefix string, del func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			id := strings.TrimPrefix(r.URL.Path, prefix)
			if id == "" {
				middleware.WriteError(w, http.StatusBadRequest, "ID is required")
				return
			}
			del(w, r, id)
		}
	}

	mux.HandleFunc("/api/accounts", collection(accountsHandler.ListAccounts, accountsHandler.CreateAccount))
	mux.HandleFunc("/api/accounts/", collectionDelete("/api/accounts/", accountsHandler.DeleteAccount))
	mux.HandleFunc("/api/credit-cards", collection(creditCardsHandler.ListCreditCards, creditCardsHandler.CreateCreditCard))
	mux.HandleFunc("/api/credit-cards/", collectionDelete("/api/credit-cards/", creditCardsHandler.DeleteCreditCard))
	mux.HandleFunc("/api/budgets", collection(budgetsHandler.ListBudgets, budgetsHandler.CreateBudget))
	mux.HandleFunc("/api/budgets/", collectionDelete("/api/budgets/", budgetsHandler.DeleteBudget))
	mux.HandleFunc("/api/goals", collection(goalsHandler.ListGoals, goalsHandler.CreateGoal))
	mux.HandleFunc("/api/goals/", collectionDelete("/api/goals/", goalsHandler.DeleteGoal))

	adviceRoute := func(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			if adviceHandler == nil {
				middleware.WriteError(w, http.StatusServiceUnavailable, "Advice service not configured")
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/api/advice/spending-insights", adviceRoute(func(w http.ResponseWriter, r *http.Request) {
		adviceHandler.SpendingInsights(w, r)
	}))
	mux.HandleFunc("/api/advice/wellness", adviceRoute(func(w http.ResponseWriter, r *http.Request) {
		adviceHandler.Wellness(w, r)
	}))
	mux.HandleFunc("/api/advice/goal", adviceRoute(func(w http.ResponseWriter, r *http.Request) {
		adviceHandler.GoalAdvice(w, r)
	}))
	mux.HandleFunc("/api/advice/credit-card", adviceRoute(func(w http.ResponseWriter, r *http.Request) {
		adviceHandler.CreditCardAdvice(w, r)
	}))

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobsHandler.ListJobs(w, r)
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		jobsHandler.GetJob(w, r, jobID)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Str("store", *backend).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
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
