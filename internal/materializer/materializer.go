// Package materializer expands scheduled recurring transactions into concrete
// ledger entries. One run scans every user's schedules, writes a transaction
// for each due occurrence and advances the schedule's last-processed cursor.
//
// Ordering is the whole contract: within a schedule the cursor is updated only
// after the transaction for that occurrence has been persisted, so a run that
// dies halfway resumes cleanly on the next invocation. Across schedules there
// is no ordering at all; each one is processed in its own goroutine and a
// failure in one never aborts its siblings.
package materializer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/recurrence"
	"github.com/dvloznov/fintrack/internal/store"
)

// ScheduleError records a failure processing a single schedule.
type ScheduleError struct {
	UserID     string `json:"user_id"`
	ScheduleID string `json:"schedule_id"`
	Err        error  `json:"-"`
	Message    string `json:"error"`
}

// Summary reports what one run did.
type Summary struct {
	Users               int             `json:"users"`
	SchedulesProcessed  int             `json:"schedules_processed"`
	TransactionsCreated int             `json:"transactions_created"`
	SchedulesFailed     int             `json:"schedules_failed"`
	Errors              []ScheduleError `json:"errors,omitempty"`
}

// Materializer drives the rollforward across all users and schedules.
type Materializer struct {
	store store.Store
	log   zerolog.Logger
	today func() civil.Date
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithToday overrides the reference date used for due-ness checks. Tests use
// it to pin the clock.
func WithToday(today func() civil.Date) Option {
	return func(m *Materializer) { m.today = today }
}

// New creates a Materializer backed by the given store.
func New(st store.Store, log zerolog.Logger, opts ...Option) *Materializer {
	m := &Materializer{
		store: st,
		log:   log,
		today: func() civil.Date { return civil.DateOf(time.Now().UTC()) },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run processes every schedule of every user once, catching each schedule up
// to today. Enumeration failures (listing users or a user's schedules) abort
// the run; per-schedule failures are collected in the summary and logged.
func (m *Materializer) Run(ctx context.Context) (*Summary, error) {
	today := m.today()

	users, err := m.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("materializer: listing users: %w", err)
	}

	type task struct {
		userID string
		sched  domain.ScheduledTransaction
	}

	var tasks []task
	for _, userID := range users {
		schedules, err := m.store.ListSchedules(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("materializer: listing schedules for user %s: %w", userID, err)
		}
		for _, sched := range schedules {
			tasks = append(tasks, task{userID: userID, sched: sched})
		}
	}

	summary := &Summary{Users: len(users), SchedulesProcessed: len(tasks)}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, tk := range tasks {
		wg.Add(1)
		go func(tk task) {
			defer wg.Done()

			created, err := m.processSchedule(ctx, tk.userID, tk.sched, today)

			mu.Lock()
			defer mu.Unlock()
			summary.TransactionsCreated += created
			if err != nil {
				summary.SchedulesFailed++
				summary.Errors = append(summary.Errors, ScheduleError{
					UserID:     tk.userID,
					ScheduleID: tk.sched.ID,
					Err:        err,
					Message:    err.Error(),
				})
				m.log.Error().
					Err(err).
					Str("user_id", tk.userID).
					Str("schedule_id", tk.sched.ID).
					Int("transactions_created", created).
					Msg("Schedule processing failed")
			}
		}(tk)
	}

	wg.Wait()

	m.log.Info().
		Int("users", summary.Users).
		Int("schedules", summary.SchedulesProcessed).
		Int("transactions_created", summary.TransactionsCreated).
		Int("schedules_failed", summary.SchedulesFailed).
		Msg("Materialization run complete")

	return summary, nil
}

// processSchedule rolls one schedule forward to today. For each due occurrence
// in increasing order it writes the transaction, then advances the cursor, and
// stops at the first error so the cursor never runs ahead of a confirmed
// write. Returns how many transactions were created.
func (m *Materializer) processSchedule(ctx context.Context, userID string, sched domain.ScheduledTransaction, today civil.Date) (int, error) {
	due, err := recurrence.DueOccurrences(sched, today)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, occurrence := range due {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		tx := domain.Transaction{
			Date:         occurrence,
			Description:  sched.Description,
			Amount:       sched.Amount,
			Type:         sched.Type,
			CategoryID:   sched.CategoryID,
			AccountID:    sched.AccountID,
			CreditCardID: sched.CreditCardID,
			ScheduleID:   sched.ID,
		}

		if _, err := m.store.CreateTransaction(ctx, userID, tx); err != nil {
			return created, fmt.Errorf("creating transaction for %s: %w", occurrence, err)
		}
		created++

		if err := m.store.UpdateScheduleCursor(ctx, userID, sched.ID, occurrence); err != nil {
			// The transaction exists but the cursor still points at the
			// previous occurrence. The next run re-attempts this occurrence,
			// so a duplicate is possible; we prefer that over a silent gap.
			return created, fmt.Errorf("advancing cursor to %s: %w", occurrence, err)
		}
	}

	return created, nil
}
