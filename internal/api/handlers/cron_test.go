package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/fintrack/internal/api/middleware"
	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/materializer"
	"github.com/dvloznov/fintrack/internal/store/memory"
)

const testSecret = "test-secret"

func newCronServer(t *testing.T, st *memory.Store, today string) http.Handler {
	t.Helper()

	day, err := civil.ParseDate(today)
	if err != nil {
		t.Fatalf("parse date %q: %v", today, err)
	}

	mat := materializer.New(st, zerolog.Nop(), materializer.WithToday(func() civil.Date { return day }))
	h := NewCronHandler(mat, zerolog.Nop())
	return middleware.CronAuth(testSecret)(http.HandlerFunc(h.Run))
}

func TestCronRun_RejectsMissingOrBadBearer(t *testing.T) {
	handler := newCronServer(t, memory.New(), "2024-03-01")

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"wrong secret", "Bearer nope"},
		{"wrong scheme", "Basic " + testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/cron", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestCronRun_MaterializesAndReportsSummary(t *testing.T) {
	st := memory.New()
	st.AddUser("alice")
	start := mustDate(t, "2024-01-01")
	if _, err := st.CreateSchedule(context.Background(), "alice", domain.ScheduledTransaction{
		ID:          "rent",
		Description: "Rent",
		Amount:      decimal.NewFromInt(1200),
		Type:        domain.TypeExpense,
		Frequency:   domain.FrequencyMonthly,
		StartDate:   start,
	}); err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}

	handler := newCronServer(t, st, "2024-03-15")

	req := httptest.NewRequest(http.MethodPost, "/api/cron", nil)
	req.Header.Set("Authorization", "Bearer "+testSecret)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Success bool                 `json:"success"`
		Message string               `json:"message"`
		Summary materializer.Summary `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Summary.TransactionsCreated != 2 {
		t.Errorf("transactions created = %d, want 2", resp.Summary.TransactionsCreated)
	}
	if got := len(st.Transactions("alice")); got != 2 {
		t.Errorf("stored transactions = %d, want 2", got)
	}
}

func TestCronRun_PerScheduleFailureStillSucceeds(t *testing.T) {
	st := memory.New()
	st.AddUser("alice")
	for _, id := range []string{"broken", "healthy"} {
		if _, err := st.CreateSchedule(context.Background(), "alice", domain.ScheduledTransaction{
			ID:          id,
			Description: id,
			Amount:      decimal.NewFromInt(10),
			Type:        domain.TypeExpense,
			Frequency:   domain.FrequencyDaily,
			StartDate:   mustDate(t, "2024-03-10"),
		}); err != nil {
			t.Fatalf("CreateSchedule: %v", err)
		}
	}
	st.FailCreateTransaction = func(userID string, tx domain.Transaction) error {
		if tx.ScheduleID == "broken" {
			return errors.New("write rejected")
		}
		return nil
	}

	handler := newCronServer(t, st, "2024-03-12")

	req := httptest.NewRequest(http.MethodPost, "/api/cron", nil)
	req.Header.Set("Authorization", "Bearer "+testSecret)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Summary materializer.Summary `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary.SchedulesFailed != 1 {
		t.Errorf("schedules failed = %d, want 1", resp.Summary.SchedulesFailed)
	}
	if resp.Summary.TransactionsCreated != 2 {
		t.Errorf("transactions created = %d, want 2", resp.Summary.TransactionsCreated)
	}
}

type listUsersFailingStore struct {
	*memory.Store
}

func (s *listUsersFailingStore) ListUsers(ctx context.Context) ([]string, error) {
	return nil, errors.New("backend unavailable")
}

func TestCronRun_EnumerationFailureIsServerError(t *testing.T) {
	day := mustDate(t, "2024-03-01")
	st := &listUsersFailingStore{Store: memory.New()}
	mat := materializer.New(st, zerolog.Nop(), materializer.WithToday(func() civil.Date { return day }))
	h := NewCronHandler(mat, zerolog.Nop())
	handler := middleware.CronAuth(testSecret)(http.HandlerFunc(h.Run))

	req := httptest.NewRequest(http.MethodPost, "/api/cron", nil)
	req.Header.Set("Authorization", "Bearer "+testSecret)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}
