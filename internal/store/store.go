// Package store defines the persistence interface the rest of the service is
// written against. Production runs on BigQuery; tests and local development
// use the in-memory implementation.
package store

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/fintrack/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store provides per-user collections of schedules, transactions, categories,
// bank accounts, credit cards, budgets and goals.
//
// The materializer consumes only ListUsers, ListSchedules, CreateTransaction
// and UpdateScheduleCursor; the remaining methods back the thin CRUD surface
// of the API.
type Store interface {
	// ListUsers returns the identifiers of every known user.
	ListUsers(ctx context.Context) ([]string, error)

	// ListSchedules returns all scheduled transactions owned by the user.
	ListSchedules(ctx context.Context, userID string) ([]domain.ScheduledTransaction, error)

	// CreateSchedule stores a new schedule and returns its ID.
	CreateSchedule(ctx context.Context, userID string, sched domain.ScheduledTransaction) (string, error)

	// DeleteSchedule removes a schedule. Returns ErrNotFound if it does not exist.
	DeleteSchedule(ctx context.Context, userID, scheduleID string) error

	// UpdateScheduleCursor sets the schedule's last-processed date. Called by
	// the materializer only after the transaction for that occurrence has been
	// persisted.
	UpdateScheduleCursor(ctx context.Context, userID, scheduleID string, last civil.Date) error

	// CreateTransaction stores a new transaction and returns its ID.
	CreateTransaction(ctx context.Context, userID string, tx domain.Transaction) (string, error)

	// ListTransactions returns the user's transactions with dates inside
	// [start, end], ordered by date.
	ListTransactions(ctx context.Context, userID string, start, end civil.Date) ([]domain.Transaction, error)

	// ListCategories returns the user's categories.
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)

	// CreateCategory stores a new category and returns its ID.
	CreateCategory(ctx context.Context, userID string, cat domain.Category) (string, error)

	// ListAccounts returns the user's bank accounts.
	ListAccounts(ctx context.Context, userID string) ([]domain.BankAccount, error)

	// CreateAccount stores a new bank account and returns its ID.
	CreateAccount(ctx context.Context, userID string, acct domain.BankAccount) (string, error)

	// DeleteAccount removes a bank account. Returns ErrNotFound if it does not
	// exist.
	DeleteAccount(ctx context.Context, userID, accountID string) error

	// ListCreditCards returns the user's credit cards.
	ListCreditCards(ctx context.Context, userID string) ([]domain.CreditCard, error)

	// CreateCreditCard stores a new credit card and returns its ID.
	CreateCreditCard(ctx context.Context, userID string, card domain.CreditCard) (string, error)

	// DeleteCreditCard removes a credit card. Returns ErrNotFound if it does
	// not exist.
	DeleteCreditCard(ctx context.Context, userID, cardID string) error

	// ListBudgets returns the user's budgets.
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)

	// CreateBudget stores a new budget and returns its ID.
	CreateBudget(ctx context.Context, userID string, budget domain.Budget) (string, error)

	// DeleteBudget removes a budget. Returns ErrNotFound if it does not exist.
	DeleteBudget(ctx context.Context, userID, budgetID string) error

	// ListGoals returns the user's savings goals.
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)

	// CreateGoal stores a new goal and returns its ID.
	CreateGoal(ctx context.Context, userID string, goal domain.Goal) (string, error)

	// DeleteGoal removes a goal. Returns ErrNotFound if it does not exist.
	DeleteGoal(ctx context.Context, userID, goalID string) error

	// Close releases any underlying resources.
	Close() error
}
