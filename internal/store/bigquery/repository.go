package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store"
)

// Config locates the dataset the repository reads and writes.
type Config struct {
	ProjectID string
	DatasetID string
}

// Repository implements store.Store on one shared BigQuery client. All query
// logic lives in the package-level *WithClient functions; the repository only
// carries the client and dataset coordinates.
type Repository struct {
	client *bigquery.Client
	cfg    Config
}

// NewRepository creates a Repository with its own client. Credentials come
// from the environment.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if cfg.ProjectID == "" || cfg.DatasetID == "" {
		return nil, fmt.Errorf("bigquery: project and dataset are required")
	}
	client, err := bigquery.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery: creating client: %w", err)
	}
	return &Repository{client: client, cfg: cfg}, nil
}

// NewRepositoryWithClient creates a Repository over an existing client. The
// caller keeps ownership of the client.
func NewRepositoryWithClient(client *bigquery.Client, cfg Config) *Repository {
	return &Repository{client: client, cfg: cfg}
}

func (r *Repository) ListUsers(ctx context.Context) ([]string, error) {
	return ListUsersWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID)
}

func (r *Repository) ListSchedules(ctx context.Context, userID string) ([]domain.ScheduledTransaction, error) {
	return ListSchedulesWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID)
}

func (r *Repository) CreateSchedule(ctx context.Context, userID string, sched domain.ScheduledTransaction) (string, error) {
	if sched.ID == "" {
		sched.ID = uuid.NewString()
	}
	if err := InsertScheduleWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, sched); err != nil {
		return "", err
	}
	return sched.ID, nil
}

func (r *Repository) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	return DeleteScheduleWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, scheduleID)
}

func (r *Repository) UpdateScheduleCursor(ctx context.Context, userID, scheduleID string, last civil.Date) error {
	return UpdateScheduleCursorWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, scheduleID, last)
}

func (r *Repository) CreateTransaction(ctx context.Context, userID string, tx domain.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := InsertTransactionWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, tx); err != nil {
		return "", err
	}
	return tx.ID, nil
}

func (r *Repository) ListTransactions(ctx context.Context, userID string, start, end civil.Date) ([]domain.Transaction, error) {
	return ListTransactionsWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, start, end)
}

func (r *Repository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	return ListCategoriesWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID)
}

func (r *Repository) CreateCategory(ctx context.Context, userID string, cat domain.Category) (string, error) {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	if err := InsertCategoryWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, cat); err != nil {
		return "", err
	}
	return cat.ID, nil
}

func (r *Repository) ListAccounts(ctx context.Context, userID string) ([]domain.BankAccount, error) {
	return ListAccountsWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID)
}

func (r *Repository) CreateAccount(ctx context.Context, userID string, acct domain.BankAccount) (string, error) {
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	if err := InsertAccountWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, acct); err != nil {
		return "", err
	}
	return acct.ID, nil
}

func (r *Repository) DeleteAccount(ctx context.Context, userID, accountID string) error {
	return DeleteAccountWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, accountID)
}

func (r *Repository) ListCreditCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	return ListCreditCardsWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID)
}

func (r *Repository) CreateCreditCard(ctx context.Context, userID string, card domain.CreditCard) (string, error) {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if err := InsertCreditCardWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, card); err != nil {
		return "", err
	}
	return card.ID, nil
}

func (r *Repository) DeleteCreditCard(ctx context.Context, userID, cardID string) error {
	return DeleteCreditCardWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, cardID)
}

func (r *Repository) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	return ListBudgetsWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID)
}

func (r *Repository) CreateBudget(ctx context.Context, userID string, budget domain.Budget) (string, error) {
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	if err := InsertBudgetWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, budget); err != nil {
		return "", err
	}
	return budget.ID, nil
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	return DeleteBudgetWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, budgetID)
}

func (r *Repository) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	return ListGoalsWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID)
}

func (r *Repository) CreateGoal(ctx context.Context, userID string, goal domain.Goal) (string, error) {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if err := InsertGoalWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, goal); err != nil {
		return "", err
	}
	return goal.ID, nil
}

func (r *Repository) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return DeleteGoalWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID, goalID)
}

// RegisterUser creates the user row so materializer runs pick the user up.
func (r *Repository) RegisterUser(ctx context.Context, userID string) error {
	return InsertUserWithClient(ctx, r.client, r.cfg.ProjectID, r.cfg.DatasetID, userID)
}

// Close releases the underlying client.
func (r *Repository) Close() error {
	return r.client.Close()
}

var _ store.Store = (*Repository)(nil)
