// Package memory is an in-memory Store. It backs unit tests and local
// development; data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store"
)

// Store keeps per-user collections in maps guarded by a single mutex. Values
// are copied on the way in and out so callers can never alias internal state.
type Store struct {
	mu sync.RWMutex

	users        []string
	schedules    map[string]map[string]domain.ScheduledTransaction // userID -> scheduleID -> schedule
	transactions map[string][]domain.Transaction                   // userID -> transactions
	categories   map[string][]domain.Category                      // userID -> categories
	accounts     map[string][]domain.BankAccount                   // userID -> bank accounts
	creditCards  map[string][]domain.CreditCard                    // userID -> credit cards
	budgets      map[string][]domain.Budget                        // userID -> budgets
	goals        map[string][]domain.Goal                          // userID -> goals

	// FailCreateTransaction and FailUpdateCursor, when set, are consulted
	// before the corresponding write and may reject it. Tests use them to
	// simulate transient store failures.
	FailCreateTransaction func(userID string, tx domain.Transaction) error
	FailUpdateCursor      func(userID, scheduleID string) error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		schedules:    make(map[string]map[string]domain.ScheduledTransaction),
		transactions: make(map[string][]domain.Transaction),
		categories:   make(map[string][]domain.Category),
		accounts:     make(map[string][]domain.BankAccount),
		creditCards:  make(map[string][]domain.CreditCard),
		budgets:      make(map[string][]domain.Budget),
		goals:        make(map[string][]domain.Goal),
	}
}

// AddUser registers a user so ListUsers returns it.
func (s *Store) AddUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u == userID {
			return
		}
	}
	s.users = append(s.users, userID)
	if s.schedules[userID] == nil {
		s.schedules[userID] = make(map[string]domain.ScheduledTransaction)
	}
}

// ListUsers implements store.Store.
func (s *Store) ListUsers(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.users))
	copy(out, s.users)
	return out, nil
}

// ListSchedules implements store.Store.
func (s *Store) ListSchedules(ctx context.Context, userID string) ([]domain.ScheduledTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ScheduledTransaction
	for _, sched := range s.schedules[userID] {
		out = append(out, copySchedule(sched))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateSchedule implements store.Store.
func (s *Store) CreateSchedule(ctx context.Context, userID string, sched domain.ScheduledTransaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sched.ID == "" {
		sched.ID = uuid.NewString()
	}
	if s.schedules[userID] == nil {
		s.schedules[userID] = make(map[string]domain.ScheduledTransaction)
	}
	s.schedules[userID][sched.ID] = copySchedule(sched)
	return sched.ID, nil
}

// DeleteSchedule implements store.Store.
func (s *Store) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schedules[userID][scheduleID]; !ok {
		return fmt.Errorf("schedule %s: %w", scheduleID, store.ErrNotFound)
	}
	delete(s.schedules[userID], scheduleID)
	return nil
}

// UpdateScheduleCursor implements store.Store.
func (s *Store) UpdateScheduleCursor(ctx context.Context, userID, scheduleID string, last civil.Date) error {
	if s.FailUpdateCursor != nil {
		if err := s.FailUpdateCursor(userID, scheduleID); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := s.schedules[userID][scheduleID]
	if !ok {
		return fmt.Errorf("schedule %s: %w", scheduleID, store.ErrNotFound)
	}
	d := last
	sched.LastProcessedDate = &d
	s.schedules[userID][scheduleID] = sched
	return nil
}

// CreateTransaction implements store.Store.
func (s *Store) CreateTransaction(ctx context.Context, userID string, tx domain.Transaction) (string, error) {
	if s.FailCreateTransaction != nil {
		if err := s.FailCreateTransaction(userID, tx); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	s.transactions[userID] = append(s.transactions[userID], tx)
	return tx.ID, nil
}

// ListTransactions implements store.Store.
func (s *Store) ListTransactions(ctx context.Context, userID string, start, end civil.Date) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Transaction
	for _, tx := range s.transactions[userID] {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListCategories implements store.Store.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories[userID]))
	copy(out, s.categories[userID])
	return out, nil
}

// CreateCategory implements store.Store.
func (s *Store) CreateCategory(ctx context.Context, userID string, cat domain.Category) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	s.categories[userID] = append(s.categories[userID], cat)
	return cat.ID, nil
}

// ListAccounts implements store.Store.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]domain.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BankAccount, len(s.accounts[userID]))
	copy(out, s.accounts[userID])
	return out, nil
}

// CreateAccount implements store.Store.
func (s *Store) CreateAccount(ctx context.Context, userID string, acct domain.BankAccount) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	s.accounts[userID] = append(s.accounts[userID], acct)
	return acct.ID, nil
}

// DeleteAccount implements store.Store.
func (s *Store) DeleteAccount(ctx context.Context, userID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, acct := range s.accounts[userID] {
		if acct.ID == accountID {
			s.accounts[userID] = append(s.accounts[userID][:i], s.accounts[userID][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("account %s: %w", accountID, store.ErrNotFound)
}

// ListCreditCards implements store.Store.
func (s *Store) ListCreditCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CreditCard, len(s.creditCards[userID]))
	copy(out, s.creditCards[userID])
	return out, nil
}

// CreateCreditCard implements store.Store.
func (s *Store) CreateCreditCard(ctx context.Context, userID string, card domain.CreditCard) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	s.creditCards[userID] = append(s.creditCards[userID], card)
	return card.ID, nil
}

// DeleteCreditCard implements store.Store.
func (s *Store) DeleteCreditCard(ctx context.Context, userID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, card := range s.creditCards[userID] {
		if card.ID == cardID {
			s.creditCards[userID] = append(s.creditCards[userID][:i], s.creditCards[userID][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("credit card %s: %w", cardID, store.ErrNotFound)
}

// ListBudgets implements store.Store.
func (s *Store) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Budget, len(s.budgets[userID]))
	copy(out, s.budgets[userID])
	return out, nil
}

// CreateBudget implements store.Store.
func (s *Store) CreateBudget(ctx context.Context, userID string, budget domain.Budget) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	s.budgets[userID] = append(s.budgets[userID], budget)
	return budget.ID, nil
}

// DeleteBudget implements store.Store.
func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, budget := range s.budgets[userID] {
		if budget.ID == budgetID {
			s.budgets[userID] = append(s.budgets[userID][:i], s.budgets[userID][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("budget %s: %w", budgetID, store.ErrNotFound)
}

// ListGoals implements store.Store.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Goal, len(s.goals[userID]))
	copy(out, s.goals[userID])
	return out, nil
}

// CreateGoal implements store.Store.
func (s *Store) CreateGoal(ctx context.Context, userID string, goal domain.Goal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	s.goals[userID] = append(s.goals[userID], goal)
	return goal.ID, nil
}

// DeleteGoal implements store.Store.
func (s *Store) DeleteGoal(ctx context.Context, userID, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, goal := range s.goals[userID] {
		if goal.ID == goalID {
			s.goals[userID] = append(s.goals[userID][:i], s.goals[userID][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("goal %s: %w", goalID, store.ErrNotFound)
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Schedule returns a copy of one schedule for test assertions.
func (s *Store) Schedule(userID, scheduleID string) (domain.ScheduledTransaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.schedules[userID][scheduleID]
	if !ok {
		return domain.ScheduledTransaction{}, false
	}
	return copySchedule(sched), true
}

// Transactions returns a copy of every transaction of the user, in insertion
// order, for test assertions.
func (s *Store) Transactions(userID string) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.transactions[userID]))
	copy(out, s.transactions[userID])
	return out
}

func copySchedule(sched domain.ScheduledTransaction) domain.ScheduledTransaction {
	out := sched
	if sched.EndDate != nil {
		d := *sched.EndDate
		out.EndDate = &d
	}
	if sched.LastProcessedDate != nil {
		d := *sched.LastProcessedDate
		out.LastProcessedDate = &d
	}
	return out
}

var _ store.Store = (*Store)(nil)
