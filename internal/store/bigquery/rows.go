// Package bigquery is the BigQuery-backed Store. Row structs mirror the table
// schemas in migrations/bigquery; conversion to and from the domain types
// happens here so nothing above this package sees bigquery tags or NUMERIC
// plumbing.
package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/fintrack/internal/domain"
)

// numericScale matches the BigQuery NUMERIC type (9 fractional digits).
const numericScale = 9

type UserRow struct {
	UserID    string    `bigquery:"user_id"`    // REQUIRED
	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

type ScheduleRow struct {
	ScheduleID string `bigquery:"schedule_id"` // REQUIRED
	UserID     string `bigquery:"user_id"`     // REQUIRED

	Description string   `bigquery:"description"` // REQUIRED
	Amount      *big.Rat `bigquery:"amount"`      // REQUIRED NUMERIC
	Type        string   `bigquery:"type"`        // REQUIRED
	CategoryID  string   `bigquery:"category_id"` // NULLABLE

	Frequency string `bigquery:"frequency"` // REQUIRED

	StartDate         civil.Date        `bigquery:"start_date"`          // REQUIRED
	EndDate           bigquery.NullDate `bigquery:"end_date"`            // NULLABLE
	LastProcessedDate bigquery.NullDate `bigquery:"last_processed_date"` // NULLABLE

	AccountID    string `bigquery:"account_id"`     // NULLABLE
	CreditCardID string `bigquery:"credit_card_id"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	UserID        string `bigquery:"user_id"`        // REQUIRED

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED
	Description     string     `bigquery:"description"`      // REQUIRED
	Amount          *big.Rat   `bigquery:"amount"`           // REQUIRED NUMERIC
	Type            string     `bigquery:"type"`             // REQUIRED

	CategoryID   string `bigquery:"category_id"`    // NULLABLE
	AccountID    string `bigquery:"account_id"`     // NULLABLE
	CreditCardID string `bigquery:"credit_card_id"` // NULLABLE

	// ScheduleID links materialized transactions back to their schedule.
	// Empty for manual entries.
	ScheduleID string `bigquery:"schedule_id"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

type CategoryRow struct {
	CategoryID string `bigquery:"category_id"` // REQUIRED
	UserID     string `bigquery:"user_id"`     // REQUIRED
	Name       string `bigquery:"name"`        // REQUIRED
	Color      string `bigquery:"color"`       // NULLABLE
	Icon       string `bigquery:"icon"`        // NULLABLE
}

type AccountRow struct {
	AccountID          string `bigquery:"account_id"`           // REQUIRED
	UserID             string `bigquery:"user_id"`              // REQUIRED
	Name               string `bigquery:"name"`                 // REQUIRED
	BankName           string `bigquery:"bank_name"`            // NULLABLE
	AccountNumberLast4 string `bigquery:"account_number_last4"` // NULLABLE
	Type               string `bigquery:"type"`                 // REQUIRED
}

type CreditCardRow struct {
	CardID        string   `bigquery:"card_id"`        // REQUIRED
	UserID        string   `bigquery:"user_id"`        // REQUIRED
	Name          string   `bigquery:"name"`           // REQUIRED
	Last4         string   `bigquery:"last4"`          // NULLABLE
	Bank          string   `bigquery:"bank"`           // NULLABLE
	ExpiryMonth   int64    `bigquery:"expiry_month"`   // NULLABLE
	ExpiryYear    int64    `bigquery:"expiry_year"`    // NULLABLE
	StatementDate int64    `bigquery:"statement_date"` // NULLABLE day of month
	DueDate       int64    `bigquery:"due_date"`       // NULLABLE day of month
	CreditLimit   *big.Rat `bigquery:"credit_limit"`   // NULLABLE NUMERIC
}

type BudgetRow struct {
	BudgetID   string   `bigquery:"budget_id"`    // REQUIRED
	UserID     string   `bigquery:"user_id"`      // REQUIRED
	CategoryID string   `bigquery:"category_id"`  // REQUIRED
	Limit      *big.Rat `bigquery:"limit_amount"` // REQUIRED NUMERIC
	Spent      *big.Rat `bigquery:"spent"`        // REQUIRED NUMERIC
	Period     string   `bigquery:"period"`       // REQUIRED monthly | yearly
}

type GoalRow struct {
	GoalID       string     `bigquery:"goal_id"`       // REQUIRED
	UserID       string     `bigquery:"user_id"`       // REQUIRED
	Name         string     `bigquery:"name"`          // REQUIRED
	TargetAmount *big.Rat   `bigquery:"target_amount"` // REQUIRED NUMERIC
	SavedAmount  *big.Rat   `bigquery:"saved_amount"`  // REQUIRED NUMERIC
	TargetDate   civil.Date `bigquery:"target_date"`   // REQUIRED
}

func scheduleRowFromDomain(userID string, sched domain.ScheduledTransaction, now time.Time) *ScheduleRow {
	row := &ScheduleRow{
		ScheduleID:   sched.ID,
		UserID:       userID,
		Description:  sched.Description,
		Amount:       sched.Amount.Rat(),
		Type:         string(sched.Type),
		CategoryID:   sched.CategoryID,
		Frequency:    string(sched.Frequency),
		StartDate:    sched.StartDate,
		AccountID:    sched.AccountID,
		CreditCardID: sched.CreditCardID,
		CreatedTS:    now,
	}
	if sched.EndDate != nil {
		row.EndDate = bigquery.NullDate{Date: *sched.EndDate, Valid: true}
	}
	if sched.LastProcessedDate != nil {
		row.LastProcessedDate = bigquery.NullDate{Date: *sched.LastProcessedDate, Valid: true}
	}
	return row
}

func (r *ScheduleRow) toDomain() domain.ScheduledTransaction {
	sched := domain.ScheduledTransaction{
		ID:           r.ScheduleID,
		Description:  r.Description,
		Amount:       decimal.NewFromBigRat(r.Amount, numericScale),
		Type:         domain.TransactionType(r.Type),
		CategoryID:   r.CategoryID,
		Frequency:    domain.Frequency(r.Frequency),
		StartDate:    r.StartDate,
		AccountID:    r.AccountID,
		CreditCardID: r.CreditCardID,
	}
	if r.EndDate.Valid {
		d := r.EndDate.Date
		sched.EndDate = &d
	}
	if r.LastProcessedDate.Valid {
		d := r.LastProcessedDate.Date
		sched.LastProcessedDate = &d
	}
	return sched
}

func transactionRowFromDomain(userID string, tx domain.Transaction, now time.Time) *TransactionRow {
	createdTS := tx.CreatedAt
	if createdTS.IsZero() {
		createdTS = now
	}
	return &TransactionRow{
		TransactionID:   tx.ID,
		UserID:          userID,
		TransactionDate: tx.Date,
		Description:     tx.Description,
		Amount:          tx.Amount.Rat(),
		Type:            string(tx.Type),
		CategoryID:      tx.CategoryID,
		AccountID:       tx.AccountID,
		CreditCardID:    tx.CreditCardID,
		ScheduleID:      tx.ScheduleID,
		CreatedTS:       createdTS,
	}
}

func (r *TransactionRow) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:           r.TransactionID,
		Date:         r.TransactionDate,
		Description:  r.Description,
		Amount:       decimal.NewFromBigRat(r.Amount, numericScale),
		Type:         domain.TransactionType(r.Type),
		CategoryID:   r.CategoryID,
		AccountID:    r.AccountID,
		CreditCardID: r.CreditCardID,
		ScheduleID:   r.ScheduleID,
		CreatedAt:    r.CreatedTS,
	}
}

func categoryRowFromDomain(userID string, cat domain.Category) *CategoryRow {
	return &CategoryRow{
		CategoryID: cat.ID,
		UserID:     userID,
		Name:       cat.Name,
		Color:      cat.Color,
		Icon:       cat.Icon,
	}
}

func (r *CategoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:    r.CategoryID,
		Name:  r.Name,
		Color: r.Color,
		Icon:  r.Icon,
	}
}

func accountRowFromDomain(userID string, acct domain.BankAccount) *AccountRow {
	return &AccountRow{
		AccountID:          acct.ID,
		UserID:             userID,
		Name:               acct.Name,
		BankName:           acct.BankName,
		AccountNumberLast4: acct.AccountNumberLast4,
		Type:               acct.Type,
	}
}

func (r *AccountRow) toDomain() domain.BankAccount {
	return domain.BankAccount{
		ID:                 r.AccountID,
		Name:               r.Name,
		BankName:           r.BankName,
		AccountNumberLast4: r.AccountNumberLast4,
		Type:               r.Type,
	}
}

func creditCardRowFromDomain(userID string, card domain.CreditCard) *CreditCardRow {
	return &CreditCardRow{
		CardID:        card.ID,
		UserID:        userID,
		Name:          card.Name,
		Last4:         card.Last4,
		Bank:          card.Bank,
		ExpiryMonth:   int64(card.ExpiryMonth),
		ExpiryYear:    int64(card.ExpiryYear),
		StatementDate: int64(card.StatementDate),
		DueDate:       int64(card.DueDate),
		CreditLimit:   card.CreditLimit.Rat(),
	}
}

func (r *CreditCardRow) toDomain() domain.CreditCard {
	return domain.CreditCard{
		ID:            r.CardID,
		Name:          r.Name,
		Last4:         r.Last4,
		Bank:          r.Bank,
		ExpiryMonth:   int(r.ExpiryMonth),
		ExpiryYear:    int(r.ExpiryYear),
		StatementDate: int(r.StatementDate),
		DueDate:       int(r.DueDate),
		CreditLimit:   decimal.NewFromBigRat(r.CreditLimit, numericScale),
	}
}

func budgetRowFromDomain(userID string, budget domain.Budget) *BudgetRow {
	return &BudgetRow{
		BudgetID:   budget.ID,
		UserID:     userID,
		CategoryID: budget.CategoryID,
		Limit:      budget.Limit.Rat(),
		Spent:      budget.Spent.Rat(),
		Period:     budget.Period,
	}
}

func (r *BudgetRow) toDomain() domain.Budget {
	return domain.Budget{
		ID:         r.BudgetID,
		CategoryID: r.CategoryID,
		Limit:      decimal.NewFromBigRat(r.Limit, numericScale),
		Spent:      decimal.NewFromBigRat(r.Spent, numericScale),
		Period:     r.Period,
	}
}

func goalRowFromDomain(userID string, goal domain.Goal) *GoalRow {
	return &GoalRow{
		GoalID:       goal.ID,
		UserID:       userID,
		Name:         goal.Name,
		TargetAmount: goal.TargetAmount.Rat(),
		SavedAmount:  goal.SavedAmount.Rat(),
		TargetDate:   goal.TargetDate,
	}
}

func (r *GoalRow) toDomain() domain.Goal {
	return domain.Goal{
		ID:           r.GoalID,
		Name:         r.Name,
		TargetAmount: decimal.NewFromBigRat(r.TargetAmount, numericScale),
		SavedAmount:  decimal.NewFromBigRat(r.SavedAmount, numericScale),
		TargetDate:   r.TargetDate,
	}
}
