package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionType says which direction money moved.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction is one materialized ledger entry owned by a user. It is created
// either by manual entry through the API or by the recurring-transaction
// materializer, and is immutable afterwards except through an explicit edit.
type Transaction struct {
	ID          string          `json:"id"`
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  string          `json:"category_id"`

	// Optional references carried over from the schedule that produced the
	// transaction. Not validated here.
	AccountID    string `json:"account_id,omitempty"`
	CreditCardID string `json:"credit_card_id,omitempty"`

	// ScheduleID links a materialized transaction back to the schedule that
	// produced it. Empty for manually entered transactions.
	ScheduleID string `json:"schedule_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
