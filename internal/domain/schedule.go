package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Frequency is how often a scheduled transaction recurs.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// ScheduledTransaction is a recurring rule owned by a user. The materializer
// reads it and advances LastProcessedDate; all other mutation happens through
// the API.
type ScheduledTransaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  string          `json:"category_id"`
	Frequency   Frequency       `json:"frequency"`

	// StartDate is the schedule's first eligible occurrence date. The first
	// materialized occurrence falls one period after it.
	StartDate civil.Date `json:"start_date"`

	// EndDate, when set, stops the schedule: occurrences past it never fire.
	// The schedule record itself is kept.
	EndDate *civil.Date `json:"end_date,omitempty"`

	// LastProcessedDate is the due date of the most recently materialized
	// occurrence. Nil means the schedule has never been processed.
	// Invariant: monotonically non-decreasing, and every update corresponds
	// to a successfully persisted transaction for that occurrence date.
	LastProcessedDate *civil.Date `json:"last_processed_date,omitempty"`

	AccountID    string `json:"account_id,omitempty"`
	CreditCardID string `json:"credit_card_id,omitempty"`
}
