package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Category labels transactions and budgets.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// BankAccount is a user's checking or savings account. Balances are derived
// from transactions, not stored here.
type BankAccount struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	BankName           string `json:"bank_name"`
	AccountNumberLast4 string `json:"account_number_last4"`
	Type               string `json:"type"` // checking | savings
}

// CreditCard holds statement metadata for a user's card.
type CreditCard struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Last4         string          `json:"last4"`
	Bank          string          `json:"bank"`
	ExpiryMonth   int             `json:"expiry_month"`
	ExpiryYear    int             `json:"expiry_year"`
	StatementDate int             `json:"statement_date"` // day of month
	DueDate       int             `json:"due_date"`       // day of month
	CreditLimit   decimal.Decimal `json:"credit_limit"`
}

// Budget is a per-category spending limit.
type Budget struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"category_id"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Period     string          `json:"period"` // monthly | yearly
}

// Goal is a savings target with a deadline.
type Goal struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	TargetDate   civil.Date      `json:"target_date"`
}
