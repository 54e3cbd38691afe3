// Package export renders a user's ledger as CSV and ships the snapshot to
// Cloud Storage. Snapshots are append-only; each run writes a new dated
// object.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/dvloznov/fintrack/internal/domain"
)

var csvHeader = []string{
	"id",
	"date",
	"description",
	"amount",
	"type",
	"category_id",
	"account_id",
	"credit_card_id",
	"schedule_id",
}

// BuildCSV renders transactions as CSV, one row per transaction in the order
// given, with a fixed header row.
func BuildCSV(transactions []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("export: writing header: %w", err)
	}

	for _, tx := range transactions {
		record := []string{
			tx.ID,
			tx.Date.String(),
			tx.Description,
			tx.Amount.String(),
			string(tx.Type),
			tx.CategoryID,
			tx.AccountID,
			tx.CreditCardID,
			tx.ScheduleID,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export: writing row for %s: %w", tx.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: flushing: %w", err)
	}

	return buf.Bytes(), nil
}
