package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/fintrack/internal/domain"
)

// InsertTransactionWithClient inserts one transaction using the provided
// BigQuery client.
func InsertTransactionWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string, tx domain.Transaction) error {
	table := client.DatasetInProject(projectID, datasetID).Table(txTable)
	row := transactionRowFromDomain(userID, tx, time.Now().UTC())
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertTransaction: inserting row: %w", err)
	}
	return nil
}

// ListTransactionsWithClient returns the user's transactions within the date
// range, inclusive on both ends, using the provided BigQuery client.
func ListTransactionsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string, start, end civil.Date) ([]domain.Transaction, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			user_id,
			transaction_date,
			description,
			amount,
			type,
			category_id,
			account_id,
			credit_card_id,
			schedule_id,
			created_ts
		FROM %s
		WHERE user_id = @user_id
		  AND transaction_date >= @start_date
		  AND transaction_date <= @end_date
		ORDER BY transaction_date, created_ts
	`, tableName(projectID, datasetID, txTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		// civil.Date binds as DATE-typed parameters for the date columns.
		{Name: "start_date", Value: start},
		{Name: "end_date", Value: end},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query read: %w", err)
	}

	var transactions []domain.Transaction
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iter next: %w", err)
		}
		transactions = append(transactions, r.toDomain())
	}

	return transactions, nil
}
