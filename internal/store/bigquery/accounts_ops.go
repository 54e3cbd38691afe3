package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store"
)

// ListAccountsWithClient returns the user's bank accounts using the provided
// BigQuery client.
func ListAccountsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string) ([]domain.BankAccount, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			account_id,
			user_id,
			name,
			bank_name,
			account_number_last4,
			type
		FROM %s
		WHERE user_id = @user_id
		ORDER BY name
	`, tableName(projectID, datasetID, accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: query read: %w", err)
	}

	var accounts []domain.BankAccount
	for {
		var r AccountRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAccounts: iter next: %w", err)
		}
		accounts = append(accounts, r.toDomain())
	}

	return accounts, nil
}

// InsertAccountWithClient inserts a bank account using the provided BigQuery
// client.
func InsertAccountWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string, acct domain.BankAccount) error {
	table := client.DatasetInProject(projectID, datasetID).Table(accountsTable)
	if err := table.Inserter().Put(ctx, accountRowFromDomain(userID, acct)); err != nil {
		return fmt.Errorf("InsertAccount: inserting row: %w", err)
	}
	return nil
}

// DeleteAccountWithClient removes a bank account using the provided BigQuery
// client. Returns store.ErrNotFound when no row matched.
func DeleteAccountWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID, accountID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id AND account_id = @account_id
	`, tableName(projectID, datasetID, accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "account_id", Value: accountID},
	}

	affected, err := runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteAccount: account %s: %w", accountID, store.ErrNotFound)
	}
	return nil
}
