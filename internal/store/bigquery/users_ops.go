package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const (
	usersTable       = "users"
	schedulesTable   = "scheduled_transactions"
	txTable          = "transactions"
	categoriesTable  = "categories"
	accountsTable    = "bank_accounts"
	creditCardsTable = "credit_cards"
	budgetsTable     = "budgets"
	goalsTable       = "goals"
)

// ListUsersWithClient returns every registered user ID using the provided
// BigQuery client.
func ListUsersWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID string) ([]string, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT user_id
		FROM %s
		ORDER BY user_id
	`, tableName(projectID, datasetID, usersTable)))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: query read: %w", err)
	}

	var users []string
	for {
		var r UserRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListUsers: iter next: %w", err)
		}
		users = append(users, r.UserID)
	}

	return users, nil
}

// InsertUserWithClient registers a user using the provided BigQuery client.
func InsertUserWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string) error {
	table := client.DatasetInProject(projectID, datasetID).Table(usersTable)
	row := &UserRow{UserID: userID, CreatedTS: time.Now().UTC()}
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertUser: inserting row: %w", err)
	}
	return nil
}

// tableName builds the fully qualified, backtick-quoted table reference used
// in query text.
func tableName(projectID, datasetID, table string) string {
	return fmt.Sprintf("`%s.%s.%s`", projectID, datasetID, table)
}
