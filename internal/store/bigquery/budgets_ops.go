package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store"
)

// ListBudgetsWithClient returns the user's budgets using the provided BigQuery
// client.
func ListBudgetsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string) ([]domain.Budget, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			budget_id,
			user_id,
			category_id,
			limit_amount,
			spent,
			period
		FROM %s
		WHERE user_id = @user_id
		ORDER BY category_id
	`, tableName(projectID, datasetID, budgetsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListBudgets: query read: %w", err)
	}

	var budgets []domain.Budget
	for {
		var r BudgetRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListBudgets: iter next: %w", err)
		}
		budgets = append(budgets, r.toDomain())
	}

	return budgets, nil
}

// InsertBudgetWithClient inserts a budget using the provided BigQuery client.
func InsertBudgetWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string, budget domain.Budget) error {
	table := client.DatasetInProject(projectID, datasetID).Table(budgetsTable)
	if err := table.Inserter().Put(ctx, budgetRowFromDomain(userID, budget)); err != nil {
		return fmt.Errorf("InsertBudget: inserting row: %w", err)
	}
	return nil
}

// DeleteBudgetWithClient removes a budget using the provided BigQuery client.
// Returns store.ErrNotFound when no row matched.
func DeleteBudgetWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID, budgetID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id AND budget_id = @budget_id
	`, tableName(projectID, datasetID, budgetsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "budget_id", Value: budgetID},
	}

	affected, err := runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteBudget: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteBudget: budget %s: %w", budgetID, store.ErrNotFound)
	}
	return nil
}
