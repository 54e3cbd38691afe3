package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store"
)

// ListGoalsWithClient returns the user's savings goals using the provided
// BigQuery client.
func ListGoalsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string) ([]domain.Goal, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			goal_id,
			user_id,
			name,
			target_amount,
			saved_amount,
			target_date
		FROM %s
		WHERE user_id = @user_id
		ORDER BY target_date
	`, tableName(projectID, datasetID, goalsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListGoals: query read: %w", err)
	}

	var goals []domain.Goal
	for {
		var r GoalRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListGoals: iter next: %w", err)
		}
		goals = append(goals, r.toDomain())
	}

	return goals, nil
}

// InsertGoalWithClient inserts a goal using the provided BigQuery client.
func InsertGoalWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string, goal domain.Goal) error {
	table := client.DatasetInProject(projectID, datasetID).Table(goalsTable)
	if err := table.Inserter().Put(ctx, goalRowFromDomain(userID, goal)); err != nil {
		return fmt.Errorf("InsertGoal: inserting row: %w", err)
	}
	return nil
}

// DeleteGoalWithClient removes a goal using the provided BigQuery client.
// Returns store.ErrNotFound when no row matched.
func DeleteGoalWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID, goalID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id AND goal_id = @goal_id
	`, tableName(projectID, datasetID, goalsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "goal_id", Value: goalID},
	}

	affected, err := runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteGoal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteGoal: goal %s: %w", goalID, store.ErrNotFound)
	}
	return nil
}
