package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store"
)

// ListSchedulesWithClient returns every schedule of the user using the
// provided BigQuery client.
func ListSchedulesWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string) ([]domain.ScheduledTransaction, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			schedule_id,
			user_id,
			description,
			amount,
			type,
			category_id,
			frequency,
			start_date,
			end_date,
			last_processed_date,
			account_id,
			credit_card_id,
			created_ts
		FROM %s
		WHERE user_id = @user_id
		ORDER BY created_ts
	`, tableName(projectID, datasetID, schedulesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListSchedules: query read: %w", err)
	}

	var schedules []domain.ScheduledTransaction
	for {
		var r ScheduleRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListSchedules: iter next: %w", err)
		}
		schedules = append(schedules, r.toDomain())
	}

	return schedules, nil
}

// InsertScheduleWithClient inserts a schedule using the provided BigQuery
// client.
func InsertScheduleWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string, sched domain.ScheduledTransaction) error {
	table := client.DatasetInProject(projectID, datasetID).Table(schedulesTable)
	row := scheduleRowFromDomain(userID, sched, time.Now().UTC())
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertSchedule: inserting row: %w", err)
	}
	return nil
}

// DeleteScheduleWithClient removes a schedule using the provided BigQuery
// client. Returns store.ErrNotFound when no row matched.
func DeleteScheduleWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID, scheduleID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id AND schedule_id = @schedule_id
	`, tableName(projectID, datasetID, schedulesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "schedule_id", Value: scheduleID},
	}

	affected, err := runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteSchedule: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteSchedule: schedule %s: %w", scheduleID, store.ErrNotFound)
	}
	return nil
}

// UpdateScheduleCursorWithClient advances last_processed_date using the
// provided BigQuery client. Returns store.ErrNotFound when no row matched.
func UpdateScheduleCursorWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID, scheduleID string, last civil.Date) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET last_processed_date = @last_processed_date
		WHERE user_id = @user_id AND schedule_id = @schedule_id
	`, tableName(projectID, datasetID, schedulesTable)))
	q.Parameters = []bigquery.QueryParameter{
		// civil.Date binds as a DATE-typed parameter; a string would not be
		// coerced by BigQuery.
		{Name: "last_processed_date", Value: last},
		{Name: "user_id", Value: userID},
		{Name: "schedule_id", Value: scheduleID},
	}

	affected, err := runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("UpdateScheduleCursor: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("UpdateScheduleCursor: schedule %s: %w", scheduleID, store.ErrNotFound)
	}
	return nil
}

// runDML runs a mutation and reports how many rows it touched.
func runDML(ctx context.Context, q *bigquery.Query) (int64, error) {
	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("running statement: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return 0, fmt.Errorf("job failed: %w", err)
	}

	if stats, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return stats.NumDMLAffectedRows, nil
	}
	return 0, nil
}
