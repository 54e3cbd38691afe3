package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/fintrack/internal/domain"
)

// ListCategoriesWithClient returns the user's categories using the provided
// BigQuery client.
func ListCategoriesWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string) ([]domain.Category, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			category_id,
			user_id,
			name,
			color,
			icon
		FROM %s
		WHERE user_id = @user_id
		ORDER BY name
	`, tableName(projectID, datasetID, categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: query read: %w", err)
	}

	var categories []domain.Category
	for {
		var r CategoryRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCategories: iter next: %w", err)
		}
		categories = append(categories, r.toDomain())
	}

	return categories, nil
}

// InsertCategoryWithClient inserts a category using the provided BigQuery
// client.
func InsertCategoryWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string, cat domain.Category) error {
	table := client.DatasetInProject(projectID, datasetID).Table(categoriesTable)
	if err := table.Inserter().Put(ctx, categoryRowFromDomain(userID, cat)); err != nil {
		return fmt.Errorf("InsertCategory: inserting row: %w", err)
	}
	return nil
}
