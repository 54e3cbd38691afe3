package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store"
)

// ListCreditCardsWithClient returns the user's credit cards using the provided
// BigQuery client.
func ListCreditCardsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string) ([]domain.CreditCard, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			card_id,
			user_id,
			name,
			last4,
			bank,
			expiry_month,
			expiry_year,
			statement_date,
			due_date,
			credit_limit
		FROM %s
		WHERE user_id = @user_id
		ORDER BY name
	`, tableName(projectID, datasetID, creditCardsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCreditCards: query read: %w", err)
	}

	var cards []domain.CreditCard
	for {
		var r CreditCardRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCreditCards: iter next: %w", err)
		}
		cards = append(cards, r.toDomain())
	}

	return cards, nil
}

// InsertCreditCardWithClient inserts a credit card using the provided BigQuery
// client.
func InsertCreditCardWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID string, card domain.CreditCard) error {
	table := client.DatasetInProject(projectID, datasetID).Table(creditCardsTable)
	if err := table.Inserter().Put(ctx, creditCardRowFromDomain(userID, card)); err != nil {
		return fmt.Errorf("InsertCreditCard: inserting row: %w", err)
	}
	return nil
}

// DeleteCreditCardWithClient removes a credit card using the provided BigQuery
// client. Returns store.ErrNotFound when no row matched.
func DeleteCreditCardWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, userID, cardID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id AND card_id = @card_id
	`, tableName(projectID, datasetID, creditCardsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "card_id", Value: cardID},
	}

	affected, err := runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteCreditCard: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteCreditCard: card %s: %w", cardID, store.ErrNotFound)
	}
	return nil
}
