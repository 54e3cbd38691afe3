package notionsync

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"

	"github.com/dvloznov/fintrack/internal/logger"
	"github.com/dvloznov/fintrack/internal/store"
)

// SyncTransactions mirrors the user's transactions in [start, end] into the
// Notion database. Pages are keyed by the "Transaction ID" title property:
// existing pages are skipped, pages whose ID is no longer in the store are
// archived, missing ones are created. With dryRun set, nothing is written.
func SyncTransactions(ctx context.Context, st store.Store, notionClient NotionService, notionDBID, userID string, start, end civil.Date, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("user_id", userID).
		Str("start_date", start.String()).
		Str("end_date", end.String()).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	transactions, err := st.ListTransactions(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	validIDs := make(map[string]bool)
	for _, tx := range transactions {
		validIDs[tx.ID] = true
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	log.Info().
		Int("transaction_count", len(transactions)).
		Int("notion_page_count", len(notionPages)).
		Msg("Loaded both sides of the sync")

	existingIDs := make(map[string]bool)
	for _, page := range notionPages {
		if txID := extractTransactionID(page); txID != "" {
			existingIDs[txID] = true
		}
	}

	var deleted int
	for _, page := range notionPages {
		txID := extractTransactionID(page)
		if txID != "" && validIDs[txID] {
			continue
		}

		if dryRun {
			log.Info().
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			deleted++
			continue
		}
		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		deleted++
	}

	var created, skipped int
	for _, tx := range transactions {
		if existingIDs[tx.ID] {
			skipped++
			continue
		}

		if dryRun {
			log.Info().
				Str("transaction_id", tx.ID).
				Msg("[DRY RUN] Would create Notion page")
			created++
			continue
		}

		props := TransactionToNotionProperties(tx)
		page, err := notionClient.CreatePage(ctx, notionDBID, props)
		if err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", tx.ID).
				Msg("Failed to create Notion page")
			continue
		}
		log.Info().
			Str("transaction_id", tx.ID).
			Str("page_id", string(page.ID)).
			Msg("Created Notion page")
		created++
	}

	log.Info().
		Int("created", created).
		Int("deleted", deleted).
		Int("skipped", skipped).
		Int("total", len(transactions)).
		Msg("Transaction sync completed")

	return nil
}

// queryAllNotionPages pages through the whole database.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
