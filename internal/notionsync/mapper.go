package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/fintrack/internal/domain"
)

// TransactionToNotionProperties converts a transaction to Notion properties.
// "Transaction ID" is the title property and carries the store ID, which is
// what makes re-syncs idempotent.
func TransactionToNotionProperties(tx domain.Transaction) notionapi.Properties {
	props := notionapi.Properties{
		"Transaction ID": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.ID,
					},
				},
			},
		},
		"Description": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Description,
					},
				},
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: tx.Amount.InexactFloat64(),
		},
		"Type": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(tx.Type),
			},
		},
		"Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					d := notionapi.Date(time.Date(
						tx.Date.Year,
						tx.Date.Month,
						tx.Date.Day,
						0, 0, 0, 0, time.UTC,
					))
					return &d
				}(),
			},
		},
	}

	if tx.CategoryID != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.CategoryID,
			},
		}
	}
	if tx.ScheduleID != "" {
		props["Schedule"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.ScheduleID,
					},
				},
			},
		}
	}

	return props
}

// extractTransactionID pulls the store transaction ID back out of a page's
// title property. Empty when the page was not created by this sync.
func extractTransactionID(page notionapi.Page) string {
	prop, ok := page.Properties["Transaction ID"]
	if !ok {
		return ""
	}
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		return ""
	}
	return title.Title[0].PlainText
}
