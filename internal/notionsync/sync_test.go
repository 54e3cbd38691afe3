package notionsync

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store/memory"
)

type fakeNotion struct {
	pages    []notionapi.Page
	created  []notionapi.Properties
	archived []string
}

func (f *fakeNotion) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	f.created = append(f.created, properties)
	return &notionapi.Page{ID: notionapi.ObjectID("page-new")}, nil
}

func (f *fakeNotion) QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{Results: f.pages, HasMore: false}, nil
}

func (f *fakeNotion) DeletePage(ctx context.Context, pageID string) error {
	f.archived = append(f.archived, pageID)
	return nil
}

func titlePage(pageID, txID string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID(pageID),
		Properties: notionapi.Properties{
			"Transaction ID": &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: txID}},
			},
		},
	}
}

func seedTransaction(t *testing.T, st *memory.Store, id, day string) {
	t.Helper()
	date, err := civil.ParseDate(day)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if _, err := st.CreateTransaction(context.Background(), "alice", domain.Transaction{
		ID:          id,
		Date:        date,
		Description: "tx " + id,
		Amount:      decimal.NewFromInt(10),
		Type:        domain.TypeExpense,
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
}

func TestSyncTransactions_CreatesMissingSkipsExistingArchivesStale(t *testing.T) {
	st := memory.New()
	seedTransaction(t, st, "t1", "2024-03-01")
	seedTransaction(t, st, "t2", "2024-03-02")

	notion := &fakeNotion{
		pages: []notionapi.Page{
			titlePage("page-t1", "t1"),    // already mirrored
			titlePage("page-old", "gone"), // no longer in the store
		},
	}

	start := civil.Date{Year: 2024, Month: 3, Day: 1}
	end := civil.Date{Year: 2024, Month: 3, Day: 31}
	if err := SyncTransactions(context.Background(), st, notion, "db", "alice", start, end, false); err != nil {
		t.Fatalf("SyncTransactions: %v", err)
	}

	if len(notion.created) != 1 {
		t.Fatalf("created = %d pages, want 1", len(notion.created))
	}
	title, ok := notion.created[0]["Transaction ID"].(notionapi.TitleProperty)
	if !ok || title.Title[0].Text.Content != "t2" {
		t.Errorf("created page for %+v, want t2", notion.created[0]["Transaction ID"])
	}

	if len(notion.archived) != 1 || notion.archived[0] != "page-old" {
		t.Errorf("archived = %v, want [page-old]", notion.archived)
	}
}

func TestSyncTransactions_DryRunWritesNothing(t *testing.T) {
	st := memory.New()
	seedTransaction(t, st, "t1", "2024-03-01")

	notion := &fakeNotion{
		pages: []notionapi.Page{titlePage("page-old", "gone")},
	}

	start := civil.Date{Year: 2024, Month: 3, Day: 1}
	end := civil.Date{Year: 2024, Month: 3, Day: 31}
	if err := SyncTransactions(context.Background(), st, notion, "db", "alice", start, end, true); err != nil {
		t.Fatalf("SyncTransactions: %v", err)
	}

	if len(notion.created) != 0 {
		t.Errorf("dry run created %d pages", len(notion.created))
	}
	if len(notion.archived) != 0 {
		t.Errorf("dry run archived %d pages", len(notion.archived))
	}
}

func TestTransactionToNotionProperties(t *testing.T) {
	tx := domain.Transaction{
		ID:          "t9",
		Date:        civil.Date{Year: 2024, Month: 2, Day: 29},
		Description: "Rent",
		Amount:      decimal.NewFromFloat(1200.50),
		Type:        domain.TypeExpense,
		CategoryID:  "housing",
		ScheduleID:  "rent",
	}

	props := TransactionToNotionProperties(tx)

	title := props["Transaction ID"].(notionapi.TitleProperty)
	if title.Title[0].Text.Content != "t9" {
		t.Errorf("title = %q, want t9", title.Title[0].Text.Content)
	}
	amount := props["Amount"].(notionapi.NumberProperty)
	if amount.Number != 1200.50 {
		t.Errorf("amount = %v, want 1200.50", amount.Number)
	}
	sel := props["Type"].(notionapi.SelectProperty)
	if sel.Select.Name != "expense" {
		t.Errorf("type = %q, want expense", sel.Select.Name)
	}
	if _, ok := props["Category"]; !ok {
		t.Error("category property missing")
	}
}

func TestTransactionToNotionProperties_OmitsEmptyOptionals(t *testing.T) {
	props := TransactionToNotionProperties(domain.Transaction{
		ID:     "t1",
		Date:   civil.Date{Year: 2024, Month: 1, Day: 1},
		Amount: decimal.NewFromInt(5),
		Type:   domain.TypeIncome,
	})

	if _, ok := props["Category"]; ok {
		t.Error("category property present for empty category")
	}
	if _, ok := props["Schedule"]; ok {
		t.Error("schedule property present for empty schedule")
	}
}
