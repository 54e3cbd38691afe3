package export

import (
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/fintrack/internal/domain"
)

func TestBuildCSV(t *testing.T) {
	transactions := []domain.Transaction{
		{
			ID:          "t1",
			Date:        civil.Date{Year: 2024, Month: 2, Day: 29},
			Description: "Rent, downtown flat",
			Amount:      decimal.NewFromInt(1200),
			Type:        domain.TypeExpense,
			CategoryID:  "housing",
			ScheduleID:  "rent",
		},
		{
			ID:          "t2",
			Date:        civil.Date{Year: 2024, Month: 3, Day: 1},
			Description: "Salary",
			Amount:      decimal.NewFromFloat(4321.50),
			Type:        domain.TypeIncome,
			AccountID:   "acc1",
		},
	}

	data, err := BuildCSV(transactions)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), data)
	}
	if lines[0] != "id,date,description,amount,type,category_id,account_id,credit_card_id,schedule_id" {
		t.Errorf("header = %q", lines[0])
	}
	// Commas inside fields must be quoted.
	if !strings.Contains(lines[1], `"Rent, downtown flat"`) {
		t.Errorf("row 1 = %q, want quoted description", lines[1])
	}
	if !strings.Contains(lines[1], "2024-02-29") || !strings.Contains(lines[1], "1200") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "4321.5") || !strings.Contains(lines[2], "income") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestBuildCSV_Empty(t *testing.T) {
	data, err := BuildCSV(nil)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}
	if got := strings.TrimSpace(string(data)); !strings.HasPrefix(got, "id,date,") || strings.Count(got, "\n") != 0 {
		t.Errorf("empty export = %q, want header only", got)
	}
}
