package advice

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildSpendingInsightsPrompt(t *testing.T) {
	req := SpendingInsightsRequest{
		Income: decimal.NewFromInt(5000),
		Expenses: []CategoryAmount{
			{Category: "Groceries", Amount: decimal.NewFromFloat(423.17)},
			{Category: "Transport", Amount: decimal.NewFromInt(120)},
		},
		Budgets: []CategoryAmount{
			{Category: "Groceries", Amount: decimal.NewFromInt(400)},
		},
		Accounts: []AccountBalance{
			{Name: "Everyday", Type: "checking", Balance: decimal.NewFromInt(2100)},
		},
		CreditCards: []CardBalance{
			{Name: "Platinum", Balance: decimal.NewFromFloat(812.44)},
		},
	}

	prompt := buildSpendingInsightsPrompt(req)

	for _, want := range []string{
		"Income: 5000",
		"Category: Groceries, Amount: 423.17",
		"Category: Groceries, Limit: 400",
		"Everyday (checking): $2100",
		"Platinum: $812.44 balance",
		"STRICT JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSpendingInsightsPrompt_OmitsEmptySections(t *testing.T) {
	prompt := buildSpendingInsightsPrompt(SpendingInsightsRequest{
		Income: decimal.NewFromInt(1000),
	})

	if strings.Contains(prompt, "Bank Accounts:") {
		t.Error("prompt should omit accounts section when none provided")
	}
	if strings.Contains(prompt, "Credit Cards:") {
		t.Error("prompt should omit cards section when none provided")
	}
}

func TestBuildWellnessPrompt(t *testing.T) {
	prompt := buildWellnessPrompt(WellnessRequest{
		SpendingData:   "mostly groceries and rent",
		Income:         decimal.NewFromInt(4000),
		Savings:        decimal.NewFromInt(12000),
		FinancialGoals: "buy a flat",
	})

	for _, want := range []string{
		"Spending Data: mostly groceries and rent",
		"Income: 4000",
		"Savings: 12000",
		"Financial Goals: buy a flat",
		`"wellness_score"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildGoalAdvicePrompt(t *testing.T) {
	prompt := buildGoalAdvicePrompt(GoalAdviceRequest{
		GoalName:        "House deposit",
		TargetAmount:    decimal.NewFromInt(30000),
		SavedAmount:     decimal.NewFromInt(7500),
		TargetDate:      "2026-06-01",
		MonthlyIncome:   decimal.NewFromInt(4200),
		MonthlyExpenses: decimal.NewFromInt(3100),
	})

	for _, want := range []string{
		"Goal: House deposit",
		"Target Amount: 30000",
		"Already Saved: 7500",
		"Target Date: 2026-06-01",
		"Monthly Income: 4200",
		"Monthly Expenses: 3100",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildCreditCardAdvicePrompt(t *testing.T) {
	prompt := buildCreditCardAdvicePrompt(CreditCardAdviceRequest{
		CardName:         "Platinum",
		StatementBalance: decimal.NewFromFloat(1534.22),
		DueDate:          "2024-03-15",
		Transactions: []CardTransaction{
			{Date: "2024-02-20", Description: "Supermarket", Amount: decimal.NewFromFloat(84.10)},
		},
	})

	for _, want := range []string{
		"Card: Platinum",
		"Statement Balance: 1534.22",
		"Payment Due Date: 2024-03-15",
		"2024-02-20: Supermarket - 84.1",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain array", `["a","b"]`, `["a","b"]`},
		{"plain object", `{"wellness_score": 70}`, `{"wellness_score": 70}`},
		{"json fences", "```json\n[\"a\"]\n```", `["a"]`},
		{"bare fences", "```\n{\"k\":1}\n```", `{"k":1}`},
		{"leading prose", "Here you go:\n[\"a\"]", `["a"]`},
		{"trailing prose", "{\"k\":1}\nHope this helps!", `{"k":1}`},
		{"whitespace", "  \n [1,2] \n", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanModelJSON_ParsesWellnessShape(t *testing.T) {
	raw := "```json\n{\"wellness_score\": 72, \"recommendations\": \"Save more.\"}\n```"

	var resp WellnessResponse
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.WellnessScore != 72 || resp.Recommendations != "Save more." {
		t.Errorf("parsed %+v", resp)
	}
}
