package advice

import "github.com/shopspring/decimal"

// CategoryAmount pairs a category name with an amount, used for expense and
// budget summaries in advice requests.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// AccountBalance is a bank account snapshot included in advice requests.
type AccountBalance struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

// CardBalance is a credit card snapshot included in advice requests.
type CardBalance struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// SpendingInsightsRequest carries the figures for the spending-insights flow.
type SpendingInsightsRequest struct {
	Income      decimal.Decimal  `json:"income"`
	Expenses    []CategoryAmount `json:"expenses"`
	Budgets     []CategoryAmount `json:"budgets"`
	Accounts    []AccountBalance `json:"accounts,omitempty"`
	CreditCards []CardBalance    `json:"credit_cards,omitempty"`
}

// SpendingInsightsResponse is a list of insights and recommendations.
type SpendingInsightsResponse struct {
	Insights []string `json:"insights"`
}

// WellnessRequest carries the figures for the financial-wellness flow.
type WellnessRequest struct {
	SpendingData   string           `json:"spending_data"`
	Income         decimal.Decimal  `json:"income"`
	Savings        decimal.Decimal  `json:"savings"`
	FinancialGoals string           `json:"financial_goals"`
	Accounts       []AccountBalance `json:"accounts,omitempty"`
	CreditCards    []CardBalance    `json:"credit_cards,omitempty"`
}

// WellnessResponse is a 0-100 score plus recommendations.
type WellnessResponse struct {
	WellnessScore   int    `json:"wellness_score"`
	Recommendations string `json:"recommendations"`
}

// GoalAdviceRequest carries the figures for the goal-achievement flow.
type GoalAdviceRequest struct {
	GoalName        string          `json:"goal_name"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	SavedAmount     decimal.Decimal `json:"saved_amount"`
	TargetDate      string          `json:"target_date"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
}

// GoalAdviceResponse is free-text advice.
type GoalAdviceResponse struct {
	Advice string `json:"advice"`
}

// CardTransaction is one statement line in a credit-card advice request.
type CardTransaction struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// CreditCardAdviceRequest carries a statement for the payment-advice flow.
type CreditCardAdviceRequest struct {
	CardName         string            `json:"card_name"`
	StatementBalance decimal.Decimal   `json:"statement_balance"`
	DueDate          string            `json:"due_date"`
	Transactions     []CardTransaction `json:"transactions"`
}

// CreditCardAdviceResponse is free-text payment advice.
type CreditCardAdviceResponse struct {
	Advice string `json:"advice"`
}
