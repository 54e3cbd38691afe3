package advice

import (
	"fmt"
	"strings"
)

// Prompt builders are pure functions so they can be tested without a model
// behind them. Flows that need structured output spell out the exact JSON
// shape and forbid Markdown fences; the model still ignores that often enough
// that responses go through cleanModelJSON before parsing.

func buildSpendingInsightsPrompt(req SpendingInsightsRequest) string {
	var b strings.Builder
	b.WriteString("You are a personal finance advisor. Analyze the user's income, expenses, budget, ")
	b.WriteString("and financial accounts, and provide personalized insights and recommendations to ")
	b.WriteString("help them better manage their finances.\n\n")

	fmt.Fprintf(&b, "Income: %s\n", req.Income)

	b.WriteString("Expenses:\n")
	for _, e := range req.Expenses {
		fmt.Fprintf(&b, "- Category: %s, Amount: %s\n", e.Category, e.Amount)
	}

	b.WriteString("Budget:\n")
	for _, bg := range req.Budgets {
		fmt.Fprintf(&b, "- Category: %s, Limit: %s\n", bg.Category, bg.Amount)
	}

	writeAccounts(&b, req.Accounts)
	writeCards(&b, req.CreditCards)

	b.WriteString("\nProvide a list of insights and recommendations, focusing on areas where the user ")
	b.WriteString("can save money, potential risks to their budget, and opportunities to improve their ")
	b.WriteString("financial health. Be concise and actionable.\n\n")
	b.WriteString("Output STRICT JSON only: a JSON array of strings, one insight per element. ")
	b.WriteString("Do NOT wrap the response in code fences. Output must begin with \"[\" and end with \"]\".\n")

	return b.String()
}

func buildWellnessPrompt(req WellnessRequest) string {
	var b strings.Builder
	b.WriteString("You are a financial advisor providing personalized recommendations to improve ")
	b.WriteString("financial wellness. Based on the user's spending data, income, savings, financial ")
	b.WriteString("goals, and financial accounts, provide a wellness score (0-100) and actionable ")
	b.WriteString("recommendations.\n\n")

	fmt.Fprintf(&b, "Spending Data: %s\n", req.SpendingData)
	fmt.Fprintf(&b, "Income: %s\n", req.Income)
	fmt.Fprintf(&b, "Savings: %s\n", req.Savings)
	fmt.Fprintf(&b, "Financial Goals: %s\n", req.FinancialGoals)

	writeAccounts(&b, req.Accounts)
	writeCards(&b, req.CreditCards)

	b.WriteString("\nThe score should reflect the user's overall financial health, considering income, ")
	b.WriteString("spending habits, savings, debts, and progress toward their goals. Recommendations ")
	b.WriteString("should be specific and practical. Be concise.\n\n")
	b.WriteString("Output STRICT JSON only, exactly this shape:\n")
	b.WriteString("{\"wellness_score\": <integer 0-100>, \"recommendations\": \"<text>\"}\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")

	return b.String()
}

func buildGoalAdvicePrompt(req GoalAdviceRequest) string {
	var b strings.Builder
	b.WriteString("You are a helpful and encouraging financial coach. Your task is to provide ")
	b.WriteString("actionable advice to a user trying to reach a financial goal.\n\n")

	b.WriteString("Goal Information:\n")
	fmt.Fprintf(&b, "- Goal: %s\n", req.GoalName)
	fmt.Fprintf(&b, "- Target Amount: %s\n", req.TargetAmount)
	fmt.Fprintf(&b, "- Already Saved: %s\n", req.SavedAmount)
	fmt.Fprintf(&b, "- Target Date: %s\n", req.TargetDate)

	b.WriteString("\nUser's Financials:\n")
	fmt.Fprintf(&b, "- Monthly Income: %s\n", req.MonthlyIncome)
	fmt.Fprintf(&b, "- Monthly Expenses: %s\n", req.MonthlyExpenses)

	b.WriteString("\nCalculate the remaining amount to save and the required monthly savings to meet ")
	b.WriteString("the goal on time, and provide a step-by-step plan. If the goal seems unrealistic ")
	b.WriteString("with the current financials, gently point it out and suggest either extending the ")
	b.WriteString("timeline or finding ways to increase savings. Your tone should be positive and ")
	b.WriteString("empowering.\n")

	return b.String()
}

func buildCreditCardAdvicePrompt(req CreditCardAdviceRequest) string {
	var b strings.Builder
	b.WriteString("You are a financial advisor specializing in credit card debt management. Analyze ")
	b.WriteString("the user's credit card statement and provide clear, actionable advice on the ")
	b.WriteString("upcoming payment.\n\n")

	fmt.Fprintf(&b, "Card: %s\n", req.CardName)
	fmt.Fprintf(&b, "Statement Balance: %s\n", req.StatementBalance)
	fmt.Fprintf(&b, "Payment Due Date: %s\n", req.DueDate)

	b.WriteString("\nTransactions:\n")
	for _, tx := range req.Transactions {
		fmt.Fprintf(&b, "- %s: %s - %s\n", tx.Date, tx.Description, tx.Amount)
	}

	b.WriteString("\nProvide a concise recommendation on how much to pay (minimum, full statement, or ")
	b.WriteString("a custom amount) and the reasoning behind it. Explain the benefits of paying the ")
	b.WriteString("full statement balance versus the minimum payment. If the balance is large, suggest ")
	b.WriteString("a payment strategy. Be encouraging and clear.\n")

	return b.String()
}

func writeAccounts(b *strings.Builder, accounts []AccountBalance) {
	if len(accounts) == 0 {
		return
	}
	b.WriteString("Bank Accounts:\n")
	for _, a := range accounts {
		fmt.Fprintf(b, "- %s (%s): $%s\n", a.Name, a.Type, a.Balance)
	}
}

func writeCards(b *strings.Builder, cards []CardBalance) {
	if len(cards) == 0 {
		return
	}
	b.WriteString("Credit Cards:\n")
	for _, c := range cards {
		fmt.Fprintf(b, "- %s: $%s balance\n", c.Name, c.Balance)
	}
}
