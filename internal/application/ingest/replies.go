package ingest

import (
	"fmt"
	"html"

	"github.com/budget-bot/internal/application/expense"
	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/pkg/inr"
)

const helpReply = `<b>👋 Hello! I'm your Expense Tracker Assistant!</b>

I can help you track expenses and provide insights about your spending habits.

<b>Here's how you can use me:</b>

<b>1️⃣ To record expenses, try formats like:</b>
• "spent 500 on dinner"
• "paid 1200 for groceries"
• "bought shoes for 3000"
• "purchased phone for 15000"
• "2000 for rent"
• "taxi 300"
• "1.5L for laptop" (I understand ₹, k, L and Cr formats)

<b>2️⃣ To review your expenses, ask me:</b>
• "show my expenses"
• "what did I spend today"
• "show my last expense"
• "show my expenses from last week"
• "what are my total expenses this month"

<b>3️⃣ To clean up your expenses:</b>
• "delete all my expenses"
• "erase my expenses from last month"
• "clear my expense history"

Just tell me what you bought and how much it cost, or ask about your spending history!`

const (
	noExpensesToDeleteReply = "You don't have any expenses to delete."
	deletionCancelledReply  = "Expense deletion cancelled. Your data remains intact."
	noPendingDeletionReply  = "I don't have any pending deletion requests for you."
)

func expenseRecordedReply(a domain.ExpenseAnalysis) string {
	return fmt.Sprintf("₹%s marked under <b>%s</b> expenses. <i>%s</i>",
		inr.Format(a.Amount), a.Category, html.EscapeString(a.Message))
}

func deletionPromptReply(t *expense.DeletionTicket) string {
	return fmt.Sprintf(`<b>⚠️ Expense Deletion Confirmation</b>

You've requested to delete <b>%d expenses</b> (%s) with a total value of <b>₹%s</b>.

<b>This action cannot be undone!</b>

To confirm deletion, please reply with:
<code>confirm %s</code>

To cancel, simply ignore this message or type "cancel".`,
		t.Count, html.EscapeString(t.Description), inr.Format(t.Total), t.Code)
}

func deletionDoneReply(deleted int, description string) string {
	return fmt.Sprintf("✅ Successfully deleted %d expenses (%s). Your expense history has been updated.",
		deleted, html.EscapeString(description))
}
