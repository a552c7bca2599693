package expense

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/pkg/inr"
)

const maxSummaryLines = 5

// FormatSummary renders an HTML expense summary for a Telegram reply.
// Expenses arrive in ascending timestamp order and are presented newest
// first. A limit of 1 switches to a single-expense view; threshold is the
// spending level that triggers budget warnings (0 disables them).
func FormatSummary(expenses []domain.ProcessedMessage, r domain.QueryRange, threshold float64) string {
	if len(expenses) == 0 {
		return fmt.Sprintf("No expenses found for %s! 💸", html.EscapeString(r.Description))
	}

	// Newest first for display.
	ordered := make([]domain.ProcessedMessage, len(expenses))
	for i, e := range expenses {
		ordered[len(expenses)-1-i] = e
	}
	if r.Limit > 0 && r.Limit < len(ordered) {
		ordered = ordered[:r.Limit]
	}

	if r.Limit == 1 {
		return formatSingle(ordered[0])
	}

	total := 0.0
	byCategory := map[string]float64{}
	for _, e := range ordered {
		total += e.Amount
		byCategory[e.Category] += e.Amount
	}

	var lines []string
	if r.Limit > 0 {
		lines = append(lines, fmt.Sprintf("<b>💰 Your %d Most Recent Expenses</b>", len(ordered)))
	} else {
		lines = append(lines, fmt.Sprintf("<b>💰 Your Expenses (%s)</b>", html.EscapeString(r.Description)))
	}
	lines = append(lines, fmt.Sprintf("<b>Total:</b> <u><b>₹%s</b></u>", inr.Format(total)))

	lines = append(lines, "\n<b>Category Breakdown:</b>")
	for _, c := range sortedCategories(byCategory) {
		pct := byCategory[c] / total * 100
		lines = append(lines, fmt.Sprintf("• <b>%s:</b> ₹%s (%.1f%%)", c, inr.Format(byCategory[c]), pct))
	}

	lines = append(lines, "\n<b>Transactions:</b>")
	shown := ordered
	if len(shown) > maxSummaryLines {
		shown = shown[:maxSummaryLines]
	}
	for _, e := range shown {
		lines = append(lines, fmt.Sprintf("• ₹%s - %s (%s)", inr.Format(e.Amount), html.EscapeString(detailsOf(e)), formatDate(e.Timestamp)))
	}
	if rest := len(ordered) - len(shown); rest > 0 && r.Limit == 0 {
		lines = append(lines, fmt.Sprintf("\n<i>+ %d more transactions</i>", rest))
	}

	if threshold > 0 && total >= 0.8*threshold {
		if total >= threshold {
			lines = append(lines, fmt.Sprintf(
				"\n<b>⚠️ You have reached your threshold of ₹%s!</b> You're now at ₹%s. Be careful, you're getting close to overspending!",
				inr.Format(threshold), inr.Format(total)))
		} else {
			lines = append(lines, fmt.Sprintf(
				"\n<b>⚠️ You've reached 80%% of your threshold!</b> ₹%s out of ₹%s. Watch out, you're almost there!",
				inr.Format(total), inr.Format(threshold)))
		}
	}
	return strings.Join(lines, "\n")
}

func formatSingle(e domain.ProcessedMessage) string {
	lines := []string{
		"<b>💰 Your Most Recent Expense</b>",
		fmt.Sprintf("<b>Amount:</b> ₹%s", inr.Format(e.Amount)),
		fmt.Sprintf("<b>Category:</b> %s", e.Category),
		fmt.Sprintf("<b>Details:</b> %s", html.EscapeString(detailsOf(e))),
		fmt.Sprintf("<b>Date:</b> %s", formatDate(e.Timestamp)),
	}
	return strings.Join(lines, "\n")
}

func detailsOf(e domain.ProcessedMessage) string {
	if strings.TrimSpace(e.Description) != "" {
		return e.Description
	}
	return e.Category
}

func formatDate(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Format("02 Jan, 15:04")
}

// sortedCategories orders categories by spend, largest first, with a name
// tie-break so output is stable.
func sortedCategories(byCategory map[string]float64) []string {
	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if byCategory[cats[i]] != byCategory[cats[j]] {
			return byCategory[cats[i]] > byCategory[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats
}
