package ingest

import (
	"regexp"
	"strings"
)

// Confirmation classifies a reply to a pending deletion prompt.
type Confirmation int

const (
	ConfirmationNone Confirmation = iota
	ConfirmationCancel
	ConfirmationCode
)

var (
	// Common typos for "show" seen in real traffic.
	showVariants = []string{"show", "shwo", "shoq", "sho", "sbow"}

	directQueries = []string{
		"my expenses",
		"what did i spend",
		"how much did i spend",
		"total expenses",
		"expense report",
		"spending summary",
	}

	queryKeywords = []string{
		"show", "shwo", "list", "display", "tell me", "what", "how much",
		"total", "summary", "report", "analysis", "breakdown",
	}
	expenseTerms = []string{"expense", "spent", "spend", "cost", "payment"}

	deletionKeywords = []string{"delete", "remove", "erase", "clear", "clean", "wipe", "purge"}
	deletionTargets  = []string{"expense", "expenses", "history", "data", "records", "transactions"}

	confirmRe      = regexp.MustCompile(`^confirm\s+(\w+)$`)
	queryKeywordRe = regexp.MustCompile(`(?:show|display|list|my expenses|total)`)
	numberRe       = regexp.MustCompile(`\d`)
)

// IsExpenseQuery reports whether the text asks about past spending.
func IsExpenseQuery(text string) bool {
	lower := strings.ToLower(text)

	for _, v := range showVariants {
		if strings.Contains(lower, v+" my expenses") ||
			strings.Contains(lower, v+" expenses") ||
			strings.Contains(lower, v+" my transactions") {
			return true
		}
	}
	for _, q := range directQueries {
		if strings.Contains(lower, q) {
			return true
		}
	}
	return containsAny(lower, queryKeywords) && containsAny(lower, expenseTerms)
}

// IsDeletionRequest reports whether the text asks to erase expense history.
// It needs both a deletion verb and a target noun so "delete the meeting"
// does not trigger.
func IsDeletionRequest(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, deletionKeywords) && containsAny(lower, deletionTargets)
}

// ParseConfirmation recognizes "cancel" and "confirm <code>" replies,
// returning the code in the latter case.
func ParseConfirmation(text string) (Confirmation, string) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "cancel" {
		return ConfirmationCancel, ""
	}
	if m := confirmRe.FindStringSubmatch(lower); m != nil {
		return ConfirmationCode, m[1]
	}
	return ConfirmationNone, ""
}

// looksLikeQuery guards the expense-entry path so "show my expenses from the
// last 30 days" is never recorded as a 30-rupee expense.
func looksLikeQuery(text string) bool {
	return queryKeywordRe.MatchString(strings.ToLower(text))
}

func hasNumber(text string) bool {
	return numberRe.MatchString(text)
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
