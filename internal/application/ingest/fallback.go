package ingest

import (
	"strings"

	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/pkg/inr"
)

// Heuristic categorization used when the language model is unavailable or
// returns garbage. Emojis are checked before keywords so "🍕 500" lands on
// Food even without any food word.
var (
	electronicsEmojis = []string{"💻", "📱", "⌚", "🖥️", "🖨️", "📷", "🎮"}
	foodEmojis        = []string{"🍕", "🍔", "🍟", "🍗", "🍖", "🥗", "🍣", "🍩", "🍦", "🍨", "🧁", "🍰", "🍪"}
	transportEmojis   = []string{"🚗", "🚕", "🚌", "🚆", "✈️", "🛵", "🚲", "🚅", "🚄"}

	categoryKeywords = []struct {
		category string
		words    []string
	}{
		{domain.CategoryFood, []string{"food", "meal", "lunch", "dinner", "breakfast", "restaurant", "eat", "coffee", "tea", "cafe"}},
		{domain.CategoryGroceries, []string{"grocery", "groceries", "supermarket", "fruit", "vegetable"}},
		{domain.CategoryTransport, []string{"uber", "ola", "taxi", "auto", "transport", "travel", "bus", "train", "metro"}},
		{domain.CategoryVehicle, []string{"car", "bike", "cycle", "repair", "service", "motor", "fuel", "petrol", "diesel"}},
		{domain.CategoryBills, []string{"bill", "recharge", "subscription", "electricity", "water", "internet", "phone bill"}},
		{domain.CategoryHealth, []string{"medicine", "doctor", "hospital", "medical", "health", "clinic", "dentist"}},
		{domain.CategoryFashion, []string{"clothes", "dress", "shirt", "pant", "shoe", "footwear", "apparel", "fashion"}},
		{domain.CategoryElectronics, []string{"phone", "mobile", "laptop", "computer", "gadget", "electronics", "device"}},
		{domain.CategoryEntertainment, []string{"movie", "game", "show", "concert", "entertainment", "theatre", "amusement"}},
		{domain.CategoryEducation, []string{"book", "course", "class", "tuition", "school", "college", "education"}},
	}

	fallbackMessages = map[string]string{
		domain.CategoryElectronics: "New gadget! 📱 Your electronics purchase has been logged. Enjoy your new device!",
		domain.CategoryBills:       "Payment noted! 🧾 I've recorded your bill payment. Keeping your expenses organized!",
		domain.CategoryFood:        "Yum! 🍔 I've added your food expense to your tracker. Bon appétit!",
		domain.CategoryTransport:   "On the move! 🚗 I've logged your transport expense. Safe travels!",
	}
)

// FallbackAnalysis extracts an expense from text without the language model:
// a regex pulls the amount (with k/lakh/crore multipliers) and emoji and
// keyword lookups pick the category. Amount stays 0 when no amount is found.
func FallbackAnalysis(text string) domain.ExpenseAnalysis {
	a := domain.ExpenseAnalysis{Category: fallbackCategory(text)}
	if amount, ok := inr.ExtractAmount(text); ok {
		a.Amount = amount
	}
	a.Message = fallbackMessage(a.Category)
	return a
}

func fallbackCategory(text string) string {
	for _, e := range electronicsEmojis {
		if strings.Contains(text, e) {
			return domain.CategoryElectronics
		}
	}
	for _, e := range foodEmojis {
		if strings.Contains(text, e) {
			return domain.CategoryFood
		}
	}
	for _, e := range transportEmojis {
		if strings.Contains(text, e) {
			return domain.CategoryTransport
		}
	}

	lower := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		if containsAny(lower, ck.words) {
			return ck.category
		}
	}
	return domain.CategoryMiscellaneous
}

func fallbackMessage(category string) string {
	if msg, ok := fallbackMessages[category]; ok {
		return msg
	}
	return "Got it! 💰 Your expense has been recorded. Thanks for keeping track!"
}
