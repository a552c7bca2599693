package gemini

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/budget-bot/internal/domain"
)

// Models often wrap JSON in prose or markdown fences; take the outermost
// brace-delimited object.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

func extractJSON(text string) ([]byte, error) {
	m := jsonObjectRe.FindString(text)
	if m == "" {
		return nil, fmt.Errorf("gemini: no JSON object in response")
	}
	return []byte(m), nil
}

// coerceAmount accepts the amount as a JSON number or a string with
// thousands separators.
func coerceAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(n, ",", "")), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var knownCategories = []string{
	domain.CategoryFood,
	domain.CategoryGroceries,
	domain.CategoryTransport,
	domain.CategoryVehicle,
	domain.CategoryBills,
	domain.CategoryHealth,
	domain.CategoryFashion,
	domain.CategoryElectronics,
	domain.CategoryPersonalCare,
	domain.CategoryEducation,
	domain.CategoryEntertainment,
	domain.CategoryShopping,
	domain.CategoryHome,
	domain.CategoryMiscellaneous,
}

// normalizeCategory maps the model's category to the canonical list,
// case-insensitively. Anything unknown becomes Miscellaneous.
func normalizeCategory(cat string) string {
	cat = strings.TrimSpace(cat)
	for _, known := range knownCategories {
		if strings.EqualFold(cat, known) {
			return known
		}
	}
	return domain.CategoryMiscellaneous
}
