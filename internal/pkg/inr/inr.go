// Package inr parses and formats Indian-rupee amounts, including the
// shorthand multipliers k (thousand), lakh and crore.
package inr

import (
	"regexp"
	"strconv"
	"strings"
)

var amountRe = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*(k|thousand|l|lakh|lakhs|cr|crore|crores)?\b`)

// ExtractAmount finds the first amount in free-form text and applies any
// shorthand multiplier ("5k" = 5000, "1.5L" = 150000, "1Cr" = 10000000).
func ExtractAmount(text string) (float64, bool) {
	text = strings.ReplaceAll(text, ",", "")
	m := amountRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[3]) {
	case "k", "thousand":
		amount *= 1_000
	case "l", "lakh", "lakhs":
		amount *= 100_000
	case "cr", "crore", "crores":
		amount *= 10_000_000
	}
	return amount, true
}

// Format renders an amount with comma thousands separators, trimming a
// fractional part of zero: 1234.5 -> "1,234.5", 2000 -> "2,000".
func Format(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
