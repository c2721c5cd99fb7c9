package dialog

import (
	"math"
	"strconv"
	"strings"
)

// persianDigits maps Persian and Arabic-Indic digits to their ASCII forms
// so numeric input works from any keyboard layout. The Persian decimal mark
// "٫" becomes a dot; the Arabic comma "،" is a thousands separator and is
// dropped.
var persianDigits = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".", "،", "",
)

// parseNumber parses free-text numeric input.
func parseNumber(text string) (float64, bool) {
	normalized := persianDigits.Replace(strings.TrimSpace(text))

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}

// formatToman renders an amount rounded to whole tomans with thousands
// separators, matching how prices are quoted domestically.
func formatToman(amount float64) string {
	rounded := int64(math.Round(amount))
	return groupDigits(rounded)
}

func groupDigits(v int64) string {
	s := strconv.FormatInt(v, 10)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-" + b.String()
	}

	return b.String()
}

// formatPercent renders a wage percentage without trailing zeros.
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
