package dataset

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParseMoney converts a currency cell ("$1,234.50") to its numeric value.
// Missing or unparsable values count as zero; sums must never abort on a
// dirty cell.
func ParseMoney(val string) float64 {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(val))
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders a value as "$1,234.50": dollar sign, thousands
// grouping, two decimals. This matches the figures already circulating in
// the agency's reports.
func FormatMoney(v float64) string {
	return moneyPrinter.Sprintf("$%.2f", v)
}
