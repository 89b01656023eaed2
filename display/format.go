// Package display turns engine output into text for people: rupee
// amounts with Indian digit grouping, slice counts and multiplier labels.
package display

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rustyeddy/slicingpie/pie"
)

// Locale is the language tag used for digit grouping.
var Locale = language.MustParse("en-IN")

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "₹"

func printer() *message.Printer {
	return message.NewPrinter(Locale)
}

// FormatNumber formats v with exactly decimals fraction digits.
func FormatNumber(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return printer().Sprint(number.Decimal(v, number.Scale(decimals)))
}

// FormatCurrency formats v as whole rupees.
func FormatCurrency(v float64) string {
	r := math.Round(v)
	if r < 0 {
		return "-" + CurrencySymbol + FormatNumber(-r, 0)
	}
	return CurrencySymbol + FormatNumber(r, 0)
}

// FormatSlices formats a slice count rounded to the nearest whole slice.
func FormatSlices(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return FormatNumber(r, 0)
}

// FormatMultiplier renders a multiplier the way it was entered, e.g. "2.5×".
func FormatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + "×"
}

// MultiplierLabel is the short multiplier text shown next to a category
// total: "% of total" for percentage-based categories, "-" when there
// are no entries, the multiplier itself when every entry shares one,
// and the weighted average to two places otherwise.
func MultiplierLabel(bd pie.CategoryBreakdown, c pie.Category) string {
	switch {
	case c.IsPercentageBased:
		return "% of total"
	case len(bd.Entries) == 0:
		return "-"
	case len(bd.Entries) == 1:
		return FormatMultiplier(bd.Entries[0].Multiplier)
	}
	return FormatNumber(bd.AverageMultiplier, 2) + "×"
}

// EntryNoun pluralizes "entry".
func EntryNoun(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
