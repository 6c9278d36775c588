package market

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// currencySymbols covers the currencies the dashboard accepts as input.
// Anything else renders with its ISO code as the prefix.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// abbreviation steps, largest first.
var abbreviations = []struct {
	threshold float64
	suffix    string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCurrency renders a monetary amount. When abbreviated, values of 1000
// or more collapse to K/M/B/T with one decimal; otherwise the full amount is
// printed with locale grouping and no decimals.
func FormatCurrency(amount float64, code string, abbreviated bool) string {
	sym := symbolFor(code)

	if abbreviated {
		abs := math.Abs(amount)
		for _, a := range abbreviations {
			if abs >= a.threshold {
				return sym + strconv.FormatFloat(amount/a.threshold, 'f', 1, 64) + a.suffix
			}
		}
	}

	p := message.NewPrinter(language.AmericanEnglish)
	return sym + p.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}

func symbolFor(code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "$"
	}
	iso := unit.String()
	if sym, ok := currencySymbols[iso]; ok {
		return sym
	}
	return iso + " "
}

// multiplier suffixes accepted on user input, case-insensitive.
var suffixMultipliers = map[byte]float64{
	'k': 1e3,
	'm': 1e6,
	'b': 1e9,
	't': 1e12,
}

// ParseCurrencyInput converts user-typed money text ("$1.5M", "2,500,000",
// "€3b") into a number. Currency symbols, commas, and whitespace are stripped;
// a trailing k/m/b/t expands to its multiplier.
func ParseCurrencyInput(input string) (float64, error) {
	s := strings.TrimSpace(input)
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, eris.New("market: empty currency input")
	}

	mult := 1.0
	last := s[len(s)-1] | 0x20 // lowercase ASCII
	if m, ok := suffixMultipliers[last]; ok {
		mult = m
		s = s[:len(s)-1]
	}
	if s == "" {
		return 0, eris.Errorf("market: cannot parse currency input %q", input)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "market: cannot parse currency input %q", input)
	}
	return v * mult, nil
}
