package currency

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"IDR": "IDR ",
}

var printer = message.NewPrinter(language.English)

// Format renders an amount with its currency symbol and two decimals, grouping
// thousands with commas. Unknown but valid ISO codes are used as a prefix.
func Format(code string, amount float64) string {
	rounded := math.Round(amount*100) / 100

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	result := Symbol(code) + printer.Sprintf("%.2f", rounded)
	if negative {
		result = "-" + result
	}
	return result
}

func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if s, ok := symbols[code]; ok {
		return s
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "$"
	}
	return unit.String() + " "
}
