package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"USD": "$",
	"IDR": "Rp",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"SGD": "S$",
	"MYR": "RM",
}

// Money formats amounts in one currency with locale-aware digit grouping.
type Money struct {
	printer *message.Printer
	symbol  string
	pattern string
}

// NewMoney creates a formatter for unit using the grouping rules of tag.
func NewMoney(tag language.Tag, unit currency.Unit) Money {
	scale, _ := currency.Standard.Rounding(unit)
	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}
	return Money{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
		pattern: fmt.Sprintf("%%.%df", scale),
	}
}

// DefaultMoney formats US dollars with English grouping.
func DefaultMoney() Money {
	return NewMoney(language.English, currency.USD)
}

// Format renders a float amount such as a catalog price.
func (m Money) Format(amount float64) string {
	if m.printer == nil {
		return fmt.Sprintf("$%.2f", amount)
	}
	return m.symbol + m.printer.Sprintf(m.pattern, amount)
}

// FormatDecimal renders an exact amount such as a cart total.
func (m Money) FormatDecimal(amount decimal.Decimal) string {
	return m.Format(amount.InexactFloat64())
}
