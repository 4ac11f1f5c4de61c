package formatter

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.MustParse("es-MX"))

// Money formats a whole-peso amount with locale grouping, e.g. "$3,800".
// Amounts are rounded half away from zero.
func Money(d decimal.Decimal) string {
	return moneyPrinter.Sprintf("$%d", d.Round(0).IntPart())
}

// MoneyCents formats an amount with two decimals, used for per-session
// payments that rarely divide evenly.
func MoneyCents(d decimal.Decimal) string {
	return moneyPrinter.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}
