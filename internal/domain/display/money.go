package display

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every amount shown by the dashboard
const CurrencySymbol = "₹"

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with digit grouping and at most two decimals, e.g. "₹12,345.5"
func FormatAmount(d decimal.Decimal) string {
	return CurrencySymbol + amountPrinter.Sprintf("%v", number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

// PlainAmount renders an amount without grouping, as the order tables do, e.g. "₹1234.5"
func PlainAmount(d decimal.Decimal) string {
	return CurrencySymbol + d.String()
}
