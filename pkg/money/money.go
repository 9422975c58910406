// Package money formatea importes en rupias indias.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR devuelve el importe con símbolo ₹, agrupación india y dos decimales, ej. ₹1,23,456.50.
func FormatINR(d decimal.Decimal) string {
	return "₹" + printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Plain devuelve el importe con dos decimales y sin separadores (CSV).
func Plain(d decimal.Decimal) string {
	return d.StringFixed(2)
}
