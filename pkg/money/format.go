// Package money formatea montos enteros en la moneda de la tienda ("25 000 XOF").
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formatea montos con separador de miles francés y sufijo de moneda.
type Formatter struct {
	currency string
	printer  *message.Printer
}

// NewFormatter crea un formatter para la moneda indicada (XOF por defecto).
func NewFormatter(currency string) *Formatter {
	if currency == "" {
		currency = "XOF"
	}
	return &Formatter{
		currency: currency,
		printer:  message.NewPrinter(language.French),
	}
}

// Format redondea a la unidad monetaria y devuelve "N XOF".
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.Number(amount) + " " + f.currency
}

// Number devuelve solo la parte numérica agrupada por miles ("25 000").
func (f *Formatter) Number(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	s := f.printer.Sprintf("%d", n)
	// CLDR usa espacios no separables (U+00A0 / U+202F); se normalizan a espacio simple
	return strings.Map(func(r rune) rune {
		if r == '\u00a0' || r == '\u202f' {
			return ' '
		}
		return r
	}, s)
}

// Currency código de moneda configurado.
func (f *Formatter) Currency() string { return f.currency }

var defaultFormatter = NewFormatter("XOF")

// Format atajo con la moneda por defecto (XOF).
func Format(amount decimal.Decimal) string {
	return defaultFormatter.Format(amount)
}
