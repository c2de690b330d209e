package render

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PriceFormatter renders amounts as a fixed prefix followed by a grouped
// number with two decimals, e.g. "Rs. 1,500.00".
type PriceFormatter struct {
	prefix    string
	printer   *message.Printer
	separator string
}

func NewPriceFormatter(prefix string, tag language.Tag) PriceFormatter {
	printer := message.NewPrinter(tag)

	// "1.5" in the locale, digits stripped, leaves the decimal separator
	separator := strings.Trim(printer.Sprint(number.Decimal(1.5, number.MinFractionDigits(1))), "0123456789")
	if separator == "" {
		separator = "."
	}

	return PriceFormatter{
		prefix:    prefix,
		printer:   printer,
		separator: separator,
	}
}

// Format groups the integer part with the locale printer and appends the
// fraction digits taken from the exact decimal, so no float conversion is
// involved.
func (f PriceFormatter) Format(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, fraction, _ := strings.Cut(fixed, ".")

	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}

	return f.prefix + sign + f.groupDigits(whole) + f.separator + fraction
}

func (f PriceFormatter) groupDigits(whole string) string {
	value, err := decimal.NewFromString(whole)
	if err != nil || !value.BigInt().IsInt64() {
		return whole
	}
	return f.printer.Sprint(number.Decimal(value.IntPart()))
}
