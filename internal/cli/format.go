// Package cli renders loan calculations for the loancalc command line tool
// and reads the TOML loan files it works on.
package cli

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

// FormatMoney formats an amount with two decimals and thousands separators.
// e.g., 1234567.891 -> "1,234,567.89"
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// FormatPercent formats a percentage with one decimal
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// FormatMonths formats a month count as years and months.
// e.g., 27 -> "2y 3m", 12 -> "1y", 5 -> "5m"
func FormatMonths(n int) string {
	if n == 0 {
		return "0m"
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	years, months := n/12, n%12
	switch {
	case years == 0:
		return sign + itoa(months) + "m"
	case months == 0:
		return sign + itoa(years) + "y"
	default:
		return sign + itoa(years) + "y " + itoa(months) + "m"
	}
}

// FormatDate formats a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateFormat)
}

func itoa(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}
