package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceDateLayout yields "DD-MM-YYYY HHMM"; FormatInvoiceDate appends " HRS".
const InvoiceDateLayout = "02-01-2006 1504"

func FormatInvoiceDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(InvoiceDateLayout) + " HRS"
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LastDigits returns the trailing n digits of the digit-normalized input, or "" when it has fewer.
func LastDigits(s string, n int) string {
	d := DigitsOnly(s)
	if len(d) < n {
		return ""
	}
	return d[len(d)-n:]
}

// Money formats to two decimals for display.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
