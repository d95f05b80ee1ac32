package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// n < 100
func belowHundred(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}

// IndianNumberWords spells n using the Indian grouping (Crore, Lakh, Thousand, Hundred).
func IndianNumberWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Minus " + IndianNumberWords(-n)
	}

	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, IndianNumberWords(crore)+" Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowHundred(lakh)+" Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundred(thousand)+" Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		parts = append(parts, onesWords[hundred]+" Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

// AmountInWords renders a rupee amount for the invoice, e.g. "Rupees Two Thousand Two Hundred Forty Only".
// Paise are appended when the rounded amount has a fractional part.
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	prefix := "Rupees "
	if amount.IsNegative() {
		prefix = "Minus Rupees "
		amount = amount.Abs()
	}
	rupees := amount.Truncate(0)
	paise := amount.Sub(rupees).Mul(decimal.NewFromInt(100)).IntPart()

	out := prefix + IndianNumberWords(rupees.IntPart())
	if paise > 0 {
		out += " and " + belowHundred(paise) + " Paise"
	}
	return out + " Only"
}
