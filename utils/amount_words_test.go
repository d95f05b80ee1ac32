package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIndianNumberWords(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{15, "Fifteen"},
		{40, "Forty"},
		{99, "Ninety Nine"},
		{100, "One Hundred"},
		{2240, "Two Thousand Two Hundred Forty"},
		{100000, "One Lakh"},
		{1234567, "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven"},
		{10000000, "One Crore"},
		{250000001, "Twenty Five Crore One"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IndianNumberWords(tt.in), "n=%d", tt.in)
	}
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2240", "Rupees Two Thousand Two Hundred Forty Only"},
		{"2240.00", "Rupees Two Thousand Two Hundred Forty Only"},
		{"1120.5", "Rupees One Thousand One Hundred Twenty and Fifty Paise Only"},
		{"0.07", "Rupees Zero and Seven Paise Only"},
		{"99.999", "Rupees One Hundred Only"},
		{"-250", "Minus Rupees Two Hundred Fifty Only"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AmountInWords(decimal.RequireFromString(tt.in)), "amount=%s", tt.in)
	}
}
