package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type PriceInput struct {
	BasePrice     decimal.Decimal
	GSTRate       decimal.Decimal // percent
	StayDuration  int             // days
	AdvanceAmount decimal.Decimal
}

// PriceBreakdown is unrounded. Use Display for two-decimal output.
type PriceBreakdown struct {
	OneDayInclusive decimal.Decimal `json:"oneDayInclusive"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	TaxableValue    decimal.Decimal `json:"taxableValue"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	CGST            decimal.Decimal `json:"cgst"`
	SGST            decimal.Decimal `json:"sgst"`
	AdvanceAmount   decimal.Decimal `json:"advanceAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// CalculatePrice applies the GST-inclusive tariff over the stay.
func CalculatePrice(in PriceInput) PriceBreakdown {
	days := decimal.NewFromInt(int64(in.StayDuration))
	oneDay := in.BasePrice.Mul(decimal.NewFromInt(1).Add(in.GSTRate.Div(hundred)))
	total := oneDay.Mul(days)
	taxable := in.BasePrice.Mul(days)
	tax := total.Sub(taxable)
	half := tax.Div(decimal.NewFromInt(2))

	return PriceBreakdown{
		OneDayInclusive: oneDay,
		TotalPrice:      total,
		TaxableValue:    taxable,
		TotalTax:        tax,
		CGST:            half,
		SGST:            half,
		AdvanceAmount:   in.AdvanceAmount,
		RemainingAmount: total.Sub(in.AdvanceAmount),
	}
}

// CalculateGroupPrice prices each room on its own. The whole advance is booked against the
// first room; the others carry zero advance.
func CalculateGroupPrice(rooms []PriceInput, advance decimal.Decimal) []PriceBreakdown {
	out := make([]PriceBreakdown, len(rooms))
	for i, r := range rooms {
		if i == 0 {
			r.AdvanceAmount = advance
		} else {
			r.AdvanceAmount = decimal.Zero
		}
		out[i] = CalculatePrice(r)
	}
	return out
}

// Display rounds every field to two decimals.
func (b PriceBreakdown) Display() PriceBreakdown {
	return PriceBreakdown{
		OneDayInclusive: b.OneDayInclusive.Round(2),
		TotalPrice:      b.TotalPrice.Round(2),
		TaxableValue:    b.TaxableValue.Round(2),
		TotalTax:        b.TotalTax.Round(2),
		CGST:            b.CGST.Round(2),
		SGST:            b.SGST.Round(2),
		AdvanceAmount:   b.AdvanceAmount.Round(2),
		RemainingAmount: b.RemainingAmount.Round(2),
	}
}

// CoerceAmount turns loosely typed form input into a decimal. Anything missing or
// non-numeric becomes zero; it never panics.
func CoerceAmount(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case json.Number:
		return coerceString(x.String())
	case string:
		return coerceString(x)
	case bool:
		return decimal.Zero
	default:
		return coerceString(fmt.Sprint(x))
	}
}

func coerceString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	// accept what strconv accepts that decimal does not, e.g. "1e3" variants and "+5"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromFloat(f)
	}
	return decimal.Zero
}

// fromFloat maps NaN and the infinities, which strconv happily parses, to zero.
func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// CoerceInt is the integer counterpart used for stay duration and guest counts.
func CoerceInt(v interface{}) int {
	return int(CoerceAmount(v).IntPart())
}
