package services

import "github.com/shopspring/decimal"

// PricePreview is what the booking form shows while the operator types.
type PricePreview struct {
	Rooms           []PriceBreakdown `json:"rooms"`
	TotalPrice      decimal.Decimal  `json:"totalPrice"`
	TotalTax        decimal.Decimal  `json:"totalTax"`
	AdvanceAmount   decimal.Decimal  `json:"advanceAmount"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount"`
}

// PreviewPrice prices a half-filled form. Blank or garbage fields count as zero so the
// preview never errors; the booking path validates the same fields strictly.
// A "rooms" list of {"basePrice": ...} objects prices each room on its own, the advance
// going to the first room.
func PreviewPrice(form map[string]interface{}) PricePreview {
	gst := CoerceAmount(form["gstRate"])
	stay := CoerceInt(form["stayDuration"])
	advance := CoerceAmount(form["advanceAmount"])
	base := CoerceAmount(form["basePrice"])

	var inputs []PriceInput
	if rooms, ok := form["rooms"].([]interface{}); ok {
		for _, r := range rooms {
			roomBase := base
			if m, ok := r.(map[string]interface{}); ok {
				if v, set := m["basePrice"]; set {
					roomBase = CoerceAmount(v)
				}
			}
			inputs = append(inputs, PriceInput{BasePrice: roomBase, GSTRate: gst, StayDuration: stay})
		}
	}
	if len(inputs) == 0 {
		inputs = []PriceInput{{BasePrice: base, GSTRate: gst, StayDuration: stay}}
	}

	out := PricePreview{TotalPrice: decimal.Zero, TotalTax: decimal.Zero, AdvanceAmount: decimal.Zero, RemainingAmount: decimal.Zero}
	for _, b := range CalculateGroupPrice(inputs, advance) {
		out.TotalPrice = out.TotalPrice.Add(b.TotalPrice)
		out.TotalTax = out.TotalTax.Add(b.TotalTax)
		out.AdvanceAmount = out.AdvanceAmount.Add(b.AdvanceAmount)
		out.RemainingAmount = out.RemainingAmount.Add(b.RemainingAmount)
		out.Rooms = append(out.Rooms, b.Display())
	}
	out.TotalPrice = out.TotalPrice.Round(2)
	out.TotalTax = out.TotalTax.Round(2)
	out.AdvanceAmount = out.AdvanceAmount.Round(2)
	out.RemainingAmount = out.RemainingAmount.Round(2)
	return out
}
