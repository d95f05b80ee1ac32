package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk/models"
)

var checkInAt = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func validRequest() BookingRequest {
	return BookingRequest{
		Name:          "Asha Rao",
		Phone:         "9876543210",
		IDType:        "Aadhaar",
		IDNumber:      "1234 5678 9012",
		Address:       "12 MG Road, Pune",
		Rooms:         []RoomSelection{{RoomID: 1}},
		CheckIn:       checkInAt,
		CheckOut:      checkInAt.Add(48 * time.Hour),
		BasePrice:     decimal.NewFromInt(1000),
		GSTRate:       decimal.NewFromInt(12),
		AdvanceAmount: decimal.NewFromInt(500),
	}
}

func TestBookingRequest_NormalizeDefaults(t *testing.T) {
	r := validRequest()
	r.CheckOut = checkInAt.Add(49 * time.Hour)
	r.Name = "  Asha Rao "
	r.Normalize()

	assert.Equal(t, "Asha Rao", r.Name)
	assert.Equal(t, 3, r.StayDuration, "partial day rounds up")
	assert.Equal(t, 1, r.NumberOfGuests)
	assert.Equal(t, models.PaymentCash, r.PaymentType)
	require.NoError(t, r.Validate())
}

func TestBookingRequest_Validate(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	tests := []struct {
		name  string
		edit  func(r *BookingRequest)
		field string
	}{
		{"phone too short", func(r *BookingRequest) { r.Phone = "98765" }, "phone"},
		{"phone bad prefix", func(r *BookingRequest) { r.Phone = "5876543210" }, "phone"},
		{"phone with country code", func(r *BookingRequest) { r.Phone = "+919876543210" }, "phone"},
		{"name with two letters", func(r *BookingRequest) { r.Name = "A. B." }, "name"},
		{"name digits only", func(r *BookingRequest) { r.Name = "12345" }, "name"},
		{"missing id number", func(r *BookingRequest) { r.IDNumber = "" }, "idNumber"},
		{"short address", func(r *BookingRequest) { r.Address = "Pune" }, "address"},
		{"bad gstin", func(r *BookingRequest) { r.GSTIN = "NOTAGSTIN" }, "gstin"},
		{"no rooms", func(r *BookingRequest) { r.Rooms = nil }, "rooms"},
		{"duplicate room", func(r *BookingRequest) { r.Rooms = []RoomSelection{{RoomID: 1}, {RoomID: 1}} }, "rooms"},
		{"checkout equals checkin", func(r *BookingRequest) { r.CheckOut = r.CheckIn }, "checkOut"},
		{"checkout before checkin", func(r *BookingRequest) { r.CheckOut = r.CheckIn.Add(-time.Hour) }, "checkOut"},
		{"negative base price", func(r *BookingRequest) { r.BasePrice = neg }, "basePrice"},
		{"negative room override", func(r *BookingRequest) { r.Rooms[0].BasePrice = &neg }, "basePrice"},
		{"negative gst", func(r *BookingRequest) { r.GSTRate = neg }, "gstRate"},
		{"negative advance", func(r *BookingRequest) { r.AdvanceAmount = neg }, "advanceAmount"},
		{"unknown payment type", func(r *BookingRequest) { r.PaymentType = "Cheque" }, "paymentType"},
		{"negative stay", func(r *BookingRequest) { r.StayDuration = -2 }, "stayDuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.edit(&r)
			r.Normalize()
			err := r.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestBookingRequest_UnicodeNameAndGSTIN(t *testing.T) {
	r := validRequest()
	r.Name = "अमित"
	r.GSTIN = " 29abcde1234f1z5 "
	r.Normalize()
	assert.NoError(t, r.Validate())
	assert.Equal(t, "29ABCDE1234F1Z5", r.GSTIN)
}
