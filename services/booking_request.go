package services

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"hotel-frontdesk/models"
)

var (
	indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)
	// gstinPattern is the 15-character GSTIN layout: state code, PAN, entity, Z, checksum.
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

const (
	minGuestNameLetters = 3
	minAddressLength    = 5
)

// RoomSelection is one room of a booking. BasePrice overrides the request-wide tariff for this room.
type RoomSelection struct {
	RoomID    uint             `json:"roomId" binding:"required"`
	BasePrice *decimal.Decimal `json:"basePrice,omitempty"`
}

// BookingRequest is the booking form. Create accepts several rooms, Update exactly one.
type BookingRequest struct {
	ExistingCustomerID *uint  `json:"existingCustomerId,omitempty"`
	Name               string `json:"name"`
	Phone              string `json:"phone"`
	IDType             string `json:"idType"`
	IDNumber           string `json:"idNumber"`
	Address            string `json:"address"`
	GSTIN              string `json:"gstin"`
	CompanyName        string `json:"companyName"`

	Rooms      []RoomSelection `json:"rooms"`
	EmployeeID *uint           `json:"employeeId,omitempty"`

	CheckIn        time.Time `json:"checkIn"`
	CheckOut       time.Time `json:"checkOut"`
	NumberOfGuests int       `json:"numberOfGuests"`
	StayDuration   int       `json:"stayDuration"`

	BasePrice     decimal.Decimal    `json:"basePrice"`
	GSTRate       decimal.Decimal    `json:"gstRate"`
	AdvanceAmount decimal.Decimal    `json:"advanceAmount"`
	PaymentType   models.PaymentType `json:"paymentType"`

	BookingPlatform    string `json:"bookingPlatform"`
	Narration          string `json:"narration"`
	RegistrationNumber string `json:"registrationNumber"`
	ExternalBookingID  string `json:"externalBookingId"`
	HSNSACNumber       string `json:"hsnSacNumber"`
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// stayDays rounds a partial day up and never returns less than one.
func stayDays(checkIn, checkOut time.Time) int {
	days := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

func (r *BookingRequest) basePriceFor(sel RoomSelection) decimal.Decimal {
	if sel.BasePrice != nil {
		return *sel.BasePrice
	}
	return r.BasePrice
}

// Normalize trims text fields and fills derivable defaults. It does not validate.
func (r *BookingRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.IDType = strings.TrimSpace(r.IDType)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.Address = strings.TrimSpace(r.Address)
	r.GSTIN = strings.ToUpper(strings.TrimSpace(r.GSTIN))
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.BookingPlatform = strings.TrimSpace(r.BookingPlatform)
	r.RegistrationNumber = strings.TrimSpace(r.RegistrationNumber)
	r.ExternalBookingID = strings.TrimSpace(r.ExternalBookingID)
	r.HSNSACNumber = strings.TrimSpace(r.HSNSACNumber)

	if r.PaymentType == "" {
		r.PaymentType = models.PaymentCash
	}
	if r.NumberOfGuests == 0 {
		r.NumberOfGuests = 1
	}
	if r.StayDuration == 0 && !r.CheckIn.IsZero() && r.CheckOut.After(r.CheckIn) {
		r.StayDuration = stayDays(r.CheckIn, r.CheckOut)
	}
}

// Validate is the gate in front of every create and update. It touches nothing outside the request.
func (r *BookingRequest) Validate() error {
	if !indianMobile.MatchString(r.Phone) {
		return invalid("phone", "Enter a valid 10-digit mobile number starting with 6-9")
	}
	if letterCount(r.Name) < minGuestNameLetters {
		return invalid("name", "Guest name must have at least 3 letters")
	}
	if r.IDNumber == "" {
		return invalid("idNumber", "ID number is required")
	}
	if len([]rune(r.Address)) < minAddressLength {
		return invalid("address", "Address must be at least 5 characters")
	}
	if r.GSTIN != "" && !gstinPattern.MatchString(r.GSTIN) {
		return invalid("gstin", "GSTIN is not in a valid format")
	}
	if len(r.Rooms) == 0 {
		return invalid("rooms", "Select at least one room")
	}
	seen := make(map[uint]bool, len(r.Rooms))
	for _, sel := range r.Rooms {
		if sel.RoomID == 0 {
			return invalid("rooms", "Room selection is missing a room")
		}
		if seen[sel.RoomID] {
			return invalid("rooms", "The same room is selected twice")
		}
		seen[sel.RoomID] = true
		if r.basePriceFor(sel).IsNegative() {
			return invalid("basePrice", "Base price cannot be negative")
		}
	}
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return invalid("checkIn", "Check-in and check-out are required")
	}
	if !r.CheckOut.After(r.CheckIn) {
		return invalid("checkOut", "Check-out must be after check-in")
	}
	if r.StayDuration < 1 {
		return invalid("stayDuration", "Stay duration must be at least 1 day")
	}
	if r.NumberOfGuests < 1 {
		return invalid("numberOfGuests", "At least one guest is required")
	}
	if r.BasePrice.IsNegative() {
		return invalid("basePrice", "Base price cannot be negative")
	}
	if r.GSTRate.IsNegative() {
		return invalid("gstRate", "GST rate cannot be negative")
	}
	if r.AdvanceAmount.IsNegative() {
		return invalid("advanceAmount", "Advance amount cannot be negative")
	}
	if !r.PaymentType.IsValid() {
		return invalid("paymentType", "Payment type must be Cash, Bank Deposit, UPI or Card")
	}
	return nil
}

func (r *BookingRequest) idProof() string {
	return models.ComposeIDProof(r.IDType, r.IDNumber)
}

// applyContact copies the guest's contact fields onto a customer record.
func (r *BookingRequest) applyContact(c *models.Customer) {
	c.Name = r.Name
	c.Phone = r.Phone
	c.IDProof = r.idProof()
	c.Address = r.Address
	c.GSTIN = r.GSTIN
	c.CompanyName = r.CompanyName
}
