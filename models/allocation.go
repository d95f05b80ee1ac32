package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AllocationStatus string

const (
	AllocationActive     AllocationStatus = "Active"
	AllocationCheckedOut AllocationStatus = "Checked-Out"
)

// NormalizeAllocationStatus maps the legacy empty status onto Active so callers only ever see the two
// canonical values.
func NormalizeAllocationStatus(s AllocationStatus) AllocationStatus {
	switch strings.TrimSpace(string(s)) {
	case "", string(AllocationActive):
		return AllocationActive
	default:
		return AllocationCheckedOut
	}
}

type PaymentType string

const (
	PaymentCash        PaymentType = "Cash"
	PaymentBankDeposit PaymentType = "Bank Deposit"
	PaymentUPI         PaymentType = "UPI"
	PaymentCard        PaymentType = "Card"
)

func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentCash, PaymentBankDeposit, PaymentUPI, PaymentCard:
		return true
	default:
		return false
	}
}

// Allocation is one room stay: customer, room, billing and check-in/out state.
type Allocation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CustomerID uint  `gorm:"index;column:customer_id" json:"customerId"`
	RoomID     uint  `gorm:"index;column:room_id" json:"roomId"`
	EmployeeID *uint `gorm:"index;column:employee_id" json:"employeeId,omitempty"`

	CheckIn        time.Time  `gorm:"column:check_in" json:"checkIn"`
	CheckOut       time.Time  `gorm:"column:check_out;index" json:"checkOut"`
	ActualCheckOut *time.Time `gorm:"column:actual_check_out" json:"actualCheckOut,omitempty"`

	NumberOfGuests int `gorm:"column:number_of_guests" json:"numberOfGuests"`
	StayDuration   int `gorm:"column:stay_duration" json:"stayDuration"`

	BasePrice       decimal.Decimal `gorm:"column:base_price;type:decimal(14,4)" json:"basePrice"`
	GSTRate         decimal.Decimal `gorm:"column:gst_rate;type:decimal(7,4)" json:"gstRate"`
	Price           decimal.Decimal `gorm:"column:price;type:decimal(14,4)" json:"price"`
	AdvanceAmount   decimal.Decimal `gorm:"column:advance_amount;type:decimal(14,4)" json:"advanceAmount"`
	RemainingAmount decimal.Decimal `gorm:"column:remaining_amount;type:decimal(14,4)" json:"remainingAmount"`

	PaymentType     PaymentType      `gorm:"column:payment_type;size:32" json:"paymentType"`
	BookingPlatform string           `gorm:"column:booking_platform;size:100" json:"bookingPlatform"`
	Status          AllocationStatus `gorm:"column:status;size:32;index" json:"status"`

	Narration          string  `gorm:"type:text" json:"narration,omitempty"`
	RegistrationNumber string  `gorm:"size:64" json:"registrationNumber,omitempty"`
	ExternalBookingID  string  `gorm:"column:external_booking_id;size:128" json:"externalBookingId,omitempty"`
	HSNSACNumber       string  `gorm:"column:hsn_sac_number;size:32" json:"hsnSacNumber,omitempty"`
	InvoiceNumber      *string `gorm:"column:invoice_number;size:32" json:"invoiceNumber,omitempty"`
	AutoCheckedOut     bool    `gorm:"column:auto_checked_out;default:false" json:"autoCheckedOut"`

	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID" json:"employee,omitempty"`
}

// AfterFind normalizes legacy rows written without a status.
func (a *Allocation) AfterFind(tx *gorm.DB) error {
	a.Status = NormalizeAllocationStatus(a.Status)
	return nil
}

// IsActive reports whether the stay still holds its room.
func (a Allocation) IsActive() bool {
	return NormalizeAllocationStatus(a.Status) == AllocationActive
}
