package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice records the sequence number handed to an allocation. One row per allocation at most.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"column:invoice_number;uniqueIndex;size:32" json:"invoiceNumber"`
	AllocationID  uint            `gorm:"column:allocation_id;uniqueIndex" json:"allocationId"`
	CustomerID    uint            `gorm:"column:customer_id;index" json:"customerId"`
	CustomerName  string          `gorm:"size:255" json:"customerName"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,4)" json:"amount"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
}
