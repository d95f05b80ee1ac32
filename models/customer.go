package models

import (
	"strings"
	"time"
)

type CustomerType string

const (
	CustomerNew       CustomerType = "New"
	CustomerReturning CustomerType = "Returning"
)

// IDProofSeparator joins the id document type and number in Customer.IDProof.
const IDProofSeparator = " - "

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name         string       `gorm:"size:255" json:"name"`
	Phone        string       `gorm:"size:32;index" json:"phone"`
	IDProof      string       `gorm:"column:id_proof;size:255" json:"idProof"`
	Address      string       `gorm:"type:text" json:"address"`
	CustomerType CustomerType `gorm:"size:16" json:"customerType"`
	VisitHistory int          `gorm:"default:0" json:"visitHistory"`
	LastVisit    *time.Time   `json:"lastVisit,omitempty"`
	GSTIN        string       `gorm:"column:gstin;size:32" json:"gstin,omitempty"`
	CompanyName  string       `gorm:"size:255" json:"companyName,omitempty"`
}

// ComposeIDProof builds the stored "Type - Number" form.
func ComposeIDProof(idType, idNumber string) string {
	idType = strings.TrimSpace(idType)
	idNumber = strings.TrimSpace(idNumber)
	if idType == "" {
		return idNumber
	}
	return idType + IDProofSeparator + idNumber
}

// SplitIDProof reverses ComposeIDProof. Values without the separator are treated as a bare number.
func SplitIDProof(idProof string) (idType, idNumber string) {
	parts := strings.SplitN(idProof, IDProofSeparator, 2)
	if len(parts) != 2 {
		return "", strings.TrimSpace(idProof)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
