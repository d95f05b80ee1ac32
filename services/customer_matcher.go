package services

import (
	"hotel-frontdesk/models"
	"hotel-frontdesk/utils"
)

// phoneMatchDigits is how many trailing digits identify a guest, so "+91 98765 43210" and
// "9876543210" match the same customer.
const phoneMatchDigits = 10

// FindReturningCustomer returns the first customer whose phone shares the input's last ten digits,
// or nil when the input has fewer than ten digits or nothing matches.
func FindReturningCustomer(customers []models.Customer, phoneInput string) *models.Customer {
	key := utils.LastDigits(phoneInput, phoneMatchDigits)
	if key == "" {
		return nil
	}
	for i := range customers {
		if utils.LastDigits(customers[i].Phone, phoneMatchDigits) == key {
			return &customers[i]
		}
	}
	return nil
}

// CustomerPrefill is what the booking form auto-populates for a returning guest.
type CustomerPrefill struct {
	CustomerID   uint                `json:"customerId"`
	CustomerType models.CustomerType `json:"customerType"`
	Name         string              `json:"name"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	IDType       string              `json:"idType"`
	IDNumber     string              `json:"idNumber"`
	GSTIN        string              `json:"gstin,omitempty"`
	CompanyName  string              `json:"companyName,omitempty"`
	VisitHistory int                 `json:"visitHistory"`
}

func prefillFrom(c *models.Customer) CustomerPrefill {
	idType, idNumber := models.SplitIDProof(c.IDProof)
	return CustomerPrefill{
		CustomerID:   c.ID,
		CustomerType: models.CustomerReturning,
		Name:         c.Name,
		Phone:        c.Phone,
		Address:      c.Address,
		IDType:       idType,
		IDNumber:     idNumber,
		GSTIN:        c.GSTIN,
		CompanyName:  c.CompanyName,
		VisitHistory: c.VisitHistory,
	}
}

// MatchSession tracks the returning-customer match for one booking form. Update is called on
// every phone keystroke; the latest call always wins.
type MatchSession struct {
	ExistingCustomerID *uint
	CustomerType       models.CustomerType
	Prefill            *CustomerPrefill
}

func NewMatchSession() *MatchSession {
	return &MatchSession{CustomerType: models.CustomerNew}
}

// Update re-evaluates the match. It reports whether a returning customer is now matched.
func (m *MatchSession) Update(customers []models.Customer, phoneInput string) bool {
	found := FindReturningCustomer(customers, phoneInput)
	if found == nil {
		m.Clear()
		return false
	}
	id := found.ID
	p := prefillFrom(found)
	m.ExistingCustomerID = &id
	m.CustomerType = models.CustomerReturning
	m.Prefill = &p
	return true
}

func (m *MatchSession) Clear() {
	m.ExistingCustomerID = nil
	m.CustomerType = models.CustomerNew
	m.Prefill = nil
}
