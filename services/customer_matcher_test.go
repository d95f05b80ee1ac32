package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk/models"
)

var matcherCustomers = []models.Customer{
	{ID: 1, Name: "Asha Rao", Phone: "9876543210", IDProof: "Aadhaar - 1234 5678 9012", Address: "12 MG Road"},
	{ID: 2, Name: "Vikram Das", Phone: "+91 81234 56789", IDProof: "PAN-ONLY", GSTIN: "29ABCDE1234F1Z5", CompanyName: "Das Traders"},
}

func TestFindReturningCustomer_SuffixAndDigits(t *testing.T) {
	plain := FindReturningCustomer(matcherCustomers, "9876543210")
	withCode := FindReturningCustomer(matcherCustomers, "+91-9876543210")
	require.NotNil(t, plain)
	require.NotNil(t, withCode)
	assert.Equal(t, plain.ID, withCode.ID)

	stored := FindReturningCustomer(matcherCustomers, "8123456789")
	require.NotNil(t, stored)
	assert.Equal(t, uint(2), stored.ID)
}

func TestFindReturningCustomer_NeedsTenDigits(t *testing.T) {
	assert.Nil(t, FindReturningCustomer(matcherCustomers, "987654321"))
	assert.Nil(t, FindReturningCustomer(matcherCustomers, ""))
	assert.Nil(t, FindReturningCustomer(matcherCustomers, "7000000000"))
}

func TestMatchSession_KeystrokeSequence(t *testing.T) {
	m := NewMatchSession()

	for _, partial := range []string{"9", "98765", "987654321"} {
		assert.False(t, m.Update(matcherCustomers, partial))
		assert.Equal(t, models.CustomerNew, m.CustomerType)
	}

	require.True(t, m.Update(matcherCustomers, "9876543210"))
	require.NotNil(t, m.ExistingCustomerID)
	assert.Equal(t, uint(1), *m.ExistingCustomerID)
	assert.Equal(t, models.CustomerReturning, m.CustomerType)
	assert.Equal(t, "Aadhaar", m.Prefill.IDType)
	assert.Equal(t, "1234 5678 9012", m.Prefill.IDNumber)
	assert.Equal(t, "12 MG Road", m.Prefill.Address)

	// backspace below ten digits clears the match
	assert.False(t, m.Update(matcherCustomers, "987654321"))
	assert.Nil(t, m.ExistingCustomerID)
	assert.Nil(t, m.Prefill)
	assert.Equal(t, models.CustomerNew, m.CustomerType)

	// edited to a different, unknown number
	m.Update(matcherCustomers, "9876543210")
	assert.False(t, m.Update(matcherCustomers, "9876543219"))
	assert.Nil(t, m.ExistingCustomerID)
}

func TestMatchSession_BareIDProof(t *testing.T) {
	m := NewMatchSession()
	require.True(t, m.Update(matcherCustomers, "08123456789"))
	assert.Equal(t, "", m.Prefill.IDType)
	assert.Equal(t, "PAN-ONLY", m.Prefill.IDNumber)
	assert.Equal(t, "Das Traders", m.Prefill.CompanyName)
}
