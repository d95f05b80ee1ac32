package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

// CustomerInput is the customer edit form.
type CustomerInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	IDType      string `json:"idType"`
	IDNumber    string `json:"idNumber"`
	Address     string `json:"address"`
	GSTIN       string `json:"gstin"`
	CompanyName string `json:"companyName"`
}

func (in *CustomerInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.GSTIN = strings.ToUpper(strings.TrimSpace(in.GSTIN))
	switch {
	case letterCount(in.Name) < minGuestNameLetters:
		return invalid("name", "Name must contain at least 3 letters")
	case !indianMobile.MatchString(in.Phone):
		return invalid("phone", "Phone must be a 10 digit Indian mobile number")
	case strings.TrimSpace(in.IDNumber) == "":
		return invalid("idNumber", "ID number is required")
	case len(in.Address) < minAddressLength:
		return invalid("address", "Address must be at least 5 characters")
	case in.GSTIN != "" && !gstinPattern.MatchString(in.GSTIN):
		return invalid("gstin", "GSTIN is not valid")
	}
	return nil
}

type CustomerService struct {
	Store  store.Store
	Feed   events.Feed
	Logger *logrus.Logger
}

func NewCustomerService(st store.Store, feed events.Feed, logger *logrus.Logger) *CustomerService {
	return &CustomerService{Store: st, Feed: feed, Logger: logger}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	out, err := s.Store.ListCustomers(ctx)
	return out, persistErr("list customers", err)
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	c, err := s.Store.GetCustomer(ctx, id)
	if err != nil {
		return nil, persistErr("get customer", err)
	}
	return c, nil
}

// Match looks a phone number up for the booking form. A nil prefill means a new guest.
func (s *CustomerService) Match(ctx context.Context, phone string) (*CustomerPrefill, error) {
	customers, err := s.Store.ListCustomers(ctx)
	if err != nil {
		return nil, persistErr("list customers", err)
	}
	found := FindReturningCustomer(customers, phone)
	if found == nil {
		return nil, nil
	}
	p := prefillFrom(found)
	return &p, nil
}

// Update edits contact fields only. Visit counters belong to the booking flow.
func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *models.Customer
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		c, err := tx.GetCustomer(ctx, id)
		if err != nil {
			return err
		}
		c.Name = in.Name
		c.Phone = in.Phone
		c.IDProof = models.ComposeIDProof(in.IDType, in.IDNumber)
		c.Address = in.Address
		c.GSTIN = in.GSTIN
		c.CompanyName = strings.TrimSpace(in.CompanyName)
		if err := tx.UpdateCustomer(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, persistErr("update customer", err)
	}
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionCustomers, events.OpUpdate, id))
	return out, nil
}

// Delete removes the customer record. Past allocations keep their customer id.
func (s *CustomerService) Delete(ctx context.Context, id uint, confirm Confirmer) error {
	c, err := s.Store.GetCustomer(ctx, id)
	if err != nil {
		return persistErr("get customer", err)
	}
	if !confirm("Delete customer " + c.Name + "?") {
		return ErrNotConfirmed
	}
	if err := s.Store.DeleteCustomer(ctx, id); err != nil {
		return persistErr("delete customer", err)
	}
	s.Logger.WithField("customer_id", id).Warn("🗑️ Customer deleted")
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionCustomers, events.OpDelete, id))
	return nil
}
