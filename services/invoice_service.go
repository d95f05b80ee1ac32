package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

const invoicePrefix = "INV-"

var trailingDigits = regexp.MustCompile(`(\d+)\s*$`)

// InvoiceService hands out invoice numbers, one per allocation.
type InvoiceService struct {
	Store      store.Store
	Feed       events.Feed
	Logger     *logrus.Logger
	Now        func() time.Time
	MaxRetries int
}

func NewInvoiceService(st store.Store, feed events.Feed, logger *logrus.Logger) *InvoiceService {
	return &InvoiceService{Store: st, Feed: feed, Logger: logger, Now: time.Now, MaxRetries: store.DefaultMaxRetries}
}

// nextInvoiceNumber increments the numeric suffix of the latest number. A previous number with
// no digits restarts the sequence at 1. The suffix may exceed any machine integer.
func nextInvoiceNumber(latest string) string {
	n := new(big.Int)
	if m := trailingDigits.FindStringSubmatch(latest); m != nil {
		n.SetString(m[1], 10)
	}
	return fmt.Sprintf("%s%04d", invoicePrefix, n.Add(n, big.NewInt(1)))
}

// placeholderInvoiceNumber is shown when the sequence cannot be read or written. It is never stored.
func placeholderInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("%s%04d", invoicePrefix, now.UnixMilli()%10000)
}

// GetOrCreateInvoiceNumber returns the allocation's invoice number, allocating the next one in
// sequence the first time. Any storage failure yields a placeholder so printing never blocks.
func (s *InvoiceService) GetOrCreateInvoiceNumber(ctx context.Context, a *models.Allocation) string {
	if a.InvoiceNumber != nil && *a.InvoiceNumber != "" {
		return *a.InvoiceNumber
	}

	log := s.Logger.WithField("allocation_id", a.ID)

	existing, err := s.Store.FindInvoiceByAllocation(ctx, a.ID)
	switch {
	case err == nil:
		a.InvoiceNumber = &existing.InvoiceNumber
		return existing.InvoiceNumber
	case !errors.Is(err, store.ErrNotFound):
		log.WithError(err).Warn("Invoice lookup failed, using placeholder number")
		return placeholderInvoiceNumber(s.Now())
	}

	var number string
	var created bool
	op := func() error {
		return s.Store.WithTx(ctx, func(tx store.Store) error {
			created = false
			// another request may have won the race since the first lookup
			if inv, err := tx.FindInvoiceByAllocation(ctx, a.ID); err == nil {
				number = inv.InvoiceNumber
				return nil
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			previous := ""
			latest, err := tx.LatestInvoice(ctx)
			if err == nil {
				previous = latest.InvoiceNumber
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			inv := &models.Invoice{
				InvoiceNumber: nextInvoiceNumber(previous),
				AllocationID:  a.ID,
				CustomerID:    a.CustomerID,
				Amount:        a.Price,
				CreatedAt:     s.Now(),
			}
			if a.Customer != nil {
				inv.CustomerName = a.Customer.Name
			}
			if err := tx.CreateInvoice(ctx, inv); err != nil {
				return err
			}
			if err := tx.SetAllocationInvoiceNumber(ctx, a.ID, inv.InvoiceNumber); err != nil {
				return err
			}
			number = inv.InvoiceNumber
			created = true
			return nil
		})
	}

	if err := store.WithRetries(op, s.MaxRetries, store.IsDuplicateKeyError); err != nil {
		log.WithError(err).Warn("Invoice number allocation failed, using placeholder number")
		return placeholderInvoiceNumber(s.Now())
	}

	a.InvoiceNumber = &number
	if created {
		log.WithField("invoice_number", number).Info("Invoice number allocated")
		s.Feed.Publish(ctx, events.NewEvent(events.CollectionInvoices, events.OpCreate, a.ID))
	}
	return number
}
