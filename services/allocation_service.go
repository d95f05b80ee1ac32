package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
	"hotel-frontdesk/utils"
)

// AllocationService drives a stay through Active -> Checked-Out.
type AllocationService struct {
	Store   store.Store
	Sources *BookingSourceService
	Feed    events.Feed
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewAllocationService(st store.Store, sources *BookingSourceService, feed events.Feed, logger *logrus.Logger) *AllocationService {
	return &AllocationService{Store: st, Sources: sources, Feed: feed, Logger: logger, Now: time.Now}
}

func (s *AllocationService) List(ctx context.Context) ([]models.Allocation, error) {
	out, err := s.Store.ListAllocations(ctx)
	return out, persistErr("list allocations", err)
}

func (s *AllocationService) ListActive(ctx context.Context) ([]models.Allocation, error) {
	out, err := s.Store.ListActiveAllocations(ctx)
	return out, persistErr("list active allocations", err)
}

func (s *AllocationService) Get(ctx context.Context, id uint) (*models.Allocation, error) {
	a, err := s.Store.GetAllocation(ctx, id)
	if err != nil {
		return nil, persistErr("get allocation", err)
	}
	return a, nil
}

// gate normalizes and validates the request and checks the platform against the registry.
// Nothing is written when it fails.
func (s *AllocationService) gate(ctx context.Context, req *BookingRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}
	if req.BookingPlatform == "" || s.Sources == nil {
		return nil
	}
	ok, err := s.Sources.IsRegistered(ctx, req.BookingPlatform)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("bookingPlatform", fmt.Sprintf("Unknown booking source '%s'", req.BookingPlatform))
	}
	return nil
}

// resolveCustomer returns the customer for this submission, creating one only when no match
// exists. A returning customer gets its visit count bumped and contact fields refreshed.
func (s *AllocationService) resolveCustomer(ctx context.Context, tx store.Store, req *BookingRequest, now time.Time) (*models.Customer, error) {
	var match *models.Customer

	if req.ExistingCustomerID != nil {
		c, err := tx.GetCustomer(ctx, *req.ExistingCustomerID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		// a stale id from the form is ignored when the phone was edited away from it
		if c != nil && utils.LastDigits(c.Phone, phoneMatchDigits) == utils.LastDigits(req.Phone, phoneMatchDigits) {
			match = c
		}
	}
	if match == nil {
		customers, err := tx.ListCustomers(ctx)
		if err != nil {
			return nil, err
		}
		match = FindReturningCustomer(customers, req.Phone)
	}

	if match != nil {
		req.applyContact(match)
		match.CustomerType = models.CustomerReturning
		match.VisitHistory++
		match.LastVisit = &now
		if err := tx.UpdateCustomer(ctx, match); err != nil {
			return nil, err
		}
		return match, nil
	}

	c := &models.Customer{CustomerType: models.CustomerNew, VisitHistory: 1, LastVisit: &now}
	req.applyContact(c)
	if err := tx.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *AllocationService) checkEmployee(ctx context.Context, tx store.Store, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := tx.GetEmployee(ctx, *id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalid("employeeId", "Selected staff member does not exist")
		}
		return err
	}
	return nil
}

// claimRoom flips a free room to Booked. A room that is Booked or still held by an active stay
// is a conflict: somebody booked it after this form loaded.
func claimRoom(ctx context.Context, tx store.Store, roomID uint) (*models.Room, error) {
	room, err := tx.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid("rooms", fmt.Sprintf("Room %d does not exist", roomID))
		}
		return nil, err
	}
	held, err := tx.CountActiveAllocationsForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if held > 0 {
		return nil, conflict("Room %s is already occupied", room.RoomNumber)
	}
	if err := tx.MarkRoomBooked(ctx, roomID); err != nil {
		if errors.Is(err, store.ErrRoomTaken) {
			return nil, conflict("Room %s was booked by someone else", room.RoomNumber)
		}
		return nil, err
	}
	return room, nil
}

func (r *BookingRequest) fillAllocation(a *models.Allocation, price PriceBreakdown, base PriceInput) {
	a.EmployeeID = r.EmployeeID
	a.CheckIn = r.CheckIn
	a.CheckOut = r.CheckOut
	a.NumberOfGuests = r.NumberOfGuests
	a.StayDuration = r.StayDuration
	a.BasePrice = base.BasePrice
	a.GSTRate = base.GSTRate
	a.Price = price.TotalPrice
	a.AdvanceAmount = price.AdvanceAmount
	a.RemainingAmount = price.RemainingAmount
	a.PaymentType = r.PaymentType
	a.BookingPlatform = r.BookingPlatform
	a.Narration = r.Narration
	a.RegistrationNumber = r.RegistrationNumber
	a.ExternalBookingID = r.ExternalBookingID
	a.HSNSACNumber = r.HSNSACNumber
}

// Create books every selected room for one guest. Rooms are claimed one after another inside a
// single transaction, so either every room is booked or none is.
func (s *AllocationService) Create(ctx context.Context, req BookingRequest) ([]models.Allocation, error) {
	if err := s.gate(ctx, &req); err != nil {
		return nil, err
	}

	inputs := make([]PriceInput, len(req.Rooms))
	for i, sel := range req.Rooms {
		inputs[i] = PriceInput{BasePrice: req.basePriceFor(sel), GSTRate: req.GSTRate, StayDuration: req.StayDuration}
	}
	prices := CalculateGroupPrice(inputs, req.AdvanceAmount)

	now := s.Now()
	var created []models.Allocation
	var customer *models.Customer

	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		created = created[:0]
		if err := s.checkEmployee(ctx, tx, req.EmployeeID); err != nil {
			return err
		}
		c, err := s.resolveCustomer(ctx, tx, &req, now)
		if err != nil {
			return err
		}
		customer = c

		for i, sel := range req.Rooms {
			if _, err := claimRoom(ctx, tx, sel.RoomID); err != nil {
				return err
			}
			a := models.Allocation{
				CustomerID: c.ID,
				RoomID:     sel.RoomID,
				Status:     models.AllocationActive,
			}
			req.fillAllocation(&a, prices[i], inputs[i])
			if err := tx.CreateAllocation(ctx, &a); err != nil {
				return err
			}
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		s.Logger.WithError(err).WithField("phone", req.Phone).Warn("Booking rejected")
		return nil, persistErr("create booking", err)
	}

	s.Feed.Publish(ctx, events.NewEvent(events.CollectionCustomers, events.OpUpdate, customer.ID))
	for _, a := range created {
		s.Feed.Publish(ctx, events.NewEvent(events.CollectionRooms, events.OpUpdate, a.RoomID))
		s.Feed.Publish(ctx, events.NewEvent(events.CollectionAllocations, events.OpCreate, a.ID))
	}
	s.Logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"rooms":       len(created),
	}).Info("Booking created")
	return created, nil
}

// Update rewrites billing and stay fields of one allocation. The room stays as it is and the
// already-linked customer is updated in place, never duplicated. Status is not touched.
func (s *AllocationService) Update(ctx context.Context, id uint, req BookingRequest) (*models.Allocation, error) {
	if err := s.gate(ctx, &req); err != nil {
		return nil, err
	}
	if len(req.Rooms) != 1 {
		return nil, invalid("rooms", "An existing booking covers exactly one room")
	}

	base := PriceInput{
		BasePrice:     req.basePriceFor(req.Rooms[0]),
		GSTRate:       req.GSTRate,
		StayDuration:  req.StayDuration,
		AdvanceAmount: req.AdvanceAmount,
	}
	price := CalculatePrice(base)

	var updated *models.Allocation
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		a, err := tx.GetAllocation(ctx, id)
		if err != nil {
			return err
		}
		if a.RoomID != req.Rooms[0].RoomID {
			return invalid("rooms", "The room of an existing booking cannot be changed; check out and book again")
		}
		if err := s.checkEmployee(ctx, tx, req.EmployeeID); err != nil {
			return err
		}

		c, err := tx.GetCustomer(ctx, a.CustomerID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if c != nil {
			req.applyContact(c)
			if err := tx.UpdateCustomer(ctx, c); err != nil {
				return err
			}
		}

		req.fillAllocation(a, price, base)
		a.Customer, a.Room, a.Employee = nil, nil, nil
		if err := tx.UpdateAllocation(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, persistErr("update booking", err)
	}

	s.Feed.Publish(ctx, events.NewEvent(events.CollectionAllocations, events.OpUpdate, updated.ID))
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionCustomers, events.OpUpdate, updated.CustomerID))
	return updated, nil
}

func describe(a *models.Allocation) string {
	room := fmt.Sprintf("room #%d", a.RoomID)
	if a.Room != nil {
		room = "room " + a.Room.RoomNumber
	}
	if a.Customer != nil && a.Customer.Name != "" {
		return fmt.Sprintf("%s (%s)", room, a.Customer.Name)
	}
	return room
}

// CheckOut closes an active stay after the operator confirms it.
func (s *AllocationService) CheckOut(ctx context.Context, id uint, confirm Confirmer) (*models.Allocation, error) {
	return s.checkOut(ctx, id, confirm, false)
}

// checkOut frees the room and stamps actualCheckOut in one transaction. Automatic check-outs skip
// the confirmation gate and are flagged.
func (s *AllocationService) checkOut(ctx context.Context, id uint, confirm Confirmer, auto bool) (*models.Allocation, error) {
	current, err := s.Store.GetAllocation(ctx, id)
	if err != nil {
		return nil, persistErr("get allocation", err)
	}
	if !current.IsActive() {
		return nil, conflict("Booking %d is already checked out", id)
	}
	if !auto && (confirm == nil || !confirm("Check out "+describe(current)+"?")) {
		return nil, ErrNotConfirmed
	}

	now := s.Now()
	var done *models.Allocation
	err = s.Store.WithTx(ctx, func(tx store.Store) error {
		a, err := tx.GetAllocation(ctx, id)
		if err != nil {
			return err
		}
		if !a.IsActive() {
			return conflict("Booking %d is already checked out", id)
		}
		a.Status = models.AllocationCheckedOut
		a.ActualCheckOut = &now
		a.AutoCheckedOut = auto
		a.Customer, a.Room, a.Employee = nil, nil, nil
		if err := tx.UpdateAllocation(ctx, a); err != nil {
			return err
		}

		// a legacy double booking may still hold the room
		held, err := tx.CountActiveAllocationsForRoom(ctx, a.RoomID)
		if err != nil {
			return err
		}
		if held == 0 {
			if err := tx.SetRoomStatus(ctx, a.RoomID, models.RoomAvailable); err != nil {
				return err
			}
		}
		done = a
		return nil
	})
	if err != nil {
		return nil, persistErr("check out", err)
	}

	s.Feed.Publish(ctx, events.NewEvent(events.CollectionAllocations, events.OpUpdate, done.ID))
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionRooms, events.OpUpdate, done.RoomID))
	s.Logger.WithFields(logrus.Fields{
		"allocation_id": done.ID,
		"room_id":       done.RoomID,
		"auto":          auto,
	}).Info("Checked out")
	return done, nil
}

// Delete removes an allocation after confirmation. Room status is left alone; the room was
// freed at check-out.
func (s *AllocationService) Delete(ctx context.Context, id uint, confirm Confirmer) error {
	a, err := s.Store.GetAllocation(ctx, id)
	if err != nil {
		return persistErr("get allocation", err)
	}
	if confirm == nil || !confirm("Delete booking for "+describe(a)+"? This cannot be undone.") {
		return ErrNotConfirmed
	}
	if err := s.Store.DeleteAllocation(ctx, id); err != nil {
		return persistErr("delete booking", err)
	}
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionAllocations, events.OpDelete, id))
	return nil
}
