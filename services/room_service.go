package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

// RoomInput is the room form. Status is not editable here; it follows the allocations.
type RoomInput struct {
	RoomNumber  string          `json:"roomNumber"`
	Type        models.RoomType `json:"type"`
	Floor       string          `json:"floor"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	Description string          `json:"description"`
}

func (in *RoomInput) validate() error {
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	if in.RoomNumber == "" {
		return invalid("roomNumber", "Room number is required")
	}
	if !in.Type.IsValid() {
		return invalid("type", "Room type must be AC or Non-AC")
	}
	if in.BasePrice.IsNegative() {
		return invalid("basePrice", "Base price cannot be negative")
	}
	return nil
}

func (in RoomInput) apply(r *models.Room) {
	r.RoomNumber = in.RoomNumber
	r.Type = in.Type
	r.Floor = strings.TrimSpace(in.Floor)
	r.BasePrice = in.BasePrice
	r.Description = strings.TrimSpace(in.Description)
}

type RoomService struct {
	Store  store.Store
	Feed   events.Feed
	Logger *logrus.Logger
}

func NewRoomService(st store.Store, feed events.Feed, logger *logrus.Logger) *RoomService {
	return &RoomService{Store: st, Feed: feed, Logger: logger}
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.Store.ListRooms(ctx)
	return rooms, persistErr("list rooms", err)
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	r, err := s.Store.GetRoom(ctx, id)
	if err != nil {
		return nil, persistErr("get room", err)
	}
	return r, nil
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (*models.Room, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := &models.Room{Status: models.RoomAvailable}
	in.apply(r)
	if err := s.Store.CreateRoom(ctx, r); err != nil {
		return nil, persistErr("create room", err)
	}
	s.Logger.WithField("room_number", r.RoomNumber).Info("🛏️ Room created")
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionRooms, events.OpCreate, r.ID))
	return r, nil
}

func (s *RoomService) Update(ctx context.Context, id uint, in RoomInput) (*models.Room, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *models.Room
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		r, err := tx.GetRoom(ctx, id)
		if err != nil {
			return err
		}
		in.apply(r)
		if err := tx.UpdateRoom(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, persistErr("update room", err)
	}
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionRooms, events.OpUpdate, id))
	return out, nil
}

// Delete refuses while an active stay still holds the room.
func (s *RoomService) Delete(ctx context.Context, id uint, confirm Confirmer) error {
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		r, err := tx.GetRoom(ctx, id)
		if err != nil {
			return err
		}
		held, err := tx.CountActiveAllocationsForRoom(ctx, id)
		if err != nil {
			return err
		}
		if held > 0 {
			return conflict("Room %s has an active stay", r.RoomNumber)
		}
		if !confirm("Delete room " + r.RoomNumber + "?") {
			return ErrNotConfirmed
		}
		return tx.DeleteRoom(ctx, id)
	})
	if err != nil {
		return persistErr("delete room", err)
	}
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionRooms, events.OpDelete, id))
	return nil
}
