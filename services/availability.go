package services

import (
	"context"

	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

// AvailableRooms keeps rooms that are not Booked and that no active allocation references.
// Allocations with an empty legacy status count as active. An empty typeFilter keeps every type.
func AvailableRooms(rooms []models.Room, allocations []models.Allocation, typeFilter models.RoomType) []models.Room {
	held := make(map[uint]struct{}, len(allocations))
	for _, a := range allocations {
		if a.IsActive() {
			held[a.RoomID] = struct{}{}
		}
	}

	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == models.RoomBooked {
			continue
		}
		if _, taken := held[r.ID]; taken {
			continue
		}
		if typeFilter != "" && r.Type != typeFilter {
			continue
		}
		out = append(out, r)
	}
	return out
}

// AvailabilityService answers availability from a fresh snapshot on every call.
type AvailabilityService struct {
	Store store.Store
}

func NewAvailabilityService(st store.Store) *AvailabilityService {
	return &AvailabilityService{Store: st}
}

func (s *AvailabilityService) Available(ctx context.Context, typeFilter models.RoomType) ([]models.Room, error) {
	if typeFilter != "" && !typeFilter.IsValid() {
		return nil, invalid("type", "room type must be AC or Non-AC")
	}
	rooms, err := s.Store.ListRooms(ctx)
	if err != nil {
		return nil, persistErr("list rooms", err)
	}
	active, err := s.Store.ListActiveAllocations(ctx)
	if err != nil {
		return nil, persistErr("list allocations", err)
	}
	return AvailableRooms(rooms, active, typeFilter), nil
}
