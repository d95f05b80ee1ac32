package services

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"hotel-frontdesk/store"
)

type RoomCounts struct {
	Total     int            `json:"total"`
	Available int            `json:"available"`
	Occupied  int            `json:"occupied"`
	ByType    map[string]int `json:"byType"`
}

type DashboardSummary struct {
	Rooms            RoomCounts      `json:"rooms"`
	ActiveStays      int             `json:"activeStays"`
	CheckInsToday    int             `json:"checkInsToday"`
	CheckOutsToday   int             `json:"checkOutsToday"`
	AdvanceCollected decimal.Decimal `json:"advanceCollected"`
	PendingBalance   decimal.Decimal `json:"pendingBalance"`
}

type DashboardService struct {
	Store store.Store
	Now   func() time.Time
}

func NewDashboardService(st store.Store) *DashboardService {
	return &DashboardService{Store: st, Now: time.Now}
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	rooms, err := s.Store.ListRooms(ctx)
	if err != nil {
		return nil, persistErr("list rooms", err)
	}
	allocations, err := s.Store.ListAllocations(ctx)
	if err != nil {
		return nil, persistErr("list allocations", err)
	}

	today := now.With(s.Now())
	start, end := today.BeginningOfDay(), today.EndOfDay()
	inToday := func(t time.Time) bool { return !t.Before(start) && !t.After(end) }

	free := AvailableRooms(rooms, allocations, "")
	sum := &DashboardSummary{
		Rooms: RoomCounts{
			Total:     len(rooms),
			Available: len(free),
			Occupied:  len(rooms) - len(free),
			ByType:    map[string]int{},
		},
		AdvanceCollected: decimal.Zero,
		PendingBalance:   decimal.Zero,
	}
	for _, r := range rooms {
		sum.Rooms.ByType[string(r.Type)]++
	}

	for _, a := range allocations {
		if inToday(a.CheckIn) {
			sum.CheckInsToday++
		}
		if !a.IsActive() {
			if a.ActualCheckOut != nil && inToday(*a.ActualCheckOut) {
				sum.CheckOutsToday++
			}
			continue
		}
		sum.ActiveStays++
		if inToday(a.CheckOut) {
			sum.CheckOutsToday++
		}
		sum.AdvanceCollected = sum.AdvanceCollected.Add(a.AdvanceAmount)
		sum.PendingBalance = sum.PendingBalance.Add(a.RemainingAmount)
	}
	sum.AdvanceCollected = sum.AdvanceCollected.Round(2)
	sum.PendingBalance = sum.PendingBalance.Round(2)
	return sum, nil
}
