package services

import (
	"sort"
	"sync"
	"time"

	"hotel-frontdesk/models"
)

// CheckoutAlert warns that a stay ends within the alert window.
type CheckoutAlert struct {
	AllocationID uint      `json:"allocationId"`
	RoomID       uint      `json:"roomId"`
	RoomNumber   string    `json:"roomNumber"`
	CustomerName string    `json:"customerName"`
	CheckOut     time.Time `json:"checkOut"`
	MinutesLeft  int       `json:"minutesLeft"`
}

// AlertCenter holds the alerts raised by the latest scan and the ids the staff dismissed.
// Dismissals last for the life of the process.
type AlertCenter struct {
	mu        sync.RWMutex
	dismissed map[uint]struct{}
	current   []CheckoutAlert
}

func NewAlertCenter() *AlertCenter {
	return &AlertCenter{dismissed: make(map[uint]struct{})}
}

func (c *AlertCenter) Dismiss(allocationID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissed[allocationID] = struct{}{}
	kept := c.current[:0]
	for _, a := range c.current {
		if a.AllocationID != allocationID {
			kept = append(kept, a)
		}
	}
	c.current = kept
}

func (c *AlertCenter) IsDismissed(allocationID uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.dismissed[allocationID]
	return ok
}

// Active returns the alerts of the latest scan, soonest first.
func (c *AlertCenter) Active() []CheckoutAlert {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]CheckoutAlert(nil), c.current...)
}

// Scan rebuilds the alert list: active stays whose checkout falls strictly inside (now, now+window)
// and that were not dismissed.
func (c *AlertCenter) Scan(allocations []models.Allocation, now time.Time, window time.Duration) []CheckoutAlert {
	limit := now.Add(window)
	var found []CheckoutAlert
	for _, a := range allocations {
		if !a.IsActive() || !a.CheckOut.After(now) || !a.CheckOut.Before(limit) {
			continue
		}
		if c.IsDismissed(a.ID) {
			continue
		}
		alert := CheckoutAlert{
			AllocationID: a.ID,
			RoomID:       a.RoomID,
			CheckOut:     a.CheckOut,
			MinutesLeft:  int(a.CheckOut.Sub(now).Round(time.Minute) / time.Minute),
		}
		if a.Room != nil {
			alert.RoomNumber = a.Room.RoomNumber
		}
		if a.Customer != nil {
			alert.CustomerName = a.Customer.Name
		}
		found = append(found, alert)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CheckOut.Before(found[j].CheckOut) })

	c.mu.Lock()
	c.current = found
	c.mu.Unlock()
	return append([]CheckoutAlert(nil), found...)
}
