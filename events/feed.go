// Package events carries change notifications from writers to live subscribers (the SSE stream).
package events

import (
	"context"
	"time"
)

const (
	CollectionRooms          = "rooms"
	CollectionCustomers      = "customers"
	CollectionEmployees      = "employees"
	CollectionAllocations    = "allocations"
	CollectionInvoices       = "invoices"
	CollectionBookingSources = "bookingSources"
	CollectionSettings       = "settings"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

type ChangeEvent struct {
	Collection string    `json:"collection"`
	Op         Op        `json:"op"`
	ID         uint      `json:"id"`
	At         time.Time `json:"at"`
}

// Feed fans change events out to subscribers. Subscribe returns a channel that is closed
// once the returned cancel func runs or ctx ends.
type Feed interface {
	Publish(ctx context.Context, ev ChangeEvent)
	Subscribe(ctx context.Context, collections ...string) (<-chan ChangeEvent, func())
}

// NewEvent stamps the event time.
func NewEvent(collection string, op Op, id uint) ChangeEvent {
	return ChangeEvent{Collection: collection, Op: op, ID: id, At: time.Now()}
}

func wants(filter map[string]bool, collection string) bool {
	return len(filter) == 0 || filter[collection]
}

func toFilter(collections []string) map[string]bool {
	filter := make(map[string]bool, len(collections))
	for _, c := range collections {
		if c != "" {
			filter[c] = true
		}
	}
	return filter
}

// Nop drops everything. Used where no live clients exist (CLI jobs, tests).
type Nop struct{}

func (Nop) Publish(context.Context, ChangeEvent) {}

func (Nop) Subscribe(ctx context.Context, _ ...string) (<-chan ChangeEvent, func()) {
	ch := make(chan ChangeEvent)
	close(ch)
	return ch, func() {}
}
