// Package store is the persistence boundary of the front desk: collection-style CRUD over rooms,
// customers, employees, allocations, invoices and the shared booking source list.
package store

import (
	"context"
	"errors"

	"hotel-frontdesk/models"
)

var (
	// ErrNotFound is returned when a keyed lookup matches nothing.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")

	// ErrRoomTaken is returned by MarkRoomBooked when the room is already Booked.
	ErrRoomTaken = errors.New("room already booked")
)

// Store is implemented by GormStore and by the in-memory fake in storetest.
type Store interface {
	// WithTx runs fn against a transactional Store. Returning an error rolls every write back.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id uint) error
	// MarkRoomBooked flips a room to Booked only if it is not Booked already.
	MarkRoomBooked(ctx context.Context, id uint) error
	SetRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id uint) error

	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	UpdateEmployee(ctx context.Context, employee *models.Employee) error
	DeleteEmployee(ctx context.Context, id uint) error

	ListAllocations(ctx context.Context) ([]models.Allocation, error)
	ListActiveAllocations(ctx context.Context) ([]models.Allocation, error)
	CountActiveAllocationsForRoom(ctx context.Context, roomID uint) (int64, error)
	GetAllocation(ctx context.Context, id uint) (*models.Allocation, error)
	CreateAllocation(ctx context.Context, allocation *models.Allocation) error
	UpdateAllocation(ctx context.Context, allocation *models.Allocation) error
	DeleteAllocation(ctx context.Context, id uint) error
	SetAllocationInvoiceNumber(ctx context.Context, allocationID uint, number string) error

	FindInvoiceByAllocation(ctx context.Context, allocationID uint) (*models.Invoice, error)
	// LatestInvoice returns the most recently created invoice, locking it inside a transaction.
	LatestInvoice(ctx context.Context) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error

	// GetBookingSources locks the shared row inside a transaction. ErrNotFound until first seeded.
	GetBookingSources(ctx context.Context) (*models.BookingSourcesConfig, error)
	SaveBookingSources(ctx context.Context, cfg *models.BookingSourcesConfig) error

	GetHotelSetting(ctx context.Context) (*models.HotelSetting, error)
	SaveHotelSetting(ctx context.Context, setting *models.HotelSetting) error
}
