package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

// MockStore is a testify mock of store.Store. WithTx runs fn against the mock itself.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]models.Room)
	return v, args.Error(1)
}

func (m *MockStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Room)
	return v, args.Error(1)
}

func (m *MockStore) CreateRoom(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockStore) DeleteRoom(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) MarkRoomBooked(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) SetRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]models.Customer)
	return v, args.Error(1)
}

func (m *MockStore) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Customer)
	return v, args.Error(1)
}

func (m *MockStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockStore) DeleteCustomer(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]models.Employee)
	return v, args.Error(1)
}

func (m *MockStore) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Employee)
	return v, args.Error(1)
}

func (m *MockStore) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *MockStore) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *MockStore) DeleteEmployee(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ListAllocations(ctx context.Context) ([]models.Allocation, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]models.Allocation)
	return v, args.Error(1)
}

func (m *MockStore) ListActiveAllocations(ctx context.Context) ([]models.Allocation, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]models.Allocation)
	return v, args.Error(1)
}

func (m *MockStore) CountActiveAllocationsForRoom(ctx context.Context, roomID uint) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetAllocation(ctx context.Context, id uint) (*models.Allocation, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Allocation)
	return v, args.Error(1)
}

func (m *MockStore) CreateAllocation(ctx context.Context, allocation *models.Allocation) error {
	return m.Called(ctx, allocation).Error(0)
}

func (m *MockStore) UpdateAllocation(ctx context.Context, allocation *models.Allocation) error {
	return m.Called(ctx, allocation).Error(0)
}

func (m *MockStore) DeleteAllocation(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) SetAllocationInvoiceNumber(ctx context.Context, allocationID uint, number string) error {
	return m.Called(ctx, allocationID, number).Error(0)
}

func (m *MockStore) FindInvoiceByAllocation(ctx context.Context, allocationID uint) (*models.Invoice, error) {
	args := m.Called(ctx, allocationID)
	v, _ := args.Get(0).(*models.Invoice)
	return v, args.Error(1)
}

func (m *MockStore) LatestInvoice(ctx context.Context) (*models.Invoice, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.Invoice)
	return v, args.Error(1)
}

func (m *MockStore) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockStore) GetBookingSources(ctx context.Context) (*models.BookingSourcesConfig, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.BookingSourcesConfig)
	return v, args.Error(1)
}

func (m *MockStore) SaveBookingSources(ctx context.Context, cfg *models.BookingSourcesConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockStore) GetHotelSetting(ctx context.Context) (*models.HotelSetting, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.HotelSetting)
	return v, args.Error(1)
}

func (m *MockStore) SaveHotelSetting(ctx context.Context, setting *models.HotelSetting) error {
	return m.Called(ctx, setting).Error(0)
}

var _ store.Store = (*MockStore)(nil)
