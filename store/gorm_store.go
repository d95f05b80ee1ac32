package store

import (
	"context"
	"errors"
	"fmt"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-frontdesk/models"
)

// GormStore is the relational Store used in production.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// IsDuplicateKeyError recognises unique-index violations from either supported driver.
func IsDuplicateKeyError(err error) bool {
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	return false
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

// ---------------- Rooms ----------------

func (s *GormStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db(ctx).Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, translate(err)
	}
	return rooms, nil
}

func (s *GormStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.db(ctx).First(&room, id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (s *GormStore) CreateRoom(ctx context.Context, room *models.Room) error {
	return translate(s.db(ctx).Create(room).Error)
}

func (s *GormStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	res := s.db(ctx).Model(&models.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
		"room_number": room.RoomNumber,
		"type":        room.Type,
		"floor":       room.Floor,
		"base_price":  room.BasePrice,
		"description": room.Description,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteRoom(ctx context.Context, id uint) error {
	res := s.db(ctx).Delete(&models.Room{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) MarkRoomBooked(ctx context.Context, id uint) error {
	res := s.db(ctx).Model(&models.Room{}).
		Where("id = ? AND status <> ?", id, models.RoomBooked).
		Update("status", models.RoomBooked)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetRoom(ctx, id); err != nil {
			return err
		}
		return ErrRoomTaken
	}
	return nil
}

func (s *GormStore) SetRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	return translate(s.db(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status).Error)
}

// ---------------- Customers ----------------

func (s *GormStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db(ctx).Order("created_at ASC").Find(&customers).Error; err != nil {
		return nil, translate(err)
	}
	return customers, nil
}

func (s *GormStore) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.db(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *GormStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return translate(s.db(ctx).Create(customer).Error)
}

func (s *GormStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return translate(s.db(ctx).Save(customer).Error)
}

func (s *GormStore) DeleteCustomer(ctx context.Context, id uint) error {
	res := s.db(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------- Employees ----------------

func (s *GormStore) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.db(ctx).Order("name ASC").Find(&employees).Error; err != nil {
		return nil, translate(err)
	}
	return employees, nil
}

func (s *GormStore) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	var e models.Employee
	if err := s.db(ctx).First(&e, id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s *GormStore) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	return translate(s.db(ctx).Create(employee).Error)
}

func (s *GormStore) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	return translate(s.db(ctx).Save(employee).Error)
}

func (s *GormStore) DeleteEmployee(ctx context.Context, id uint) error {
	res := s.db(ctx).Delete(&models.Employee{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------- Allocations ----------------

func (s *GormStore) allocations(ctx context.Context) *gorm.DB {
	return s.db(ctx).Preload("Customer").Preload("Room").Preload("Employee")
}

func (s *GormStore) ListAllocations(ctx context.Context) ([]models.Allocation, error) {
	var list []models.Allocation
	if err := s.allocations(ctx).Order("check_in DESC").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s *GormStore) ListActiveAllocations(ctx context.Context) ([]models.Allocation, error) {
	var list []models.Allocation
	err := s.allocations(ctx).
		Where("status = ? OR status = '' OR status IS NULL", models.AllocationActive).
		Order("check_out ASC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s *GormStore) CountActiveAllocationsForRoom(ctx context.Context, roomID uint) (int64, error) {
	var n int64
	err := s.db(ctx).Model(&models.Allocation{}).
		Where("room_id = ? AND (status = ? OR status = '' OR status IS NULL)", roomID, models.AllocationActive).
		Count(&n).Error
	return n, translate(err)
}

func (s *GormStore) GetAllocation(ctx context.Context, id uint) (*models.Allocation, error) {
	var a models.Allocation
	if err := s.allocations(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *GormStore) CreateAllocation(ctx context.Context, allocation *models.Allocation) error {
	return translate(s.db(ctx).Omit(clause.Associations).Create(allocation).Error)
}

func (s *GormStore) UpdateAllocation(ctx context.Context, allocation *models.Allocation) error {
	return translate(s.db(ctx).Omit(clause.Associations).Save(allocation).Error)
}

func (s *GormStore) DeleteAllocation(ctx context.Context, id uint) error {
	res := s.db(ctx).Delete(&models.Allocation{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SetAllocationInvoiceNumber(ctx context.Context, allocationID uint, number string) error {
	return translate(s.db(ctx).Model(&models.Allocation{}).
		Where("id = ?", allocationID).
		Update("invoice_number", number).Error)
}

// ---------------- Invoices ----------------

func (s *GormStore) FindInvoiceByAllocation(ctx context.Context, allocationID uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db(ctx).Where("allocation_id = ?", allocationID).First(&inv).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (s *GormStore) LatestInvoice(ctx context.Context) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("created_at DESC").Order("id DESC").
		First(&inv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (s *GormStore) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return translate(s.db(ctx).Create(invoice).Error)
}

// ---------------- Booking sources ----------------

func (s *GormStore) GetBookingSources(ctx context.Context) (*models.BookingSourcesConfig, error) {
	var cfg models.BookingSourcesConfig
	err := s.db(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cfg, models.BookingSourcesConfigID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

func (s *GormStore) SaveBookingSources(ctx context.Context, cfg *models.BookingSourcesConfig) error {
	cfg.ID = models.BookingSourcesConfigID
	return translate(s.db(ctx).Save(cfg).Error)
}

// ---------------- Hotel settings ----------------

func (s *GormStore) GetHotelSetting(ctx context.Context) (*models.HotelSetting, error) {
	var hotel models.HotelSetting
	if err := s.db(ctx).First(&hotel).Error; err != nil {
		return nil, translate(err)
	}
	return &hotel, nil
}

func (s *GormStore) SaveHotelSetting(ctx context.Context, setting *models.HotelSetting) error {
	return translate(s.db(ctx).Save(setting).Error)
}
