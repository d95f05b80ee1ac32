// Package storetest provides an in-memory store.Store for service and controller tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

type memData struct {
	rooms       map[uint]models.Room
	customers   map[uint]models.Customer
	employees   map[uint]models.Employee
	allocations map[uint]models.Allocation
	invoices    []models.Invoice
	sources     *models.BookingSourcesConfig
	hotel       *models.HotelSetting
	nextID      uint
}

func (d *memData) clone() *memData {
	out := &memData{
		rooms:       make(map[uint]models.Room, len(d.rooms)),
		customers:   make(map[uint]models.Customer, len(d.customers)),
		employees:   make(map[uint]models.Employee, len(d.employees)),
		allocations: make(map[uint]models.Allocation, len(d.allocations)),
		invoices:    append([]models.Invoice(nil), d.invoices...),
		nextID:      d.nextID,
	}
	for k, v := range d.rooms {
		out.rooms[k] = v
	}
	for k, v := range d.customers {
		out.customers[k] = v
	}
	for k, v := range d.employees {
		v.AssignedRooms = append([]string(nil), v.AssignedRooms...)
		out.employees[k] = v
	}
	for k, v := range d.allocations {
		out.allocations[k] = v
	}
	if d.sources != nil {
		cp := *d.sources
		cp.Sources = append([]string(nil), d.sources.Sources...)
		out.sources = &cp
	}
	if d.hotel != nil {
		cp := *d.hotel
		out.hotel = &cp
	}
	return out
}

// MemoryStore keeps everything in maps. WithTx snapshots the data and restores it when fn fails.
type MemoryStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data *memData

	calls  map[string]int
	failOn map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: &memData{
			rooms:       map[uint]models.Room{},
			customers:   map[uint]models.Customer{},
			employees:   map[uint]models.Employee{},
			allocations: map[uint]models.Allocation{},
			nextID:      1,
		},
		calls:  map[string]int{},
		failOn: map[string]error{},
	}
}

// FailOn makes every later call to method return err.
func (s *MemoryStore) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[method] = err
}

// Calls returns how many times method ran. An empty name returns the total.
func (s *MemoryStore) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if method == "" {
		total := 0
		for _, n := range s.calls {
			total += n
		}
		return total
	}
	return s.calls[method]
}

// ResetCalls clears the call counters, typically after seeding.
func (s *MemoryStore) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = map[string]int{}
}

// enter must be called with mu held.
func (s *MemoryStore) enter(method string) error {
	s.calls[method]++
	if err, ok := s.failOn[method]; ok {
		return err
	}
	return nil
}

func (s *MemoryStore) id() uint {
	id := s.data.nextID
	s.data.nextID++
	return id
}

type memTx struct {
	*MemoryStore
}

func (t memTx) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(t)
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	if err := s.enter("WithTx"); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(memTx{s}); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// ---------------- Rooms ----------------

func (s *MemoryStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListRooms"); err != nil {
		return nil, err
	}
	out := make([]models.Room, 0, len(s.data.rooms))
	for _, r := range s.data.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *MemoryStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetRoom"); err != nil {
		return nil, err
	}
	r, ok := s.data.rooms[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) CreateRoom(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateRoom"); err != nil {
		return err
	}
	for _, r := range s.data.rooms {
		if strings.EqualFold(r.RoomNumber, room.RoomNumber) {
			return fmt.Errorf("%w: room number %s", store.ErrDuplicate, room.RoomNumber)
		}
	}
	if room.ID == 0 {
		room.ID = s.id()
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	s.data.rooms[room.ID] = *room
	return nil
}

func (s *MemoryStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateRoom"); err != nil {
		return err
	}
	cur, ok := s.data.rooms[room.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, r := range s.data.rooms {
		if id != room.ID && strings.EqualFold(r.RoomNumber, room.RoomNumber) {
			return fmt.Errorf("%w: room number %s", store.ErrDuplicate, room.RoomNumber)
		}
	}
	cur.RoomNumber = room.RoomNumber
	cur.Type = room.Type
	cur.Floor = room.Floor
	cur.BasePrice = room.BasePrice
	cur.Description = room.Description
	cur.UpdatedAt = time.Now()
	s.data.rooms[room.ID] = cur
	return nil
}

func (s *MemoryStore) DeleteRoom(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteRoom"); err != nil {
		return err
	}
	if _, ok := s.data.rooms[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data.rooms, id)
	return nil
}

func (s *MemoryStore) MarkRoomBooked(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("MarkRoomBooked"); err != nil {
		return err
	}
	r, ok := s.data.rooms[id]
	if !ok {
		return store.ErrNotFound
	}
	if r.Status == models.RoomBooked {
		return store.ErrRoomTaken
	}
	r.Status = models.RoomBooked
	s.data.rooms[id] = r
	return nil
}

func (s *MemoryStore) SetRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetRoomStatus"); err != nil {
		return err
	}
	r, ok := s.data.rooms[id]
	if !ok {
		return nil
	}
	r.Status = status
	s.data.rooms[id] = r
	return nil
}

// ---------------- Customers ----------------

func (s *MemoryStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListCustomers"); err != nil {
		return nil, err
	}
	out := make([]models.Customer, 0, len(s.data.customers))
	for _, c := range s.data.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetCustomer"); err != nil {
		return nil, err
	}
	c, ok := s.data.customers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateCustomer"); err != nil {
		return err
	}
	if customer.ID == 0 {
		customer.ID = s.id()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	s.data.customers[customer.ID] = *customer
	return nil
}

func (s *MemoryStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateCustomer"); err != nil {
		return err
	}
	if _, ok := s.data.customers[customer.ID]; !ok {
		return store.ErrNotFound
	}
	s.data.customers[customer.ID] = *customer
	return nil
}

func (s *MemoryStore) DeleteCustomer(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteCustomer"); err != nil {
		return err
	}
	if _, ok := s.data.customers[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data.customers, id)
	return nil
}

// ---------------- Employees ----------------

func (s *MemoryStore) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListEmployees"); err != nil {
		return nil, err
	}
	out := make([]models.Employee, 0, len(s.data.employees))
	for _, e := range s.data.employees {
		e.AssignedRooms = append([]string(nil), e.AssignedRooms...)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetEmployee"); err != nil {
		return nil, err
	}
	e, ok := s.data.employees[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	e.AssignedRooms = append([]string(nil), e.AssignedRooms...)
	return &e, nil
}

func (s *MemoryStore) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateEmployee"); err != nil {
		return err
	}
	if employee.ID == 0 {
		employee.ID = s.id()
	}
	cp := *employee
	cp.AssignedRooms = append([]string(nil), employee.AssignedRooms...)
	s.data.employees[employee.ID] = cp
	return nil
}

func (s *MemoryStore) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateEmployee"); err != nil {
		return err
	}
	if _, ok := s.data.employees[employee.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *employee
	cp.AssignedRooms = append([]string(nil), employee.AssignedRooms...)
	s.data.employees[employee.ID] = cp
	return nil
}

func (s *MemoryStore) DeleteEmployee(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteEmployee"); err != nil {
		return err
	}
	if _, ok := s.data.employees[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data.employees, id)
	return nil
}

// ---------------- Allocations ----------------

// withRelations must be called with mu held.
func (s *MemoryStore) withRelations(a models.Allocation) models.Allocation {
	a.Status = models.NormalizeAllocationStatus(a.Status)
	if c, ok := s.data.customers[a.CustomerID]; ok {
		a.Customer = &c
	}
	if r, ok := s.data.rooms[a.RoomID]; ok {
		a.Room = &r
	}
	if a.EmployeeID != nil {
		if e, ok := s.data.employees[*a.EmployeeID]; ok {
			a.Employee = &e
		}
	}
	return a
}

func (s *MemoryStore) ListAllocations(ctx context.Context) ([]models.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListAllocations"); err != nil {
		return nil, err
	}
	out := make([]models.Allocation, 0, len(s.data.allocations))
	for _, a := range s.data.allocations {
		out = append(out, s.withRelations(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListActiveAllocations(ctx context.Context) ([]models.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListActiveAllocations"); err != nil {
		return nil, err
	}
	out := []models.Allocation{}
	for _, a := range s.data.allocations {
		if a.IsActive() {
			out = append(out, s.withRelations(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CountActiveAllocationsForRoom(ctx context.Context, roomID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountActiveAllocationsForRoom"); err != nil {
		return 0, err
	}
	var n int64
	for _, a := range s.data.allocations {
		if a.RoomID == roomID && a.IsActive() {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) GetAllocation(ctx context.Context, id uint) (*models.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetAllocation"); err != nil {
		return nil, err
	}
	a, ok := s.data.allocations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a = s.withRelations(a)
	return &a, nil
}

func stripRelations(a models.Allocation) models.Allocation {
	a.Customer = nil
	a.Room = nil
	a.Employee = nil
	return a
}

func (s *MemoryStore) CreateAllocation(ctx context.Context, allocation *models.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateAllocation"); err != nil {
		return err
	}
	if allocation.ID == 0 {
		allocation.ID = s.id()
	}
	allocation.CreatedAt = time.Now()
	allocation.UpdatedAt = allocation.CreatedAt
	s.data.allocations[allocation.ID] = stripRelations(*allocation)
	return nil
}

// PutAllocation stores a raw row as-is, bypassing normalization. Used to seed legacy records.
func (s *MemoryStore) PutAllocation(allocation models.Allocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if allocation.ID == 0 {
		allocation.ID = s.id()
	}
	s.data.allocations[allocation.ID] = stripRelations(allocation)
}

func (s *MemoryStore) UpdateAllocation(ctx context.Context, allocation *models.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateAllocation"); err != nil {
		return err
	}
	if _, ok := s.data.allocations[allocation.ID]; !ok {
		return store.ErrNotFound
	}
	allocation.UpdatedAt = time.Now()
	s.data.allocations[allocation.ID] = stripRelations(*allocation)
	return nil
}

func (s *MemoryStore) DeleteAllocation(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteAllocation"); err != nil {
		return err
	}
	if _, ok := s.data.allocations[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data.allocations, id)
	return nil
}

func (s *MemoryStore) SetAllocationInvoiceNumber(ctx context.Context, allocationID uint, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetAllocationInvoiceNumber"); err != nil {
		return err
	}
	a, ok := s.data.allocations[allocationID]
	if !ok {
		return store.ErrNotFound
	}
	n := number
	a.InvoiceNumber = &n
	s.data.allocations[allocationID] = a
	return nil
}

// ---------------- Invoices ----------------

func (s *MemoryStore) FindInvoiceByAllocation(ctx context.Context, allocationID uint) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindInvoiceByAllocation"); err != nil {
		return nil, err
	}
	for _, inv := range s.data.invoices {
		if inv.AllocationID == allocationID {
			cp := inv
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *MemoryStore) LatestInvoice(ctx context.Context) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("LatestInvoice"); err != nil {
		return nil, err
	}
	if len(s.data.invoices) == 0 {
		return nil, store.ErrNotFound
	}
	cp := s.data.invoices[len(s.data.invoices)-1]
	return &cp, nil
}

func (s *MemoryStore) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateInvoice"); err != nil {
		return err
	}
	for _, inv := range s.data.invoices {
		if inv.InvoiceNumber == invoice.InvoiceNumber || inv.AllocationID == invoice.AllocationID {
			return fmt.Errorf("%w: invoice %s", store.ErrDuplicate, invoice.InvoiceNumber)
		}
	}
	if invoice.ID == 0 {
		invoice.ID = s.id()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	s.data.invoices = append(s.data.invoices, *invoice)
	return nil
}

// InvoiceCount reports how many invoice rows exist.
func (s *MemoryStore) InvoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.invoices)
}

// ---------------- Booking sources ----------------

func (s *MemoryStore) GetBookingSources(ctx context.Context) (*models.BookingSourcesConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetBookingSources"); err != nil {
		return nil, err
	}
	if s.data.sources == nil {
		return nil, store.ErrNotFound
	}
	cp := *s.data.sources
	cp.Sources = append([]string(nil), s.data.sources.Sources...)
	return &cp, nil
}

func (s *MemoryStore) SaveBookingSources(ctx context.Context, cfg *models.BookingSourcesConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SaveBookingSources"); err != nil {
		return err
	}
	cp := *cfg
	cp.ID = models.BookingSourcesConfigID
	cp.Sources = append([]string(nil), cfg.Sources...)
	s.data.sources = &cp
	return nil
}

// ---------------- Hotel settings ----------------

func (s *MemoryStore) GetHotelSetting(ctx context.Context) (*models.HotelSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetHotelSetting"); err != nil {
		return nil, err
	}
	if s.data.hotel == nil {
		return nil, store.ErrNotFound
	}
	cp := *s.data.hotel
	return &cp, nil
}

func (s *MemoryStore) SaveHotelSetting(ctx context.Context, setting *models.HotelSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SaveHotelSetting"); err != nil {
		return err
	}
	if setting.ID == 0 {
		setting.ID = 1
	}
	cp := *setting
	s.data.hotel = &cp
	return nil
}

var _ store.Store = (*MemoryStore)(nil)
