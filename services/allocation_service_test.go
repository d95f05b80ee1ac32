package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
	"hotel-frontdesk/store/storetest"
)

type allocationFixture struct {
	store *storetest.MemoryStore
	svc   *AllocationService
	rooms []*models.Room
	now   time.Time
}

func newAllocationFixture(t *testing.T, roomNumbers ...string) *allocationFixture {
	t.Helper()
	ctx := context.Background()
	st := storetest.NewMemoryStore()
	f := &allocationFixture{store: st, now: checkInAt.Add(time.Hour)}
	for _, n := range roomNumbers {
		r := &models.Room{RoomNumber: n, Type: models.RoomTypeAC, BasePrice: decimal.NewFromInt(1000)}
		require.NoError(t, st.CreateRoom(ctx, r))
		f.rooms = append(f.rooms, r)
	}
	sources := NewBookingSourceService(st, events.Nop{}, quietLogger())
	f.svc = NewAllocationService(st, sources, events.Nop{}, quietLogger())
	f.svc.Now = func() time.Time { return f.now }
	st.ResetCalls()
	return f
}

func (f *allocationFixture) request(rooms ...*models.Room) BookingRequest {
	r := validRequest()
	r.Rooms = nil
	for _, room := range rooms {
		r.Rooms = append(r.Rooms, RoomSelection{RoomID: room.ID})
	}
	return r
}

func (f *allocationFixture) roomStatus(t *testing.T, room *models.Room) models.RoomStatus {
	t.Helper()
	r, err := f.store.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	return r.Status
}

func TestCreate_SingleRoom(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.request(f.rooms[0]))
	require.NoError(t, err)
	require.Len(t, created, 1)

	a := created[0]
	assert.Equal(t, models.AllocationActive, a.Status)
	assert.Equal(t, 2, a.StayDuration)
	assert.Equal(t, "2240", a.Price.String())
	assert.Equal(t, "500", a.AdvanceAmount.String())
	assert.Equal(t, "1740", a.RemainingAmount.String())
	assert.Equal(t, models.PaymentCash, a.PaymentType)
	assert.Equal(t, models.RoomBooked, f.roomStatus(t, f.rooms[0]))

	customers, _ := f.store.ListCustomers(ctx)
	require.Len(t, customers, 1)
	assert.Equal(t, models.CustomerNew, customers[0].CustomerType)
	assert.Equal(t, 1, customers[0].VisitHistory)
	assert.Equal(t, "Aadhaar - 1234 5678 9012", customers[0].IDProof)
}

func TestCreate_ReturningCustomerMatchedByPhoneSuffix(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	existing := &models.Customer{Name: "Asha", Phone: "+91 98765 43210", CustomerType: models.CustomerNew, VisitHistory: 2}
	require.NoError(t, f.store.CreateCustomer(ctx, existing))

	created, err := f.svc.Create(ctx, f.request(f.rooms[0]))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, created[0].CustomerID)

	customers, _ := f.store.ListCustomers(ctx)
	require.Len(t, customers, 1)
	assert.Equal(t, models.CustomerReturning, customers[0].CustomerType)
	assert.Equal(t, 3, customers[0].VisitHistory)
	assert.Equal(t, "Asha Rao", customers[0].Name, "contact fields refreshed from the form")
	require.NotNil(t, customers[0].LastVisit)
	assert.True(t, customers[0].LastVisit.Equal(f.now))
}

func TestCreate_StaleCustomerIDIsIgnored(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	other := &models.Customer{Name: "Somebody Else", Phone: "7000000000"}
	require.NoError(t, f.store.CreateCustomer(ctx, other))

	req := f.request(f.rooms[0])
	req.ExistingCustomerID = &other.ID
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, other.ID, created[0].CustomerID)

	untouched, _ := f.store.GetCustomer(ctx, other.ID)
	assert.Equal(t, "Somebody Else", untouched.Name)
}

func TestCreate_MultiRoomAdvanceOnFirstRoom(t *testing.T) {
	f := newAllocationFixture(t, "101", "102", "103")
	ctx := context.Background()
	req := f.request(f.rooms...)
	req.AdvanceAmount = decimal.NewFromInt(900)

	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.Len(t, created, 3)

	assert.Equal(t, "900", created[0].AdvanceAmount.String())
	assert.True(t, created[1].AdvanceAmount.IsZero())
	assert.True(t, created[2].AdvanceAmount.IsZero())
	assert.Equal(t, created[0].CustomerID, created[2].CustomerID)

	customers, _ := f.store.ListCustomers(ctx)
	assert.Len(t, customers, 1, "one customer per submission")
	for _, r := range f.rooms {
		assert.Equal(t, models.RoomBooked, f.roomStatus(t, r))
	}
}

func TestCreate_MultiRoomIsAtomic(t *testing.T) {
	f := newAllocationFixture(t, "101", "102", "103")
	ctx := context.Background()
	require.NoError(t, f.store.MarkRoomBooked(ctx, f.rooms[2].ID))

	_, err := f.svc.Create(ctx, f.request(f.rooms...))
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)

	assert.Equal(t, models.RoomAvailable, f.roomStatus(t, f.rooms[0]))
	assert.Equal(t, models.RoomAvailable, f.roomStatus(t, f.rooms[1]))
	all, _ := f.store.ListAllocations(ctx)
	assert.Empty(t, all)
	customers, _ := f.store.ListCustomers(ctx)
	assert.Empty(t, customers)
}

func TestCreate_RoomHeldByLegacyAllocationConflicts(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	f.store.PutAllocation(models.Allocation{RoomID: f.rooms[0].ID, Status: ""})

	_, err := f.svc.Create(ctx, f.request(f.rooms[0]))
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestCreate_ValidationFailureWritesNothing(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewAllocationService(st, nil, events.Nop{}, quietLogger())

	req := validRequest()
	req.CheckOut = req.CheckIn
	_, err := svc.Create(context.Background(), req)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "checkOut", ve.Field)
	assert.Empty(t, st.Calls, "no store call may happen before validation passes")
	st.AssertExpectations(t)
}

func TestCreate_UnknownBookingPlatform(t *testing.T) {
	f := newAllocationFixture(t, "101")
	req := f.request(f.rooms[0])
	req.BookingPlatform = "Carrier Pigeon"

	_, err := f.svc.Create(context.Background(), req)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bookingPlatform", ve.Field)
	assert.Zero(t, f.store.Calls("CreateAllocation"))

	req.BookingPlatform = "makemytrip"
	_, err = f.svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreate_PersistenceFailureRollsBack(t *testing.T) {
	f := newAllocationFixture(t, "101")
	f.store.FailOn("CreateAllocation", errors.New("connection reset"))

	_, err := f.svc.Create(context.Background(), f.request(f.rooms[0]))
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, models.RoomAvailable, f.roomStatus(t, f.rooms[0]))
}

func TestUpdate_RecomputesWithoutTouchingRoomOrCustomerCount(t *testing.T) {
	f := newAllocationFixture(t, "101", "102")
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.request(f.rooms[0]))
	require.NoError(t, err)
	id := created[0].ID

	req := f.request(f.rooms[0])
	req.BasePrice = decimal.NewFromInt(2000)
	req.StayDuration = 1
	req.AdvanceAmount = decimal.Zero
	req.Address = "44 FC Road, Pune"
	updated, err := f.svc.Update(ctx, id, req)
	require.NoError(t, err)

	assert.Equal(t, "2240", updated.Price.String())
	assert.Equal(t, "2240", updated.RemainingAmount.String())
	assert.Equal(t, models.AllocationActive, updated.Status)
	assert.Equal(t, models.RoomBooked, f.roomStatus(t, f.rooms[0]))

	customers, _ := f.store.ListCustomers(ctx)
	require.Len(t, customers, 1)
	assert.Equal(t, "44 FC Road, Pune", customers[0].Address)
	assert.Equal(t, 1, customers[0].VisitHistory, "edits are not visits")

	_, err = f.svc.Update(ctx, id, f.request(f.rooms[1]))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.Update(ctx, id, f.request(f.rooms...))
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.Update(ctx, 9999, f.request(f.rooms[0]))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_CheckedOutStaysCheckedOut(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.request(f.rooms[0]))
	_, err := f.svc.CheckOut(ctx, created[0].ID, Confirmed)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created[0].ID, f.request(f.rooms[0]))
	require.NoError(t, err)
	assert.Equal(t, models.AllocationCheckedOut, updated.Status)
	assert.Equal(t, models.RoomAvailable, f.roomStatus(t, f.rooms[0]))
}

func TestCheckOut(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.request(f.rooms[0]))
	id := created[0].ID

	var prompt string
	_, err := f.svc.CheckOut(ctx, id, func(p string) bool { prompt = p; return false })
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Contains(t, prompt, "room 101")
	assert.Contains(t, prompt, "Asha Rao")
	still, _ := f.store.GetAllocation(ctx, id)
	assert.Equal(t, models.AllocationActive, still.Status)

	f.now = checkInAt.Add(30 * time.Hour)
	done, err := f.svc.CheckOut(ctx, id, Confirmed)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationCheckedOut, done.Status)
	require.NotNil(t, done.ActualCheckOut)
	assert.True(t, done.ActualCheckOut.Equal(f.now))
	assert.False(t, done.AutoCheckedOut)
	assert.Equal(t, models.RoomAvailable, f.roomStatus(t, f.rooms[0]))

	_, err = f.svc.CheckOut(ctx, id, Confirmed)
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)

	_, err = f.svc.CheckOut(ctx, 4242, Confirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckOut_RoomStaysBookedWhileAnotherStayHoldsIt(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.request(f.rooms[0]))
	f.store.PutAllocation(models.Allocation{RoomID: f.rooms[0].ID, Status: models.AllocationActive})

	_, err := f.svc.CheckOut(ctx, created[0].ID, Confirmed)
	require.NoError(t, err)
	assert.Equal(t, models.RoomBooked, f.roomStatus(t, f.rooms[0]))
}

func TestDelete(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.request(f.rooms[0]))
	id := created[0].ID
	_, err := f.svc.CheckOut(ctx, id, Confirmed)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, id, Declined), ErrNotConfirmed)
	assert.ErrorIs(t, f.svc.Delete(ctx, id, nil), ErrNotConfirmed)

	require.NoError(t, f.svc.Delete(ctx, id, Confirmed))
	_, err = f.store.GetAllocation(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, models.RoomAvailable, f.roomStatus(t, f.rooms[0]))

	assert.ErrorIs(t, f.svc.Delete(ctx, id, Confirmed), ErrNotFound)
}
