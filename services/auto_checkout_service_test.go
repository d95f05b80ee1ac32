package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk/models"
)

func newScheduler(f *allocationFixture) (*AutoCheckoutService, *AlertCenter) {
	alerts := NewAlertCenter()
	return NewAutoCheckoutService(f.svc, alerts, quietLogger(), "", 0), alerts
}

func TestAutoCheckout_SweepIsIdempotent(t *testing.T) {
	f := newAllocationFixture(t, "101", "102")
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.request(f.rooms[0]))
	require.NoError(t, err)
	future := f.request(f.rooms[1])
	future.CheckOut = checkInAt.Add(72 * time.Hour)
	_, err = f.svc.Create(ctx, future)
	require.NoError(t, err)

	sched, _ := newScheduler(f)
	f.now = created[0].CheckOut.Add(time.Minute)

	first := sched.RunOnce(ctx)
	assert.Equal(t, []uint{created[0].ID}, first.CheckedOut)
	assert.Empty(t, first.Failed)

	a, _ := f.store.GetAllocation(ctx, created[0].ID)
	assert.Equal(t, models.AllocationCheckedOut, a.Status)
	assert.True(t, a.AutoCheckedOut)
	assert.Equal(t, models.RoomAvailable, f.roomStatus(t, f.rooms[0]))
	assert.Equal(t, models.RoomBooked, f.roomStatus(t, f.rooms[1]))

	updates := f.store.Calls("UpdateAllocation")
	second := sched.RunOnce(ctx)
	assert.Empty(t, second.CheckedOut)
	assert.Equal(t, updates, f.store.Calls("UpdateAllocation"), "second sweep writes nothing")
}

func TestAutoCheckout_CheckoutExactlyNowIsOverdue(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.request(f.rooms[0]))
	sched, _ := newScheduler(f)

	f.now = created[0].CheckOut
	assert.Equal(t, []uint{created[0].ID}, sched.RunOnce(ctx).CheckedOut)
}

func TestAutoCheckout_LegacyStatusIsSwept(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	f.store.PutAllocation(models.Allocation{ID: 77, RoomID: f.rooms[0].ID, Status: "", CheckOut: f.now.Add(-time.Hour)})
	sched, _ := newScheduler(f)

	assert.Equal(t, []uint{77}, sched.RunOnce(ctx).CheckedOut)
}

func TestAutoCheckout_FailureDoesNotBlockOthers(t *testing.T) {
	f := newAllocationFixture(t, "101", "102")
	ctx := context.Background()
	a, _ := f.svc.Create(ctx, f.request(f.rooms[0]))
	b, _ := f.svc.Create(ctx, f.request(f.rooms[1]))
	f.now = a[0].CheckOut.Add(time.Hour)

	f.store.FailOn("SetRoomStatus", errors.New("lock wait timeout"))
	sched, _ := newScheduler(f)
	res := sched.RunOnce(ctx)

	assert.ElementsMatch(t, []uint{a[0].ID, b[0].ID}, res.Failed)
	assert.Empty(t, res.CheckedOut)
	still, _ := f.store.GetAllocation(ctx, a[0].ID)
	assert.Equal(t, models.AllocationActive, still.Status, "failed checkout rolled back")
}

func TestAutoCheckout_UpcomingAlertsAndDismissal(t *testing.T) {
	f := newAllocationFixture(t, "101", "102", "103")
	ctx := context.Background()

	soon := f.request(f.rooms[0])
	soon.CheckOut = f.now.Add(3 * time.Minute)
	soonAlloc, err := f.svc.Create(ctx, soon)
	require.NoError(t, err)

	edge := f.request(f.rooms[1])
	edge.CheckOut = f.now.Add(5 * time.Minute)
	_, err = f.svc.Create(ctx, edge)
	require.NoError(t, err)

	later := f.request(f.rooms[2])
	later.CheckOut = f.now.Add(time.Hour)
	_, err = f.svc.Create(ctx, later)
	require.NoError(t, err)

	sched, alerts := newScheduler(f)
	res := sched.RunOnce(ctx)
	require.Len(t, res.Alerts, 1, "window is exclusive at both ends")
	assert.Equal(t, soonAlloc[0].ID, res.Alerts[0].AllocationID)
	assert.Equal(t, "101", res.Alerts[0].RoomNumber)
	assert.Equal(t, "Asha Rao", res.Alerts[0].CustomerName)
	assert.Equal(t, 3, res.Alerts[0].MinutesLeft)
	assert.Len(t, alerts.Active(), 1)

	alerts.Dismiss(soonAlloc[0].ID)
	assert.True(t, alerts.IsDismissed(soonAlloc[0].ID))
	assert.Empty(t, alerts.Active())
	assert.Empty(t, sched.RunOnce(ctx).Alerts, "dismissed alert is not raised again")
}

func TestAutoCheckout_StartStop(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.request(f.rooms[0]))
	f.now = created[0].CheckOut.Add(time.Minute)

	sched, _ := newScheduler(f)
	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Eventually(t, func() bool {
		a, err := f.store.GetAllocation(ctx, created[0].ID)
		return err == nil && a.Status == models.AllocationCheckedOut
	}, 2*time.Second, 20*time.Millisecond, "Start runs a sweep immediately")
}

func TestAutoCheckout_StopWaitsForInitialSweep(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, _ := f.svc.Create(ctx, f.request(f.rooms[0]))
	f.now = created[0].CheckOut.Add(time.Minute)

	sched, _ := newScheduler(f)
	require.NoError(t, sched.Start())
	sched.Stop()

	a, err := f.store.GetAllocation(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationCheckedOut, a.Status, "sweep finished before Stop returned")
}

func TestAutoCheckout_InvalidSpec(t *testing.T) {
	f := newAllocationFixture(t)
	sched := NewAutoCheckoutService(f.svc, NewAlertCenter(), quietLogger(), "every now and then", time.Minute)
	assert.Error(t, sched.Start())
}
