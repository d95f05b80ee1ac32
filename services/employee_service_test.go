package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store/storetest"
)

func TestEmployeeService_UpdateReassignsRooms(t *testing.T) {
	st := storetest.NewMemoryStore()
	feed := events.NewMemoryFeed()
	svc := NewEmployeeService(st, feed, quietLogger())
	ctx := context.Background()

	ravi, err := svc.Create(ctx, EmployeeInput{Name: "Ravi", AssignedRooms: []string{"101", "102", "103"}})
	require.NoError(t, err)
	meena, err := svc.Create(ctx, EmployeeInput{Name: "Meena", Phone: "9123456780"})
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeActive, meena.Status)

	ch, cancel := feed.Subscribe(ctx, events.CollectionEmployees)
	defer cancel()

	_, err = svc.Update(ctx, meena.ID, EmployeeInput{Name: "Meena", Phone: "9123456780", AssignedRooms: []string{"102", "102", " 103 "}})
	require.NoError(t, err)

	got, _ := st.GetEmployee(ctx, ravi.ID)
	assert.Equal(t, []string{"101"}, []string(got.AssignedRooms))
	got, _ = st.GetEmployee(ctx, meena.ID)
	assert.Equal(t, []string{"102", "103"}, []string(got.AssignedRooms))

	first, second := <-ch, <-ch
	assert.Equal(t, meena.ID, first.ID)
	assert.Equal(t, ravi.ID, second.ID)
}

func TestEmployeeService_ReassignmentIsAtomic(t *testing.T) {
	st := storetest.NewMemoryStore()
	svc := NewEmployeeService(st, events.Nop{}, quietLogger())
	ctx := context.Background()

	ravi, err := svc.Create(ctx, EmployeeInput{Name: "Ravi", AssignedRooms: []string{"101"}})
	require.NoError(t, err)
	meena, err := svc.Create(ctx, EmployeeInput{Name: "Meena"})
	require.NoError(t, err)

	st.FailOn("ListEmployees", errors.New("db gone"))
	_, err = svc.Update(ctx, meena.ID, EmployeeInput{Name: "Meena Iyer", AssignedRooms: []string{"101"}})
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)

	st.FailOn("ListEmployees", nil)
	got, _ := st.GetEmployee(ctx, meena.ID)
	assert.Equal(t, "Meena", got.Name)
	got, _ = st.GetEmployee(ctx, ravi.ID)
	assert.Equal(t, []string{"101"}, []string(got.AssignedRooms))
}

func TestEmployeeService_Validation(t *testing.T) {
	svc := NewEmployeeService(storetest.NewMemoryStore(), events.Nop{}, quietLogger())
	ctx := context.Background()

	for name, in := range map[string]EmployeeInput{
		"name":   {Name: "  "},
		"phone":  {Name: "Ravi", Phone: "12345"},
		"status": {Name: "Ravi", Status: "On Leave"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, name, ve.Field)
		})
	}
}

func TestEmployeeService_DeleteNeedsConfirmation(t *testing.T) {
	st := storetest.NewMemoryStore()
	svc := NewEmployeeService(st, events.Nop{}, quietLogger())
	ctx := context.Background()
	e, err := svc.Create(ctx, EmployeeInput{Name: "Ravi"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, e.ID, Declined), ErrNotConfirmed)
	require.NoError(t, svc.Delete(ctx, e.ID, Confirmed))
	_, err = svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
