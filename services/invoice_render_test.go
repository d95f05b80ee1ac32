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
)

type recordingArchive struct {
	keys []string
	err  error
}

func (r *recordingArchive) PutInvoice(ctx context.Context, number string, html []byte) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.keys = append(r.keys, number)
	return "invoices/" + number + ".html", nil
}

func TestPanFromGSTIN(t *testing.T) {
	assert.Equal(t, "ABCDE1234F", panFromGSTIN("27ABCDE1234F1Z5"))
	assert.Equal(t, "", panFromGSTIN("27ABCDE"))
	assert.Equal(t, "", panFromGSTIN(""))
}

func TestBuildInvoiceView(t *testing.T) {
	out := checkInAt.Add(26 * time.Hour)
	a := &models.Allocation{
		ID:             7,
		CheckIn:        checkInAt,
		CheckOut:       checkInAt.Add(48 * time.Hour),
		ActualCheckOut: &out,
		NumberOfGuests: 2,
		StayDuration:   2,
		BasePrice:      decimal.NewFromInt(1000),
		GSTRate:        decimal.NewFromInt(12),
		AdvanceAmount:  decimal.NewFromInt(500),
		Customer:       &models.Customer{Name: "Asha Rao", GSTIN: "27ABCDE1234F1Z5"},
		Room:           &models.Room{RoomNumber: "101", Type: models.RoomTypeAC},
		Employee:       &models.Employee{Name: "Ravi"},
	}
	hotel := &models.HotelSetting{Name: "Hotel Sagar", HSNSACCode: "996311"}

	v := BuildInvoiceView(a, hotel, "INV-0001", "", checkInAt)

	assert.Equal(t, "10-03-2024 1200 HRS", v.Arrival)
	assert.Equal(t, "11-03-2024 1400 HRS", v.Departure, "actual check-out wins")
	assert.Equal(t, "02", v.Line.Guests)
	assert.Equal(t, "2000.00", v.Line.Taxable)
	assert.Equal(t, "1000.00", v.Line.Rate)
	assert.Equal(t, "120.00", v.Totals.CGST)
	assert.Equal(t, "120.00", v.Totals.SGST)
	assert.Equal(t, "2240.00", v.Totals.Total)
	assert.Equal(t, "1740.00", v.Totals.Balance)
	assert.Equal(t, "6", v.HSN.HalfRate)
	assert.Equal(t, "996311", v.HSN.Code, "falls back to the hotel default")
	assert.Equal(t, "ABCDE1234F", v.Customer.PAN)
	assert.Equal(t, "Ravi", v.BookingStaff)
	assert.Equal(t, "Rupees Two Thousand Two Hundred Forty Only", v.AmountInWords)
}

func TestInvoiceRender_RendersAndArchives(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.request(f.rooms[0]))
	require.NoError(t, err)
	require.NoError(t, f.store.SaveHotelSetting(ctx, &models.HotelSetting{Name: "Hotel Sagar", GSTIN: "27ABCDE1234F1Z5"}))

	invoices := NewInvoiceService(f.store, events.Nop{}, quietLogger())
	invoices.Now = func() time.Time { return f.now }
	archive := &recordingArchive{}
	svc := NewInvoiceRenderService(f.store, invoices, archive, quietLogger(), "996311")

	html, err := svc.Render(ctx, created[0].ID)
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, "Hotel Sagar")
	assert.Contains(t, page, "INV-0001")
	assert.Contains(t, page, "10-03-2024 1200 HRS")
	assert.Contains(t, page, "Asha Rao")
	assert.Contains(t, page, "996311")
	assert.Contains(t, page, "Authorised Signatory")
	assert.Equal(t, []string{"INV-0001"}, archive.keys)

	again, err := svc.Render(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Contains(t, string(again), "INV-0001")
	assert.Equal(t, 1, f.store.InvoiceCount())
}

func TestInvoiceRender_ArchiveFailureDoesNotBlockPrinting(t *testing.T) {
	f := newAllocationFixture(t, "101")
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.request(f.rooms[0]))
	require.NoError(t, err)

	invoices := NewInvoiceService(f.store, events.Nop{}, quietLogger())
	svc := NewInvoiceRenderService(f.store, invoices, &recordingArchive{err: errors.New("s3 down")}, quietLogger(), "")

	html, err := svc.Render(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Contains(t, string(html), "INV-0001")
}

func TestInvoiceRender_UnknownAllocation(t *testing.T) {
	f := newAllocationFixture(t)
	invoices := NewInvoiceService(f.store, events.Nop{}, quietLogger())
	svc := NewInvoiceRenderService(f.store, invoices, nil, quietLogger(), "")

	_, err := svc.Render(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
