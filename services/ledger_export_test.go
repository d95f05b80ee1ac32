package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk/models"
	"hotel-frontdesk/store/storetest"
)

func TestCurrentMonth(t *testing.T) {
	r := CurrentMonth(time.Date(2024, time.February, 14, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, 2024, r.To.Year())
	assert.Equal(t, time.February, r.To.Month())
	assert.Equal(t, 29, r.To.Day())
}

func TestBuildLedger(t *testing.T) {
	visit := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	customers := []models.Customer{
		{ID: 1, Name: "Zara, \"Z\" Khan", Phone: "9000000001", IDProof: "Passport - P123", CustomerType: models.CustomerReturning, VisitHistory: 4, CreatedAt: visit, LastVisit: &visit},
		{ID: 2, Name: "Asha Rao", Phone: "9000000002", IDProof: "Aadhaar - 1111", CustomerType: models.CustomerNew, VisitHistory: 1, CreatedAt: visit},
		{ID: 3, Name: "Nobody", Phone: "9000000003"},
	}
	in := checkInAt
	alloc := func(id, customer uint, room string, checkIn time.Time, pay models.PaymentType) models.Allocation {
		return models.Allocation{
			ID: id, CustomerID: customer, CheckIn: checkIn, StayDuration: 1,
			BasePrice: decimal.NewFromInt(1000), GSTRate: decimal.NewFromInt(12), AdvanceAmount: decimal.NewFromInt(100),
			PaymentType: pay, RegistrationNumber: "R" + room, Room: &models.Room{RoomNumber: room},
		}
	}
	allocations := []models.Allocation{
		alloc(10, 1, "101", in, models.PaymentCash),
		alloc(11, 1, "102", in.Add(24*time.Hour), models.PaymentUPI),
		alloc(12, 2, "103", in, models.PaymentCash),
		alloc(13, 2, "104", in.AddDate(0, 2, 0), models.PaymentCard),
	}

	rows := BuildLedger(customers, allocations, CurrentMonth(in))
	require.Len(t, rows, 3)
	assert.Equal(t, LedgerHeader, rows[0])

	asha := rows[1]
	assert.Equal(t, "1", asha[0])
	assert.Equal(t, "Asha Rao", asha[1])
	assert.Equal(t, "Aadhaar", asha[4])
	assert.Equal(t, "1111", asha[5])
	assert.Equal(t, "", asha[8])
	assert.Equal(t, "1", asha[9], "the May stay is out of range")
	assert.Equal(t, "1000.00", asha[11])
	assert.Equal(t, "60.00", asha[12])
	assert.Equal(t, "1120.00", asha[14])
	assert.Equal(t, "1020.00", asha[16])

	zara := rows[2]
	assert.Equal(t, "2", zara[9])
	assert.Equal(t, "4", zara[10])
	assert.Equal(t, "2240.00", zara[14])
	assert.Equal(t, "Cash, UPI", zara[17])
	assert.Equal(t, "R101, R102", zara[18])
	assert.Equal(t, "10, 11", zara[19])
	assert.Equal(t, "101, 102", zara[20])
}

func TestLedgerExportCSV_QuotesAndColumnOrder(t *testing.T) {
	st := storetest.NewMemoryStore()
	ctx := context.Background()
	c := &models.Customer{Name: "Zara, \"Z\" Khan", Phone: "9000000001", Address: "Flat 2, MG Road"}
	require.NoError(t, st.CreateCustomer(ctx, c))
	require.NoError(t, st.CreateAllocation(ctx, &models.Allocation{
		CustomerID: c.ID, CheckIn: checkInAt, StayDuration: 1,
		BasePrice: decimal.NewFromInt(1000), GSTRate: decimal.NewFromInt(12),
	}))

	var buf bytes.Buffer
	svc := NewLedgerService(st)
	require.NoError(t, svc.ExportCSV(ctx, &buf, CurrentMonth(checkInAt)))

	assert.Contains(t, buf.String(), `"Zara, ""Z"" Khan"`)
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, len(LedgerHeader), len(records[1]))
	assert.Equal(t, "Flat 2, MG Road", records[1][3])
}

func TestLedgerExportCSV_RejectsInvertedRange(t *testing.T) {
	svc := NewLedgerService(storetest.NewMemoryStore())
	err := svc.ExportCSV(context.Background(), &bytes.Buffer{}, LedgerRange{From: checkInAt, To: checkInAt.Add(-time.Hour)})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
