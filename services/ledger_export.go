package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
	"hotel-frontdesk/utils"
)

// LedgerHeader is the fixed column order of the customer ledger export.
var LedgerHeader = []string{
	"Sr. No.",
	"Customer Name",
	"Phone",
	"Address",
	"ID Type",
	"ID Number",
	"Customer Type",
	"First Registered",
	"Last Visit",
	"Visits In Range",
	"Lifetime Visits",
	"Pre-GST Total",
	"CGST",
	"SGST",
	"Total With GST",
	"Advance Paid",
	"Pending Amount",
	"Payment Methods",
	"Register Numbers",
	"Booking IDs",
	"Rooms",
}

const ledgerDateLayout = "02-01-2006"

// LedgerRange is inclusive on both ends.
type LedgerRange struct {
	From time.Time
	To   time.Time
}

// CurrentMonth is the default export range.
func CurrentMonth(t time.Time) LedgerRange {
	n := now.With(t)
	return LedgerRange{From: n.BeginningOfMonth(), To: n.EndOfMonth()}
}

func (r LedgerRange) contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

type ledgerRow struct {
	customer  models.Customer
	visits    int
	taxable   decimal.Decimal
	tax       decimal.Decimal
	total     decimal.Decimal
	advance   decimal.Decimal
	pending   decimal.Decimal
	payments  []string
	registers []string
	bookings  []string
	rooms     []string
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(ledgerDateLayout)
}

// BuildLedger aggregates the allocations that checked in within r, one row per customer.
// Customers without a stay in range are left out.
func BuildLedger(customers []models.Customer, allocations []models.Allocation, r LedgerRange) [][]string {
	byID := make(map[uint]*ledgerRow, len(customers))
	for _, c := range customers {
		byID[c.ID] = &ledgerRow{customer: c}
	}

	for _, a := range allocations {
		if !r.contains(a.CheckIn) {
			continue
		}
		row, ok := byID[a.CustomerID]
		if !ok {
			continue
		}
		price := CalculatePrice(PriceInput{
			BasePrice:     a.BasePrice,
			GSTRate:       a.GSTRate,
			StayDuration:  a.StayDuration,
			AdvanceAmount: a.AdvanceAmount,
		})
		row.visits++
		row.taxable = row.taxable.Add(price.TaxableValue)
		row.tax = row.tax.Add(price.TotalTax)
		row.total = row.total.Add(price.TotalPrice)
		row.advance = row.advance.Add(price.AdvanceAmount)
		row.pending = row.pending.Add(price.RemainingAmount)
		row.payments = appendUnique(row.payments, string(a.PaymentType))
		row.registers = appendUnique(row.registers, a.RegistrationNumber)
		row.bookings = appendUnique(row.bookings, fmt.Sprint(a.ID))
		if a.Room != nil {
			row.rooms = appendUnique(row.rooms, a.Room.RoomNumber)
		}
	}

	rows := make([]*ledgerRow, 0, len(byID))
	for _, row := range byID {
		if row.visits > 0 {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := strings.ToLower(rows[i].customer.Name), strings.ToLower(rows[j].customer.Name)
		if a != b {
			return a < b
		}
		return rows[i].customer.ID < rows[j].customer.ID
	})

	two := decimal.NewFromInt(2)
	out := make([][]string, 0, len(rows)+1)
	out = append(out, LedgerHeader)
	for i, row := range rows {
		c := row.customer
		idType, idNumber := models.SplitIDProof(c.IDProof)
		half := row.tax.Div(two)
		out = append(out, []string{
			fmt.Sprint(i + 1),
			c.Name,
			c.Phone,
			c.Address,
			idType,
			idNumber,
			string(c.CustomerType),
			formatOptionalDate(&c.CreatedAt),
			formatOptionalDate(c.LastVisit),
			fmt.Sprint(row.visits),
			fmt.Sprint(c.VisitHistory),
			utils.Money(row.taxable),
			utils.Money(half),
			utils.Money(half),
			utils.Money(row.total),
			utils.Money(row.advance),
			utils.Money(row.pending),
			strings.Join(row.payments, ", "),
			strings.Join(row.registers, ", "),
			strings.Join(row.bookings, ", "),
			strings.Join(row.rooms, ", "),
		})
	}
	return out
}

type LedgerService struct {
	Store store.Store
	Now   func() time.Time
}

func NewLedgerService(st store.Store) *LedgerService {
	return &LedgerService{Store: st, Now: time.Now}
}

// DefaultRange is the month containing the current time.
func (s *LedgerService) DefaultRange() LedgerRange {
	return CurrentMonth(s.Now())
}

// ExportCSV writes the customer ledger for r to w.
func (s *LedgerService) ExportCSV(ctx context.Context, w io.Writer, r LedgerRange) error {
	if r.To.Before(r.From) {
		return invalid("to", "End date is before start date")
	}
	customers, err := s.Store.ListCustomers(ctx)
	if err != nil {
		return persistErr("list customers", err)
	}
	allocations, err := s.Store.ListAllocations(ctx)
	if err != nil {
		return persistErr("list allocations", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(BuildLedger(customers, allocations, r)); err != nil {
		return fmt.Errorf("write ledger csv: %w", err)
	}
	return nil
}
