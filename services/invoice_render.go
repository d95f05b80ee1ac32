package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"hotel-frontdesk/models"
	"hotel-frontdesk/storage"
	"hotel-frontdesk/store"
	"hotel-frontdesk/utils"
)

//go:embed templates/invoice.html
var templateFS embed.FS

var invoiceTemplate = template.Must(template.ParseFS(templateFS, "templates/invoice.html"))

type invoiceHotel struct {
	Name, Address, Phone, Email, GSTIN, PAN string
}

type invoiceCustomer struct {
	Name, Address, Company, GSTIN, PAN, Phone string
}

type invoiceLine struct {
	RoomNumber, GSTRate, Guests, Platform, RoomType, Rate, Taxable string
	Days                                                           int
}

type invoiceTotals struct {
	Subtotal, SGST, CGST, Total, Advance, Balance string
}

type invoiceHSN struct {
	Code, Taxable, HalfRate, CGST, SGST, TotalTax string
}

// InvoiceView is everything the printable invoice shows.
type InvoiceView struct {
	Hotel             invoiceHotel
	InvoiceNumber     string
	InvoiceDate       string
	Arrival           string
	Departure         string
	RegisterNumber    string
	ExternalBookingID string
	Customer          invoiceCustomer
	BookingStaff      string
	Line              invoiceLine
	AmountInWords     string
	Totals            invoiceTotals
	HSN               invoiceHSN
	Narration         string
}

// panFromGSTIN extracts the PAN embedded in characters 3-12 of a GSTIN.
func panFromGSTIN(gstin string) string {
	if len(gstin) != 15 {
		return ""
	}
	return gstin[2:12]
}

// BuildInvoiceView lays out one allocation's bill.
func BuildInvoiceView(a *models.Allocation, hotel *models.HotelSetting, invoiceNumber, defaultHSN string, issued time.Time) InvoiceView {
	price := CalculatePrice(PriceInput{
		BasePrice:     a.BasePrice,
		GSTRate:       a.GSTRate,
		StayDuration:  a.StayDuration,
		AdvanceAmount: a.AdvanceAmount,
	}).Display()

	v := InvoiceView{
		InvoiceNumber:     invoiceNumber,
		InvoiceDate:       issued.Format("02-01-2006"),
		Arrival:           utils.FormatInvoiceDate(a.CheckIn),
		Departure:         utils.FormatInvoiceDate(a.CheckOut),
		RegisterNumber:    a.RegistrationNumber,
		ExternalBookingID: a.ExternalBookingID,
		Narration:         a.Narration,
		AmountInWords:     utils.AmountInWords(price.TotalPrice),
		Line: invoiceLine{
			GSTRate:  a.GSTRate.String(),
			Guests:   fmt.Sprintf("%02d", a.NumberOfGuests),
			Days:     a.StayDuration,
			Platform: a.BookingPlatform,
			Rate:     utils.Money(a.BasePrice),
			Taxable:  utils.Money(price.TaxableValue),
		},
		Totals: invoiceTotals{
			Subtotal: utils.Money(price.TaxableValue),
			SGST:     utils.Money(price.SGST),
			CGST:     utils.Money(price.CGST),
			Total:    utils.Money(price.TotalPrice),
			Advance:  utils.Money(price.AdvanceAmount),
			Balance:  utils.Money(price.RemainingAmount),
		},
	}
	if a.ActualCheckOut != nil {
		v.Departure = utils.FormatInvoiceDate(*a.ActualCheckOut)
	}

	if hotel != nil {
		v.Hotel = invoiceHotel{
			Name: hotel.Name, Address: hotel.Address, Phone: hotel.Phone,
			Email: hotel.Email, GSTIN: hotel.GSTIN, PAN: hotel.PAN,
		}
		if defaultHSN == "" {
			defaultHSN = hotel.HSNSACCode
		}
	}
	if a.Room != nil {
		v.Line.RoomNumber = a.Room.RoomNumber
		v.Line.RoomType = string(a.Room.Type)
	}
	if a.Customer != nil {
		v.Customer = invoiceCustomer{
			Name:    a.Customer.Name,
			Address: a.Customer.Address,
			Company: a.Customer.CompanyName,
			GSTIN:   a.Customer.GSTIN,
			PAN:     panFromGSTIN(a.Customer.GSTIN),
			Phone:   a.Customer.Phone,
		}
	}
	if a.Employee != nil {
		v.BookingStaff = a.Employee.Name
	}

	code := a.HSNSACNumber
	if code == "" {
		code = defaultHSN
	}
	v.HSN = invoiceHSN{
		Code:     code,
		Taxable:  utils.Money(price.TaxableValue),
		HalfRate: a.GSTRate.Div(decimal.NewFromInt(2)).String(),
		CGST:     utils.Money(price.CGST),
		SGST:     utils.Money(price.SGST),
		TotalTax: utils.Money(price.TotalTax),
	}
	return v
}

func RenderInvoiceHTML(v InvoiceView) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

// InvoiceRenderService produces the printable invoice and archives a copy when an archive is configured.
type InvoiceRenderService struct {
	Store      store.Store
	Invoices   *InvoiceService
	Archive    storage.InvoiceArchive
	Logger     *logrus.Logger
	DefaultHSN string
}

func NewInvoiceRenderService(st store.Store, invoices *InvoiceService, archive storage.InvoiceArchive, logger *logrus.Logger, defaultHSN string) *InvoiceRenderService {
	if archive == nil {
		archive = storage.NopArchive{}
	}
	return &InvoiceRenderService{Store: st, Invoices: invoices, Archive: archive, Logger: logger, DefaultHSN: defaultHSN}
}

func (s *InvoiceRenderService) Render(ctx context.Context, allocationID uint) ([]byte, error) {
	a, err := s.Store.GetAllocation(ctx, allocationID)
	if err != nil {
		return nil, persistErr("get allocation", err)
	}
	hotel, err := s.Store.GetHotelSetting(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, persistErr("get hotel settings", err)
	}

	number := s.Invoices.GetOrCreateInvoiceNumber(ctx, a)
	html, err := RenderInvoiceHTML(BuildInvoiceView(a, hotel, number, s.DefaultHSN, s.Invoices.Now()))
	if err != nil {
		return nil, err
	}

	// placeholders leave InvoiceNumber nil and are not archived
	if a.InvoiceNumber != nil {
		if key, err := s.Archive.PutInvoice(ctx, number, html); err != nil {
			s.Logger.WithError(err).WithField("invoice_number", number).Warn("Invoice archive upload failed")
		} else if key != "" {
			s.Logger.WithField("key", key).Debug("Invoice archived")
		}
	}
	return html, nil
}
