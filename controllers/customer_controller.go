package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

const exportDateLayout = "2006-01-02"

type CustomerController struct {
	Customers *services.CustomerService
	Ledger    *services.LedgerService
}

func NewCustomerController(customers *services.CustomerService, ledger *services.LedgerService) *CustomerController {
	return &CustomerController{Customers: customers, Ledger: ledger}
}

func (cc *CustomerController) List(c *gin.Context) {
	out, err := cc.Customers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (cc *CustomerController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := cc.Customers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

// GET /api/customers/match?phone=...
// data is null when the number does not belong to a returning guest.
func (cc *CustomerController) Match(c *gin.Context) {
	prefill, err := cc.Customers.Match(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, prefill)
}

func (cc *CustomerController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in services.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	customer, err := cc.Customers.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

func (cc *CustomerController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := cc.Customers.Delete(c.Request.Context(), id, confirmFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// parseRange reads from/to as YYYY-MM-DD in the server's zone; either may be omitted.
func (cc *CustomerController) parseRange(c *gin.Context) (services.LedgerRange, bool) {
	r := cc.Ledger.DefaultRange()
	if from := c.Query("from"); from != "" {
		t, err := time.ParseInLocation(exportDateLayout, from, time.Local)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return r, false
		}
		r.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.ParseInLocation(exportDateLayout, to, time.Local)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return r, false
		}
		r.To = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return r, true
}

// GET /api/customers/export.csv?from=2024-03-01&to=2024-03-31
func (cc *CustomerController) Export(c *gin.Context) {
	r, ok := cc.parseRange(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := cc.Ledger.ExportCSV(c.Request.Context(), &buf, r); err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("customers_%s_%s.csv", r.From.Format(exportDateLayout), r.To.Format(exportDateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
