package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/middleware"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

type AllocationController struct {
	Allocations *services.AllocationService
	Render      *services.InvoiceRenderService
	Guard       *services.SubmissionGuard
}

func NewAllocationController(allocations *services.AllocationService, render *services.InvoiceRenderService, guard *services.SubmissionGuard) *AllocationController {
	return &AllocationController{Allocations: allocations, Render: render, Guard: guard}
}

// submissionKey identifies the staff session; the token id is unique per sign-in.
func submissionKey(c *gin.Context) string {
	if claims := middleware.CurrentClaims(c); claims != nil {
		if claims.ID != "" {
			return claims.ID
		}
		return claims.Username
	}
	return c.ClientIP()
}

// acquire rejects a second booking submission while one is still running for this session.
func (ac *AllocationController) acquire(c *gin.Context) (func(), bool) {
	release, ok := ac.Guard.Acquire(submissionKey(c))
	if !ok {
		utils.JSONError(c, http.StatusConflict, "A booking submission is already in progress")
		return nil, false
	}
	return release, true
}

// GET /api/allocations?active=true
func (ac *AllocationController) List(c *gin.Context) {
	active, _ := strconv.ParseBool(c.Query("active"))
	list := ac.Allocations.List
	if active {
		list = ac.Allocations.ListActive
	}
	out, err := list(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /api/allocations/:id
func (ac *AllocationController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := ac.Allocations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, a)
}

// POST /api/allocations
func (ac *AllocationController) Create(c *gin.Context) {
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	release, ok := ac.acquire(c)
	if !ok {
		return
	}
	defer release()

	created, err := ac.Allocations.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// PUT /api/allocations/:id
func (ac *AllocationController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	release, ok := ac.acquire(c)
	if !ok {
		return
	}
	defer release()

	updated, err := ac.Allocations.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// POST /api/allocations/:id/checkout
func (ac *AllocationController) CheckOut(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	done, err := ac.Allocations.CheckOut(c.Request.Context(), id, confirmFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, done)
}

// DELETE /api/allocations/:id?confirm=true
func (ac *AllocationController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ac.Allocations.Delete(c.Request.Context(), id, confirmFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GET /api/allocations/:id/invoice
func (ac *AllocationController) Invoice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	html, err := ac.Render.Render(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
