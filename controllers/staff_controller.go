package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/middleware"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

// StaffController manages the staff logins; creating one goes through AuthController.SignUp.
type StaffController struct {
	Auth *services.AuthService
}

func NewStaffController(auth *services.AuthService) *StaffController {
	return &StaffController{Auth: auth}
}

// GET /api/staff
func (sc *StaffController) List(c *gin.Context) {
	accounts, err := sc.Auth.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, accounts)
}

// DELETE /api/staff/:id?confirm=true
func (sc *StaffController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := sc.Auth.DeleteAccount(c.Request.Context(), id, middleware.CurrentClaims(c), confirmFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
