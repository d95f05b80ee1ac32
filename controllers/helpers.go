package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

// ---------------------------
// Helper: :id param
// ---------------------------
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// ---------------------------
// Helper: confirmation gate
// The client confirms with ?confirm=true or {"confirm": true}.
// ---------------------------
type confirmPayload struct {
	Confirm bool `json:"confirm"`
}

func confirmFrom(c *gin.Context) services.Confirmer {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	if !ok && c.Request.ContentLength > 0 {
		var p confirmPayload
		if err := c.ShouldBindJSON(&p); err == nil {
			ok = p.Confirm
		}
	}
	if ok {
		return services.Confirmed
	}
	return services.Declined
}

// ---------------------------
// Helper: service error -> HTTP
// ---------------------------
func respondError(c *gin.Context, err error) {
	var ve *services.ValidationError
	var ce *services.ConflictError
	var pe *services.PersistenceError

	switch {
	case errors.As(err, &ve):
		utils.JSONFieldError(c, http.StatusBadRequest, ve.Field, ve.Message)
	case errors.Is(err, services.ErrNotConfirmed):
		utils.JSONError(c, http.StatusPreconditionRequired, "Confirmation required")
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found")
	case errors.As(err, &ce):
		utils.JSONError(c, http.StatusConflict, ce.Message)
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrTokenRevoked):
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "You do not have permission for this action")
	case errors.As(err, &pe):
		_ = c.Error(err)
		utils.JSONError(c, http.StatusInternalServerError, "Could not save changes, please try again")
	default:
		_ = c.Error(err)
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func badPayload(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Invalid request payload",
		"details": err.Error(),
	})
}
