package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/middleware"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

type signInPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /api/auth/signup
// Open while no account exists; afterwards the caller's token must carry settings.edit.
func (ac *AuthController) SignUp(c *gin.Context) {
	var in services.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	acct, err := ac.Auth.SignUp(c.Request.Context(), in, middleware.CurrentClaims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, acct)
}

// POST /api/auth/signin
func (ac *AuthController) SignIn(c *gin.Context) {
	var p signInPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	token, claims, err := ac.Auth.SignIn(c.Request.Context(), p.Username, p.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token":       token,
		"expiresAt":   claims.ExpiresAt.Time,
		"role":        claims.Role,
		"permissions": claims.Permissions,
	})
}

// POST /api/auth/signout
func (ac *AuthController) SignOut(c *gin.Context) {
	if err := ac.Auth.SignOut(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"signedOut": true})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authorization required")
		return
	}
	acct, err := ac.Auth.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, acct)
}
