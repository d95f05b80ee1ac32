package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

type rolePermissionsPayload struct {
	Permissions []string `json:"permissions"`
}

type RoleController struct {
	Roles *services.RoleService
}

func NewRoleController(roles *services.RoleService) *RoleController {
	return &RoleController{Roles: roles}
}

// GET /api/roles
func (rc *RoleController) List(c *gin.Context) {
	roles, err := rc.Roles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, roles)
}

// PUT /api/roles/:id/permissions
// :id may also be the role name.
func (rc *RoleController) UpdatePermissions(c *gin.Context) {
	var p rolePermissionsPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	granted, err := rc.Roles.SetPermissions(c.Request.Context(), c.Param("id"), p.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"permissions": granted})
}
