package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

// FrontDeskController holds the read-mostly desk screens: dashboard, price preview and
// checkout alerts.
type FrontDeskController struct {
	Dashboard *services.DashboardService
	Alerts    *services.AlertCenter
	Scheduler *services.AutoCheckoutService
}

func NewFrontDeskController(dashboard *services.DashboardService, alerts *services.AlertCenter, scheduler *services.AutoCheckoutService) *FrontDeskController {
	return &FrontDeskController{Dashboard: dashboard, Alerts: alerts, Scheduler: scheduler}
}

// GET /api/dashboard
func (fc *FrontDeskController) Summary(c *gin.Context) {
	sum, err := fc.Dashboard.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sum)
}

// POST /api/pricing/preview
func (fc *FrontDeskController) PreviewPrice(c *gin.Context) {
	form := map[string]interface{}{}
	// a malformed body previews as all zeros
	_ = c.ShouldBindJSON(&form)
	utils.JSONSuccess(c, http.StatusOK, services.PreviewPrice(form))
}

// GET /api/alerts
func (fc *FrontDeskController) ListAlerts(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, fc.Alerts.Active())
}

// POST /api/alerts/:id/dismiss
func (fc *FrontDeskController) DismissAlert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fc.Alerts.Dismiss(id)
	utils.JSONSuccess(c, http.StatusOK, fc.Alerts.Active())
}

// POST /api/scheduler/run
func (fc *FrontDeskController) RunScheduler(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, fc.Scheduler.RunOnce(c.Request.Context()))
}
