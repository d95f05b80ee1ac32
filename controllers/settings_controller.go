package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

type addSourcePayload struct {
	Name string `json:"name"`
}

// SettingsController serves the hotel invoice header and the shared booking source list.
type SettingsController struct {
	Settings *services.SettingsService
	Sources  *services.BookingSourceService
}

func NewSettingsController(settings *services.SettingsService, sources *services.BookingSourceService) *SettingsController {
	return &SettingsController{Settings: settings, Sources: sources}
}

// GET /api/settings/hotel
func (sc *SettingsController) GetHotel(c *gin.Context) {
	h, err := sc.Settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, h)
}

// PUT /api/settings/hotel
func (sc *SettingsController) SaveHotel(c *gin.Context) {
	var in models.HotelSetting
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	in.ID = 0
	h, err := sc.Settings.Save(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, h)
}

// GET /api/booking-sources
func (sc *SettingsController) ListSources(c *gin.Context) {
	sources, err := sc.Sources.Sources(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sources)
}

// POST /api/booking-sources
func (sc *SettingsController) AddSource(c *gin.Context) {
	var p addSourcePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	sources, err := sc.Sources.AddSource(c.Request.Context(), p.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, sources)
}
