package handler

import (
	"net/http"
	"strings"

	"eventease/internal/geocode"

	"github.com/gin-gonic/gin"
)

type GeocodeHandler struct {
	geocoder geocode.Geocoder
}

func NewGeocodeHandler(geocoder geocode.Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

func (h *GeocodeHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/v1/geocode", h.Geocode)
}

type GeocodeQuery struct {
	Address string `form:"address" binding:"required"`
}

func (h *GeocodeHandler) Geocode(c *gin.Context) {
	var query GeocodeQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	if strings.TrimSpace(query.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required"})
		return
	}

	location, err := h.geocoder.Geocode(c.Request.Context(), query.Address)
	if err != nil {
		handleError(c, err, "Geocode")
		return
	}
	c.JSON(http.StatusOK, location)
}
