package handler

import (
	"net/http"

	"eventease/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	service service.RegistrationService
}

func NewRegistrationHandler(service service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

func (h *RegistrationHandler) RegisterRoutes(r *gin.Engine, authn RouteAuth) {
	router := r.Group("/api/v1/events/:id")
	{
		router.GET("registration", authn.Required, h.Status)
		router.POST("registration", authn.Required, h.Register)
		router.DELETE("registration", authn.Required, h.Cancel)
		router.GET("attendees", h.Attendees)
	}
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	status, err := h.service.Register(c.Request.Context(), eventID, userID)
	if err != nil {
		handleError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, status)
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	status, err := h.service.Cancel(c.Request.Context(), eventID, userID)
	if err != nil {
		handleError(c, err, "CancelRegistration")
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *RegistrationHandler) Status(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	status, err := h.service.Status(c.Request.Context(), eventID, userID)
	if err != nil {
		handleError(c, err, "RegistrationStatus")
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *RegistrationHandler) Attendees(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	attendees, err := h.service.Attendees(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err, "Attendees")
		return
	}
	c.JSON(http.StatusOK, attendees)
}
