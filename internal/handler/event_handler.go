package handler

import (
	"io"
	"net/http"

	"eventease/internal/discover"
	"eventease/internal/model"
	"eventease/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine, authn RouteAuth) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/discover", authn.Optional, h.Discover)
		router.GET("events/featured", h.Featured)
		router.GET("events/upcoming", h.Upcoming)
		router.GET("events/:id", h.Get)
		router.POST("events/:id/view", authn.Optional, h.TrackView)
		router.POST("events", authn.Required, h.Create)
		router.PUT("events/:id", authn.Required, h.Update)
		router.DELETE("events/:id", authn.Required, h.Delete)

		router.GET("me/events", authn.Required, h.ListMine)
		router.GET("me/registrations", authn.Required, h.ListRegistered)
		router.GET("me/analytics", authn.Required, h.Analytics)
	}
}

// DiscoverQuery 篩選以外的分頁參數
type DiscoverQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Action    string `form:"action" binding:"omitempty,oneof=next prev"`
	FilterKey string `form:"filter_key"`
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		handleError(c, err, "ListPublic")
		return
	}
	c.JSON(http.StatusOK, events)
}

// Featured 首頁精選
func (h *EventHandler) Featured(c *gin.Context) {
	events, err := h.service.Featured(c.Request.Context())
	if err != nil {
		handleError(c, err, "Featured")
		return
	}
	c.JSON(http.StatusOK, events)
}

// Upcoming 首頁即將到來
func (h *EventHandler) Upcoming(c *gin.Context) {
	events, err := h.service.Upcoming(c.Request.Context())
	if err != nil {
		handleError(c, err, "Upcoming")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Discover(c *gin.Context) {
	var filter discover.Filter
	if err := BindQuery(c, &filter); err != nil {
		return
	}
	if !filter.SortBy.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort option"})
		return
	}
	if filter.IsOnline != "" && filter.IsOnline != "true" && filter.IsOnline != "false" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "online must be true or false"})
		return
	}

	var query DiscoverQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}

	result, err := h.service.Discover(c.Request.Context(), discover.Request{
		Filter:        filter,
		Page:          query.Page,
		Action:        query.Action,
		FilterKey:     query.FilterKey,
		Authenticated: OptionalUserID(c) != nil,
	})
	if err != nil {
		handleError(c, err, "Discover")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	event, err := h.service.Get(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err, "Get")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	input, image, closeImage, ok := h.bindEventInput(c)
	if !ok {
		return
	}
	defer closeImage()

	created, err := h.service.Create(c.Request.Context(), userID, input, image)
	if err != nil {
		handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}

	input, image, closeImage, ok := h.bindEventInput(c)
	if !ok {
		return
	}
	defer closeImage()

	updated, err := h.service.Update(c.Request.Context(), userID, eventID, input, image)
	if err != nil {
		handleError(c, err, "Update")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Delete(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, eventID); err != nil {
		handleError(c, err, "Delete")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) TrackView(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	count, err := h.service.TrackView(c.Request.Context(), eventID, OptionalUserID(c))
	if err != nil {
		handleError(c, err, "TrackView")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "view_count": count})
}

func (h *EventHandler) ListMine(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	events, err := h.service.ListOrganized(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "ListOrganized")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) ListRegistered(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	events, err := h.service.ListRegistered(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "ListRegistered")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Analytics(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	stats, err := h.service.Analytics(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "Analytics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// bindEventInput 支援 JSON 與含圖片的 multipart 表單；image 欄位可省略
func (h *EventHandler) bindEventInput(c *gin.Context) (model.EventInput, io.Reader, func(), bool) {
	var input model.EventInput
	noop := func() {}

	if !isMultipart(c) {
		if err := BindJson(c, &input); err != nil {
			return input, nil, noop, false
		}
		return input, nil, noop, true
	}

	if err := BindForm(c, &input); err != nil {
		return input, nil, noop, false
	}

	header, err := c.FormFile("image")
	if err != nil {
		// 沒有附檔
		return input, nil, noop, true
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image must be 10MB or smaller"})
		return input, nil, noop, false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image upload"})
		return input, nil, noop, false
	}
	return input, file, func() { _ = file.Close() }, true
}
