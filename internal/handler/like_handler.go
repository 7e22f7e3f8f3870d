package handler

import (
	"net/http"

	"eventease/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LikeHandler struct {
	service service.LikeService
}

func NewLikeHandler(service service.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

func (h *LikeHandler) RegisterRoutes(r *gin.Engine, authn RouteAuth) {
	router := r.Group("/api/v1/events/:id")
	{
		router.GET("like", authn.Optional, h.Status)
		router.POST("like", authn.Required, h.Toggle)
	}
}

// Toggle 寫入失敗時回傳錯誤並附上回滾後的狀態，前端直接以此還原畫面
func (h *LikeHandler) Toggle(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}

	state, err := h.service.Toggle(c.Request.Context(), eventID, userID)
	if err != nil {
		status, body := errorResponse(err, "ToggleLike")
		if body == nil {
			c.Status(status)
			return
		}
		if state.EventID != uuid.Nil {
			body["state"] = state
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *LikeHandler) Status(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}

	userID := uuid.Nil
	if id := OptionalUserID(c); id != nil {
		userID = *id
	}

	state, err := h.service.Status(c.Request.Context(), eventID, userID)
	if err != nil {
		handleError(c, err, "LikeStatus")
		return
	}
	c.JSON(http.StatusOK, state)
}
