package handler

import (
	"net/http"

	"eventease/internal/model"
	"eventease/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) RegisterRoutes(r *gin.Engine, authn RouteAuth) {
	router := r.Group("/api/v1/events/:id/comments")
	{
		router.GET("", h.List)
		router.POST("", authn.Required, h.Add)
		router.DELETE(":commentID", authn.Required, h.Delete)
	}
}

func (h *CommentHandler) List(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	comments, err := h.service.List(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err, "ListComments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) Add(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	comment, err := h.service.Add(c.Request.Context(), eventID, userID, req.Content)
	if err != nil {
		handleError(c, err, "AddComment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "id", "event")
	if !ok {
		return
	}
	commentID, ok := ParseUUIDParam(c, "commentID", "comment")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), eventID, commentID, userID); err != nil {
		handleError(c, err, "DeleteComment")
		return
	}
	c.Status(http.StatusNoContent)
}
